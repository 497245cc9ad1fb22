package anniversary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New(config.ErrRecordNotFound)

// PassResult describes one resolution pass.
type PassResult struct {
	Records  []engine.Anniversary
	Advanced []engine.Anniversary
	Changed  bool
}

// Draft carries the user-editable fields of a record.
type Draft struct {
	Name         string
	Date         string
	CalendarType engine.CalendarType
	Icon         string
	Repeats      bool
}

// Service serializes every read-modify-write of the collection, so two
// resolution passes or edits never interleave.
type Service struct {
	mu    sync.Mutex
	repo  *Repository
	clock engine.Clock
	conv  engine.Converter

	// NewID assigns IDs to created records.
	NewID func() string

	subsMu sync.RWMutex
	subs   []func([]engine.Anniversary)
}

// NewService wires a service. A nil converter uses the anchored model.
func NewService(repo *Repository, clock engine.Clock, conv engine.Converter) *Service {
	if conv == nil {
		conv = engine.NewAnchoredConverter()
	}
	return &Service{
		repo:  repo,
		clock: clock,
		conv:  conv,
		NewID: uuid.NewString,
	}
}

// Converter returns the lunar converter used for ranking.
func (s *Service) Converter() engine.Converter {
	return s.conv
}

// Subscribe registers fn to receive the collection after every load or save.
func (s *Service) Subscribe(fn func([]engine.Anniversary)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Service) notify(records []engine.Anniversary) {
	s.subsMu.RLock()
	subs := append(([]func([]engine.Anniversary))(nil), s.subs...)
	s.subsMu.RUnlock()

	for _, fn := range subs {
		fn(records)
	}
}

// Resolve runs one resolution pass: load, advance lapsed repeating records by
// one year, and save only when something moved.
func (s *Service) Resolve(ctx context.Context) (PassResult, error) {
	s.mu.Lock()
	res, err := s.resolveLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return PassResult{}, err
	}
	s.notify(res.Records)
	return res, nil
}

func (s *Service) resolveLocked(ctx context.Context) (PassResult, error) {
	log := slog.With(config.LogKeyComponent, config.CompService)

	before, err := s.repo.Load(ctx)
	if err != nil {
		return PassResult{}, err
	}
	if len(before) == 0 {
		log.Debug(config.MsgStoreEmpty)
		return PassResult{}, nil
	}

	log.Debug(config.MsgPassStarted, config.LogKeyTotal, len(before))
	after, changed := engine.ResolveRecurrences(s.clock.Now(), before)
	if !changed {
		log.Debug(config.MsgPassNoop, config.LogKeyTotal, len(after))
		return PassResult{Records: after}, nil
	}

	previous := make(map[string]string, len(before))
	for _, rec := range before {
		previous[rec.ID] = rec.Date
	}
	advanced := engine.Advanced(before, after)
	for _, rec := range advanced {
		log.Info(config.MsgPassAdvanced,
			config.LogKeyID, rec.ID,
			config.LogKeyName, rec.Name,
			config.LogKeyOld, previous[rec.ID],
			config.LogKeyNew, rec.Date)
	}

	if err := s.repo.Save(ctx, after); err != nil {
		return PassResult{}, err
	}
	log.Info(config.MsgPassSaved,
		config.LogKeyTotal, len(after),
		config.LogKeyAdvanced, len(advanced))

	return PassResult{Records: after, Advanced: advanced, Changed: true}, nil
}

// List runs a resolution pass and returns the collection in display order.
func (s *Service) List(ctx context.Context) ([]engine.Ranked, error) {
	res, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Rank(s.clock.Now(), res.Records, s.conv), nil
}

// Get returns the record with the given ID.
func (s *Service) Get(ctx context.Context, id string) (engine.Anniversary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
	if err != nil {
		return engine.Anniversary{}, err
	}
	if i := indexOf(records, id); i >= 0 {
		return records[i], nil
	}
	return engine.Anniversary{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add validates the draft and appends a new record.
func (s *Service) Add(ctx context.Context, d Draft) (engine.Anniversary, error) {
	rec := d.record()
	rec.ID = s.NewID()
	if err := rec.Validate(s.clock.Now()); err != nil {
		return engine.Anniversary{}, err
	}

	err := s.mutate(ctx, func(records []engine.Anniversary) ([]engine.Anniversary, error) {
		return append(records, rec), nil
	})
	if err != nil {
		return engine.Anniversary{}, err
	}

	slog.Info(config.MsgRecordAdded,
		config.LogKeyComponent, config.CompService,
		config.LogKeyID, rec.ID,
		config.LogKeyDate, rec.Date)
	return rec, nil
}

// Edit replaces every field of the record but its ID.
func (s *Service) Edit(ctx context.Context, id string, d Draft) (engine.Anniversary, error) {
	rec := d.record()
	rec.ID = id
	if err := rec.Validate(s.clock.Now()); err != nil {
		return engine.Anniversary{}, err
	}

	err := s.mutate(ctx, func(records []engine.Anniversary) ([]engine.Anniversary, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		records[i] = rec
		return records, nil
	})
	if err != nil {
		return engine.Anniversary{}, err
	}

	slog.Info(config.MsgRecordUpdated,
		config.LogKeyComponent, config.CompService,
		config.LogKeyID, rec.ID,
		config.LogKeyDate, rec.Date)
	return rec, nil
}

// Delete removes the record with the given ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.mutate(ctx, func(records []engine.Anniversary) ([]engine.Anniversary, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return append(records[:i], records[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	slog.Info(config.MsgRecordDeleted,
		config.LogKeyComponent, config.CompService,
		config.LogKeyID, id)
	return nil
}

// Import appends records not already present. A record is already present
// when its ID matches, or when a stored record has the same name and date.
// Invalid records are skipped.
func (s *Service) Import(ctx context.Context, incoming []engine.Anniversary) (added int, err error) {
	now := s.clock.Now()
	err = s.mutate(ctx, func(records []engine.Anniversary) ([]engine.Anniversary, error) {
		seenID := make(map[string]bool, len(records))
		seenKey := make(map[string]bool, len(records))
		for _, r := range records {
			seenID[r.ID] = true
			seenKey[dedupeKey(r)] = true
		}

		for _, rec := range incoming {
			if rec.ID == "" {
				rec.ID = s.NewID()
			}
			if seenID[rec.ID] || seenKey[dedupeKey(rec)] || rec.Validate(now) != nil {
				continue
			}
			seenID[rec.ID] = true
			seenKey[dedupeKey(rec)] = true
			records = append(records, rec)
			added++
		}
		return records, nil
	})
	return added, err
}

// Replace overwrites the whole collection.
func (s *Service) Replace(ctx context.Context, records []engine.Anniversary) error {
	return s.mutate(ctx, func([]engine.Anniversary) ([]engine.Anniversary, error) {
		return records, nil
	})
}

// mutate loads, applies fn and saves under the service lock.
func (s *Service) mutate(ctx context.Context, fn func([]engine.Anniversary) ([]engine.Anniversary, error)) error {
	s.mu.Lock()
	records, err := s.repo.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	records, err = fn(records)
	if err == nil {
		err = s.repo.Save(ctx, records)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(records)
	return nil
}

func (d Draft) record() engine.Anniversary {
	rec := engine.Anniversary{
		Name:         strings.TrimSpace(d.Name),
		Date:         strings.TrimSpace(d.Date),
		CalendarType: d.CalendarType,
		Icon:         d.Icon,
		Repeats:      d.Repeats,
	}
	if rec.CalendarType == "" {
		rec.CalendarType = engine.CalendarSolar
	}
	if rec.Icon == "" {
		rec.Icon = config.DefaultIcon
	}
	// Re-pad dates typed as 2025-3-1.
	if y, m, dd, err := engine.ParseDate(rec.Date); err == nil {
		rec.Date = engine.FormatDate(y, m, dd)
	}
	return rec
}

func indexOf(records []engine.Anniversary, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func dedupeKey(r engine.Anniversary) string {
	return strings.ToLower(strings.TrimSpace(r.Name)) + "|" + r.Date + "|" + string(r.CalendarType)
}
