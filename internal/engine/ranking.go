package engine

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/tartampluch/go-anniversary/internal/config"
)

// UnknownOffset is the day offset given to records whose date cannot be
// parsed. It sorts after every real offset.
const UnknownOffset = math.MinInt32

// Source records which path produced an effective date.
type Source int

const (
	// SourceSolar is a solar record read as stored.
	SourceSolar Source = iota
	// SourceConverted is a lunar record converted by a Converter.
	SourceConverted
	// SourceFallback is a lunar record whose conversion failed; the raw
	// numbers were read as a solar month/day.
	SourceFallback
	// SourceUnknown is a record whose stored date could not be parsed.
	SourceUnknown
)

func (s Source) String() string {
	switch s {
	case SourceSolar:
		return "solar"
	case SourceConverted:
		return "converted"
	case SourceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Effective is the solar month/day used for offset arithmetic.
type Effective struct {
	Month     int
	Day       int
	Source    Source
	Precision Precision
}

// Known reports whether the effective date carries usable numbers.
func (e Effective) Known() bool {
	return e.Source != SourceUnknown
}

// EffectiveDate resolves the solar month/day of a record. Lunar records go
// through conv; only the month and day of the converted date are kept, so
// the mapping does not depend on the current year.
func EffectiveDate(rec Anniversary, conv Converter) Effective {
	y, m, d, err := rec.Parts()
	if err != nil {
		return Effective{Source: SourceUnknown}
	}

	if !rec.IsLunar() {
		return Effective{Month: m, Day: d, Source: SourceSolar, Precision: PrecisionExact}
	}

	solar, precision, err := conv.LunarToSolar(y, m, d)
	if err != nil {
		slog.Debug(config.MsgConvFallback,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyID, rec.ID,
			config.LogKeyDate, rec.Date,
			config.LogKeyError, err)
		return Effective{Month: m, Day: d, Source: SourceFallback, Precision: PrecisionApproximate}
	}
	return Effective{Month: int(solar.Month()), Day: solar.Day(), Source: SourceConverted, Precision: precision}
}

// DayOffset returns the whole calendar days from today to the given
// month/day in today's year. Positive is future, zero is today, negative is past.
func DayOffset(today time.Time, month, day int) int {
	start := Midnight(today)
	target := DateAt(start.Year(), month, day, start.Location())
	return daysBetween(start, target)
}

// daysBetween counts calendar days, ignoring DST shifts of the location.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

// OffsetOf is the day offset of a record, or UnknownOffset.
func OffsetOf(today time.Time, rec Anniversary, conv Converter) (int, Effective) {
	eff := EffectiveDate(rec, conv)
	if !eff.Known() {
		return UnknownOffset, eff
	}
	return DayOffset(today, eff.Month, eff.Day), eff
}

// Compare orders two day offsets for display:
// today first, then upcoming (soonest first), then past (most recent first).
//
// The branches are evaluated in this exact order, so Compare(0, 0) is -1
// from either side. It is not commutative for two "today" offsets.
func Compare(da, db int) int {
	switch {
	case da == 0:
		return -1
	case db == 0:
		return 1
	case da > 0 && db > 0:
		return sign(da - db)
	case da > 0 && db <= 0:
		return -1
	case da <= 0 && db > 0:
		return 1
	default:
		return sign(db - da)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Ranked is an anniversary with its computed offset.
type Ranked struct {
	Anniversary
	Offset    int
	Effective Effective
}

// Rank computes each offset once and stable-sorts the records with Compare.
// Records with equal offsets, including several falling today, keep their
// input order.
func Rank(today time.Time, records []Anniversary, conv Converter) []Ranked {
	ranked := make([]Ranked, len(records))
	for i, rec := range records {
		off, eff := OffsetOf(today, rec, conv)
		ranked[i] = Ranked{Anniversary: rec, Offset: off, Effective: eff}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Offset, ranked[j].Offset
		if a == 0 && b == 0 {
			return false
		}
		return Compare(a, b) < 0
	})
	return ranked
}

// RankAnniversaries returns the records in display order.
func RankAnniversaries(today time.Time, records []Anniversary, conv Converter) []Anniversary {
	ranked := Rank(today, records, conv)
	out := make([]Anniversary, len(ranked))
	for i, r := range ranked {
		out[i] = r.Anniversary
	}
	return out
}

// Category is the semantic bucket of an offset.
type Category string

const (
	CategoryFuture  Category = "future"
	CategoryToday   Category = "today"
	CategoryPast    Category = "past"
	CategoryUnknown Category = "unknown"
)

// OffsetDescription is what a presentation layer needs to word an offset.
type OffsetDescription struct {
	Days     int
	Category Category
}

// Abs returns the number of days regardless of direction.
func (o OffsetDescription) Abs() int {
	if o.Days < 0 {
		return -o.Days
	}
	return o.Days
}

// Describe categorizes a raw day offset.
func Describe(offset int) OffsetDescription {
	switch {
	case offset == UnknownOffset:
		return OffsetDescription{Days: 0, Category: CategoryUnknown}
	case offset > 0:
		return OffsetDescription{Days: offset, Category: CategoryFuture}
	case offset == 0:
		return OffsetDescription{Days: 0, Category: CategoryToday}
	default:
		return OffsetDescription{Days: offset, Category: CategoryPast}
	}
}

// DescribeOffset computes and categorizes the offset of one record.
func DescribeOffset(today time.Time, rec Anniversary, conv Converter) OffsetDescription {
	off, _ := OffsetOf(today, rec, conv)
	return Describe(off)
}

// LunarDayMatches tells whether the solar day falls on the record's
// month/day. For lunar records the table is asked; when it fails, the raw
// numbers are compared as a solar month/day and SourceFallback is returned.
func LunarDayMatches(table LunarTable, day time.Time, rec Anniversary) (bool, Source) {
	_, m, d, err := rec.Parts()
	if err != nil {
		return false, SourceUnknown
	}

	y, sm, sd := day.Date()
	if !rec.IsLunar() {
		return int(sm) == m && sd == d, SourceSolar
	}

	lm, ld, err := table.SolarToLunarMonthDay(y, int(sm), sd)
	if err != nil {
		slog.Debug(config.MsgTableFallback,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyID, rec.ID,
			config.LogKeyError, err)
		return int(sm) == m && sd == d, SourceFallback
	}
	return lm == m && ld == d, SourceConverted
}
