package anniversary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
)

// Rechecker runs a resolution pass every interval while the collection is
// non-empty. It is armed and disarmed by Sync, and torn down by Stop.
type Rechecker struct {
	svc      *Service
	interval time.Duration
	cron     *cron.Cron

	// OnPass, when set, receives the collection after every periodic pass.
	OnPass func(PassResult)

	mu      sync.Mutex
	ctx     context.Context
	entry   cron.EntryID
	armed   bool
	stopped bool
}

// NewRechecker returns a disarmed rechecker. Intervals are rounded down to
// whole seconds with a minimum of one second.
func NewRechecker(svc *Service, interval time.Duration) *Rechecker {
	if interval <= 0 {
		interval = config.DefaultRecheckInterval
	}
	return &Rechecker{
		svc:      svc,
		interval: interval,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:      context.Background(),
	}
}

// Start launches the scheduler; passes use ctx.
func (r *Rechecker) Start(ctx context.Context) {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()
	r.cron.Start()
}

// Sync arms the periodic task when records is non-empty and disarms it
// otherwise. It matches the Service.Subscribe signature.
func (r *Rechecker) Sync(records []engine.Anniversary) {
	if len(records) > 0 {
		if err := r.arm(); err != nil {
			slog.Error(config.ErrSchedulerStart,
				config.LogKeyComponent, config.CompRecheck,
				config.LogKeyError, err)
		}
		return
	}
	r.disarm()
}

func (r *Rechecker) arm() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.armed || r.stopped {
		return nil
	}
	id := r.cron.Schedule(cron.Every(r.interval), cron.FuncJob(r.run))
	if id == 0 {
		return fmt.Errorf("%s", config.ErrSchedulerStart)
	}
	r.entry = id
	r.armed = true

	slog.Info(config.MsgRecheckArmed,
		config.LogKeyComponent, config.CompRecheck,
		config.LogKeyInterval, r.interval.String())
	return nil
}

func (r *Rechecker) disarm() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.armed {
		return
	}
	r.cron.Remove(r.entry)
	r.armed = false

	slog.Info(config.MsgRecheckDisarmed, config.LogKeyComponent, config.CompRecheck)
}

// Armed reports whether the periodic task is scheduled.
func (r *Rechecker) Armed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.armed
}

func (r *Rechecker) run() {
	r.mu.Lock()
	ctx, stopped := r.ctx, r.stopped
	r.mu.Unlock()
	if stopped || ctx.Err() != nil {
		return
	}

	res, err := r.svc.Resolve(ctx)
	if err != nil {
		slog.Warn(config.MsgRecheckFailed,
			config.LogKeyComponent, config.CompRecheck,
			config.LogKeyError, err)
		return
	}
	if r.OnPass != nil {
		r.OnPass(res)
	}
}

// Stop disarms the task and waits for a pass in progress to complete.
// No pass starts after Stop returns.
func (r *Rechecker) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	r.disarm()
	<-r.cron.Stop().Done()
}
