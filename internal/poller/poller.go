// Package poller runs archive maintenance on a fixed interval.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/lineup-service/internal/logging"
)

const defaultInterval = time.Hour

// Sweeper prunes expired archive data and reports how many items it removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Poller sweeps the lineup archive on an interval.
type Poller struct {
	sweeper  Sweeper
	logger   *slog.Logger
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the sweep loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	Removed             int
}

// IsHealthy reports whether the loop has succeeded recently and is not failing repeatedly.
func (s Status) IsHealthy() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller. A non-positive interval uses the hourly default.
func New(sweeper Sweeper, logger *slog.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		sweeper:  sweeper,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start sweeps once immediately, then on every tick until the context is
// cancelled or Stop is called. Repeated calls are no-ops.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.ticker = time.NewTicker(p.interval)
	p.startMu.Unlock()

	go func() {
		logging.Info(p.logger, "archive sweeper started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		p.sweepOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "archive sweeper stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "archive sweeper stopped")
				return
			case <-p.ticker.C:
				p.sweepOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop. It is safe to call more than once.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

func (p *Poller) sweepOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)
	removed, err := p.sweeper.Sweep(ctx)
	if err != nil {
		logging.Error(p.logger, "archive sweep failed", err, logging.FieldDurationMS, time.Since(start).Milliseconds())
		p.recordFailure(err, start)
		return
	}
	p.recordSuccess(start, removed)
	logging.Debug(p.logger, "archive swept",
		logging.FieldCount, removed,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

func (p *Poller) stopTicker() {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, removed int) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.Removed += removed
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the loop's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
