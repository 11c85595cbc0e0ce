package enrich

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/phuslu/log"

	"stock-movers/logging"
	"stock-movers/models"
)

// Runner keeps a board current: it runs one pipeline generation at a time,
// restarts when the period changes and, when a refresh interval is set,
// re-runs the current period after each completed generation.
type Runner struct {
	pipeline *Pipeline
	publish  func(models.Snapshot)
	refresh  time.Duration
	periods  chan models.Period
	gen      atomic.Uint64
	logger   *log.Logger
}

// NewRunner publishes every snapshot through publish, stamped with its
// generation. A zero refresh disables live refresh.
func NewRunner(p *Pipeline, publish func(models.Snapshot), refresh time.Duration, logger *log.Logger) *Runner {
	return &Runner{
		pipeline: p,
		publish:  publish,
		refresh:  refresh,
		periods:  make(chan models.Period, 1),
		logger:   logging.OrDiscard(logger),
	}
}

// SetPeriod cancels the running generation and starts a new one for period.
// Only the latest pending request is kept.
func (r *Runner) SetPeriod(period models.Period) {
	for {
		select {
		case r.periods <- period:
			return
		default:
		}
		select {
		case <-r.periods:
		default:
		}
	}
}

// Generation is the number of the most recently started run.
func (r *Runner) Generation() uint64 { return r.gen.Load() }

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context, period models.Period) error {
	for {
		gen := r.gen.Add(1)
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)

		r.logger.Info().Uint64("generation", gen).Str("period", period.String()).Msg("starting run")
		go func(period models.Period) {
			done <- r.pipeline.Run(runCtx, period, func(s models.Snapshot) {
				s.Generation = gen
				r.publish(s)
			})
		}(period)

		next, err := r.wait(ctx, done, cancel)
		cancel()
		if err != nil {
			return err
		}
		if next != "" {
			period = next
		}
	}
}

// wait returns the period for the next generation, empty to repeat the
// current one, or ctx's error.
func (r *Runner) wait(ctx context.Context, done chan error, cancel context.CancelFunc) (models.Period, error) {
	var refresh <-chan time.Time
	finished := false

	stop := func() {
		cancel()
		if !finished {
			<-done
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return "", ctx.Err()
		case p := <-r.periods:
			stop()
			return p, nil
		case err := <-done:
			finished = true
			if err != nil {
				r.logger.Warn().Err(err).Msg("run ended early")
			}
			if r.refresh > 0 {
				refresh = time.After(r.refresh)
			}
		case <-refresh:
			return "", nil
		}
	}
}
