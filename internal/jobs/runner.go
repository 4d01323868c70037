// Package jobs runs the periodic background work of the backend: event
// reminders and queue depth sampling. Each job is a ticker goroutine tied
// to the process context.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sgovph/sgov-backend/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
}

func New(ctx context.Context) *Runner { return &Runner{ctx: ctx} }

// Every schedules fn on a fixed interval until the runner's context is
// cancelled. A panicking job is reported and counted as an error; the
// schedule keeps ticking.
func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				r.runOnce(name, fn)
			}
		}
	}()
}

func (r *Runner) runOnce(name string, fn Job) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			observability.CaptureErr(fmt.Errorf("job %s panicked: %v", name, rec))
			jobErrors.WithLabelValues(name).Inc()
		}
		jobRuns.WithLabelValues(name).Inc()
		jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()
	if err := fn(r.ctx); err != nil {
		jobErrors.WithLabelValues(name).Inc()
	}
}
