package forecast

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/winn0518/ShoreSquad/internal/models"
	"github.com/winn0518/ShoreSquad/internal/observability"
)

// refreshDebouncer coalesces refresh requests arriving within a trailing
// window into a single execution. Every request re-arms the timer, so the
// last request in a burst decides when the run happens; all waiters receive
// that one run's outcome.
type refreshDebouncer struct {
	clock  clockwork.Clock
	window time.Duration
	run    func(context.Context) models.RefreshOutcome

	mu      sync.Mutex
	timer   clockwork.Timer
	ctx     context.Context
	waiters []chan models.RefreshOutcome
}

func newRefreshDebouncer(clock clockwork.Clock, window time.Duration, run func(context.Context) models.RefreshOutcome) *refreshDebouncer {
	return &refreshDebouncer{
		clock:  clock,
		window: window,
		run:    run,
	}
}

// Do registers the caller and arms (or re-arms) the window timer, then
// blocks until the coalesced execution completes or ctx ends. Only context
// errors are returned; the execution itself cannot fail.
func (d *refreshDebouncer) Do(ctx context.Context) (models.RefreshOutcome, error) {
	notify := make(chan models.RefreshOutcome, 1)

	d.mu.Lock()
	d.waiters = append(d.waiters, notify)
	d.ctx = ctx // last caller wins; its context drives the execution
	if d.timer == nil {
		d.timer = d.clock.AfterFunc(d.window, d.fire)
	} else {
		observability.ForecastDebounceCoalescedTotal.Inc()
		d.timer.Reset(d.window)
	}
	d.mu.Unlock()

	select {
	case outcome := <-notify:
		return outcome, nil
	case <-ctx.Done():
		return models.RefreshOutcome{}, ctx.Err()
	}
}

// fire runs once per armed window, on the timer's goroutine. It detaches the
// pending state first so requests arriving during the run start a new window.
func (d *refreshDebouncer) fire() {
	d.mu.Lock()
	waiters := d.waiters
	ctx := d.ctx
	d.waiters = nil
	d.ctx = nil
	d.timer = nil
	d.mu.Unlock()

	if ctx == nil || ctx.Err() != nil {
		ctx = context.Background()
	}

	outcome := d.run(ctx)
	for _, notify := range waiters {
		notify <- outcome
	}
}

// pending reports how many callers are waiting on the armed window.
func (d *refreshDebouncer) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.waiters)
}
