package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"flightwatch/internal/logging"
	"flightwatch/internal/repositories/alerts"
)

// Monitor drives the endless check cycle: load active alerts, evaluate each
// one sequentially with pacing toward the provider, sleep, repeat. A failed
// cycle is followed by the longer cooldown instead of the regular interval;
// the loop itself only ever returns on context cancellation.
type Monitor struct {
	alerts    alerts.Repository
	evaluator *Evaluator
	limiter   *rate.Limiter
	logger    logging.Logger

	interval time.Duration
	cooldown time.Duration
	now      func() time.Time
}

func NewMonitor(
	alertRepo alerts.Repository,
	evaluator *Evaluator,
	logger logging.Logger,
	interval, cooldown, alertDelay time.Duration,
) *Monitor {
	return &Monitor{
		alerts:    alertRepo,
		evaluator: evaluator,
		limiter:   rate.NewLimiter(rate.Every(alertDelay), 1),
		logger:    logger,
		interval:  interval,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Run executes cycles until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info(ctx, "alert monitor started", "interval", m.interval, "cooldown", m.cooldown)

	for {
		wait := m.interval
		if err := m.runCycle(ctx); err != nil {
			m.logger.Error(ctx, "cycle failed, cooling down", "error", err, "cooldown", m.cooldown)
			wait = m.cooldown
		}

		select {
		case <-ctx.Done():
			m.logger.Info(ctx, "alert monitor stopped")
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// runCycle evaluates every eligible alert once. Individual alert failures
// are contained by the Evaluator; a panic escaping the cycle body is
// converted to an error so Run applies the cooldown.
func (m *Monitor) runCycle(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cycle panic: %v", p)
		}
	}()

	log := m.logger.With("cycle", uuid.NewString())
	started := m.now()

	today := started.UTC().Truncate(24 * time.Hour)
	active, err := m.alerts.ListActive(ctx, today)
	if err != nil {
		// Treated as an empty cycle: sleep the regular interval and retry.
		log.Error(ctx, "loading active alerts failed", "error", err)
		return nil
	}

	log.Info(ctx, "cycle started", "alerts", len(active))

	processed, notified := 0, 0
	for _, alert := range active {
		if err := m.limiter.Wait(ctx); err != nil {
			log.Info(ctx, "cycle interrupted", "processed", processed)
			return nil
		}

		outcome := m.evaluator.Evaluate(ctx, alert)
		processed++
		if outcome.Notified {
			notified++
		}
	}

	log.Info(ctx, "cycle finished",
		"processed", processed,
		"notified", notified,
		"elapsed", m.now().Sub(started).Round(time.Millisecond),
	)
	return nil
}
