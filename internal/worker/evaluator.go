package worker

import (
	"context"
	"encoding/json"
	"time"

	"flightwatch/internal/logging"
	"flightwatch/internal/models"
	"flightwatch/internal/notify"
	"flightwatch/internal/provider"
	"flightwatch/internal/repositories/notifications"
)

// Outcome summarizes what one evaluation did, mostly for logging and tests.
type Outcome struct {
	SnapshotWritten bool
	Notified        bool
	PriceCents      *int64
}

// Evaluator runs one alert through a full check: search prices, pick the
// cheapest offer, record a snapshot, consult the gate and notify if the
// target is met. It never lets a failure escape its own boundary; every
// error is logged and converted to a no-op outcome.
type Evaluator struct {
	prices        provider.PriceSource
	notifier      notify.Notifier
	recorder      *SnapshotRecorder
	gate          *Gate
	notifications notifications.Repository
	logger        logging.Logger

	searchLimit     int
	providerTimeout time.Duration
	now             func() time.Time
}

func NewEvaluator(
	prices provider.PriceSource,
	notifier notify.Notifier,
	recorder *SnapshotRecorder,
	gate *Gate,
	notificationRepo notifications.Repository,
	logger logging.Logger,
	searchLimit int,
	providerTimeout time.Duration,
) *Evaluator {
	return &Evaluator{
		prices:          prices,
		notifier:        notifier,
		recorder:        recorder,
		gate:            gate,
		notifications:   notificationRepo,
		logger:          logger,
		searchLimit:     searchLimit,
		providerTimeout: providerTimeout,
		now:             time.Now,
	}
}

// Evaluate processes one alert and reports the outcome. It is safe to call
// with a half-broken environment: provider errors, store errors and
// delivery failures all degrade to "no notification this cycle".
func (e *Evaluator) Evaluate(ctx context.Context, alert *models.Alert) (out Outcome) {
	log := e.logger.With("alert_id", alert.ID)

	defer func() {
		if p := recover(); p != nil {
			log.Error(ctx, "panic while evaluating alert", "panic", p)
		}
	}()

	offers := e.search(ctx, log, alert)

	cheapest, found := models.Cheapest(offers)
	if !found {
		if e.recorder.Record(ctx, alert.ID, nil, models.NoResultMarker, e.now()) == nil {
			out.SnapshotWritten = true
		}
		return out
	}

	price := cheapest.PriceCents()
	out.PriceCents = &price

	details, err := json.Marshal(cheapest)
	if err != nil {
		details = models.NoResultMarker
	}
	if e.recorder.Record(ctx, alert.ID, &price, details, e.now()) == nil {
		out.SnapshotWritten = true
	}

	// No target price means the alert only collects history.
	if alert.PriceTargetCents == nil {
		return out
	}
	target := *alert.PriceTargetCents
	if price > target {
		log.Debug(ctx, "price above target", "price_cents", price, "target_cents", target)
		return out
	}

	log.Info(ctx, "target price reached", "price_cents", price, "target_cents", target)

	if !e.gate.Allowed(ctx, alert.ID, e.now()) {
		log.Info(ctx, "notification suppressed by window")
		return out
	}

	msg := notify.BuildAlertMessage(alert, cheapest)
	if err := e.notifier.Send(ctx, alert.ChatID, msg); err != nil {
		// No record is written: the same opportunity is retried next cycle.
		log.Error(ctx, "notification delivery failed", "error", err)
		return out
	}

	if _, err := e.notifications.Insert(ctx, &models.NotificationRecord{
		AlertID:    alert.ID,
		PriceCents: price,
		SentAt:     e.now(),
	}); err != nil {
		log.Error(ctx, "notification record write failed", "error", err)
	}

	out.Notified = true
	return out
}

func (e *Evaluator) search(ctx context.Context, log logging.Logger, alert *models.Alert) []models.Offer {
	sctx := ctx
	if e.providerTimeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, e.providerTimeout)
		defer cancel()
	}

	offers, err := e.prices.Search(sctx, provider.Query{
		Origin:          alert.Origin,
		Destination:     alert.Destination,
		DateFrom:        alert.DateFrom,
		DateTo:          alert.DateTo,
		MaxStops:        alert.MaxStops,
		AirlinesInclude: alert.AirlinesInclude,
		AirlinesExclude: alert.AirlinesExclude,
		Limit:           e.searchLimit,
	})
	if err != nil {
		log.Warn(ctx, "price search failed", "error", err)
		return nil
	}
	if len(offers) == 0 {
		log.Debug(ctx, "no offers found")
	}
	return offers
}
