package worker

import (
	"context"
	"time"

	"flightwatch/internal/logging"
	"flightwatch/internal/repositories/notifications"
)

// Gate decides whether a new notification is allowed for an alert right now.
// An alert is suppressed while any notification record falls inside the
// sliding window; once the window has passed the same alert becomes eligible
// again even at an unchanged price, which re-reminds the user on purpose.
type Gate struct {
	notifications notifications.Repository
	window        time.Duration
	logger        logging.Logger
}

func NewGate(repo notifications.Repository, window time.Duration, logger logging.Logger) *Gate {
	return &Gate{notifications: repo, window: window, logger: logger}
}

// Allowed reports whether the alert may be notified at instant now.
// When the history lookup fails the gate fails closed and suppresses.
func (g *Gate) Allowed(ctx context.Context, alertID int64, now time.Time) bool {
	count, err := g.notifications.CountSince(ctx, alertID, now.Add(-g.window))
	if err != nil {
		g.logger.Warn(ctx, "notification history lookup failed, suppressing", "alert_id", alertID, "error", err)
		return false
	}
	return count == 0
}
