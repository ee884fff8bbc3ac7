package notifications

import (
	"context"
	"time"

	"flightwatch/internal/models"
)

type Repository interface {
	// Insert records a successfully delivered notification.
	Insert(ctx context.Context, record *models.NotificationRecord) (*models.NotificationRecord, error)
	// CountSince returns how many notifications were sent for the alert at
	// or after the given instant. The suppression window is enforced on it.
	CountSince(ctx context.Context, alertID int64, since time.Time) (int64, error)
}
