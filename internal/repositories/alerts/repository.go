package alerts

import (
	"context"
	"time"

	"flightwatch/internal/models"
)

type Repository interface {
	Create(ctx context.Context, alert *models.Alert) (*models.Alert, error)
	GetByID(ctx context.Context, id int64) (*models.Alert, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Alert, error)
	// ListActive returns alerts eligible for evaluation: active and with a
	// departure date not before today, joined with the owner's Telegram
	// chat id, in creation order.
	ListActive(ctx context.Context, today time.Time) ([]*models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
	Delete(ctx context.Context, id int64) error
}
