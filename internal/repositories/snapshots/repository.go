package snapshots

import (
	"context"

	"flightwatch/internal/models"
)

type Repository interface {
	// Insert appends one observation; snapshots are never updated.
	Insert(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error)
	// ListByAlert returns the alert's price history in observation order.
	ListByAlert(ctx context.Context, alertID int64) ([]*models.Snapshot, error)
}
