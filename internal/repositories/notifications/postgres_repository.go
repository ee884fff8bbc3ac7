package notifications

import (
	"context"
	"fmt"
	"time"

	"flightwatch/internal/dbx"
	"flightwatch/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, record *models.NotificationRecord) (*models.NotificationRecord, error) {

	query :=
		`INSERT INTO notifications_sent (alert_id, price_cents, sent_at)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		record.AlertID, record.PriceCents, record.SentAt,
	).Scan(&record.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

func (r *PostgresRepository) CountSince(ctx context.Context, alertID int64, since time.Time) (int64, error) {
	query :=
		`SELECT COUNT(*) FROM notifications_sent
		 WHERE alert_id = $1
		   AND sent_at >= $2
		 `

	var count int64
	err := r.db.QueryRowContext(ctx, query, alertID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}
