package snapshots

import (
	"context"
	"fmt"

	"flightwatch/internal/dbx"
	"flightwatch/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error) {

	query :=
		`INSERT INTO search_snapshots (alert_id, price_cents, found_at, details)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	var details any
	if len(snapshot.Details) > 0 {
		details = []byte(snapshot.Details)
	}

	err := r.db.QueryRowContext(ctx, query,
		snapshot.AlertID, snapshot.PriceCents, snapshot.FoundAt, details,
	).Scan(&snapshot.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return snapshot, nil
}

func (r *PostgresRepository) ListByAlert(ctx context.Context, alertID int64) ([]*models.Snapshot, error) {
	query :=
		`SELECT id, alert_id, price_cents, found_at, details
		 FROM search_snapshots
		 WHERE alert_id = $1
		 ORDER BY found_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, alertID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Snapshot
	for rows.Next() {
		s := &models.Snapshot{}
		var details []byte
		if err := rows.Scan(&s.ID, &s.AlertID, &s.PriceCents, &s.FoundAt, &details); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		s.Details = details
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
