package alerts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flightwatch/internal/common"
	"flightwatch/internal/dbx"
	"flightwatch/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, alert *models.Alert) (*models.Alert, error) {

	query :=
		`INSERT INTO alerts (user_id, origin, destination, date_from, date_to,
		     price_target_cents, max_stops, airlines_include, airlines_exclude, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		alert.UserID, alert.Origin, alert.Destination, alert.DateFrom, alert.DateTo,
		alert.PriceTargetCents, alert.MaxStops,
		airlinesJSON(alert.AirlinesInclude), airlinesJSON(alert.AirlinesExclude),
		alert.Active,
	).Scan(&alert.ID, &alert.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return alert, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Alert, error) {
	query :=
		`SELECT id, user_id, origin, destination, date_from, date_to,
		        price_target_cents, max_stops, airlines_include, airlines_exclude,
		        active, created_at
		 FROM alerts
		 WHERE id = $1
		 `

	alert, err := scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return alert, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Alert, error) {
	query :=
		`SELECT id, user_id, origin, destination, date_from, date_to,
		        price_target_cents, max_stops, airlines_include, airlines_exclude,
		        active, created_at
		 FROM alerts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return collectAlerts(rows)
}

func (r *PostgresRepository) ListActive(ctx context.Context, today time.Time) ([]*models.Alert, error) {
	query :=
		`SELECT a.id, a.user_id, a.origin, a.destination, a.date_from, a.date_to,
		        a.price_target_cents, a.max_stops, a.airlines_include, a.airlines_exclude,
		        a.active, a.created_at, u.telegram_id
		 FROM alerts a
		 JOIN users u ON a.user_id = u.id
		 WHERE a.active = TRUE
		   AND a.date_from >= $1
		 ORDER BY a.created_at ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, today)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Alert
	for rows.Next() {
		alert := &models.Alert{}
		var dateTo sql.NullTime
		var include, exclude []byte
		err := rows.Scan(
			&alert.ID, &alert.UserID, &alert.Origin, &alert.Destination,
			&alert.DateFrom, &dateTo, &alert.PriceTargetCents, &alert.MaxStops,
			&include, &exclude, &alert.Active, &alert.CreatedAt, &alert.ChatID,
		)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if dateTo.Valid {
			alert.DateTo = &dateTo.Time
		}
		if alert.AirlinesInclude, err = airlinesFromJSON(include); err != nil {
			return nil, err
		}
		if alert.AirlinesExclude, err = airlinesFromJSON(exclude); err != nil {
			return nil, err
		}
		result = append(result, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, alert *models.Alert) error {
	query :=
		`UPDATE alerts
		 SET origin = $1, destination = $2, date_from = $3, date_to = $4,
		     price_target_cents = $5, max_stops = $6,
		     airlines_include = $7, airlines_exclude = $8, active = $9
		 WHERE id = $10
		 `

	res, err := r.db.ExecContext(ctx, query,
		alert.Origin, alert.Destination, alert.DateFrom, alert.DateTo,
		alert.PriceTargetCents, alert.MaxStops,
		airlinesJSON(alert.AirlinesInclude), airlinesJSON(alert.AirlinesExclude),
		alert.Active, alert.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// Delete removes the alert; snapshots and notification records go with it
// via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	alert := &models.Alert{}
	var dateTo sql.NullTime
	var include, exclude []byte
	err := row.Scan(
		&alert.ID, &alert.UserID, &alert.Origin, &alert.Destination,
		&alert.DateFrom, &dateTo, &alert.PriceTargetCents, &alert.MaxStops,
		&include, &exclude, &alert.Active, &alert.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dateTo.Valid {
		alert.DateTo = &dateTo.Time
	}
	if alert.AirlinesInclude, err = airlinesFromJSON(include); err != nil {
		return nil, err
	}
	if alert.AirlinesExclude, err = airlinesFromJSON(exclude); err != nil {
		return nil, err
	}
	return alert, nil
}

func collectAlerts(rows *sql.Rows) ([]*models.Alert, error) {
	var result []*models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Airline lists are stored as JSONB; NULL means "no constraint".

func airlinesJSON(list []string) any {
	if len(list) == 0 {
		return nil
	}
	b, _ := json.Marshal(list)
	return b
}

func airlinesFromJSON(b []byte) ([]string, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("decode airlines: %w", err)
	}
	return list, nil
}
