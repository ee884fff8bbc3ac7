package alerts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"flightwatch/internal/common"
	"flightwatch/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func alertColumns() []string {
	return []string{
		"id", "user_id", "origin", "destination", "date_from", "date_to",
		"price_target_cents", "max_stops", "airlines_include", "airlines_exclude",
		"active", "created_at",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	target := int64(15000)
	dateFrom := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	createdAt := time.Now()

	mock.ExpectQuery(`INSERT INTO alerts .* RETURNING id, created_at`).
		WithArgs(int64(1), "MAD", "BCN", dateFrom, (*time.Time)(nil),
			&target, (*int)(nil), nil, nil, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))

	alert, err := repo.Create(context.Background(), &models.Alert{
		UserID:           1,
		Origin:           "MAD",
		Destination:      "BCN",
		DateFrom:         dateFrom,
		PriceTargetCents: &target,
		Active:           true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert.ID != 7 {
		t.Fatalf("want id 7, got %d", alert.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM alerts`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetByID_DecodesAirlines(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	target := int64(15000)
	dateFrom := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(alertColumns()).
		AddRow(int64(7), int64(1), "MAD", "BCN", dateFrom, nil,
			&target, nil, []byte(`["Iberia","Vueling"]`), nil, true, time.Now())

	mock.ExpectQuery(`SELECT .* FROM alerts`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	alert, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alert.AirlinesInclude) != 2 || alert.AirlinesInclude[0] != "Iberia" {
		t.Fatalf("airlines not decoded: %v", alert.AirlinesInclude)
	}
	if alert.AirlinesExclude != nil {
		t.Fatalf("want nil exclude list, got %v", alert.AirlinesExclude)
	}
}

func TestListActive_JoinsChatID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	target := int64(15000)
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	dateFrom := today.AddDate(0, 1, 0)

	rows := sqlmock.NewRows(append(alertColumns(), "telegram_id")).
		AddRow(int64(7), int64(1), "MAD", "BCN", dateFrom, nil,
			&target, nil, nil, nil, true, time.Now(), int64(555000111))

	mock.ExpectQuery(`SELECT .* FROM alerts a\s+JOIN users u ON a\.user_id = u\.id`).
		WithArgs(today).
		WillReturnRows(rows)

	active, err := repo.ListActive(context.Background(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("want 1 alert, got %d", len(active))
	}
	if active[0].ChatID != 555000111 {
		t.Fatalf("chat id not joined: %d", active[0].ChatID)
	}
}

func TestListActive_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM alerts a`).
		WillReturnError(errors.New("conn refused"))

	_, err := repo.ListActive(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE alerts`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Alert{ID: 99, Origin: "MAD", Destination: "BCN"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM alerts WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM alerts WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
