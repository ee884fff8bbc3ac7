package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"flightwatch/internal/migrations"
	"flightwatch/internal/repositories/alerts"
	"flightwatch/internal/repositories/notifications"
	"flightwatch/internal/repositories/snapshots"
	"flightwatch/internal/repositories/users"
)

type PostgresRepositoryManager struct {
	db            *sql.DB
	users         users.Repository
	alerts        alerts.Repository
	snapshots     snapshots.Repository
	notifications notifications.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Alerts() alerts.Repository {
	return m.alerts
}

func (m *PostgresRepositoryManager) Snapshots() snapshots.Repository {
	return m.snapshots
}

func (m *PostgresRepositoryManager) Notifications() notifications.Repository {
	return m.notifications
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:            db,
		users:         users.NewPostgresRepository(db),
		alerts:        alerts.NewPostgresRepository(db),
		snapshots:     snapshots.NewPostgresRepository(db),
		notifications: notifications.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
