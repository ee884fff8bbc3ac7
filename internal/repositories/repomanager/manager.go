// Package repomanager wires the database pool to the entity repositories
// and runs migrations at startup.
package repomanager

import (
	"context"
	"database/sql"

	"flightwatch/internal/repositories/alerts"
	"flightwatch/internal/repositories/notifications"
	"flightwatch/internal/repositories/snapshots"
	"flightwatch/internal/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Users() users.Repository
	Alerts() alerts.Repository
	Snapshots() snapshots.Repository
	Notifications() notifications.Repository
}
