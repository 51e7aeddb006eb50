// Package repomanager owns the database handle and hands out repositories
// bound to it. The handle is acquired once at startup and released with
// Close; nothing in the service layer opens connections on its own.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mlevkov/authd/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Close() error
}
