// Package db selects and assembles the storage backend: PostgreSQL for
// postgres:// DSNs, an embedded SQLite file for everything else. Managers
// run their embedded schema migrations on construction.
package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/securestash/securestash/internal/identity"
	"github.com/securestash/securestash/internal/session"
	"github.com/securestash/securestash/internal/vault"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Accounts() identity.Repository
	Sessions() session.Repository
	Credentials() vault.Repository
}

// NewRepositoryManager picks the backend from the DSN shape.
func NewRepositoryManager(dsn string) (RepositoryManager, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return NewPostgresRepositoryManager(dsn)
	}
	return NewSQLiteRepositoryManager(dsn)
}
