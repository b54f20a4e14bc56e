package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/securestash/securestash/internal/identity"
	sqlitemigrations "github.com/securestash/securestash/internal/migrations/sqlite"
	"github.com/securestash/securestash/internal/session"
	"github.com/securestash/securestash/internal/vault"
)

type SQLiteRepositoryManager struct {
	db          *sql.DB
	accounts    identity.Repository
	sessions    session.Repository
	credentials vault.Repository
}

func (m *SQLiteRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *SQLiteRepositoryManager) Accounts() identity.Repository {
	return m.accounts
}

func (m *SQLiteRepositoryManager) Sessions() session.Repository {
	return m.sessions
}

func (m *SQLiteRepositoryManager) Credentials() vault.Repository {
	return m.credentials
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(sqlitemigrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func NewSQLiteRepositoryManager(path string) (RepositoryManager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// modernc.org/sqlite serializes access through a single connection;
	// more than one would trip SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	m := &SQLiteRepositoryManager{
		db:          db,
		accounts:    identity.NewSQLiteRepository(db),
		sessions:    session.NewSQLiteRepository(db),
		credentials: vault.NewSQLiteRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
