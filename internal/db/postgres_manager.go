package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/securestash/securestash/internal/identity"
	"github.com/securestash/securestash/internal/migrations/postgres"
	"github.com/securestash/securestash/internal/session"
	"github.com/securestash/securestash/internal/vault"
)

type PostgresRepositoryManager struct {
	db          *sql.DB
	accounts    identity.Repository
	sessions    session.Repository
	credentials vault.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) Accounts() identity.Repository {
	return m.accounts
}

func (m *PostgresRepositoryManager) Sessions() session.Repository {
	return m.sessions
}

func (m *PostgresRepositoryManager) Credentials() vault.Repository {
	return m.credentials
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(postgres.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:          db,
		accounts:    identity.NewPostgresRepository(db),
		sessions:    session.NewPostgresRepository(db),
		credentials: vault.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
