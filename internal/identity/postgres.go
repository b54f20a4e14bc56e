package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/dbx"
)

// PostgresRepository implements Repository against PostgreSQL.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	query := `INSERT INTO accounts (id, email, display_name, account_id, avatar_url, salt, verifier, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Email, account.DisplayName, account.AccountID,
		account.AvatarURL, account.Salt, account.Verifier, account.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}
	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT id, email, display_name, account_id, avatar_url, salt, verifier, created_at
			  FROM accounts WHERE email = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT id, email, display_name, account_id, avatar_url, salt, verifier, created_at
			  FROM accounts WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*Account, error) {
	a := &Account{}
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.AccountID,
		&a.AvatarURL, &a.Salt, &a.Verifier, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return a, nil
}
