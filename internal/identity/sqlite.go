package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	query := `INSERT INTO accounts (id, email, display_name, account_id, avatar_url, salt, verifier, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Email, account.DisplayName, account.AccountID,
		account.AvatarURL, account.Salt, account.Verifier, account.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}
	return account, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT id, email, display_name, account_id, avatar_url, salt, verifier, created_at
			  FROM accounts WHERE email = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT id, email, display_name, account_id, avatar_url, salt, verifier, created_at
			  FROM accounts WHERE id = ?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) scanOne(row *sql.Row) (*Account, error) {
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
