package vault

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

func (r *PostgresRepository) ListByCategory(ctx context.Context, accountID string, category Category) ([]Credential, error) {
	query := `SELECT id, category, title, verification_code, details, created_at
			  FROM credentials
			  WHERE account_id = $1 AND category = $2
			  ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, accountID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to select credentials: %w", err)
	}
	defer rows.Close()

	result := []Credential{}
	for rows.Next() {
		var item Credential
		if err := rows.Scan(&item.ID, &item.Category, &item.Title,
			&item.VerificationCode, &item.Details, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, accountID string, category Category, id string) (*Credential, error) {
	query := `SELECT id, category, title, verification_code, details, created_at
			  FROM credentials
			  WHERE account_id = $1 AND category = $2 AND id = $3`

	row := r.db.QueryRowContext(ctx, query, accountID, category, id)

	c := &Credential{}
	err := row.Scan(&c.ID, &c.Category, &c.Title, &c.VerificationCode, &c.Details, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, accountID string, c *Credential) error {
	query := `INSERT INTO credentials (id, account_id, category, title, verification_code, details, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, accountID, c.Category, c.Title, c.VerificationCode, []byte(c.Details), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, accountID string, c *Credential) error {
	query := `UPDATE credentials
			  SET title = $1, verification_code = $2, details = $3
			  WHERE account_id = $4 AND category = $5 AND id = $6`

	res, err := r.db.ExecContext(ctx, query,
		c.Title, c.VerificationCode, []byte(c.Details), accountID, c.Category, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, accountID string, category Category, id string) error {
	query := `DELETE FROM credentials WHERE account_id = $1 AND category = $2 AND id = $3`

	res, err := r.db.ExecContext(ctx, query, accountID, category, id)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return requireOneRow(res)
}
