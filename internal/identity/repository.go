package identity

import "context"

// Repository describes persistence for account records.
type Repository interface {
	// Create inserts a new account. A duplicate email yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, account *Account) (*Account, error)

	// GetByEmail returns the account registered under email, or
	// common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByID returns the account with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*Account, error)
}
