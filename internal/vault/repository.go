package vault

import "context"

// Repository describes persistence for credential records. Listings are
// returned in insertion order.
type Repository interface {
	// ListByCategory returns every credential of one account in one
	// category. An unknown or empty category yields an empty slice, not an
	// error.
	ListByCategory(ctx context.Context, accountID string, category Category) ([]Credential, error)

	// GetByID returns a single credential, or common.ErrNotFound.
	GetByID(ctx context.Context, accountID string, category Category, id string) (*Credential, error)

	// Insert appends a new credential record.
	Insert(ctx context.Context, accountID string, c *Credential) error

	// Update rewrites the mutable columns of an existing record.
	// common.ErrNotFound if no row matches.
	Update(ctx context.Context, accountID string, c *Credential) error

	// DeleteByID removes a record. common.ErrNotFound if no row matches.
	DeleteByID(ctx context.Context, accountID string, category Category, id string) error
}
