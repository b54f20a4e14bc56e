package session

import "context"

// Repository stores opaque session snapshots in named slots. The store
// treats values as raw bytes; the snapshot format is its own concern.
type Repository interface {
	// Get returns the snapshot stored under key, or (nil, nil) if the slot
	// is empty.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes (or overwrites) the snapshot stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the slot. Deleting an absent slot is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every slot.
	Clear(ctx context.Context) error
}
