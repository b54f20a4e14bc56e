package identity

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securestash/securestash/internal/common"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE accounts (
  id           TEXT PRIMARY KEY,
  email        TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  account_id   TEXT NOT NULL UNIQUE,
  avatar_url   TEXT NOT NULL,
  salt         BLOB NOT NULL,
  verifier     BLOB NOT NULL,
  created_at   TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func testAccount(id, email string) *Account {
	return &Account{
		Identity: Identity{
			ID:          id,
			Email:       email,
			DisplayName: "Test User",
			AccountID:   "SSTEST" + id,
			AvatarURL:   DefaultAvatarURL,
		},
		Salt:      []byte("salt"),
		Verifier:  []byte("verifier"),
		CreatedAt: time.Now().UTC(),
	}
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, testAccount("1", "a@example.com"))
	require.NoError(t, err)

	byEmail, err := r.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", byEmail.ID)
	assert.Equal(t, "Test User", byEmail.DisplayName)

	byID, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID.Email)
}

func TestSQLiteRepository_GetMissing(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.GetByEmail(ctx, "absent@example.com")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = r.GetByID(ctx, "absent")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteRepository_DuplicateEmailFails(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := r.Create(ctx, testAccount("1", "dup@example.com"))
	require.NoError(t, err)

	_, err = r.Create(ctx, testAccount("2", "dup@example.com"))
	require.Error(t, err)
}
