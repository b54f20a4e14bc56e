package session

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/identity"
	"github.com/securestash/securestash/internal/logging"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE sessions (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testIdentity() identity.Identity {
	return identity.Identity{
		ID:          "acc-1",
		Email:       "user@example.com",
		DisplayName: "User",
		AccountID:   "SSABCDEFGH",
		AvatarURL:   identity.DefaultAvatarURL,
	}
}

func TestStore_SetAuthAndGet(t *testing.T) {
	store := NewStore(NewSQLiteRepository(setupDB(t)), testLogger())
	ctx := context.Background()

	sess, err := store.SetAuth(ctx, "", testIdentity(), "token-1")
	require.NoError(t, err)

	assert.True(t, sess.Authenticated())

	got := store.Get(ctx, sess.ID)
	require.NotNil(t, got)
	assert.Equal(t, "token-1", got.Token)
	assert.Equal(t, "SSABCDEFGH", got.Identity.AccountID)
}

func TestStore_SetAuth_SynthesizesMissingFields(t *testing.T) {
	store := NewStore(NewSQLiteRepository(setupDB(t)), testLogger())
	ctx := context.Background()

	ident := testIdentity()
	ident.AccountID = ""
	ident.AvatarURL = ""

	sess, err := store.SetAuth(ctx, "", ident, "token-1")
	require.NoError(t, err)

	assert.Regexp(t, `^SS[A-Z0-9]{8}$`, sess.Identity.AccountID)
	assert.Equal(t, identity.DefaultAvatarURL, sess.Identity.AvatarURL)
}

func TestStore_SetAuth_RejectsEmptyToken(t *testing.T) {
	store := NewStore(NewSQLiteRepository(setupDB(t)), testLogger())

	_, err := store.SetAuth(context.Background(), "", testIdentity(), "")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestStore_SurvivesRestart(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	store := NewStore(NewSQLiteRepository(db), testLogger())
	sess, err := store.SetAuth(ctx, "", testIdentity(), "token-1")
	require.NoError(t, err)

	// A fresh store over the same repository stands in for a restarted
	// process: the session must rehydrate from its snapshot.
	reborn := NewStore(NewSQLiteRepository(db), testLogger())
	got := reborn.Get(ctx, sess.ID)
	require.NotNil(t, got)
	assert.Equal(t, "token-1", got.Token)
	assert.Equal(t, sess.Identity.AccountID, got.Identity.AccountID)
}

func TestStore_CorruptSnapshotDegradesToAbsent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewSQLiteRepository(db)

	require.NoError(t, repo.Set(ctx, snapshotKeyPrefix+"sess-x", []byte("{not json")))

	store := NewStore(repo, testLogger())
	assert.Nil(t, store.Get(ctx, "sess-x"))
}

func TestStore_IncompleteSnapshotDegradesToAbsent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := NewSQLiteRepository(db)

	// Valid JSON but no identity/token: not an authenticated session.
	require.NoError(t, repo.Set(ctx, snapshotKeyPrefix+"sess-y", []byte(`{"id":"sess-y"}`)))

	store := NewStore(repo, testLogger())
	assert.Nil(t, store.Get(ctx, "sess-y"))
}

func TestStore_SetVerificationEmail(t *testing.T) {
	store := NewStore(NewSQLiteRepository(setupDB(t)), testLogger())
	ctx := context.Background()

	sess, err := store.SetAuth(ctx, "", testIdentity(), "token-1")
	require.NoError(t, err)

	require.NoError(t, store.SetVerificationEmail(ctx, sess.ID, "confirm@example.com"))
	assert.Equal(t, "confirm@example.com", store.Get(ctx, sess.ID).PendingVerificationEmail)

	require.ErrorIs(t, store.SetVerificationEmail(ctx, "absent", "x@example.com"), common.ErrNotFound)
}

func TestStore_Logout(t *testing.T) {
	store := NewStore(NewSQLiteRepository(setupDB(t)), testLogger())
	ctx := context.Background()

	var wipedSession string
	store.OnLogout(func(sessionID string) { wipedSession = sessionID })

	sess, err := store.SetAuth(ctx, "", testIdentity(), "token-1")
	require.NoError(t, err)
	require.NoError(t, store.SetVerificationEmail(ctx, sess.ID, "confirm@example.com"))

	require.NoError(t, store.Logout(ctx, sess.ID))

	// Identity, token and pending email are all gone at once.
	assert.Nil(t, store.Get(ctx, sess.ID))
	assert.Equal(t, sess.ID, wipedSession)
}
