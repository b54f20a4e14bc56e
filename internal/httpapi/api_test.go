package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securestash/securestash/internal/access"
	"github.com/securestash/securestash/internal/identity"
	"github.com/securestash/securestash/internal/logging"
	"github.com/securestash/securestash/internal/session"
	"github.com/securestash/securestash/internal/vault"
	"github.com/securestash/securestash/internal/verification"
	_ "modernc.org/sqlite"
)

type capturingDispatcher struct {
	mu    sync.Mutex
	codes []string
}

func (d *capturingDispatcher) DispatchCode(ctx context.Context, recipient, code, subjectTitle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.codes = append(d.codes, code)
	return nil
}

func setupServer(t *testing.T) (*httptest.Server, *capturingDispatcher) {
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
);
CREATE TABLE sessions (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
CREATE TABLE credentials (
  seq               INTEGER PRIMARY KEY AUTOINCREMENT,
  id                TEXT NOT NULL UNIQUE,
  account_id        TEXT NOT NULL,
  category          TEXT NOT NULL,
  title             TEXT NOT NULL,
  verification_code TEXT NOT NULL,
  details           BLOB,
  created_at        TIMESTAMP NOT NULL
);`)
	require.NoError(t, err)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	dispatcher := &capturingDispatcher{}

	identities := identity.NewService(identity.NewSQLiteRepository(db))
	sessions := session.NewStore(session.NewSQLiteRepository(db), logger)
	credentials := vault.NewStore(vault.NewSQLiteRepository(db), logger)
	gate := verification.NewGate(credentials, dispatcher, verification.Policy{}, logger)
	control := access.NewController(sessions, credentials, gate, logger)

	api := New(identities, sessions, control, []byte("test-secret"), time.Hour, logger)
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return srv, dispatcher
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func signUpAndIn(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	resp, _ := doJSON(t, srv, http.MethodPost, "/api/signup", "", map[string]string{
		"email": "owner@example.com", "displayName": "Owner", "password": "pa55word",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/signin", "", map[string]string{
		"email": "owner@example.com", "password": "pa55word",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var signedIn struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &signedIn))
	require.NotEmpty(t, signedIn.Token)
	return signedIn.Token
}

func TestAPI_FullCredentialWorkflow(t *testing.T) {
	srv, dispatcher := setupServer(t)
	token := signUpAndIn(t, srv)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/credentials/banking/", token, map[string]any{
		"title":            "Main Account",
		"verificationCode": "4711",
		"details":          map[string]string{"bankName": "First National", "password": "pw"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)

	// First view: gated, a code goes out.
	resp, body = doJSON(t, srv, http.MethodGet, "/api/credentials/banking/"+created.ID+"/", token, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Contains(t, string(body), "pending_verification")
	require.Equal(t, []string{"4711"}, dispatcher.codes)

	// Wrong code is a denied verdict, not an error.
	resp, body = doJSON(t, srv, http.MethodPost, "/api/credentials/banking/"+created.ID+"/verify", token,
		map[string]string{"code": "0000"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "denied")

	resp, body = doJSON(t, srv, http.MethodPost, "/api/credentials/banking/"+created.ID+"/verify", token,
		map[string]string{"code": "4711"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "granted")

	// Second view: unlocked, payload included.
	resp, body = doJSON(t, srv, http.MethodGet, "/api/credentials/banking/"+created.ID+"/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "First National")

	// Edit now passes the precondition.
	resp, body = doJSON(t, srv, http.MethodPut, "/api/credentials/banking/"+created.ID+"/", token,
		map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Renamed")

	resp, _ = doJSON(t, srv, http.MethodDelete, "/api/credentials/banking/"+created.ID+"/", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAPI_EditWithoutVerificationForbidden(t *testing.T) {
	srv, _ := setupServer(t)
	token := signUpAndIn(t, srv)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/credentials/gaming/", token, map[string]any{
		"title":            "Arcade",
		"verificationCode": "1234",
		"details":          map[string]string{"platform": "arcade"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = doJSON(t, srv, http.MethodPut, "/api/credentials/gaming/"+created.ID+"/", token,
		map[string]any{"title": "Renamed"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodDelete, "/api/credentials/gaming/"+created.ID+"/", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_LogoutInvalidatesToken(t *testing.T) {
	srv, _ := setupServer(t)
	token := signUpAndIn(t, srv)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/session", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The token has not expired, but its session is gone.
	resp, _ = doJSON(t, srv, http.MethodGet, "/api/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_AuthFailures(t *testing.T) {
	srv, _ := setupServer(t)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodGet, "/api/session", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/signin", "", map[string]string{
		"email": "nobody@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_UnknownCategoryRejected(t *testing.T) {
	srv, _ := setupServer(t)
	token := signUpAndIn(t, srv)

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/credentials/crypto/", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DuplicateSignupConflicts(t *testing.T) {
	srv, _ := setupServer(t)

	payload := map[string]string{"email": "dup@example.com", "displayName": "D", "password": "pw"}
	resp, _ := doJSON(t, srv, http.MethodPost, "/api/signup", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/signup", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
