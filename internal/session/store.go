package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/identity"
	"github.com/securestash/securestash/internal/logging"
)

// snapshotKeyPrefix is the fixed namespace under which session snapshots
// are stored in the repository.
const snapshotKeyPrefix = "auth-storage:"

// Store owns all live sessions. Every mutation persists the full session
// snapshot; reads rehydrate from the repository on cache miss, so sessions
// survive a restart. A snapshot that cannot be read or decoded degrades to
// "absent session"; it is always safe to rebuild the session by signing in
// again.
type Store struct {
	mu       sync.Mutex
	cache    map[string]*Session
	repo     Repository
	logger   logging.Logger
	onLogout func(sessionID string)
}

func NewStore(repo Repository, logger logging.Logger) *Store {
	return &Store{
		cache:  make(map[string]*Session),
		repo:   repo,
		logger: logger.With("module", "session_store"),
	}
}

// OnLogout registers a hook fired after a session is removed. The vault
// uses it to wipe the session's verification statuses.
func (s *Store) OnLogout(fn func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = fn
}

// SetAuth creates a session for the given identity and token, replacing any
// prior auth state for that session id wholesale. An empty sessionID gets a
// fresh one; callers that mint the token with the session id embedded
// generate the id first and pass it in. Missing AccountID or AvatarURL are
// synthesized; the token is accepted structurally as long as it is
// non-empty.
func (s *Store) SetAuth(ctx context.Context, sessionID string, ident identity.Identity, token string) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", common.ErrUnauthorized)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if ident.AccountID == "" {
		accountID, err := common.GenerateAccountID()
		if err != nil {
			return nil, fmt.Errorf("account id generation failed: %w", err)
		}
		ident.AccountID = accountID
	}
	if ident.AvatarURL == "" {
		ident.AvatarURL = identity.DefaultAvatarURL
	}

	sess := &Session{
		ID:        sessionID,
		Identity:  &ident,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}
	s.cache[sess.ID] = sess

	return sess, nil
}

// Get returns the session with the given id, or nil if it does not exist.
// Repository failures and corrupt snapshots are downgraded to absence.
func (s *Store) Get(ctx context.Context, sessionID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, sessionID)
}

// SetVerificationEmail records an address pending account-level
// verification on the session. It does not interact with the credential
// verification gate.
func (s *Store) SetVerificationEmail(ctx context.Context, sessionID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.load(ctx, sessionID)
	if sess == nil {
		return common.ErrNotFound
	}

	updated := *sess
	updated.PendingVerificationEmail = email

	if err := s.persist(ctx, &updated); err != nil {
		return err
	}
	s.cache[sessionID] = &updated

	return nil
}

// Logout removes the session: identity, token, and pending verification
// email disappear in one step, never leaving a partially cleared state. The
// logout hook runs after the session is gone.
func (s *Store) Logout(ctx context.Context, sessionID string) error {
	s.mu.Lock()

	if err := s.repo.Delete(ctx, snapshotKeyPrefix+sessionID); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("session removal failed: %w", err)
	}
	delete(s.cache, sessionID)
	hook := s.onLogout
	s.mu.Unlock()

	if hook != nil {
		hook(sessionID)
	}
	return nil
}

// load must be called with s.mu held.
func (s *Store) load(ctx context.Context, sessionID string) *Session {
	if sess, ok := s.cache[sessionID]; ok {
		return sess
	}

	value, err := s.repo.Get(ctx, snapshotKeyPrefix+sessionID)
	if err != nil {
		s.logger.Warn(ctx, "session snapshot unreadable, treating as absent", "session_id", sessionID, "error", err.Error())
		return nil
	}
	if value == nil {
		return nil
	}

	sess := &Session{}
	if err := json.Unmarshal(value, sess); err != nil {
		s.logger.Warn(ctx, "session snapshot corrupt, treating as absent", "session_id", sessionID, "error", err.Error())
		return nil
	}
	if !sess.Authenticated() {
		// An incomplete snapshot (missing identity or token) is as good as
		// no session at all.
		return nil
	}

	s.cache[sessionID] = sess
	return sess
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context, sess *Session) error {
	value, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session snapshot encoding failed: %w", err)
	}
	if err := s.repo.Set(ctx, snapshotKeyPrefix+sess.ID, value); err != nil {
		return fmt.Errorf("session snapshot saving failed: %w", err)
	}
	return nil
}
