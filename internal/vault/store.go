package vault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/logging"
)

// statusKey scopes a verification status to one credential within one
// session.
type statusKey struct {
	sessionID    string
	credentialID string
}

// Store is the credential store: it owns the persistent records and the
// transient verification-status map. Statuses live only in memory, so a
// restart leaves every credential Locked. The map is owned solely by this
// store; the verification gate requests transitions through the
// SetPending/ClearPending/MarkUnlocked methods and never keeps its own
// copy.
type Store struct {
	mu       sync.Mutex
	statuses map[statusKey]Status
	repo     Repository
	logger   logging.Logger
}

func NewStore(repo Repository, logger logging.Logger) *Store {
	return &Store{
		statuses: make(map[statusKey]Status),
		repo:     repo,
		logger:   logger.With("module", "credential_store"),
	}
}

// List returns the credentials of one account in one category, in
// insertion order. A category with no records yields an empty slice.
func (s *Store) List(ctx context.Context, accountID string, category Category) ([]Credential, error) {
	rows, err := s.repo.ListByCategory(ctx, accountID, category)
	if err != nil {
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}
	return rows, nil
}

// Get returns a single credential record.
func (s *Store) Get(ctx context.Context, accountID string, category Category, id string) (*Credential, error) {
	c, err := s.repo.GetByID(ctx, accountID, category, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving credential: %w", err)
	}
	return c, nil
}

// Add appends a new credential with a fresh id and creation timestamp.
// New credentials start Locked: absence from the status map is the locked
// state, so there is nothing to record.
func (s *Store) Add(ctx context.Context, accountID string, category Category, draft Draft) (*Credential, error) {
	c := &Credential{
		ID:               uuid.NewString(),
		Category:         category,
		Title:            draft.Title,
		CreatedAt:        time.Now().UTC(),
		VerificationCode: draft.VerificationCode,
		Details:          draft.Details,
	}

	if err := s.repo.Insert(ctx, accountID, c); err != nil {
		return nil, fmt.Errorf("error saving credential: %w", err)
	}
	return c, nil
}

// Edit merges patch into an existing credential. The credential must be
// Unlocked for the calling session; this is the store's own backstop
// behind the access controller's primary check. ID, Category and
// CreatedAt are never altered.
func (s *Store) Edit(ctx context.Context, sessionID, accountID string, category Category, id string, patch Patch) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statuses[statusKey{sessionID, id}] != Unlocked {
		return nil, common.ErrVerificationRequired
	}

	c, err := s.repo.GetByID(ctx, accountID, category, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.VerificationCode != nil {
		c.VerificationCode = *patch.VerificationCode
	}
	if patch.Details != nil {
		c.Details = patch.Details
	}

	if err := s.repo.Update(ctx, accountID, c); err != nil {
		return nil, fmt.Errorf("error updating credential: %w", err)
	}
	return c, nil
}

// Delete removes a credential and its verification status in one step, so
// no observer can see a deleted-but-still-unlocked artifact. Same guard as
// Edit.
func (s *Store) Delete(ctx context.Context, sessionID, accountID string, category Category, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := statusKey{sessionID, id}
	if s.statuses[key] != Unlocked {
		return common.ErrVerificationRequired
	}

	if err := s.repo.DeleteByID(ctx, accountID, category, id); err != nil {
		return err
	}
	delete(s.statuses, key)

	return nil
}

// Status returns the verification state of a credential for a session.
// Absence means Locked.
func (s *Store) Status(sessionID, credentialID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[statusKey{sessionID, credentialID}]
}

// IsVerified reports whether the credential is Unlocked for the session.
// It is a pure read: no mutation, no code dispatch.
func (s *Store) IsVerified(sessionID, credentialID string) bool {
	return s.Status(sessionID, credentialID) == Unlocked
}

// SetPending transitions Locked -> PendingCode. Gate use only. A
// credential that is already Unlocked stays Unlocked.
func (s *Store) SetPending(sessionID, credentialID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := statusKey{sessionID, credentialID}
	if s.statuses[key] == Unlocked {
		return
	}
	s.statuses[key] = PendingCode
}

// ClearPending transitions PendingCode -> Locked. Gate use only.
func (s *Store) ClearPending(sessionID, credentialID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := statusKey{sessionID, credentialID}
	if s.statuses[key] == PendingCode {
		delete(s.statuses, key)
	}
}

// MarkUnlocked transitions a credential to Unlocked. Gate use only,
// invoked exclusively after a successful code check.
func (s *Store) MarkUnlocked(sessionID, credentialID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[statusKey{sessionID, credentialID}] = Unlocked
}

// ResetSession wipes every verification status belonging to a session.
// Wired as the session store's logout hook.
func (s *Store) ResetSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.statuses {
		if key.sessionID == sessionID {
			delete(s.statuses, key)
		}
	}
}
