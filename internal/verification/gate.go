package verification

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/logging"
	"github.com/securestash/securestash/internal/vault"
)

// Verdict is the outcome of a code submission.
type Verdict int

const (
	Denied Verdict = iota
	Granted
)

func (v Verdict) String() string {
	if v == Granted {
		return "granted"
	}
	return "denied"
}

// Policy holds the optional hardening knobs. Zero values disable them: no
// attempt cap and codes that never expire.
type Policy struct {
	MaxAttempts int
	CodeTTL     time.Duration
}

// StatusRegistry is the slice of the credential store the gate drives.
type StatusRegistry interface {
	Status(sessionID, credentialID string) vault.Status
	SetPending(sessionID, credentialID string)
	ClearPending(sessionID, credentialID string)
	MarkUnlocked(sessionID, credentialID string)
}

type pairKey struct {
	sessionID    string
	credentialID string
}

// pending is the gate's bookkeeping for one in-progress verification. The
// epoch is bumped on every new dispatch and on cancellation, so a dispatch
// that completes after a Cancel finds a stale epoch and applies nothing.
type pending struct {
	epoch     uint64
	attempts  int
	expiresAt time.Time
}

// Gate moves a credential through Locked, PendingCode and Unlocked for one
// session. All status transitions go through the registry; the gate itself
// only remembers dispatch epochs, attempt counts and code expiry.
type Gate struct {
	mu         sync.Mutex
	states     map[pairKey]*pending
	statuses   StatusRegistry
	dispatcher Dispatcher
	policy     Policy
	logger     logging.Logger
	now        func() time.Time
}

func NewGate(statuses StatusRegistry, dispatcher Dispatcher, policy Policy, logger logging.Logger) *Gate {
	return &Gate{
		states:     make(map[pairKey]*pending),
		statuses:   statuses,
		dispatcher: dispatcher,
		policy:     policy,
		logger:     logger.With("module", "verification_gate"),
		now:        time.Now,
	}
}

// RequestCode dispatches the credential's code to recipient and, on
// success, marks the credential PendingCode for the session. Already
// Unlocked is a no-op; already PendingCode re-dispatches without a second
// logical transition. A failed dispatch leaves the status where it was and
// returns common.ErrIssuerDispatchFailed.
//
// The dispatch itself runs outside the gate lock. Its result is applied
// only if the epoch captured before dispatching is still current, so a
// Cancel racing an in-flight dispatch can never resurrect the pending
// state.
func (g *Gate) RequestCode(ctx context.Context, sessionID, recipient string, cred *vault.Credential) error {
	key := pairKey{sessionID, cred.ID}

	g.mu.Lock()
	if g.statuses.Status(sessionID, cred.ID) == vault.Unlocked {
		g.mu.Unlock()
		return nil
	}
	st := g.states[key]
	if st == nil {
		st = &pending{}
		g.states[key] = st
	}
	st.epoch++
	epoch := st.epoch
	g.mu.Unlock()

	dispatchErr := g.dispatcher.DispatchCode(ctx, recipient, cred.VerificationCode, cred.Title)

	g.mu.Lock()
	defer g.mu.Unlock()

	if cur := g.states[key]; cur != st || st.epoch != epoch {
		// Cancelled or superseded while the dispatch was in flight.
		return nil
	}

	if dispatchErr != nil {
		g.logger.Error(ctx, "verification code dispatch failed",
			"credential_id", cred.ID, "error", dispatchErr)
		if g.statuses.Status(sessionID, cred.ID) != vault.PendingCode {
			delete(g.states, key)
		}
		return fmt.Errorf("%w: %v", common.ErrIssuerDispatchFailed, dispatchErr)
	}

	st.attempts = 0
	if g.policy.CodeTTL > 0 {
		st.expiresAt = g.now().Add(g.policy.CodeTTL)
	}
	g.statuses.SetPending(sessionID, cred.ID)
	g.logger.Info(ctx, "verification code dispatched", "credential_id", cred.ID)
	return nil
}

// Submit checks candidate against the credential's code. An exact match
// unlocks the credential; anything else is Denied and the pending state
// survives for another attempt, subject to the policy. Submitting against
// an already unlocked credential is Granted without further effect;
// submitting when nothing is pending fails with
// common.ErrVerificationRequired.
func (g *Gate) Submit(ctx context.Context, sessionID string, cred *vault.Credential, candidate string) (Verdict, error) {
	key := pairKey{sessionID, cred.ID}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.statuses.Status(sessionID, cred.ID) {
	case vault.Unlocked:
		return Granted, nil
	case vault.Locked:
		return Denied, common.ErrVerificationRequired
	}

	st := g.states[key]

	if st != nil && !st.expiresAt.IsZero() && g.now().After(st.expiresAt) {
		g.drop(key, sessionID, cred.ID)
		g.logger.Info(ctx, "verification code expired", "credential_id", cred.ID)
		return Denied, fmt.Errorf("verification code expired: %w", common.ErrVerificationRequired)
	}

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(cred.VerificationCode)) == 1 {
		if st != nil {
			st.epoch++
		}
		delete(g.states, key)
		g.statuses.MarkUnlocked(sessionID, cred.ID)
		g.logger.Info(ctx, "credential unlocked", "credential_id", cred.ID)
		return Granted, nil
	}

	if st != nil {
		st.attempts++
		if g.policy.MaxAttempts > 0 && st.attempts >= g.policy.MaxAttempts {
			g.drop(key, sessionID, cred.ID)
			g.logger.Warn(ctx, "verification attempt limit reached", "credential_id", cred.ID)
			return Denied, fmt.Errorf("attempt limit reached: %w", common.ErrVerificationMismatch)
		}
	}
	return Denied, common.ErrVerificationMismatch
}

// Cancel aborts a pending verification and relocks the credential. Safe to
// call in any state.
func (g *Gate) Cancel(sessionID, credentialID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drop(pairKey{sessionID, credentialID}, sessionID, credentialID)
}

// drop relocks the pair and invalidates any in-flight dispatch. Callers
// hold g.mu.
func (g *Gate) drop(key pairKey, sessionID, credentialID string) {
	if st := g.states[key]; st != nil {
		st.epoch++
		delete(g.states, key)
	}
	g.statuses.ClearPending(sessionID, credentialID)
}
