// Package access is the single entry point for credential operations. It
// enforces the call order the verification workflow requires: reads of
// gated material go through the verification gate, writes demand an
// already-verified credential, and logout tears down both the session and
// its unlock state.
package access

import (
	"context"

	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/logging"
	"github.com/securestash/securestash/internal/session"
	"github.com/securestash/securestash/internal/vault"
	"github.com/securestash/securestash/internal/verification"
)

// ViewResult is the outcome of a view request. Either Credential is set
// (access already verified) or PendingVerification is true (a code was
// dispatched and must be submitted first). Never both.
type ViewResult struct {
	Credential          *vault.Credential
	PendingVerification bool
}

type Controller struct {
	sessions *session.Store
	vault    *vault.Store
	gate     *verification.Gate
	logger   logging.Logger
}

// NewController wires the stores together. Registering the logout hook
// here guarantees that whoever constructs a controller also gets the
// status wipe on logout.
func NewController(sessions *session.Store, v *vault.Store, gate *verification.Gate, logger logging.Logger) *Controller {
	c := &Controller{
		sessions: sessions,
		vault:    v,
		gate:     gate,
		logger:   logger.With("module", "access_controller"),
	}
	sessions.OnLogout(v.ResetSession)
	return c
}

// List returns the category's credential overviews. Listing is ungated:
// titles and timestamps are visible, the payloads are not included.
func (c *Controller) List(ctx context.Context, sess *session.Session, category vault.Category) ([]vault.Overview, error) {
	rows, err := c.vault.List(ctx, sess.Identity.AccountID, category)
	if err != nil {
		return nil, err
	}
	overviews := make([]vault.Overview, 0, len(rows))
	for i := range rows {
		overviews = append(overviews, rows[i].Overview())
	}
	return overviews, nil
}

// Add stores a new credential. Creation is ungated; the new record starts
// Locked like any other.
func (c *Controller) Add(ctx context.Context, sess *session.Session, category vault.Category, draft vault.Draft) (*vault.Credential, error) {
	return c.vault.Add(ctx, sess.Identity.AccountID, category, draft)
}

// View returns the credential if the session has already verified it.
// Otherwise it starts (or re-fires) the verification workflow and reports
// PendingVerification, or surfaces the dispatch failure.
func (c *Controller) View(ctx context.Context, sess *session.Session, category vault.Category, id string) (*ViewResult, error) {
	cred, err := c.vault.Get(ctx, sess.Identity.AccountID, category, id)
	if err != nil {
		return nil, err
	}

	if c.vault.IsVerified(sess.ID, cred.ID) {
		return &ViewResult{Credential: cred}, nil
	}

	if err := c.gate.RequestCode(ctx, sess.ID, c.recipient(sess), cred); err != nil {
		return nil, err
	}
	return &ViewResult{PendingVerification: true}, nil
}

// SubmitCode checks a candidate code for a pending verification.
func (c *Controller) SubmitCode(ctx context.Context, sess *session.Session, category vault.Category, id, code string) (verification.Verdict, error) {
	cred, err := c.vault.Get(ctx, sess.Identity.AccountID, category, id)
	if err != nil {
		return verification.Denied, err
	}
	return c.gate.Submit(ctx, sess.ID, cred, code)
}

// CancelVerification aborts a pending verification and relocks the
// credential for this session.
func (c *Controller) CancelVerification(sess *session.Session, id string) {
	c.gate.Cancel(sess.ID, id)
}

// Edit updates a credential the session has already unlocked. Without a
// prior successful verification the store is not touched at all.
func (c *Controller) Edit(ctx context.Context, sess *session.Session, category vault.Category, id string, patch vault.Patch) (*vault.Credential, error) {
	if !c.vault.IsVerified(sess.ID, id) {
		return nil, common.ErrVerificationRequired
	}
	return c.vault.Edit(ctx, sess.ID, sess.Identity.AccountID, category, id, patch)
}

// Delete removes a credential the session has already unlocked.
func (c *Controller) Delete(ctx context.Context, sess *session.Session, category vault.Category, id string) error {
	if !c.vault.IsVerified(sess.ID, id) {
		return common.ErrVerificationRequired
	}
	return c.vault.Delete(ctx, sess.ID, sess.Identity.AccountID, category, id)
}

// Logout removes the session. The session store's logout hook wipes every
// verification status the session had accumulated, so a later sign-in
// starts with all credentials Locked again.
func (c *Controller) Logout(ctx context.Context, sess *session.Session) error {
	return c.sessions.Logout(ctx, sess.ID)
}

// recipient picks the address verification codes are sent to: the pending
// verification email when one is staged, the account email otherwise.
func (c *Controller) recipient(sess *session.Session) string {
	if sess.PendingVerificationEmail != "" {
		return sess.PendingVerificationEmail
	}
	return sess.Identity.Email
}
