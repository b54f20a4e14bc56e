// Package session holds the authenticated identity and bearer token for
// each signed-in client, persisted as opaque snapshots so sessions survive
// a process restart.
package session

import (
	"time"

	"github.com/securestash/securestash/internal/identity"
)

// Session is the unit of authentication state. A session is authenticated
// iff both the identity and the token are present; there is no intermediate
// state.
type Session struct {
	ID       string             `json:"id"`
	Identity *identity.Identity `json:"identity,omitempty"`
	Token    string             `json:"token,omitempty"`
	// PendingVerificationEmail records an address awaiting account-level
	// (signup) confirmation. It is unrelated to credential verification.
	PendingVerificationEmail string    `json:"pendingVerificationEmail,omitempty"`
	CreatedAt                time.Time `json:"createdAt"`
}

// Authenticated reports whether the session carries a complete auth state.
func (s *Session) Authenticated() bool {
	return s != nil && s.Identity != nil && s.Token != ""
}
