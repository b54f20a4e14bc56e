// Package identity manages user accounts: registration, sign-in
// verification, and the public identity handed to sessions.
package identity

import "time"

// DefaultAvatarURL is used when an account has no avatar of its own.
const DefaultAvatarURL = "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?auto=format&fit=crop&q=80&w=100"

// Identity is the public view of an account, carried inside a session.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	// AccountID is the stable public handle ("SS" + 8 random characters),
	// generated once at registration and never regenerated.
	AccountID string `json:"accountId"`
	AvatarURL string `json:"avatarUrl"`
}

// Account is the stored record behind an Identity. Salt and Verifier hold
// the Argon2id sign-in material; the password itself is never persisted.
type Account struct {
	Identity
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
