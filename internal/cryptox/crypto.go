// Package cryptox implements the password-verification primitives used by
// account sign-in: an Argon2id key derivation and a one-way verifier over
// the derived key. Only the salt and the verifier are ever persisted.
package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

// DeriveKey stretches a password with the given salt using Argon2id.
// The parameters (1 pass, 64 MiB, 4 lanes, 32-byte key) follow the
// RFC 9106 low-memory recommendation.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key into the value stored server-side.
// Storing a hash of the key rather than the key itself means a leaked
// verifier cannot be replayed as a credential.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}
