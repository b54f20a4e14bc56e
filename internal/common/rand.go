package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// accountIDPrefix and accountIDLength define the shape of public account
// handles, e.g. "SS7K2QX9ZM".
const (
	accountIDPrefix = "SS"
	accountIDLength = 8

	accountIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes to generate, so the
// resulting string is twice as long. It returns an error if the random number
// generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns a slice of cryptographically random bytes.
// It panics if the system RNG is unavailable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// GenerateAccountID produces a public account handle: the fixed prefix
// followed by random upper-case alphanumeric characters. Handles are
// generated once per account and never regenerated.
func GenerateAccountID() (string, error) {
	b := make([]byte, accountIDLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rng failure: %w", err)
	}
	for i := range b {
		b[i] = accountIDCharset[int(b[i])%len(accountIDCharset)]
	}
	return accountIDPrefix + string(b), nil
}
