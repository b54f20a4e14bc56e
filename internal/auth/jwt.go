// Package auth issues and validates the bearer tokens that carry a session
// identity between the web front end and the API.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/securestash/securestash/internal/common"
)

// Claims carries the standard registered claims plus the session and account
// identifiers the API needs to resolve a request back to a live session.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string
	AccountID string
}

// GenerateToken signs an HS256 token binding sessionID and accountID for the
// given validity duration.
func GenerateToken(sessionID, accountID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		SessionID: sessionID,
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates the signature and expiry of tokenString and returns
// its claims. Expired tokens return common.ErrInvalidToken like any other
// invalid input; the caller does not need to distinguish.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
