package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/securestash/securestash/internal/auth"
	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/session"
)

type ctxKey int

const sessionKey ctxKey = iota

// withSession authenticates the request: a valid bearer token must resolve
// to a live session holding that exact token. A token whose session was
// logged out is rejected even if the token itself has not expired yet.
func (a *API) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			a.writeError(w, r, common.ErrUnauthorized)
			return
		}

		claims, err := auth.ParseToken(tokenString, a.secretKey)
		if err != nil {
			a.writeError(w, r, common.ErrInvalidToken)
			return
		}

		sess := a.sessions.Get(r.Context(), claims.SessionID)
		if sess == nil || sess.Token != tokenString {
			a.writeError(w, r, common.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
	})
}

// sessionFrom returns the session placed in the context by withSession.
func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionKey).(*session.Session)
	return sess
}
