package httpapi

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/securestash/securestash/internal/auth"
	"github.com/securestash/securestash/internal/session"
)

type signUpRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token   string           `json:"token"`
	Session *session.Session `json:"session"`
}

func (a *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "email and password are required"})
		return
	}

	account, err := a.identities.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	a.logger.Info(r.Context(), "account registered", "account_id", account.AccountID)
	writeJSON(w, http.StatusCreated, account.Identity)
}

func (a *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	account, err := a.identities.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	// The session id goes into the token claims, so it is minted before the
	// session itself.
	sessionID := uuid.NewString()
	token, err := auth.GenerateToken(sessionID, account.AccountID, a.secretKey, a.tokenTTL)
	if err != nil {
		a.writeError(w, r, fmt.Errorf("token generation failed: %w", err))
		return
	}

	sess, err := a.sessions.SetAuth(r.Context(), sessionID, account.Identity, token)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, signInResponse{Token: token, Session: sess})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := a.control.Logout(r.Context(), sessionFrom(r)); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r))
}

type verificationEmailRequest struct {
	Email string `json:"email"`
}

func (a *API) handleSetVerificationEmail(w http.ResponseWriter, r *http.Request) {
	var req verificationEmailRequest
	if err := decodeBody(r, &req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "email is required"})
		return
	}

	if err := a.sessions.SetVerificationEmail(r.Context(), sessionFrom(r).ID, req.Email); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
