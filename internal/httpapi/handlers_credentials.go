package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/securestash/securestash/internal/common"
	"github.com/securestash/securestash/internal/vault"
)

type viewResponse struct {
	Status     string            `json:"status"`
	Credential *vault.Credential `json:"credential,omitempty"`
}

type verdictResponse struct {
	Verdict string `json:"verdict"`
}

func categoryParam(r *http.Request) (vault.Category, error) {
	return vault.ParseCategory(chi.URLParam(r, "category"))
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	rows, err := a.control.List(r.Context(), sessionFrom(r), category)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) handleAdd(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	var draft vault.Draft
	if err := decodeBody(r, &draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if draft.Title == "" || draft.VerificationCode == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "title and verificationCode are required"})
		return
	}

	cred, err := a.control.Add(r.Context(), sessionFrom(r), category, draft)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cred)
}

// handleView either returns the unlocked credential or reports that a
// verification code is on its way.
func (a *API) handleView(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	res, err := a.control.View(r.Context(), sessionFrom(r), category, chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	if res.PendingVerification {
		writeJSON(w, http.StatusAccepted, viewResponse{Status: "pending_verification"})
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{Status: "ok", Credential: res.Credential})
}

type verifyRequest struct {
	Code string `json:"code"`
}

func (a *API) handleVerify(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	verdict, err := a.control.SubmitCode(r.Context(), sessionFrom(r), category, chi.URLParam(r, "id"), req.Code)
	if err != nil && !errors.Is(err, common.ErrVerificationMismatch) {
		a.writeError(w, r, err)
		return
	}

	// A mismatch is a regular denied verdict, not a transport error.
	writeJSON(w, http.StatusOK, verdictResponse{Verdict: verdict.String()})
}

func (a *API) handleCancel(w http.ResponseWriter, r *http.Request) {
	a.control.CancelVerification(sessionFrom(r), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleEdit(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	var patch vault.Patch
	if err := decodeBody(r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	cred, err := a.control.Edit(r.Context(), sessionFrom(r), category, chi.URLParam(r, "id"), patch)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cred)
}

func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	if err := a.control.Delete(r.Context(), sessionFrom(r), category, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
