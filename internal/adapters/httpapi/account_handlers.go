package httpapi

import (
	"MediVerify/internal/core/services"
	"net/http"
)

// GET /me
func (a *API) getMe(w http.ResponseWriter, r *http.Request) {
	u, err := a.accounts.Me(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(u))
}

// PUT /me registers the token's subject on first call. The verification
// routes need this row to exist.
func (a *API) saveMe(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := a.accounts.Register(r.Context(), sessionFrom(r.Context()), services.AccountInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(u))
}

// POST /me/telegram
func (a *API) issueTelegramLink(w http.ResponseWriter, r *http.Request) {
	issue, err := a.accounts.IssueTelegramLink(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, telegramLinkResponse{
		Token:        issue.Token,
		StartCommand: "/start " + issue.Token,
		ExpiresAt:    issue.ExpiresAt,
	})
}
