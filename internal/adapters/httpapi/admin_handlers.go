package httpapi

import (
	"MediVerify/internal/core/domain"
	"fmt"
	"net/http"
)

// GET /admin/verifications?status=under_review&limit=&offset=
func (a *API) listRequests(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := domain.VerificationFilter{Limit: limit, Offset: offset}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.DoctorVerificationStatus(s)
		if !status.Valid() {
			writeError(w, r, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, s))
			return
		}
		filter.Status = &status
	}

	reqs, err := a.verifications.ListRequests(r.Context(), sessionFrom(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]requestResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, newRequestResponse(req))
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": out})
}

// POST /admin/verifications/{id}/review
func (a *API) reviewRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reviewRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	v, err := a.verifications.Review(r.Context(), sessionFrom(r.Context()), id, domain.DoctorVerificationStatus(req.Decision), req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVerificationResponse(v))
}

// POST /admin/verifications/{id}/reopen
func (a *API) reopenRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reopenRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	v, err := a.verifications.Reopen(r.Context(), sessionFrom(r.Context()), id, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVerificationResponse(v))
}

// GET /admin/stats
func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	s, err := a.verifications.Stats(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// POST /admin/abha/{id}/verify
func (a *API) markAbhaVerified(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := a.abha.MarkVerified(r.Context(), sessionFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAbhaResponse(v))
}
