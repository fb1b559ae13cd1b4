package httpapi

import (
	"MediVerify/internal/core/domain"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type errorBody struct {
	Error             string `json:"error"`
	Code              string `json:"code"`
	RemainingAttempts *int   `json:"remaining_attempts,omitempty"`
	RequestID         string `json:"request_id,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: InvalidCodeError must match before generic validation.
var errorTable = []errorMapping{
	{domain.ErrInvalidCode, http.StatusBadRequest, "invalid_code", "The code is incorrect."},
	{domain.ErrValidation, http.StatusBadRequest, "validation_failed", ""},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "Sign in to continue."},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden", "You are not allowed to do this."},
	{domain.ErrNotSubmitted, http.StatusNotFound, "not_submitted", "Nothing has been submitted yet."},
	{domain.ErrNotFound, http.StatusNotFound, "not_found", ""},
	{domain.ErrExpired, http.StatusGone, "otp_expired", "The code has expired. Request a new one."},
	{domain.ErrAttemptsExceeded, http.StatusTooManyRequests, "attempts_exceeded", "Too many wrong codes. Request a new one."},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "rate_limited", "Too many requests. Try again later."},
	{domain.ErrConflict, http.StatusConflict, "conflict", ""},
	{domain.ErrInvalidState, http.StatusConflict, "invalid_state", "This action is not allowed in the current state."},
	{domain.ErrDelivery, http.StatusBadGateway, "delivery_failed", "The code could not be delivered. Try again."},
}

// writeError maps a service error to its HTTP status and message. An
// empty message passes the wrapped error text through; those errors only
// carry client-facing detail. Anything unmapped, including
// ErrPersistence, is a 500 with no detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{RequestID: middleware.GetReqID(r.Context())}
	status := http.StatusInternalServerError
	body.Code = "internal"
	body.Error = "Something went wrong."

	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			status = m.status
			body.Code = m.code
			body.Error = m.message
			if body.Error == "" {
				body.Error = err.Error()
			}
			break
		}
	}
	if remaining, ok := domain.RemainingAttempts(err); ok {
		body.RemainingAttempts = &remaining
	}

	log := zerolog.Ctx(r.Context())
	if status >= 500 {
		log.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	writeJSON(w, status, body)
}
