package httpapi

import (
	"net/http"
)

// GET /identity/aadhaar
func (a *API) aadhaarStatus(w http.ResponseWriter, r *http.Request) {
	v, err := a.aadhaar.Status(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAadhaarResponse(v))
}

// POST /identity/aadhaar/otp
func (a *API) sendAadhaarOtp(w http.ResponseWriter, r *http.Request) {
	var req sendOtpRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	issue, err := a.aadhaar.SendOtp(r.Context(), sessionFrom(r.Context()), req.AadhaarNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := newAadhaarResponse(issue.Verification)
	if a.devOTP {
		resp.DevOTP = issue.Code
	}
	writeJSON(w, http.StatusCreated, resp)
}

// POST /identity/aadhaar/verify
func (a *API) verifyAadhaarOtp(w http.ResponseWriter, r *http.Request) {
	var req verifyOtpRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	v, err := a.aadhaar.VerifyOtp(r.Context(), sessionFrom(r.Context()), req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAadhaarResponse(v))
}

// GET /identity/abha
func (a *API) abhaStatus(w http.ResponseWriter, r *http.Request) {
	v, err := a.abha.Status(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAbhaResponse(v))
}

// POST /identity/abha
func (a *API) initiateAbha(w http.ResponseWriter, r *http.Request) {
	var req abhaRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	v, err := a.abha.Initiate(r.Context(), sessionFrom(r.Context()), req.AbhaID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, newAbhaResponse(v))
}
