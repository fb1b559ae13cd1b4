package httpapi

import (
	"MediVerify/internal/core/domain"
	"net/http"
)

// GET /doctor/verification
func (a *API) getMyVerification(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	v, err := a.verifications.Query(r.Context(), sess, sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVerificationResponse(v))
}

// POST /doctor/verification
func (a *API) submitVerification(w http.ResponseWriter, r *http.Request) {
	var req submitVerificationRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	docs := make([]domain.Document, len(req.Documents))
	for i, d := range req.Documents {
		docs[i] = domain.Document{Name: d.Name, Kind: d.Kind, Size: d.Size, Location: d.Location}
	}

	v, err := a.verifications.Submit(r.Context(), sessionFrom(r.Context()), docs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, newVerificationResponse(v))
}

// GET /doctor/profile
func (a *API) getMyProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	p, err := a.profiles.Get(r.Context(), sess, sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(p))
}

// PUT /doctor/profile
func (a *API) saveProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := a.profiles.Save(r.Context(), sessionFrom(r.Context()), &domain.DoctorProfile{
		LicenseNumber:   req.LicenseNumber,
		Specialization:  req.Specialization,
		Qualification:   req.Qualification,
		ExperienceYears: req.ExperienceYears,
		ConsultationFee: req.ConsultationFee,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(p))
}

// GET /doctors lists bookable (verified) doctors.
func (a *API) listDoctors(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	profiles, err := a.profiles.ListBookable(r.Context(), sessionFrom(r.Context()), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, newProfileResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"doctors": out})
}

// GET /doctors/{id}
func (a *API) getDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.profiles.Get(r.Context(), sessionFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(p))
}
