package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DoctorVerificationStatus is a custom type for our state machine ENUM
type DoctorVerificationStatus string

const (
	DoctorPending     DoctorVerificationStatus = "pending"
	DoctorUnderReview DoctorVerificationStatus = "under_review"
	DoctorApproved    DoctorVerificationStatus = "approved"
	DoctorRejected    DoctorVerificationStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s DoctorVerificationStatus) Valid() bool {
	switch s {
	case DoctorPending, DoctorUnderReview, DoctorApproved, DoctorRejected:
		return true
	}
	return false
}

// IsTerminal reports whether a reviewer has already decided.
func (s DoctorVerificationStatus) IsTerminal() bool {
	return s == DoctorApproved || s == DoctorRejected
}

// Document describes one uploaded credential file.
type Document struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Size     int64  `json:"size"`
	Location string `json:"location"`
}

// DoctorVerification tracks the credential review of one doctor.
type DoctorVerification struct {
	ID            uuid.UUID
	DoctorID      uuid.UUID
	Status        DoctorVerificationStatus
	Documents     []Document
	SubmittedAt   *time.Time
	ReviewedAt    *time.Time // Nullable, set together with ReviewerID
	ReviewerID    *uuid.UUID
	ReviewerNotes *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewDoctorVerification returns the implicit initial record for a doctor
// who has not submitted anything yet.
func NewDoctorVerification(doctorID uuid.UUID) *DoctorVerification {
	return &DoctorVerification{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Status:    DoctorPending,
		Documents: []Document{},
	}
}

// Submit attaches documents and moves the record under review.
// Approved records must be reopened before they can be resubmitted.
func (v *DoctorVerification) Submit(docs []Document, now time.Time) error {
	if len(docs) == 0 {
		return validationErr("at least one document is required")
	}
	for i, d := range docs {
		if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Location) == "" {
			return validationErr("document %d needs a name and a location", i)
		}
		if d.Size < 0 {
			return validationErr("document %d has a negative size", i)
		}
	}
	if v.Status == DoctorApproved {
		return stateErr("verification already approved")
	}

	v.Status = DoctorUnderReview
	v.Documents = append([]Document(nil), docs...)
	v.SubmittedAt = &now
	// A resubmission starts a fresh review.
	v.ReviewedAt = nil
	v.ReviewerID = nil
	v.ReviewerNotes = nil
	return nil
}

// Review records a reviewer decision on a pending or under-review record.
func (v *DoctorVerification) Review(reviewerID uuid.UUID, decision DoctorVerificationStatus, notes *string, now time.Time) error {
	if decision != DoctorApproved && decision != DoctorRejected {
		return validationErr("decision must be %q or %q", DoctorApproved, DoctorRejected)
	}
	if reviewerID == uuid.Nil {
		return validationErr("reviewer id is required")
	}
	if v.Status.IsTerminal() {
		return stateErr("verification already %s", v.Status)
	}

	v.Status = decision
	v.ReviewedAt = &now
	v.ReviewerID = &reviewerID
	v.ReviewerNotes = notes
	return nil
}

// Reopen moves a decided record back to pending so it can be
// resubmitted and reviewed again.
func (v *DoctorVerification) Reopen(notes *string) error {
	if !v.Status.IsTerminal() {
		return stateErr("only approved or rejected verifications can be reopened, got %s", v.Status)
	}
	v.Status = DoctorPending
	v.ReviewedAt = nil
	v.ReviewerID = nil
	v.ReviewerNotes = notes
	return nil
}

// VerificationRequest is a verification joined with the data a
// reviewer needs to decide on it.
type VerificationRequest struct {
	Verification *DoctorVerification
	Profile      *DoctorProfile // Nullable if the doctor never saved a profile
	Doctor       *User
}

// VerificationFilter narrows an admin listing.
type VerificationFilter struct {
	Status *DoctorVerificationStatus
	Limit  int
	Offset int
}

// VerificationStats summarises the review queue.
type VerificationStats struct {
	Pending         int `json:"pending_verifications"`
	UnderReview     int `json:"under_review"`
	Approved        int `json:"approved"`
	Rejected        int `json:"rejected"`
	VerifiedDoctors int `json:"verified_doctors"`
	TotalPatients   int `json:"total_patients"`
	TotalDoctors    int `json:"total_doctors"`
}
