package domain

import (
	"time"

	"github.com/google/uuid"
)

// AbhaVerification tracks a subject's ABHA id. There is no OTP; an
// external authority confirms it out of band.
type AbhaVerification struct {
	ID                uuid.UUID
	SubjectID         uuid.UUID
	AbhaID            string
	Status            IdentityStatus
	VerificationToken uuid.UUID
	Attempts          int
	VerifiedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewAbhaVerification returns a pending record with a fresh token.
func NewAbhaVerification(subjectID uuid.UUID, abhaID string) *AbhaVerification {
	return &AbhaVerification{
		ID:                uuid.New(),
		SubjectID:         subjectID,
		AbhaID:            abhaID,
		Status:            IdentityPending,
		VerificationToken: uuid.New(),
	}
}

// MarkVerified moves a pending record to verified.
func (a *AbhaVerification) MarkVerified(now time.Time) error {
	if a.Status != IdentityPending {
		return stateErr("abha verification is %s, not pending", a.Status)
	}
	a.Status = IdentityVerified
	a.VerifiedAt = &now
	return nil
}
