package ports

import (
	"MediVerify/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// AadhaarRepository persists OTP issuances.
type AadhaarRepository interface {
	// Upsert inserts or replaces the issuance keyed by subject and number.
	// On replace, v.ID is updated to the existing row id.
	Upsert(ctx context.Context, v *domain.AadhaarVerification) error

	// LatestBySubject returns the most recent issuance for a subject.
	LatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AadhaarVerification, error)

	// LockLatestBySubject is LatestBySubject with FOR UPDATE.
	LockLatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AadhaarVerification, error)

	// Update persists status, attempts and timestamps.
	Update(ctx context.Context, v *domain.AadhaarVerification) error
}

// AbhaRepository persists ABHA verifications, one per subject.
type AbhaRepository interface {
	Upsert(ctx context.Context, v *domain.AbhaVerification) error
	GetBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AbhaVerification, error)
	LockByID(ctx context.Context, id uuid.UUID) (*domain.AbhaVerification, error)

	// FindVerifiedByAbhaID returns the record holding abhaID in verified
	// status, if any.
	FindVerifiedByAbhaID(ctx context.Context, abhaID string) (*domain.AbhaVerification, error)

	Update(ctx context.Context, v *domain.AbhaVerification) error
}
