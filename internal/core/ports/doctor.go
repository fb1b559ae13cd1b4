package ports

import (
	"MediVerify/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// DoctorProfileRepository persists the bookable doctor profiles.
type DoctorProfileRepository interface {
	// Upsert inserts or replaces the editable fields of a profile.
	// IsVerified is never changed by Upsert.
	Upsert(ctx context.Context, profile *domain.DoctorProfile) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.DoctorProfile, error)

	// SetVerified flips the public visibility flag.
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error

	// ListVerified returns the profiles patients may book.
	ListVerified(ctx context.Context, limit, offset int) ([]*domain.DoctorProfile, error)

	CountVerified(ctx context.Context) (int, error)
}

// DoctorVerificationRepository persists credential reviews, one per doctor.
type DoctorVerificationRepository interface {
	GetByDoctorID(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorVerification, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DoctorVerification, error)

	// LockByDoctorID and LockByID read the row FOR UPDATE and must be
	// called inside TxManager.WithinTx.
	LockByDoctorID(ctx context.Context, doctorID uuid.UUID) (*domain.DoctorVerification, error)
	LockByID(ctx context.Context, id uuid.UUID) (*domain.DoctorVerification, error)

	// Upsert inserts or replaces the record keyed by doctor id.
	Upsert(ctx context.Context, v *domain.DoctorVerification) error

	ListRequests(ctx context.Context, filter domain.VerificationFilter) ([]*domain.VerificationRequest, error)
	CountByStatus(ctx context.Context) (map[domain.DoctorVerificationStatus]int, error)
}
