package httpapi

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/services"
	"context"

	"github.com/google/uuid"
)

// The interfaces below are the service surface the HTTP layer calls.
// *services.XService satisfy them.

type DoctorVerifications interface {
	Submit(ctx context.Context, sess domain.Session, docs []domain.Document) (*domain.DoctorVerification, error)
	Query(ctx context.Context, sess domain.Session, doctorID uuid.UUID) (*domain.DoctorVerification, error)
	Review(ctx context.Context, sess domain.Session, id uuid.UUID, decision domain.DoctorVerificationStatus, notes *string) (*domain.DoctorVerification, error)
	Reopen(ctx context.Context, sess domain.Session, id uuid.UUID, notes *string) (*domain.DoctorVerification, error)
	ListRequests(ctx context.Context, sess domain.Session, filter domain.VerificationFilter) ([]*domain.VerificationRequest, error)
	Stats(ctx context.Context, sess domain.Session) (*domain.VerificationStats, error)
}

type DoctorProfiles interface {
	Save(ctx context.Context, sess domain.Session, p *domain.DoctorProfile) (*domain.DoctorProfile, error)
	Get(ctx context.Context, sess domain.Session, doctorID uuid.UUID) (*domain.DoctorProfile, error)
	ListBookable(ctx context.Context, sess domain.Session, limit, offset int) ([]*domain.DoctorProfile, error)
}

type AadhaarVerifications interface {
	SendOtp(ctx context.Context, sess domain.Session, number string) (*services.OTPIssue, error)
	VerifyOtp(ctx context.Context, sess domain.Session, code string) (*domain.AadhaarVerification, error)
	Status(ctx context.Context, sess domain.Session) (*domain.AadhaarVerification, error)
}

type AbhaVerifications interface {
	Initiate(ctx context.Context, sess domain.Session, abhaID string) (*domain.AbhaVerification, error)
	MarkVerified(ctx context.Context, sess domain.Session, id uuid.UUID) (*domain.AbhaVerification, error)
	Status(ctx context.Context, sess domain.Session) (*domain.AbhaVerification, error)
}

type Accounts interface {
	Register(ctx context.Context, sess domain.Session, in services.AccountInput) (*domain.User, error)
	Me(ctx context.Context, sess domain.Session) (*domain.User, error)
	IssueTelegramLink(ctx context.Context, sess domain.Session) (*services.TelegramLinkIssue, error)
}

var (
	_ Accounts             = (*services.AccountService)(nil)
	_ DoctorVerifications  = (*services.DoctorVerificationService)(nil)
	_ DoctorProfiles       = (*services.DoctorProfileService)(nil)
	_ AadhaarVerifications = (*services.AadhaarService)(nil)
	_ AbhaVerifications    = (*services.AbhaService)(nil)
)
