package httpapi

import (
	"MediVerify/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// --- Requests ---

type documentRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Kind     string `json:"kind" validate:"required,max=64"`
	Size     int64  `json:"size" validate:"gte=0"`
	Location string `json:"location" validate:"required,max=2048"`
}

type submitVerificationRequest struct {
	Documents []documentRequest `json:"documents" validate:"required,min=1,max=20,dive"`
}

type profileRequest struct {
	LicenseNumber   string  `json:"license_number" validate:"required,max=64"`
	Specialization  *string `json:"specialization" validate:"omitempty,max=128"`
	Qualification   *string `json:"qualification" validate:"omitempty,max=256"`
	ExperienceYears *int    `json:"experience_years" validate:"omitempty,gte=0,lte=80"`
	ConsultationFee *int64  `json:"consultation_fee" validate:"omitempty,gte=0"`
}

type reviewRequest struct {
	Decision string  `json:"decision" validate:"required,oneof=approved rejected"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

type reopenRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

type accountRequest struct {
	FullName string  `json:"full_name" validate:"required,max=200"`
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
	Phone    *string `json:"phone" validate:"omitempty,max=16"`
}

// Identifier formats are checked by the domain so the error text is the
// same for every transport.
type sendOtpRequest struct {
	AadhaarNumber string `json:"aadhaar_number" validate:"required"`
}

type verifyOtpRequest struct {
	Code string `json:"code" validate:"required"`
}

type abhaRequest struct {
	AbhaID string `json:"abha_id" validate:"required"`
}

// --- Responses ---

type verificationResponse struct {
	ID            uuid.UUID                       `json:"id"`
	DoctorID      uuid.UUID                       `json:"doctor_id"`
	Status        domain.DoctorVerificationStatus `json:"status"`
	Documents     []domain.Document               `json:"documents"`
	SubmittedAt   *time.Time                      `json:"submitted_at,omitempty"`
	ReviewedAt    *time.Time                      `json:"reviewed_at,omitempty"`
	ReviewerID    *uuid.UUID                      `json:"reviewer_id,omitempty"`
	ReviewerNotes *string                         `json:"reviewer_notes,omitempty"`
	UpdatedAt     time.Time                       `json:"updated_at"`
}

func newVerificationResponse(v *domain.DoctorVerification) verificationResponse {
	docs := v.Documents
	if docs == nil {
		docs = []domain.Document{}
	}
	return verificationResponse{
		ID:            v.ID,
		DoctorID:      v.DoctorID,
		Status:        v.Status,
		Documents:     docs,
		SubmittedAt:   v.SubmittedAt,
		ReviewedAt:    v.ReviewedAt,
		ReviewerID:    v.ReviewerID,
		ReviewerNotes: v.ReviewerNotes,
		UpdatedAt:     v.UpdatedAt,
	}
}

type profileResponse struct {
	ID              uuid.UUID `json:"id"`
	LicenseNumber   string    `json:"license_number"`
	Specialization  *string   `json:"specialization,omitempty"`
	Qualification   *string   `json:"qualification,omitempty"`
	ExperienceYears *int      `json:"experience_years,omitempty"`
	ConsultationFee *int64    `json:"consultation_fee,omitempty"`
	IsVerified      bool      `json:"is_verified"`
}

func newProfileResponse(p *domain.DoctorProfile) profileResponse {
	return profileResponse{
		ID:              p.ID,
		LicenseNumber:   p.LicenseNumber,
		Specialization:  p.Specialization,
		Qualification:   p.Qualification,
		ExperienceYears: p.ExperienceYears,
		ConsultationFee: p.ConsultationFee,
		IsVerified:      p.IsVerified,
	}
}

type requestResponse struct {
	Verification verificationResponse `json:"verification"`
	Profile      *profileResponse     `json:"profile,omitempty"`
	DoctorName   string               `json:"doctor_name"`
	DoctorEmail  *string              `json:"doctor_email,omitempty"`
}

func newRequestResponse(req *domain.VerificationRequest) requestResponse {
	out := requestResponse{Verification: newVerificationResponse(req.Verification)}
	if req.Profile != nil {
		p := newProfileResponse(req.Profile)
		out.Profile = &p
	}
	if req.Doctor != nil {
		out.DoctorName = req.Doctor.FullName
		out.DoctorEmail = req.Doctor.Email
	}
	return out
}

// aadhaarResponse never carries the full number.
type aadhaarResponse struct {
	ID                uuid.UUID             `json:"id"`
	MaskedNumber      string                `json:"masked_number"`
	Status            domain.IdentityStatus `json:"status"`
	ExpiresAt         time.Time             `json:"expires_at"`
	AttemptsRemaining int                   `json:"attempts_remaining"`
	VerifiedAt        *time.Time            `json:"verified_at,omitempty"`
	DevOTP            string                `json:"dev_otp,omitempty"`
}

func newAadhaarResponse(v *domain.AadhaarVerification) aadhaarResponse {
	remaining := domain.MaxOTPAttempts - v.AttemptsCount
	if remaining < 0 {
		remaining = 0
	}
	return aadhaarResponse{
		ID:                v.ID,
		MaskedNumber:      v.Masked(),
		Status:            v.Status,
		ExpiresAt:         v.ExpiresAt,
		AttemptsRemaining: remaining,
		VerifiedAt:        v.VerifiedAt,
	}
}

type abhaResponse struct {
	ID                uuid.UUID             `json:"id"`
	AbhaID            string                `json:"abha_id"`
	Status            domain.IdentityStatus `json:"status"`
	VerificationToken uuid.UUID             `json:"verification_token"`
	VerifiedAt        *time.Time            `json:"verified_at,omitempty"`
}

func newAbhaResponse(v *domain.AbhaVerification) abhaResponse {
	return abhaResponse{
		ID:                v.ID,
		AbhaID:            v.AbhaID,
		Status:            v.Status,
		VerificationToken: v.VerificationToken,
		VerifiedAt:        v.VerifiedAt,
	}
}

// accountResponse leaves out the phone; it is only used for delivery.
type accountResponse struct {
	ID             uuid.UUID   `json:"id"`
	FullName       string      `json:"full_name"`
	Email          *string     `json:"email,omitempty"`
	Role           domain.Role `json:"role"`
	TelegramLinked bool        `json:"telegram_linked"`
}

func newAccountResponse(u *domain.User) accountResponse {
	return accountResponse{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		Role:           u.Role,
		TelegramLinked: u.TelegramChatID != nil,
	}
}

type telegramLinkResponse struct {
	Token        string    `json:"token"`
	StartCommand string    `json:"start_command"`
	ExpiresAt    time.Time `json:"expires_at"`
}
