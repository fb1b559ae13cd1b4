package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdentityStatus is shared by the Aadhaar and ABHA records.
type IdentityStatus string

const (
	IdentityPending  IdentityStatus = "pending"
	IdentityVerified IdentityStatus = "verified"
	IdentityFailed   IdentityStatus = "failed"
	IdentityExpired  IdentityStatus = "expired"
)

const (
	OTPTTL         = 10 * time.Minute
	MaxOTPAttempts = 3
	OTPDigits      = 6
)

// AadhaarVerification is one OTP issuance for a subject's Aadhaar number.
type AadhaarVerification struct {
	ID            uuid.UUID
	SubjectID     uuid.UUID
	AadhaarNumber string // Plaintext in memory, encrypted at rest
	CodeHash      string
	Status        IdentityStatus
	ExpiresAt     time.Time
	AttemptsCount int
	LastAttemptAt *time.Time
	VerifiedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAadhaarVerification builds a fresh pending issuance.
func NewAadhaarVerification(subjectID uuid.UUID, number, codeHash string, now time.Time) *AadhaarVerification {
	return &AadhaarVerification{
		ID:            uuid.New(),
		SubjectID:     subjectID,
		AadhaarNumber: number,
		CodeHash:      codeHash,
		Status:        IdentityPending,
		ExpiresAt:     now.Add(OTPTTL),
		AttemptsCount: 0,
	}
}

// Masked returns the display form of the Aadhaar number.
func (a *AadhaarVerification) Masked() string {
	return MaskIdentifier(a.AadhaarNumber)
}

// Attempt applies one code submission. Status, expiry and the attempt
// cap are checked before the code is looked at, so an expired record
// expires whatever was typed. A code that is not six digits is then
// rejected without using up an attempt, and match is only called for a
// well-formed code.
// The returned error describes the outcome; the record is mutated in
// every case that changes state, so callers persist it before
// returning the error.
func (a *AadhaarVerification) Attempt(now time.Time, code string, match func(code string) bool) (changed bool, err error) {
	switch a.Status {
	case IdentityVerified:
		return false, stateErr("aadhaar already verified")
	case IdentityFailed:
		return false, ErrAttemptsExceeded
	case IdentityExpired:
		return false, ErrExpired
	}

	if now.After(a.ExpiresAt) {
		a.Status = IdentityExpired
		return true, ErrExpired
	}
	if a.AttemptsCount >= MaxOTPAttempts {
		a.Status = IdentityFailed
		return true, ErrAttemptsExceeded
	}

	if err := ValidateOTPCode(code); err != nil {
		return false, err
	}

	if match(code) {
		a.Status = IdentityVerified
		a.VerifiedAt = &now
		a.LastAttemptAt = &now
		return true, nil
	}

	a.AttemptsCount++
	a.LastAttemptAt = &now
	if a.AttemptsCount >= MaxOTPAttempts {
		a.Status = IdentityFailed
		return true, ErrAttemptsExceeded
	}
	return true, &InvalidCodeError{Remaining: MaxOTPAttempts - a.AttemptsCount}
}
