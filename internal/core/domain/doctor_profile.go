package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DoctorProfile is the public, bookable face of a doctor.
// Only profiles with IsVerified are listed to patients.
type DoctorProfile struct {
	ID              uuid.UUID // Same as the doctor's user ID
	LicenseNumber   string
	Specialization  *string
	Qualification   *string
	ExperienceYears *int
	ConsultationFee *int64 // Minor units
	IsVerified      bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the fields a doctor can edit.
func (p *DoctorProfile) Validate() error {
	if strings.TrimSpace(p.LicenseNumber) == "" {
		return validationErr("license number is required")
	}
	if p.ExperienceYears != nil && *p.ExperienceYears < 0 {
		return validationErr("experience years cannot be negative")
	}
	if p.ConsultationFee != nil && *p.ConsultationFee < 0 {
		return validationErr("consultation fee cannot be negative")
	}
	return nil
}
