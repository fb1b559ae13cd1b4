package services

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DoctorProfileService manages the editable part of a doctor profile and
// the patient-facing list of bookable doctors.
type DoctorProfileService struct {
	profiles ports.DoctorProfileRepository
	log      zerolog.Logger
}

func NewDoctorProfileService(profiles ports.DoctorProfileRepository, baseLogger *zerolog.Logger) *DoctorProfileService {
	return &DoctorProfileService{
		profiles: profiles,
		log:      baseLogger.With().Str("component", "doctor_profile_service").Logger(),
	}
}

// Save upserts the caller's own profile. The verified flag is owned by
// the review workflow and is ignored here.
func (s *DoctorProfileService) Save(ctx context.Context, sess domain.Session, p *domain.DoctorProfile) (*domain.DoctorProfile, error) {
	if err := sess.RequireRole(domain.RoleDoctor); err != nil {
		return nil, err
	}
	p.ID = sess.UserID
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		s.log.Error().Err(err).Str("doctor_id", p.ID.String()).Msg("Failed to save doctor profile")
		return nil, err
	}
	return s.Get(ctx, sess, p.ID)
}

// Get returns a profile. Unverified profiles are visible only to their
// owner and admins.
func (s *DoctorProfileService) Get(ctx context.Context, sess domain.Session, doctorID uuid.UUID) (*domain.DoctorProfile, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: doctor profile %s", domain.ErrNotFound, doctorID)
	}
	if !p.IsVerified && sess.UserID != doctorID && sess.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: doctor profile %s", domain.ErrNotFound, doctorID)
	}
	return p, nil
}

// ListBookable returns verified doctors only.
func (s *DoctorProfileService) ListBookable(ctx context.Context, sess domain.Session, limit, offset int) ([]*domain.DoctorProfile, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.profiles.ListVerified(ctx, limit, offset)
}
