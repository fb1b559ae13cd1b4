package services

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DoctorVerificationService owns the credential review state machine.
type DoctorVerificationService struct {
	tx            ports.TxManager
	verifications ports.DoctorVerificationRepository
	profiles      ports.DoctorProfileRepository
	users         ports.UserRepository
	bus           ports.EventBus
	log           zerolog.Logger
	now           func() time.Time
}

// NewDoctorVerificationService wires the review workflow.
func NewDoctorVerificationService(
	tx ports.TxManager,
	verifications ports.DoctorVerificationRepository,
	profiles ports.DoctorProfileRepository,
	users ports.UserRepository,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *DoctorVerificationService {
	return &DoctorVerificationService{
		tx:            tx,
		verifications: verifications,
		profiles:      profiles,
		users:         users,
		bus:           bus,
		log:           baseLogger.With().Str("component", "doctor_verification_service").Logger(),
		now:           time.Now,
	}
}

// Submit attaches documents to the caller's verification and moves it
// under review, creating the record on first submission.
func (s *DoctorVerificationService) Submit(ctx context.Context, sess domain.Session, docs []domain.Document) (*domain.DoctorVerification, error) {
	if err := sess.RequireRole(domain.RoleDoctor); err != nil {
		return nil, err
	}
	log := s.log.With().Str("doctor_id", sess.UserID.String()).Logger()

	var out *domain.DoctorVerification
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := s.verifications.LockByDoctorID(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if v == nil {
			v = domain.NewDoctorVerification(sess.UserID)
		}
		if err := v.Submit(docs, s.now()); err != nil {
			return err
		}
		if err := s.verifications.Upsert(ctx, v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Verification submission failed")
		return nil, err
	}

	log.Info().Int("documents", len(out.Documents)).Msg("Verification submitted")
	s.publish(ctx, ports.TopicDoctorSubmitted, out)
	return out, nil
}

// Query returns the doctor's current record or ErrNotSubmitted.
// Doctors may only read their own record; admins may read any.
func (s *DoctorVerificationService) Query(ctx context.Context, sess domain.Session, doctorID uuid.UUID) (*domain.DoctorVerification, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	if sess.Role != domain.RoleAdmin && sess.UserID != doctorID {
		return nil, fmt.Errorf("%w: cannot read another doctor's verification", domain.ErrForbidden)
	}

	v, err := s.verifications.GetByDoctorID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotSubmitted
	}
	return v, nil
}

// Review records an admin decision. Approval flips the doctor's public
// profile flag in the same transaction.
func (s *DoctorVerificationService) Review(
	ctx context.Context,
	sess domain.Session,
	verificationID uuid.UUID,
	decision domain.DoctorVerificationStatus,
	notes *string,
) (*domain.DoctorVerification, error) {
	if err := sess.RequireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}
	log := s.log.With().
		Str("verification_id", verificationID.String()).
		Str("reviewer_id", sess.UserID.String()).
		Str("decision", string(decision)).
		Logger()

	var out *domain.DoctorVerification
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := s.verifications.LockByID(ctx, verificationID)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: verification %s", domain.ErrNotFound, verificationID)
		}
		if err := v.Review(sess.UserID, decision, notes, s.now()); err != nil {
			return err
		}
		if err := s.verifications.Upsert(ctx, v); err != nil {
			return err
		}
		if v.Status == domain.DoctorApproved {
			if err := s.profiles.SetVerified(ctx, v.DoctorID, true); err != nil {
				return err
			}
		}
		out = v
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Review failed")
		return nil, err
	}

	log.Info().Str("doctor_id", out.DoctorID.String()).Msg("Verification reviewed")
	s.publish(ctx, ports.TopicDoctorReviewed, out)
	return out, nil
}

// Reopen returns a decided record to pending and hides the doctor from
// patients until it is approved again.
func (s *DoctorVerificationService) Reopen(ctx context.Context, sess domain.Session, verificationID uuid.UUID, notes *string) (*domain.DoctorVerification, error) {
	if err := sess.RequireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}
	log := s.log.With().
		Str("verification_id", verificationID.String()).
		Str("reviewer_id", sess.UserID.String()).
		Logger()

	var out *domain.DoctorVerification
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := s.verifications.LockByID(ctx, verificationID)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: verification %s", domain.ErrNotFound, verificationID)
		}
		if err := v.Reopen(notes); err != nil {
			return err
		}
		if err := s.verifications.Upsert(ctx, v); err != nil {
			return err
		}
		if err := s.profiles.SetVerified(ctx, v.DoctorID, false); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("Reopen failed")
		return nil, err
	}

	log.Info().Str("doctor_id", out.DoctorID.String()).Msg("Verification reopened")
	s.publish(ctx, ports.TopicDoctorReopened, out)
	return out, nil
}

// ListRequests returns verifications joined with doctor details for the
// admin queue.
func (s *DoctorVerificationService) ListRequests(ctx context.Context, sess domain.Session, filter domain.VerificationFilter) ([]*domain.VerificationRequest, error) {
	if err := sess.RequireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *filter.Status)
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.verifications.ListRequests(ctx, filter)
}

// Stats summarises the review queue and user base.
func (s *DoctorVerificationService) Stats(ctx context.Context, sess domain.Session) (*domain.VerificationStats, error) {
	if err := sess.RequireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}

	byStatus, err := s.verifications.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	verified, err := s.profiles.CountVerified(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.VerificationStats{
		Pending:         byStatus[domain.DoctorPending] + byStatus[domain.DoctorUnderReview],
		UnderReview:     byStatus[domain.DoctorUnderReview],
		Approved:        byStatus[domain.DoctorApproved],
		Rejected:        byStatus[domain.DoctorRejected],
		VerifiedDoctors: verified,
		TotalPatients:   byRole[domain.RolePatient],
		TotalDoctors:    byRole[domain.RoleDoctor],
	}, nil
}

func (s *DoctorVerificationService) publish(ctx context.Context, topic string, v *domain.DoctorVerification) {
	if err := s.bus.Publish(ctx, topic, ports.DoctorVerificationEvent{Verification: *v}); err != nil {
		// Notifications are best effort; the state change is committed.
		s.log.Error().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
