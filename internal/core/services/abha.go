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

// AbhaService handles ABHA id registration and its out-of-band
// confirmation.
type AbhaService struct {
	tx   ports.TxManager
	repo ports.AbhaRepository
	bus  ports.EventBus
	log  zerolog.Logger
	now  func() time.Time
}

func NewAbhaService(tx ports.TxManager, repo ports.AbhaRepository, bus ports.EventBus, baseLogger *zerolog.Logger) *AbhaService {
	return &AbhaService{
		tx:   tx,
		repo: repo,
		bus:  bus,
		log:  baseLogger.With().Str("component", "abha_service").Logger(),
		now:  time.Now,
	}
}

// Initiate registers abhaID for the caller as pending, replacing any
// earlier record of theirs.
func (s *AbhaService) Initiate(ctx context.Context, sess domain.Session, abhaID string) (*domain.AbhaVerification, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAbhaID(abhaID); err != nil {
		return nil, err
	}
	log := s.log.With().Str("subject_id", sess.UserID.String()).Logger()

	holder, err := s.repo.FindVerifiedByAbhaID(ctx, abhaID)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		if holder.SubjectID != sess.UserID {
			log.Warn().Msg("ABHA id already verified by another account")
			return nil, fmt.Errorf("%w: abha id is already verified by another account", domain.ErrConflict)
		}
		return nil, fmt.Errorf("%w: abha id already verified", domain.ErrInvalidState)
	}

	v := domain.NewAbhaVerification(sess.UserID, abhaID)
	if err := s.repo.Upsert(ctx, v); err != nil {
		log.Error().Err(err).Msg("Failed to store ABHA verification")
		return nil, err
	}
	log.Info().Str("verification_id", v.ID.String()).Msg("ABHA verification initiated")
	return v, nil
}

// MarkVerified is the authority action confirming a pending record.
func (s *AbhaService) MarkVerified(ctx context.Context, sess domain.Session, verificationID uuid.UUID) (*domain.AbhaVerification, error) {
	if err := sess.RequireRole(domain.RoleAdmin); err != nil {
		return nil, err
	}
	log := s.log.With().
		Str("verification_id", verificationID.String()).
		Str("authority_id", sess.UserID.String()).
		Logger()

	var out *domain.AbhaVerification
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := s.repo.LockByID(ctx, verificationID)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: abha verification %s", domain.ErrNotFound, verificationID)
		}
		if err := v.MarkVerified(s.now()); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, v); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("ABHA mark verified failed")
		return nil, err
	}

	log.Info().Str("subject_id", out.SubjectID.String()).Msg("ABHA verified")
	if err := s.bus.Publish(ctx, ports.TopicAbhaVerified, ports.IdentityVerifiedEvent{
		SubjectID: out.SubjectID,
		Kind:      "abha",
		Display:   out.AbhaID,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to publish abha verified event")
	}
	return out, nil
}

// Status returns the caller's record or ErrNotSubmitted.
func (s *AbhaService) Status(ctx context.Context, sess domain.Session) (*domain.AbhaVerification, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	v, err := s.repo.GetBySubject(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotSubmitted
	}
	return v, nil
}
