package services

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// OTPIssue is the result of SendOtp. Code is returned so transports can
// echo it in development; it is never persisted.
type OTPIssue struct {
	Verification *domain.AadhaarVerification
	Code         string
}

// AadhaarService issues and checks Aadhaar OTPs.
type AadhaarService struct {
	tx       ports.TxManager
	repo     ports.AadhaarRepository
	users    ports.UserRepository
	hasher   ports.OTPHasher
	sender   ports.OTPSender
	throttle ports.RequestThrottle
	bus      ports.EventBus
	log      zerolog.Logger
	now      func() time.Time
	generate func() (string, error)
}

func NewAadhaarService(
	tx ports.TxManager,
	repo ports.AadhaarRepository,
	users ports.UserRepository,
	hasher ports.OTPHasher,
	sender ports.OTPSender,
	throttle ports.RequestThrottle,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *AadhaarService {
	return &AadhaarService{
		tx:       tx,
		repo:     repo,
		users:    users,
		hasher:   hasher,
		sender:   sender,
		throttle: throttle,
		bus:      bus,
		log:      baseLogger.With().Str("component", "aadhaar_service").Logger(),
		now:      time.Now,
		generate: GenerateOTP,
	}
}

// SendOtp issues a fresh code for number, superseding any earlier
// issuance for the same subject and number, and hands it to the
// delivery channel.
func (s *AadhaarService) SendOtp(ctx context.Context, sess domain.Session, number string) (*OTPIssue, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAadhaarNumber(number); err != nil {
		return nil, err
	}
	log := s.log.With().
		Str("subject_id", sess.UserID.String()).
		Str("aadhaar", domain.MaskIdentifier(number)).
		Logger()

	ok, err := s.throttle.Allow(ctx, "otp:aadhaar:"+sess.UserID.String())
	if err != nil {
		// Throttle backend down; issuing is still bounded by the attempt cap.
		log.Error().Err(err).Msg("OTP throttle unavailable, allowing request")
	} else if !ok {
		log.Warn().Msg("OTP request throttled")
		return nil, fmt.Errorf("%w: too many otp requests, try again later", domain.ErrRateLimited)
	}

	code, err := s.generate()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return nil, fmt.Errorf("hash otp: %w", err)
	}

	v := domain.NewAadhaarVerification(sess.UserID, number, hash, s.now())
	if err := s.repo.Upsert(ctx, v); err != nil {
		log.Error().Err(err).Msg("Failed to store OTP issuance")
		return nil, err
	}

	if err := s.deliver(ctx, v, code); err != nil {
		log.Error().Err(err).Msg("OTP delivery failed")
		return nil, err
	}

	log.Info().Time("expires_at", v.ExpiresAt).Msg("OTP issued")
	return &OTPIssue{Verification: v, Code: code}, nil
}

func (s *AadhaarService) deliver(ctx context.Context, v *domain.AadhaarVerification, code string) error {
	msg := ports.OTPMessage{
		SubjectID:    v.SubjectID,
		Code:         code,
		MaskedNumber: v.Masked(),
		ExpiresAt:    v.ExpiresAt,
	}
	user, err := s.users.GetByID(ctx, v.SubjectID)
	if err != nil {
		return err
	}
	if user != nil {
		msg.Phone = user.Phone
		msg.TelegramChatID = user.TelegramChatID
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDelivery, err)
	}
	return nil
}

// VerifyOtp checks code against the subject's latest issuance.
// Failure paths that change the record (expiry, a wrong code, the final
// failed attempt) are committed before the error is returned.
func (s *AadhaarService) VerifyOtp(ctx context.Context, sess domain.Session, code string) (*domain.AadhaarVerification, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	log := s.log.With().Str("subject_id", sess.UserID.String()).Logger()

	var v *domain.AadhaarVerification
	var outcome error
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		v, err = s.repo.LockLatestBySubject(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: no otp has been requested", domain.ErrNotFound)
		}

		var changed bool
		changed, outcome = v.Attempt(s.now(), code, func(code string) bool {
			return s.hasher.Matches(v.CodeHash, code)
		})
		if !changed {
			return nil
		}
		return s.repo.Update(ctx, v)
	})
	if err != nil {
		log.Error().Err(err).Msg("OTP verification failed to run")
		return nil, err
	}
	if outcome != nil {
		log.Warn().Err(outcome).
			Int("attempts", v.AttemptsCount).
			Str("status", string(v.Status)).
			Msg("OTP rejected")
		return v, outcome
	}

	log.Info().Msg("Aadhaar verified")
	if err := s.bus.Publish(ctx, ports.TopicAadhaarVerified, ports.IdentityVerifiedEvent{
		SubjectID: v.SubjectID,
		Kind:      "aadhaar",
		Display:   v.Masked(),
	}); err != nil {
		log.Error().Err(err).Msg("Failed to publish aadhaar verified event")
	}
	return v, nil
}

// Status returns the subject's latest issuance or ErrNotSubmitted.
func (s *AadhaarService) Status(ctx context.Context, sess domain.Session) (*domain.AadhaarVerification, error) {
	if err := sess.RequireUser(); err != nil {
		return nil, err
	}
	v, err := s.repo.LatestBySubject(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotSubmitted
	}
	return v, nil
}
