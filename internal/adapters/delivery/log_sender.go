package delivery

import (
	"MediVerify/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes codes to the log. Development only.
type LogSender struct {
	log zerolog.Logger
}

var _ ports.OTPSender = (*LogSender)(nil)

func NewLogSender(baseLogger *zerolog.Logger) *LogSender {
	return &LogSender{log: baseLogger.With().Str("component", "log_otp_sender").Logger()}
}

func (s *LogSender) Send(ctx context.Context, msg ports.OTPMessage) error {
	s.log.Warn().
		Str("subject_id", msg.SubjectID.String()).
		Str("aadhaar", msg.MaskedNumber).
		Str("code", msg.Code).
		Time("expires_at", msg.ExpiresAt).
		Msg("OTP issued (log delivery)")
	return nil
}
