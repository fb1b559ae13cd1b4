package delivery

import (
	"MediVerify/internal/core/ports"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrNoPhone is returned when the subject has no phone on file.
var ErrNoPhone = errors.New("subject has no phone number")

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSSender sends OTP codes as plain SMS through Twilio.
type SMSSender struct {
	api  messageCreator
	from string
	log  zerolog.Logger
}

var _ ports.OTPSender = (*SMSSender)(nil)

func NewSMSSender(accountSID, authToken, from string, baseLogger *zerolog.Logger) *SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSSender{
		api:  client.Api,
		from: from,
		log:  baseLogger.With().Str("component", "sms_sender").Logger(),
	}
}

func (s *SMSSender) Send(ctx context.Context, msg ports.OTPMessage) error {
	if msg.Phone == nil || *msg.Phone == "" {
		return ErrNoPhone
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(*msg.Phone)
	params.SetFrom(s.from)
	params.SetBody(otpText(msg))

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		s.log.Error().Err(err).Str("subject_id", msg.SubjectID.String()).Msg("Twilio rejected OTP message")
		return fmt.Errorf("twilio create message: %w", err)
	}

	ev := s.log.Info().Str("subject_id", msg.SubjectID.String())
	if resp != nil && resp.Sid != nil {
		ev = ev.Str("sid", *resp.Sid)
	}
	ev.Msg("OTP sent by SMS")
	return nil
}

func otpText(msg ports.OTPMessage) string {
	return fmt.Sprintf(
		"Your MediVerify code for Aadhaar %s is %s. It expires at %s.",
		msg.MaskedNumber, msg.Code, msg.ExpiresAt.Format("15:04 MST"),
	)
}
