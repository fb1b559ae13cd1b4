package telegram

import (
	"MediVerify/internal/core/ports"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoChat is returned when the subject never linked a Telegram chat.
var ErrNoChat = errors.New("subject has no telegram chat")

// OTPSender delivers Aadhaar codes as a direct bot message.
type OTPSender struct {
	bot ports.BotClientPort
	log zerolog.Logger
}

var _ ports.OTPSender = (*OTPSender)(nil)

func NewOTPSender(bot ports.BotClientPort, baseLogger *zerolog.Logger) *OTPSender {
	return &OTPSender{
		bot: bot,
		log: baseLogger.With().Str("component", "tg_otp_sender").Logger(),
	}
}

func (s *OTPSender) Send(ctx context.Context, msg ports.OTPMessage) error {
	if msg.TelegramChatID == nil {
		return ErrNoChat
	}

	text := fmt.Sprintf(
		"Your verification code for Aadhaar %s is <b>%s</b>.\nIt expires at %s. Do not share it with anyone.",
		msg.MaskedNumber, msg.Code, msg.ExpiresAt.Format("15:04 MST"),
	)
	err := s.bot.SendMessage(ctx, ports.SendMessageParams{
		ChatID:    *msg.TelegramChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	s.log.Info().Str("subject_id", msg.SubjectID.String()).Msg("OTP sent by Telegram")
	return nil
}
