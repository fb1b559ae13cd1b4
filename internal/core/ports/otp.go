package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OTPMessage is what a delivery channel needs to hand a code to its owner.
type OTPMessage struct {
	SubjectID      uuid.UUID
	Phone          *string
	TelegramChatID *int64
	Code           string
	MaskedNumber   string
	ExpiresAt      time.Time
}

// OTPSender delivers a generated code out of band (SMS, chat, log).
type OTPSender interface {
	Send(ctx context.Context, msg OTPMessage) error
}

// RequestThrottle limits how often a key may perform an action.
type RequestThrottle interface {
	// Allow records one hit for key and reports whether it is within
	// the configured window limit.
	Allow(ctx context.Context, key string) (bool, error)
}
