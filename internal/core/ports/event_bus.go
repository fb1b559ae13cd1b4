package ports

import (
	"MediVerify/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// Topics published by the verification services.
const (
	TopicDoctorSubmitted = "doctor:submitted"
	TopicDoctorReviewed  = "doctor:reviewed"
	TopicDoctorReopened  = "doctor:reopened"
	TopicAadhaarVerified = "aadhaar:verified"
	TopicAbhaVerified    = "abha:verified"
)

// Event is a generic wrapper for any event payload
type Event struct {
	Topic string
	Data  interface{}
}

// DoctorVerificationEvent is the payload of the doctor:* topics.
type DoctorVerificationEvent struct {
	Verification domain.DoctorVerification
}

// IdentityVerifiedEvent is the payload of aadhaar:verified and abha:verified.
type IdentityVerifiedEvent struct {
	SubjectID uuid.UUID
	Kind      string // "aadhaar" or "abha"
	Display   string // masked number or ABHA id
}

// EventHandler is a function that can handle a specific event
type EventHandler func(ctx context.Context, event Event) error

// EventBus defines the interface for our in-process pub/sub system
type EventBus interface {
	// Publish sends an event to all subscribers of a topic
	Publish(ctx context.Context, topic string, data interface{}) error

	// Subscribe registers a handler for a specific topic
	Subscribe(topic string, handler EventHandler)
}
