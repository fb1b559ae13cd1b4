package moderator

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VerificationService is what the moderator handlers need from the
// doctor verification workflow.
type VerificationService interface {
	ListRequests(ctx context.Context, sess domain.Session, filter domain.VerificationFilter) ([]*domain.VerificationRequest, error)
	Review(ctx context.Context, sess domain.Session, verificationID uuid.UUID, decision domain.DoctorVerificationStatus, notes *string) (*domain.DoctorVerification, error)
	Stats(ctx context.Context, sess domain.Session) (*domain.VerificationStats, error)
}

// AccountLinker binds a Telegram chat to the portal account that issued
// the link token.
type AccountLinker interface {
	LinkTelegram(ctx context.Context, token string, chatID int64) (*domain.User, error)
}

// Deps is handed to every handler constructor.
type Deps struct {
	Accounts      AccountLinker
	Verifications VerificationService
	Bot           ports.BotClientPort
	Logger        *zerolog.Logger
}

type CommandHandlerConstructor func(deps Deps) ports.CommandHandler

type CallbackHandlerConstructor func(deps Deps) ports.CallbackHandler

var (
	commandRegistry       []CommandHandlerConstructor
	publicCommandRegistry []CommandHandlerConstructor
	callbackRegistry      []CallbackHandlerConstructor
)

func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

// RegisterPublicCommand adds a command that any sender may run. Its
// handler gets the sender's linked account, or nil.
func RegisterPublicCommand(constructor CommandHandlerConstructor) {
	publicCommandRegistry = append(publicCommandRegistry, constructor)
}

func RegisterCallback(constructor CallbackHandlerConstructor) {
	callbackRegistry = append(callbackRegistry, constructor)
}

// RegisterAllHandlers builds every registered handler and attaches it to
// the router. Handler packages register themselves from init.
func RegisterAllHandlers(router *ModeratorRouter, deps Deps) {
	for _, constructor := range commandRegistry {
		router.RegisterCommandHandler(constructor(deps))
	}
	for _, constructor := range publicCommandRegistry {
		router.RegisterPublicCommandHandler(constructor(deps))
	}
	for _, constructor := range callbackRegistry {
		router.RegisterCallbackHandler(constructor(deps))
	}
}
