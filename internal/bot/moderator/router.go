package moderator

import (
	"MediVerify/internal/adapters/telegram"
	"MediVerify/internal/core/ports"
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ModeratorRouter routes moderator bot updates. Public commands such as
// /start reach anyone; everything else needs the admin role.
type ModeratorRouter struct {
	log              zerolog.Logger
	userRepo         ports.UserRepository
	botClient        ports.BotClientPort
	commandHandlers  map[string]ports.CommandHandler
	publicHandlers   map[string]ports.CommandHandler
	callbackHandlers map[string]ports.CallbackHandler
}

var _ telegram.UpdateHandler = (*ModeratorRouter)(nil)

// NewModeratorRouter builds an empty router; handlers are added by
// RegisterAllHandlers.
func NewModeratorRouter(
	userRepo ports.UserRepository,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) *ModeratorRouter {
	return &ModeratorRouter{
		log:              baseLogger.With().Str("component", "moderator_router").Logger(),
		userRepo:         userRepo,
		botClient:        botClient,
		commandHandlers:  make(map[string]ports.CommandHandler),
		publicHandlers:   make(map[string]ports.CommandHandler),
		callbackHandlers: make(map[string]ports.CallbackHandler),
	}
}

func (r *ModeratorRouter) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered new moderator command")
}

func (r *ModeratorRouter) RegisterPublicCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.publicHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered new public command")
}

func (r *ModeratorRouter) RegisterCallbackHandler(handler ports.CallbackHandler) {
	prefix := handler.Prefix()
	r.callbackHandlers[prefix] = handler
	r.log.Info().Str("prefix", prefix).Msg("Registered new moderator callback")
}

// HandleUpdate resolves the sender's linked account and routes the
// update. Public commands run first; the rest require an admin.
func (r *ModeratorRouter) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	botUpdate, isSupported := telegram.ParseUpdate(update)
	if !isSupported {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Received unsupported update type")
		return
	}

	ctxLogger := r.log.With().
		Int64("user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Logger()
	ctx = ctxLogger.WithContext(ctx)

	sender, err := r.userRepo.GetByTelegramChatID(ctx, botUpdate.UserID)
	if err != nil {
		ctxLogger.Error().Err(err).Msg("Failed to get user for security check")
		return
	}

	if handler, ok := r.publicHandlers[botUpdate.Command]; ok && botUpdate.Command != "" {
		ctxLogger.Info().Str("handler", botUpdate.Command).Msg("Routing to public command handler")
		if err := handler.Handle(ctx, botUpdate, sender); err != nil {
			ctxLogger.Error().Err(err).Msg("Public command handler failed")
		}
		return
	}

	// --- SECURITY CHECK ---
	if sender == nil || !sender.IsAdmin() {
		ctxLogger.Warn().Msg("Unauthorized user tried to access moderator bot")
		r.deny(ctx, botUpdate)
		return
	}
	admin := sender
	ctxLogger = ctxLogger.With().Str("admin_id", admin.ID.String()).Logger()

	if botUpdate.Command != "" {
		if handler, ok := r.commandHandlers[botUpdate.Command]; ok {
			ctxLogger.Info().Str("handler", botUpdate.Command).Msg("Routing to mod command handler")
			if err := handler.Handle(ctx, botUpdate, admin); err != nil {
				ctxLogger.Error().Err(err).Msg("Mod command handler failed")
			}
			return
		}
	}

	if botUpdate.CallbackData != nil {
		for prefix, handler := range r.callbackHandlers {
			if strings.HasPrefix(*botUpdate.CallbackData, prefix) {
				ctxLogger.Info().Str("handler", prefix).Str("data", *botUpdate.CallbackData).Msg("Routing to mod callback handler")
				if err := handler.Handle(ctx, botUpdate, admin); err != nil {
					ctxLogger.Error().Err(err).Msg("Mod callback handler failed")
				}
				return
			}
		}
		ctxLogger.Warn().Str("data", *botUpdate.CallbackData).Msg("No callback handler found")
		return
	}

	ctxLogger.Debug().Msg("Moderator bot received unhandled update")
}

func (r *ModeratorRouter) deny(ctx context.Context, update *ports.BotUpdate) {
	if update.CallbackQueryID != "" {
		_ = r.botClient.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
			CallbackQueryID: update.CallbackQueryID,
			Text:            "Not authorised",
			ShowAlert:       true,
		})
		return
	}
	_ = r.botClient.SendMessage(ctx, ports.SendMessageParams{
		ChatID: update.ChatID,
		Text:   "This bot is for portal administrators. Link your account from the portal to receive notifications.",
	})
}
