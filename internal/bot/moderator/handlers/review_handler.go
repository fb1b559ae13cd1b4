package handlers

import (
	"MediVerify/internal/bot/messages"
	"MediVerify/internal/bot/moderator"
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/rs/zerolog"
)

func init() {
	moderator.RegisterCallback(NewReviewHandler)
}

// reviewHandler applies approve/reject button presses.
type reviewHandler struct {
	log           zerolog.Logger
	verifications moderator.VerificationService
	bot           ports.BotClientPort
}

func NewReviewHandler(deps moderator.Deps) ports.CallbackHandler {
	return &reviewHandler{
		log:           deps.Logger.With().Str("component", "review_handler").Logger(),
		verifications: deps.Verifications,
		bot:           deps.Bot,
	}
}

func (h *reviewHandler) Prefix() string {
	return messages.ReviewPrefix
}

func (h *reviewHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	log := h.log.With().Str("admin_id", admin.ID.String()).Logger()

	action, id, err := messages.ParseReviewData(*update.CallbackData)
	if err != nil {
		log.Error().Err(err).Msg("Invalid callback data")
		return h.answer(ctx, update, "Unknown action", true)
	}
	log = log.With().Str("verification_id", id.String()).Str("action", action).Logger()

	decision := domain.DoctorRejected
	if action == messages.ActionApprove {
		decision = domain.DoctorApproved
	}

	v, err := h.verifications.Review(ctx, admin.Session(), id, decision, nil)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidState):
		log.Info().Err(err).Msg("Request already decided")
		_ = h.answer(ctx, update, "Already decided by another reviewer", true)
		return h.edit(ctx, update, "⚠️ This request was already decided.")
	case errors.Is(err, domain.ErrNotFound):
		_ = h.answer(ctx, update, "Request not found", true)
		return h.edit(ctx, update, "⚠️ Request not found.")
	default:
		_ = h.answer(ctx, update, "Review failed, try again", true)
		return err
	}

	log.Info().Msg("Verification decided from bot")
	_ = h.answer(ctx, update, "Saved", false)

	verb := "✅ Approved"
	if v.Status == domain.DoctorRejected {
		verb = "❌ Rejected"
	}
	return h.edit(ctx, update, fmt.Sprintf("%s by %s\n<code>%s</code>", verb, html.EscapeString(admin.FullName), v.ID))
}

func (h *reviewHandler) answer(ctx context.Context, update *ports.BotUpdate, text string, alert bool) error {
	return h.bot.AnswerCallbackQuery(ctx, ports.AnswerCallbackParams{
		CallbackQueryID: update.CallbackQueryID,
		Text:            text,
		ShowAlert:       alert,
	})
}

// edit replaces the card and drops its buttons.
func (h *reviewHandler) edit(ctx context.Context, update *ports.BotUpdate, text string) error {
	return h.bot.EditMessageText(ctx, ports.EditMessageParams{
		ChatID:    update.ChatID,
		MessageID: update.MessageID,
		Text:      text,
		ParseMode: "HTML",
	})
}
