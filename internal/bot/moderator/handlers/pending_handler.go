package handlers

import (
	"MediVerify/internal/bot/messages"
	"MediVerify/internal/bot/moderator"
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

func init() {
	moderator.RegisterCommand(NewPendingHandler)
}

// pageSize bounds one /pending reply; Telegram rate limits bursts.
const pageSize = 10

type pendingHandler struct {
	log           zerolog.Logger
	verifications moderator.VerificationService
	bot           ports.BotClientPort
}

func NewPendingHandler(deps moderator.Deps) ports.CommandHandler {
	return &pendingHandler{
		log:           deps.Logger.With().Str("component", "pending_handler").Logger(),
		verifications: deps.Verifications,
		bot:           deps.Bot,
	}
}

func (h *pendingHandler) Command() string {
	return "pending"
}

// Handle sends one card per request waiting for review.
func (h *pendingHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	status := domain.DoctorUnderReview
	reqs, err := h.verifications.ListRequests(ctx, admin.Session(), domain.VerificationFilter{
		Status: &status,
		Limit:  pageSize,
	})
	if err != nil {
		_ = h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText("Could not load pending requests.").Build())
		return err
	}

	if len(reqs) == 0 {
		return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText("Nothing is waiting for review. 🎉").Build())
	}

	header := fmt.Sprintf("<b>%d request(s) awaiting review</b>", len(reqs))
	if len(reqs) == pageSize {
		header += " (showing the oldest first)"
	}
	if err := h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(header).Build()); err != nil {
		return err
	}

	for _, req := range reqs {
		msg := messages.NewBuilder(update.ChatID).
			WithText(messages.RequestCard(req)).
			WithInlineButtons(messages.ReviewButtons(req.Verification.ID)).
			Build()
		if err := h.bot.SendMessage(ctx, msg); err != nil {
			h.log.Error().Err(err).Str("verification_id", req.Verification.ID.String()).Msg("Failed to send request card")
		}
	}
	return nil
}
