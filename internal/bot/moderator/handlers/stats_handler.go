package handlers

import (
	"MediVerify/internal/bot/messages"
	"MediVerify/internal/bot/moderator"
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
)

func init() {
	moderator.RegisterCommand(NewStatsHandler)
}

type statsHandler struct {
	verifications moderator.VerificationService
	bot           ports.BotClientPort
}

func NewStatsHandler(deps moderator.Deps) ports.CommandHandler {
	return &statsHandler{verifications: deps.Verifications, bot: deps.Bot}
}

func (h *statsHandler) Command() string {
	return "stats"
}

func (h *statsHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	stats, err := h.verifications.Stats(ctx, admin.Session())
	if err != nil {
		_ = h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText("Could not load stats.").Build())
		return err
	}
	return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(messages.StatsText(stats)).Build())
}
