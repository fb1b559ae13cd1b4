package handlers

import (
	"MediVerify/internal/bot/messages"
	"MediVerify/internal/bot/moderator"
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"errors"
	"html"
	"strings"

	"github.com/rs/zerolog"
)

func init() {
	moderator.RegisterPublicCommand(NewStartHandler)
}

// startHandler links the sender's chat to a portal account with the
// token from POST /me/telegram.
type startHandler struct {
	log      zerolog.Logger
	accounts moderator.AccountLinker
	bot      ports.BotClientPort
}

func NewStartHandler(deps moderator.Deps) ports.CommandHandler {
	return &startHandler{
		log:      deps.Logger.With().Str("component", "start_handler").Logger(),
		accounts: deps.Accounts,
		bot:      deps.Bot,
	}
}

func (h *startHandler) Command() string {
	return "start"
}

func (h *startHandler) Handle(ctx context.Context, update *ports.BotUpdate, user *domain.User) error {
	reply := func(text string) error {
		return h.bot.SendMessage(ctx, messages.NewBuilder(update.ChatID).WithText(text).Build())
	}

	// The admin check resolves senders by user id, which equals the chat
	// id only in private chats.
	if update.ChatID != update.UserID {
		return reply("Send /start to the bot in a private chat.")
	}

	fields := strings.Fields(update.Text)
	if len(fields) < 2 {
		if user != nil {
			return reply("This chat is linked to <b>" + html.EscapeString(user.FullName) + "</b>.")
		}
		return reply("Open the portal and choose <i>Link Telegram</i> to get your /start code.")
	}

	linked, err := h.accounts.LinkTelegram(ctx, fields[1], update.ChatID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		h.log.Warn().Err(err).Int64("chat_id", update.ChatID).Msg("Rejected telegram link token")
		return reply("That link code is invalid or has expired. Request a new one from the portal.")
	default:
		_ = reply("Could not link your account right now. Try again later.")
		return err
	}

	text := "Linked to <b>" + html.EscapeString(linked.FullName) + "</b>. Verification updates will arrive here."
	if linked.IsAdmin() {
		text += "\nUse /pending to review doctor submissions."
	}
	return reply(text)
}
