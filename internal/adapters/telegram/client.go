package telegram

import (
	"MediVerify/internal/core/ports"
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// sender is the part of *tgbotapi.BotAPI the client needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type tgClient struct {
	api sender
	log zerolog.Logger
}

var _ ports.BotClientPort = (*tgClient)(nil)

// NewClient wraps a connected bot API as a BotClientPort.
func NewClient(api *tgbotapi.BotAPI, baseLogger *zerolog.Logger) ports.BotClientPort {
	return newClient(api, baseLogger)
}

func newClient(api sender, baseLogger *zerolog.Logger) *tgClient {
	return &tgClient{
		api: api,
		log: baseLogger.With().Str("component", "tg_client").Logger(),
	}
}

func (c *tgClient) SendMessage(ctx context.Context, params ports.SendMessageParams) error {
	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	if kb, ok := inlineKeyboard(params.Keyboard); ok {
		msg.ReplyMarkup = kb
	}

	if _, err := c.api.Send(msg); err != nil {
		c.log.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send message")
		return err
	}
	return nil
}

// EditMessageText replaces the text of a sent message. Without a keyboard
// the existing buttons are removed.
func (c *tgClient) EditMessageText(ctx context.Context, params ports.EditMessageParams) error {
	edit := tgbotapi.NewEditMessageText(params.ChatID, params.MessageID, params.Text)
	edit.ParseMode = params.ParseMode
	if kb, ok := inlineKeyboard(params.Keyboard); ok {
		edit.ReplyMarkup = &kb
	}

	if _, err := c.api.Send(edit); err != nil {
		c.log.Error().Err(err).
			Int64("chat_id", params.ChatID).
			Int("message_id", params.MessageID).
			Msg("Failed to edit message")
		return err
	}
	return nil
}

// AnswerCallbackQuery stops the client-side spinner on a pressed button.
func (c *tgClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	answer := tgbotapi.NewCallback(params.CallbackQueryID, params.Text)
	answer.ShowAlert = params.ShowAlert

	if _, err := c.api.Request(answer); err != nil {
		c.log.Error().Err(err).
			Str("callback_query_id", params.CallbackQueryID).
			Msg("Failed to answer callback query")
		return err
	}
	return nil
}

// SetMenuCommands publishes the moderator command menu.
func (c *tgClient) SetMenuCommands(ctx context.Context) error {
	menu := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "/start", Description: "Link this chat to your portal account"},
		tgbotapi.BotCommand{Command: "/pending", Description: "Doctor verifications awaiting review"},
		tgbotapi.BotCommand{Command: "/stats", Description: "Verification statistics"},
	)
	if _, err := c.api.Request(menu); err != nil {
		c.log.Error().Err(err).Msg("Failed to set menu commands")
		return err
	}
	return nil
}

func inlineKeyboard(kb ports.Keyboard) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(kb) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, buttons := range kb {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
		for _, b := range buttons {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
