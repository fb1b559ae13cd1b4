package ports

import (
	"MediVerify/internal/core/domain"
	"context"
)

// Button is an inline button. Data is echoed back as callback data.
type Button struct {
	Text string
	Data string
}

// Keyboard is an inline keyboard laid out row by row.
type Keyboard [][]Button

type SendMessageParams struct {
	ChatID    int64
	Text      string
	ParseMode string
	Keyboard  Keyboard
}

// EditMessageParams rewrites a message the bot sent earlier. An empty
// Keyboard strips the buttons.
type EditMessageParams struct {
	ChatID    int64
	MessageID int
	Text      string
	ParseMode string
	Keyboard  Keyboard
}

type AnswerCallbackParams struct {
	CallbackQueryID string
	Text            string
	ShowAlert       bool
}

// BotClientPort is the outbound side of the moderator bot.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	EditMessageText(ctx context.Context, params EditMessageParams) error
	AnswerCallbackQuery(ctx context.Context, params AnswerCallbackParams) error
	SetMenuCommands(ctx context.Context) error
}

// BotUpdate is a transport-neutral view of an incoming message or
// button press.
type BotUpdate struct {
	MessageID       int
	ChatID          int64
	UserID          int64
	Text            string
	Command         string
	CallbackQueryID string
	CallbackData    *string
}

// CommandHandler serves one slash command. user is the sender's linked
// account; admin-only commands always receive an admin, public ones may
// receive nil.
type CommandHandler interface {
	Command() string
	Handle(ctx context.Context, update *BotUpdate, user *domain.User) error
}

// CallbackHandler serves every callback whose data starts with Prefix.
type CallbackHandler interface {
	Prefix() string
	Handle(ctx context.Context, update *BotUpdate, admin *domain.User) error
}
