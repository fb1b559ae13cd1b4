package messages

import "MediVerify/internal/core/ports"

// Builder helps construct SendMessageParams.
type Builder struct {
	params ports.SendMessageParams
}

// NewBuilder creates a message builder that defaults to HTML.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{
			ChatID:    chatID,
			ParseMode: "HTML",
		},
	}
}

// WithText sets the message text.
func (b *Builder) WithText(text string) *Builder {
	b.params.Text = text
	return b
}

// WithInlineButtons attaches an inline keyboard. Empty input clears it.
func (b *Builder) WithInlineButtons(buttons ports.Keyboard) *Builder {
	if len(buttons) == 0 {
		b.params.Keyboard = nil
		return b
	}
	b.params.Keyboard = buttons
	return b
}

// Build returns the final SendMessageParams struct.
func (b *Builder) Build() ports.SendMessageParams {
	return b.params
}
