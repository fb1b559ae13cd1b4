package telegram

import (
	"MediVerify/internal/core/ports"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return tgbotapi.Message{}, args.Error(0)
}

func (m *mockSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)
	return &tgbotapi.APIResponse{Ok: true}, args.Error(0)
}

type MockBotClient struct {
	mock.Mock
}

var _ ports.BotClientPort = (*MockBotClient)(nil)

func (m *MockBotClient) SendMessage(ctx context.Context, params ports.SendMessageParams) error {
	return m.Called(ctx, params).Error(0)
}
func (m *MockBotClient) EditMessageText(ctx context.Context, params ports.EditMessageParams) error {
	return m.Called(ctx, params).Error(0)
}
func (m *MockBotClient) AnswerCallbackQuery(ctx context.Context, params ports.AnswerCallbackParams) error {
	return m.Called(ctx, params).Error(0)
}
func (m *MockBotClient) SetMenuCommands(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type recordingHandler struct {
	mu  sync.Mutex
	ids []int
}

func (h *recordingHandler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ids = append(h.ids, update.UpdateID)
}

// --- Tests ---

func TestParseUpdate(t *testing.T) {
	cmd := &tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 456,
			From:      &tgbotapi.User{ID: 789},
			Chat:      &tgbotapi.Chat{ID: 1000},
			Text:      "/pending",
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 8}},
		},
	}
	u, ok := ParseUpdate(cmd)
	require.True(t, ok)
	assert.Equal(t, "pending", u.Command)
	assert.Equal(t, int64(789), u.UserID)
	assert.Nil(t, u.CallbackData)

	cb := &tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb_1",
			From:    &tgbotapi.User{ID: 789},
			Message: &tgbotapi.Message{MessageID: 457, Chat: &tgbotapi.Chat{ID: 1000}},
			Data:    "review_approve_x",
		},
	}
	u, ok = ParseUpdate(cb)
	require.True(t, ok)
	assert.Equal(t, "cb_1", u.CallbackQueryID)
	assert.Equal(t, "review_approve_x", *u.CallbackData)
	assert.Equal(t, 457, u.MessageID)

	_, ok = ParseUpdate(&tgbotapi.Update{ChannelPost: &tgbotapi.Message{}})
	assert.False(t, ok)
}

func TestClient_SendMessage_InlineKeyboard(t *testing.T) {
	nopLogger := zerolog.Nop()
	api := new(mockSender)
	c := newClient(api, &nopLogger)

	api.On("Send", mock.MatchedBy(func(ch tgbotapi.Chattable) bool {
		msg, ok := ch.(tgbotapi.MessageConfig)
		if !ok {
			return false
		}
		kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		return ok && len(kb.InlineKeyboard) == 1 && *kb.InlineKeyboard[0][0].CallbackData == "review_approve_1"
	})).Return(nil).Once()

	err := c.SendMessage(context.Background(), ports.SendMessageParams{
		ChatID:   1,
		Text:     "hi",
		Keyboard: ports.Keyboard{{{Text: "Approve", Data: "review_approve_1"}}},
	})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestClient_ErrorsPropagate(t *testing.T) {
	nopLogger := zerolog.Nop()
	api := new(mockSender)
	c := newClient(api, &nopLogger)
	boom := errors.New("429 too many requests")

	api.On("Send", mock.Anything).Return(boom)
	api.On("Request", mock.Anything).Return(boom)

	assert.ErrorIs(t, c.EditMessageText(context.Background(), ports.EditMessageParams{ChatID: 1, MessageID: 2, Text: "x"}), boom)
	assert.ErrorIs(t, c.AnswerCallbackQuery(context.Background(), ports.AnswerCallbackParams{CallbackQueryID: "q"}), boom)
	assert.ErrorIs(t, c.SetMenuCommands(context.Background()), boom)
}

func TestOTPSender(t *testing.T) {
	nopLogger := zerolog.Nop()
	bot := new(MockBotClient)
	s := NewOTPSender(bot, &nopLogger)
	msg := ports.OTPMessage{
		SubjectID:    uuid.New(),
		Code:         "123456",
		MaskedNumber: "XXXX XXXX 9012",
		ExpiresAt:    time.Now().Add(10 * time.Minute),
	}

	assert.ErrorIs(t, s.Send(context.Background(), msg), ErrNoChat)

	chat := int64(555)
	msg.TelegramChatID = &chat
	bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == 555 && p.ParseMode == "HTML"
	})).Return(nil).Once()

	require.NoError(t, s.Send(context.Background(), msg))
	bot.AssertExpectations(t)
}

func TestBotServer_DispatchDrainsOnCancel(t *testing.T) {
	nopLogger := zerolog.Nop()
	h := &recordingHandler{}
	s := &BotServer{handler: h, log: nopLogger}

	updates := make(chan tgbotapi.Update)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.dispatch(ctx, updates, 3)
		close(done)
	}()

	for i := 1; i <= 5; i++ {
		updates <- tgbotapi.Update{UpdateID: i}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not return after cancel")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, h.ids)
}
