package moderator

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.Role]int), args.Error(1)
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

type MockCommandHandler struct {
	mock.Mock
}

func (m *MockCommandHandler) Command() string {
	return m.Called().String(0)
}
func (m *MockCommandHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	return m.Called(update, admin).Error(0)
}

type MockCallbackHandler struct {
	mock.Mock
}

func (m *MockCallbackHandler) Prefix() string {
	return m.Called().String(0)
}
func (m *MockCallbackHandler) Handle(ctx context.Context, update *ports.BotUpdate, admin *domain.User) error {
	return m.Called(update, admin).Error(0)
}

// syncBus delivers events inline so tests can assert right after Publish.
type syncBus struct {
	handlers map[string][]ports.EventHandler
}

func newSyncBus() *syncBus {
	return &syncBus{handlers: make(map[string][]ports.EventHandler)}
}

func (b *syncBus) Subscribe(topic string, h ports.EventHandler) {
	b.handlers[topic] = append(b.handlers[topic], h)
}

func (b *syncBus) Publish(ctx context.Context, topic string, data interface{}) error {
	for _, h := range b.handlers[topic] {
		if err := h(ctx, ports.Event{Topic: topic, Data: data}); err != nil {
			return err
		}
	}
	return nil
}
