package moderator

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubmissionGoesToModeratorChat(t *testing.T) {
	nopLogger := zerolog.Nop()
	users := new(MockUserRepository)
	bot := new(MockBotClient)
	bus := newSyncBus()
	NewNotifier(bot, users, -1001, &nopLogger).Subscribe(bus)

	doctor := &domain.User{ID: uuid.New(), FullName: "Dr. Iyer", Role: domain.RoleDoctor}
	users.On("GetByID", mock.Anything, doctor.ID).Return(doctor, nil)
	bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == -1001 && strings.Contains(p.Text, "Dr. Iyer") && len(p.Keyboard) > 0
	})).Return(nil).Once()

	v := domain.NewDoctorVerification(doctor.ID)
	v.Documents = []domain.Document{{Name: "reg.pdf"}}
	require.NoError(t, bus.Publish(context.Background(), ports.TopicDoctorSubmitted, ports.DoctorVerificationEvent{Verification: *v}))
	bot.AssertExpectations(t)
}

func TestNotifier_OutcomeOnlyForLinkedUsers(t *testing.T) {
	nopLogger := zerolog.Nop()
	users := new(MockUserRepository)
	bot := new(MockBotClient)
	bus := newSyncBus()
	NewNotifier(bot, users, 0, &nopLogger).Subscribe(bus)

	chat := int64(42)
	linked := &domain.User{ID: uuid.New(), TelegramChatID: &chat}
	unlinked := &domain.User{ID: uuid.New()}
	users.On("GetByID", mock.Anything, linked.ID).Return(linked, nil)
	users.On("GetByID", mock.Anything, unlinked.ID).Return(unlinked, nil)

	bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == 42 && strings.Contains(p.Text, "approved")
	})).Return(nil).Once()

	approved := domain.DoctorVerification{ID: uuid.New(), DoctorID: linked.ID, Status: domain.DoctorApproved}
	require.NoError(t, bus.Publish(context.Background(), ports.TopicDoctorReviewed, ports.DoctorVerificationEvent{Verification: approved}))

	rejected := domain.DoctorVerification{ID: uuid.New(), DoctorID: unlinked.ID, Status: domain.DoctorRejected}
	require.NoError(t, bus.Publish(context.Background(), ports.TopicDoctorReviewed, ports.DoctorVerificationEvent{Verification: rejected}))

	bot.AssertExpectations(t)
}

func TestNotifier_IdentityVerified(t *testing.T) {
	nopLogger := zerolog.Nop()
	users := new(MockUserRepository)
	bot := new(MockBotClient)
	bus := newSyncBus()
	NewNotifier(bot, users, 0, &nopLogger).Subscribe(bus)

	chat := int64(7)
	u := &domain.User{ID: uuid.New(), TelegramChatID: &chat}
	users.On("GetByID", mock.Anything, u.ID).Return(u, nil)
	bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return strings.Contains(p.Text, "ABHA") && strings.Contains(p.Text, "12345678901234")
	})).Return(nil).Once()

	require.NoError(t, bus.Publish(context.Background(), ports.TopicAbhaVerified, ports.IdentityVerifiedEvent{
		SubjectID: u.ID, Kind: "abha", Display: "12345678901234",
	}))
	bot.AssertExpectations(t)

	err := bus.Publish(context.Background(), ports.TopicAadhaarVerified, "wrong payload")
	assert.Error(t, err)
}
