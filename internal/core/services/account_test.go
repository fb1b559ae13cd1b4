package services

import (
	"MediVerify/internal/core/domain"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// plainVault fingerprints with a visible prefix; encryption is unused here.
type plainVault struct{}

func (plainVault) Encrypt(p []byte) ([]byte, error) { return p, nil }

func (plainVault) Decrypt(c []byte) ([]byte, error) { return c, nil }

func (plainVault) Fingerprint(p []byte) string { return "fp:" + string(p) }

type storedLink struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// fakeLinkRepo mirrors the postgres semantics: one token per user and
// consume deletes.
type fakeLinkRepo struct {
	byHash map[string]storedLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{byHash: make(map[string]storedLink)}
}

func (r *fakeLinkRepo) Replace(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	for h, l := range r.byHash {
		if l.userID == userID {
			delete(r.byHash, h)
		}
	}
	r.byHash[tokenHash] = storedLink{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeLinkRepo) Consume(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error) {
	l, ok := r.byHash[tokenHash]
	if !ok {
		return uuid.Nil, nil
	}
	delete(r.byHash, tokenHash)
	if now.After(l.expiresAt) {
		return uuid.Nil, nil
	}
	return l.userID, nil
}

type accountFixture struct {
	svc   *AccountService
	users *MockUserRepository
	links *fakeLinkRepo
	now   time.Time
}

func newAccountFixture() *accountFixture {
	nopLogger := zerolog.Nop()
	f := &accountFixture{
		users: new(MockUserRepository),
		links: newFakeLinkRepo(),
		now:   time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewAccountService(&passthroughTx{}, f.users, f.links, plainVault{}, &nopLogger)
	f.svc.now = func() time.Time { return f.now }
	f.svc.newToken = func() (string, error) { return "0123456789abcdef0123456789abcdef", nil }
	return f
}

func TestAccountService_RegisterCreatesThenUpdates(t *testing.T) {
	f := newAccountFixture()
	sess := domain.Session{UserID: uuid.New(), Role: domain.RoleDoctor}
	phone := "+919812345678"

	f.users.On("GetByID", mock.Anything, sess.UserID).Return(nil, nil).Once()
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == sess.UserID && u.Role == domain.RoleDoctor && u.FullName == "Dr. Rao"
	})).Return(nil).Once()

	user, err := f.svc.Register(testContext(t), sess, AccountInput{FullName: "  Dr. Rao ", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", user.FullName)

	f.users.On("GetByID", mock.Anything, sess.UserID).Return(user, nil).Once()
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.FullName == "Dr. A. Rao" && u.Phone == nil
	})).Return(nil).Once()

	_, err = f.svc.Register(testContext(t), sess, AccountInput{FullName: "Dr. A. Rao"})
	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestAccountService_RegisterInvalid(t *testing.T) {
	f := newAccountFixture()
	sess := domain.Session{UserID: uuid.New(), Role: domain.RolePatient}
	bad := "98123"

	_, err := f.svc.Register(testContext(t), sess, AccountInput{FullName: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Register(testContext(t), sess, AccountInput{FullName: "Asha", Phone: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Register(testContext(t), domain.Session{}, AccountInput{FullName: "Asha"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_MeUnregistered(t *testing.T) {
	f := newAccountFixture()
	sess := domain.Session{UserID: uuid.New(), Role: domain.RolePatient}
	f.users.On("GetByID", mock.Anything, sess.UserID).Return(nil, nil)

	_, err := f.svc.Me(testContext(t), sess)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.IssueTelegramLink(testContext(t), sess)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.links.byHash)
}

func TestAccountService_IssueAndLinkTelegram(t *testing.T) {
	f := newAccountFixture()
	admin := &domain.User{ID: uuid.New(), FullName: "Ops", Role: domain.RoleAdmin}
	sess := admin.Session()
	chatID := int64(777)

	f.users.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	f.users.On("GetByTelegramChatID", mock.Anything, chatID).Return(nil, nil).Once()
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == admin.ID && u.TelegramChatID != nil && *u.TelegramChatID == chatID
	})).Return(nil).Once()

	issue, err := f.svc.IssueTelegramLink(testContext(t), sess)
	require.NoError(t, err)
	assert.Equal(t, f.now.Add(TelegramLinkTTL), issue.ExpiresAt)
	assert.Contains(t, f.links.byHash, "fp:"+issue.Token, "only the fingerprint is stored")

	linked, err := f.svc.LinkTelegram(testContext(t), issue.Token, chatID)
	require.NoError(t, err)
	assert.Equal(t, chatID, *linked.TelegramChatID)
	f.users.AssertExpectations(t)

	_, err = f.svc.LinkTelegram(testContext(t), issue.Token, chatID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "tokens are single use")
}

func TestAccountService_LinkTelegramExpiredOrMalformed(t *testing.T) {
	f := newAccountFixture()
	user := &domain.User{ID: uuid.New(), FullName: "Asha", Role: domain.RolePatient}
	f.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	issue, err := f.svc.IssueTelegramLink(testContext(t), user.Session())
	require.NoError(t, err)

	f.now = f.now.Add(TelegramLinkTTL + time.Second)
	_, err = f.svc.LinkTelegram(testContext(t), issue.Token, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.LinkTelegram(testContext(t), "not-a-token", 5)
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAccountService_LinkTelegramMovesChat(t *testing.T) {
	f := newAccountFixture()
	chatID := int64(42)
	oldOwner := &domain.User{ID: uuid.New(), FullName: "Old", Role: domain.RolePatient, TelegramChatID: &chatID}
	newOwner := &domain.User{ID: uuid.New(), FullName: "New", Role: domain.RolePatient}

	f.users.On("GetByID", mock.Anything, newOwner.ID).Return(newOwner, nil)
	f.users.On("GetByTelegramChatID", mock.Anything, chatID).Return(oldOwner, nil).Once()
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == oldOwner.ID && u.TelegramChatID == nil
	})).Return(nil).Once()
	f.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == newOwner.ID && u.TelegramChatID != nil
	})).Return(nil).Once()

	issue, err := f.svc.IssueTelegramLink(testContext(t), newOwner.Session())
	require.NoError(t, err)
	_, err = f.svc.LinkTelegram(testContext(t), issue.Token, chatID)
	require.NoError(t, err)
	f.users.AssertExpectations(t)
}

func TestGenerateLinkToken(t *testing.T) {
	a, err := GenerateLinkToken()
	require.NoError(t, err)
	b, err := GenerateLinkToken()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{32}$`, a)
	assert.NotEqual(t, a, b)
}
