package services

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAbhaService() (*AbhaService, *fakeAbhaRepo, *MockEventBus) {
	nopLogger := zerolog.Nop()
	repo := newFakeAbhaRepo()
	bus := new(MockEventBus)
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewAbhaService(&passthroughTx{}, repo, bus, &nopLogger), repo, bus
}

func TestAbhaService_InitiateVerifyConflict(t *testing.T) {
	svc, _, bus := newAbhaService()
	a := patientSession()
	b := patientSession()
	const abhaID = "12345678901234"

	v, err := svc.Initiate(testContext(t), a, abhaID)
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityPending, v.Status)

	verified, err := svc.MarkVerified(testContext(t), adminSession(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityVerified, verified.Status)
	assert.NotNil(t, verified.VerifiedAt)
	bus.AssertCalled(t, "Publish", mock.Anything, ports.TopicAbhaVerified, mock.Anything)

	_, err = svc.Initiate(testContext(t), b, abhaID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Initiate(testContext(t), a, abhaID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAbhaService_InitiateReplacesPending(t *testing.T) {
	svc, repo, _ := newAbhaService()
	sess := patientSession()

	first, err := svc.Initiate(testContext(t), sess, "12345678901234")
	require.NoError(t, err)
	second, err := svc.Initiate(testContext(t), sess, "99999999999999")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.VerificationToken, second.VerificationToken)

	stored, _ := repo.GetBySubject(testContext(t), sess.UserID)
	assert.Equal(t, "99999999999999", stored.AbhaID)
}

func TestAbhaService_InitiateInvalid(t *testing.T) {
	svc, repo, _ := newAbhaService()
	_, err := svc.Initiate(testContext(t), patientSession(), "1234")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, repo.bySubject)
}

func TestAbhaService_MarkVerified(t *testing.T) {
	svc, _, _ := newAbhaService()
	sess := patientSession()
	v, err := svc.Initiate(testContext(t), sess, "12345678901234")
	require.NoError(t, err)

	_, err = svc.MarkVerified(testContext(t), sess, v.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.MarkVerified(testContext(t), adminSession(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.MarkVerified(testContext(t), adminSession(), v.ID)
	require.NoError(t, err)
	_, err = svc.MarkVerified(testContext(t), adminSession(), v.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	status, err := svc.Status(testContext(t), sess)
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityVerified, status.Status)
}
