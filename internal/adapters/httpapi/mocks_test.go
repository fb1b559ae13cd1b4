package httpapi

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/services"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAccounts struct{ mock.Mock }

func (m *MockAccounts) Register(ctx context.Context, sess domain.Session, in services.AccountInput) (*domain.User, error) {
	args := m.Called(sess, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAccounts) Me(ctx context.Context, sess domain.Session) (*domain.User, error) {
	args := m.Called(sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAccounts) IssueTelegramLink(ctx context.Context, sess domain.Session) (*services.TelegramLinkIssue, error) {
	args := m.Called(sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TelegramLinkIssue), args.Error(1)
}

type MockVerifications struct{ mock.Mock }

func (m *MockVerifications) Submit(ctx context.Context, sess domain.Session, docs []domain.Document) (*domain.DoctorVerification, error) {
	args := m.Called(sess, docs)
	return verificationOrNil(args.Get(0)), args.Error(1)
}
func (m *MockVerifications) Query(ctx context.Context, sess domain.Session, doctorID uuid.UUID) (*domain.DoctorVerification, error) {
	args := m.Called(sess, doctorID)
	return verificationOrNil(args.Get(0)), args.Error(1)
}
func (m *MockVerifications) Review(ctx context.Context, sess domain.Session, id uuid.UUID, decision domain.DoctorVerificationStatus, notes *string) (*domain.DoctorVerification, error) {
	args := m.Called(sess, id, decision, notes)
	return verificationOrNil(args.Get(0)), args.Error(1)
}
func (m *MockVerifications) Reopen(ctx context.Context, sess domain.Session, id uuid.UUID, notes *string) (*domain.DoctorVerification, error) {
	args := m.Called(sess, id, notes)
	return verificationOrNil(args.Get(0)), args.Error(1)
}
func (m *MockVerifications) ListRequests(ctx context.Context, sess domain.Session, filter domain.VerificationFilter) ([]*domain.VerificationRequest, error) {
	args := m.Called(sess, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VerificationRequest), args.Error(1)
}
func (m *MockVerifications) Stats(ctx context.Context, sess domain.Session) (*domain.VerificationStats, error) {
	args := m.Called(sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationStats), args.Error(1)
}

func verificationOrNil(v any) *domain.DoctorVerification {
	if v == nil {
		return nil
	}
	return v.(*domain.DoctorVerification)
}

type MockProfiles struct{ mock.Mock }

func (m *MockProfiles) Save(ctx context.Context, sess domain.Session, p *domain.DoctorProfile) (*domain.DoctorProfile, error) {
	args := m.Called(sess, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DoctorProfile), args.Error(1)
}
func (m *MockProfiles) Get(ctx context.Context, sess domain.Session, doctorID uuid.UUID) (*domain.DoctorProfile, error) {
	args := m.Called(sess, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DoctorProfile), args.Error(1)
}
func (m *MockProfiles) ListBookable(ctx context.Context, sess domain.Session, limit, offset int) ([]*domain.DoctorProfile, error) {
	args := m.Called(sess, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DoctorProfile), args.Error(1)
}

type MockAadhaar struct{ mock.Mock }

func (m *MockAadhaar) SendOtp(ctx context.Context, sess domain.Session, number string) (*services.OTPIssue, error) {
	args := m.Called(sess, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OTPIssue), args.Error(1)
}
func (m *MockAadhaar) VerifyOtp(ctx context.Context, sess domain.Session, code string) (*domain.AadhaarVerification, error) {
	args := m.Called(sess, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AadhaarVerification), args.Error(1)
}
func (m *MockAadhaar) Status(ctx context.Context, sess domain.Session) (*domain.AadhaarVerification, error) {
	args := m.Called(sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AadhaarVerification), args.Error(1)
}

type MockAbha struct{ mock.Mock }

func (m *MockAbha) Initiate(ctx context.Context, sess domain.Session, abhaID string) (*domain.AbhaVerification, error) {
	args := m.Called(sess, abhaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AbhaVerification), args.Error(1)
}
func (m *MockAbha) MarkVerified(ctx context.Context, sess domain.Session, id uuid.UUID) (*domain.AbhaVerification, error) {
	args := m.Called(sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AbhaVerification), args.Error(1)
}
func (m *MockAbha) Status(ctx context.Context, sess domain.Session) (*domain.AbhaVerification, error) {
	args := m.Called(sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AbhaVerification), args.Error(1)
}

// denyAll is a throttle that is always full.
type denyAll struct{}

func (denyAll) Allow(ctx context.Context, key string) (bool, error) { return false, nil }
