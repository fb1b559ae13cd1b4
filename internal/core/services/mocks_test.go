package services

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

// passthroughTx runs fn directly; it records whether fn failed so tests
// can assert rollback semantics.
type passthroughTx struct {
	calls      int
	rolledBack int
}

var _ ports.TxManager = (*passthroughTx)(nil)

func (t *passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	if err := fn(ctx); err != nil {
		t.rolledBack++
		return err
	}
	return nil
}

// MockDoctorVerificationRepository
type MockDoctorVerificationRepository struct {
	mock.Mock
}

var _ ports.DoctorVerificationRepository = (*MockDoctorVerificationRepository)(nil)

func (m *MockDoctorVerificationRepository) verification(args mock.Arguments) (*domain.DoctorVerification, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DoctorVerification), args.Error(1)
}

func (m *MockDoctorVerificationRepository) GetByDoctorID(ctx context.Context, id uuid.UUID) (*domain.DoctorVerification, error) {
	return m.verification(m.Called(ctx, id))
}
func (m *MockDoctorVerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DoctorVerification, error) {
	return m.verification(m.Called(ctx, id))
}
func (m *MockDoctorVerificationRepository) LockByDoctorID(ctx context.Context, id uuid.UUID) (*domain.DoctorVerification, error) {
	return m.verification(m.Called(ctx, id))
}
func (m *MockDoctorVerificationRepository) LockByID(ctx context.Context, id uuid.UUID) (*domain.DoctorVerification, error) {
	return m.verification(m.Called(ctx, id))
}
func (m *MockDoctorVerificationRepository) Upsert(ctx context.Context, v *domain.DoctorVerification) error {
	return m.Called(ctx, v).Error(0)
}
func (m *MockDoctorVerificationRepository) ListRequests(ctx context.Context, f domain.VerificationFilter) ([]*domain.VerificationRequest, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VerificationRequest), args.Error(1)
}
func (m *MockDoctorVerificationRepository) CountByStatus(ctx context.Context) (map[domain.DoctorVerificationStatus]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.DoctorVerificationStatus]int), args.Error(1)
}

// MockDoctorProfileRepository
type MockDoctorProfileRepository struct {
	mock.Mock
}

var _ ports.DoctorProfileRepository = (*MockDoctorProfileRepository)(nil)

func (m *MockDoctorProfileRepository) Upsert(ctx context.Context, p *domain.DoctorProfile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockDoctorProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DoctorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DoctorProfile), args.Error(1)
}
func (m *MockDoctorProfileRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return m.Called(ctx, id, verified).Error(0)
}
func (m *MockDoctorProfileRepository) ListVerified(ctx context.Context, limit, offset int) ([]*domain.DoctorProfile, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DoctorProfile), args.Error(1)
}
func (m *MockDoctorProfileRepository) CountVerified(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockUserRepository
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

// MockEventBus
type MockEventBus struct {
	mock.Mock
}

var _ ports.EventBus = (*MockEventBus)(nil)

func (m *MockEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	return m.Called(ctx, topic, data).Error(0)
}
func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.Called(topic, handler)
}

// MockOTPSender
type MockOTPSender struct {
	mock.Mock
}

var _ ports.OTPSender = (*MockOTPSender)(nil)

func (m *MockOTPSender) Send(ctx context.Context, msg ports.OTPMessage) error {
	return m.Called(ctx, msg).Error(0)
}

// MockThrottle
type MockThrottle struct {
	mock.Mock
}

var _ ports.RequestThrottle = (*MockThrottle)(nil)

func (m *MockThrottle) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// --- Fakes ---

// plainHasher stores codes with a fixed prefix so tests can see what
// was hashed.
type plainHasher struct{}

func (plainHasher) Hash(code string) (string, error) {
	return "h:" + code, nil
}

func (plainHasher) Matches(hash, code string) bool {
	return hash == "h:"+code
}

// fakeAadhaarRepo keeps issuances in memory keyed by subject and number.
type fakeAadhaarRepo struct {
	mu      sync.Mutex
	records map[string]*domain.AadhaarVerification
	latest  map[uuid.UUID]string
	updates int
}

var _ ports.AadhaarRepository = (*fakeAadhaarRepo)(nil)

func newFakeAadhaarRepo() *fakeAadhaarRepo {
	return &fakeAadhaarRepo{
		records: make(map[string]*domain.AadhaarVerification),
		latest:  make(map[uuid.UUID]string),
	}
}

func (r *fakeAadhaarRepo) Upsert(ctx context.Context, v *domain.AadhaarVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := v.SubjectID.String() + ":" + v.AadhaarNumber
	if old, ok := r.records[key]; ok {
		v.ID = old.ID
	}
	cp := *v
	r.records[key] = &cp
	r.latest[v.SubjectID] = key
	return nil
}

func (r *fakeAadhaarRepo) LatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AadhaarVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.latest[subjectID]
	if !ok {
		return nil, nil
	}
	cp := *r.records[key]
	return &cp, nil
}

func (r *fakeAadhaarRepo) LockLatestBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AadhaarVerification, error) {
	return r.LatestBySubject(ctx, subjectID)
}

func (r *fakeAadhaarRepo) Update(ctx context.Context, v *domain.AadhaarVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	cp := *v
	r.records[v.SubjectID.String()+":"+v.AadhaarNumber] = &cp
	return nil
}

// fakeAbhaRepo keeps one record per subject.
type fakeAbhaRepo struct {
	mu        sync.Mutex
	bySubject map[uuid.UUID]*domain.AbhaVerification
}

var _ ports.AbhaRepository = (*fakeAbhaRepo)(nil)

func newFakeAbhaRepo() *fakeAbhaRepo {
	return &fakeAbhaRepo{bySubject: make(map[uuid.UUID]*domain.AbhaVerification)}
}

func (r *fakeAbhaRepo) Upsert(ctx context.Context, v *domain.AbhaVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.bySubject[v.SubjectID]; ok {
		v.ID = old.ID
	}
	cp := *v
	r.bySubject[v.SubjectID] = &cp
	return nil
}

func (r *fakeAbhaRepo) GetBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AbhaVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.bySubject[subjectID]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeAbhaRepo) LockByID(ctx context.Context, id uuid.UUID) (*domain.AbhaVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.bySubject {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAbhaRepo) FindVerifiedByAbhaID(ctx context.Context, abhaID string) (*domain.AbhaVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.bySubject {
		if v.AbhaID == abhaID && v.Status == domain.IdentityVerified {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAbhaRepo) Update(ctx context.Context, v *domain.AbhaVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.bySubject[v.SubjectID] = &cp
	return nil
}
