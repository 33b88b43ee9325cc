package registration

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/infrastructure/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockPendingStore struct{ mock.Mock }

func (m *mockPendingStore) Put(requestID, code, email, password, displayName string) {
	m.Called(requestID, code, email, password, displayName)
}
func (m *mockPendingStore) Get(requestID string) (memstore.PendingSignup, bool) {
	args := m.Called(requestID)
	return args.Get(0).(memstore.PendingSignup), args.Bool(1)
}
func (m *mockPendingStore) Delete(requestID string) {
	m.Called(requestID)
}
func (m *mockPendingStore) FailAttempt(requestID string) (int, bool) {
	args := m.Called(requestID)
	return args.Int(0), args.Bool(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, msg string) error {
	return m.Called(ctx, to, msg).Error(0)
}

// --- builder ---

func newService(ps pendingStore, us *mockUserStore, ml *mockMailer) Service {
	return NewService(ServiceDeps{
		PendingStore:  ps,
		UserRepo:      us,
		Mailer:        ml,
		ApproverEmail: "approvals@example.com",
	})
}

func pending(code string) memstore.PendingSignup {
	return memstore.PendingSignup{
		RequestID:   "r1",
		Code:        code,
		Email:       "a@x.com",
		Password:    "pw12345678",
		DisplayName: "A",
		ExpiresAt:   time.Now().Add(10 * time.Minute),
	}
}

// --- Initiate ---

func TestInitiate_ExistingAccount_Conflict(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPendingStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{UserID: "u1", Email: "a@x.com"}, nil)

	svc := newService(ps, us, ml)
	_, err := svc.Initiate(context.Background(), InitiateRequest{Email: "a@x.com", Password: "pw12345678", DisplayName: "A"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	ps.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiate_HappyPath_EmailsApproverNotRegistrant(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPendingStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	var storedCode string
	ps.On("Put", mock.Anything, mock.Anything, "a@x.com", "pw12345678", "A").
		Run(func(args mock.Arguments) { storedCode = args.String(1) }).Return()
	var mailedBody string
	ml.On("SendEmail", "approvals@example.com", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { mailedBody = args.String(2) }).Return(nil)

	svc := newService(ps, us, ml)
	requestID, err := svc.Initiate(context.Background(), InitiateRequest{Email: "a@x.com", Password: "pw12345678", DisplayName: "A"})

	require.NoError(t, err)
	assert.NotEmpty(t, requestID)
	assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), storedCode)
	assert.Contains(t, mailedBody, storedCode)
	assert.Contains(t, mailedBody, requestID)
	ps.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestInitiate_MailFailure_SurfacesError(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPendingStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ps.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(ps, us, ml)
	_, err := svc.Initiate(context.Background(), InitiateRequest{Email: "a@x.com", Password: "pw12345678", DisplayName: "A"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrConflict))
	assert.False(t, errors.Is(err, domain.ErrBadRequest))
	// The orphaned record is left for the sweeper, not rolled back.
	ps.AssertNotCalled(t, "Delete", mock.Anything)
}

// --- Verify ---

func TestVerify_UnknownRequestID(t *testing.T) {
	ps := &mockPendingStore{}
	ps.On("Get", "never-issued").Return(memstore.PendingSignup{}, false)

	svc := newService(ps, &mockUserStore{}, &mockMailer{})
	_, err := svc.Verify(context.Background(), VerifyRequest{RequestID: "never-issued", Code: "482913"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestVerify_Expired_DeletesRecord(t *testing.T) {
	ps := &mockPendingStore{}
	rec := pending("482913")
	rec.ExpiresAt = time.Now().Add(-time.Minute)
	ps.On("Get", "r1").Return(rec, true)
	ps.On("Delete", "r1").Return()

	svc := newService(ps, &mockUserStore{}, &mockMailer{})
	_, err := svc.Verify(context.Background(), VerifyRequest{RequestID: "r1", Code: "482913"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "expired")
	ps.AssertCalled(t, "Delete", "r1")
}

func TestVerify_WrongCode_RecordRetained(t *testing.T) {
	ps := &mockPendingStore{}
	ps.On("Get", "r1").Return(pending("482913"), true)
	ps.On("FailAttempt", "r1").Return(4, true)

	svc := newService(ps, &mockUserStore{}, &mockMailer{})
	_, err := svc.Verify(context.Background(), VerifyRequest{RequestID: "r1", Code: "000000"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Contains(t, err.Error(), "invalid verification code")
	ps.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestVerify_ConflictAtRedemption(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPendingStore{}
	ps.On("Get", "r1").Return(pending("482913"), true)
	ps.On("Delete", "r1").Return()
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{UserID: "u1"}, nil)

	svc := newService(ps, us, &mockMailer{})
	_, err := svc.Verify(context.Background(), VerifyRequest{RequestID: "r1", Code: "482913"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	ps.AssertCalled(t, "Delete", "r1")
}

func TestVerify_HappyPath_CreatesAdmin(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPendingStore{}
	ps.On("Get", "r1").Return(pending("482913"), true)
	ps.On("Delete", "r1").Return()
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	var created *domain.User
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).Return(nil)

	svc := newService(ps, us, &mockMailer{})
	u, err := svc.Verify(context.Background(), VerifyRequest{RequestID: "r1", Code: "482913"})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "A", u.DisplayName)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.NotEmpty(t, u.UserID)
	// The stored hash must verify against the submitted password and never equal it.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("pw12345678")))
	assert.NotEqual(t, "pw12345678", created.PasswordHash)
	ps.AssertCalled(t, "Delete", "r1")
}

func TestVerify_InsertFailure_RecordRetained(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPendingStore{}
	ps.On("Get", "r1").Return(pending("482913"), true)
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo unavailable"))

	svc := newService(ps, us, &mockMailer{})
	_, err := svc.Verify(context.Background(), VerifyRequest{RequestID: "r1", Code: "482913"})

	require.Error(t, err)
	ps.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestVerify_SendsApproverSMSWhenConfigured(t *testing.T) {
	us := &mockUserStore{}
	ps := &mockPendingStore{}
	sms := &mockSMSSender{}
	ps.On("Get", "r1").Return(pending("482913"), true)
	ps.On("Delete", "r1").Return()
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.Anything).Return(nil)
	sms.On("SendSMS", mock.Anything, "+15550001111", mock.Anything).Return(nil)

	svc := NewService(ServiceDeps{
		PendingStore:  ps,
		UserRepo:      us,
		Mailer:        &mockMailer{},
		SMSSender:     sms,
		ApproverEmail: "approvals@example.com",
		ApproverPhone: "+15550001111",
	})
	_, err := svc.Verify(context.Background(), VerifyRequest{RequestID: "r1", Code: "482913"})

	require.NoError(t, err)
	sms.AssertExpectations(t)
}

// --- end to end against the real pending store ---

func TestInitiateThenVerify_SingleUse(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}
	store := memstore.NewPendingStore()
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newService(store, us, ml)
	requestID, err := svc.Initiate(context.Background(), InitiateRequest{Email: "a@x.com", Password: "pw12345678", DisplayName: "A"})
	require.NoError(t, err)

	rec, ok := store.Get(requestID)
	require.True(t, ok)

	// Wrong code first: record survives.
	_, err = svc.Verify(context.Background(), VerifyRequest{RequestID: requestID, Code: "000000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid verification code")

	// Correct code: created.
	u, err := svc.Verify(context.Background(), VerifyRequest{RequestID: requestID, Code: rec.Code})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	// Same correct code again: consumed.
	_, err = svc.Verify(context.Background(), VerifyRequest{RequestID: requestID, Code: rec.Code})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}
