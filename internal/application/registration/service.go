package registration

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/storefront-api/internal/infrastructure/memstore"
	"github.com/storefront-api/internal/infrastructure/smtp"
	"github.com/storefront-api/internal/infrastructure/sns"
	"github.com/storefront-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost for admin passwords. Higher than the default because these
// accounts hold the keys to the store.
const bcryptCost = 12

type InitiateRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required"`
}

type VerifyRequest struct {
	RequestID string `json:"request_id" validate:"required"`
	Code      string `json:"code" validate:"required,len=6"`
}

// Service implements the approver-gated admin registration workflow:
// Initiate parks the submission and mails a one-time code to the approver
// inbox; Verify redeems the code and only then creates the account.
type Service interface {
	Initiate(ctx context.Context, req InitiateRequest) (requestID string, err error)
	Verify(ctx context.Context, req VerifyRequest) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type pendingStore interface {
	Put(requestID, code, email, password, displayName string)
	Get(requestID string) (memstore.PendingSignup, bool)
	Delete(requestID string)
	FailAttempt(requestID string) (remaining int, alive bool)
}

type service struct {
	pending       pendingStore
	userRepo      userStore
	mailer        smtp.Mailer
	smsSender     sns.SMSSender // optional
	approverEmail string
	approverPhone string
	now           func() time.Time
}

type ServiceDeps struct {
	PendingStore  pendingStore
	UserRepo      userStore
	Mailer        smtp.Mailer
	SMSSender     sns.SMSSender
	ApproverEmail string
	ApproverPhone string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		pending:       deps.PendingStore,
		userRepo:      deps.UserRepo,
		mailer:        deps.Mailer,
		smsSender:     deps.SMSSender,
		approverEmail: deps.ApproverEmail,
		approverPhone: deps.ApproverPhone,
		now:           time.Now,
	}
}

// Initiate parks the submission in the pending store and emails the code to
// the approver. The code is never returned to the HTTP caller.
func (s *service) Initiate(ctx context.Context, req InitiateRequest) (string, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return "", fmt.Errorf("an account already exists for this email: %w", domain.ErrConflict)
	}

	code, err := newCode()
	if err != nil {
		return "", err
	}
	requestID := id.New()
	s.pending.Put(requestID, code, req.Email, req.Password, req.DisplayName)

	if err := s.mailer.SendEmail(s.approverEmail, "Admin Registration Request", approverEmailBody(req.Email, req.DisplayName, requestID, code)); err != nil {
		// The orphaned pending record is reaped by the sweeper.
		return "", fmt.Errorf("send approval email: %w", err)
	}
	return requestID, nil
}

// Verify walks the pending record's state machine: unknown, expired,
// code mismatch, or valid. Only the valid path touches the users table.
func (s *service) Verify(ctx context.Context, req VerifyRequest) (*domain.User, error) {
	rec, ok := s.pending.Get(req.RequestID)
	if !ok {
		return nil, fmt.Errorf("invalid or expired request: %w", domain.ErrBadRequest)
	}

	if s.now().After(rec.ExpiresAt) {
		s.pending.Delete(req.RequestID)
		return nil, fmt.Errorf("code has expired, request a new one: %w", domain.ErrBadRequest)
	}

	if rec.Code != req.Code {
		if remaining, alive := s.pending.FailAttempt(req.RequestID); !alive {
			slog.Warn("pending registration dropped after too many wrong codes", "request_id", req.RequestID)
		} else {
			slog.Debug("wrong registration code", "request_id", req.RequestID, "attempts_left", remaining)
		}
		return nil, fmt.Errorf("invalid verification code: %w", domain.ErrBadRequest)
	}

	// Re-check at redemption time. Best effort only: the email GSI is
	// eventually consistent, so two verifies racing on one email can both
	// pass this check.
	if _, err := s.userRepo.GetByEmail(ctx, rec.Email); err == nil {
		s.pending.Delete(req.RequestID)
		return nil, fmt.Errorf("an account already exists for this email: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rec.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        rec.Email,
		PasswordHash: string(hash),
		DisplayName:  rec.DisplayName,
		Role:         domain.RoleAdmin,
		AuthProvider: domain.ProviderLocal,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		// Record kept: the approver's code stays redeemable until TTL, so a
		// transient store failure doesn't force a new round trip to the inbox.
		return nil, err
	}
	s.pending.Delete(req.RequestID)

	if s.smsSender != nil && s.approverPhone != "" {
		if err := s.smsSender.SendSMS(ctx, s.approverPhone, "New admin account created: "+u.Email); err != nil {
			slog.Warn("failed to send admin-created SMS alert", "err", err)
		}
	}
	return u, nil
}

// newCode returns a uniform 6-digit code from a CSPRNG.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func approverEmailBody(email, displayName, requestID, code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Admin Registration Request</h2>
  <p>A new admin registration request has been received:</p>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Email:</strong> %s</p>
    <p><strong>Name:</strong> %s</p>
    <p><strong>Request ID:</strong> %s</p>
  </div>
  <div style="background: #e3f2fd; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p style="font-size: 24px; font-weight: bold; color: #1976d2; margin: 0;">%s</p>
    <p style="font-size: 12px; color: #666; margin: 10px 0 0 0;">This code expires in 10 minutes.</p>
  </div>
  <p style="color: #666; font-size: 14px;">If you did not expect this registration request, ignore this email.</p>
</div>`, email, displayName, requestID, code)
}
