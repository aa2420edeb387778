package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/notice"
	"github.com/tendant/simple-account/pkg/notification"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/tokengenerator"
)

const DefaultVerificationBaseURL = "http://localhost:2024/api/auth/verify"

// AccountService drives the account lifecycle: register, verify email, login.
// It keeps no state between calls beyond its collaborators.
type AccountService struct {
	repo                AccountRepository
	tokens              *tokengenerator.TokenService
	hasher              password.PasswordHasher
	notifier            notification.Notifier
	verificationBaseURL string
	now                 func() time.Time
}

// Option configures an AccountService
type Option func(*AccountService)

// WithPasswordHasher sets the password hasher (default bcrypt, cost 12)
func WithPasswordHasher(hasher password.PasswordHasher) Option {
	return func(s *AccountService) {
		s.hasher = hasher
	}
}

// WithNotifier sets where verification messages go (default: log only)
func WithNotifier(notifier notification.Notifier) Option {
	return func(s *AccountService) {
		s.notifier = notifier
	}
}

// WithVerificationBaseURL sets the link prefix the raw token is appended to
func WithVerificationBaseURL(baseURL string) Option {
	return func(s *AccountService) {
		s.verificationBaseURL = baseURL
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *AccountService) {
		s.now = now
	}
}

// NewAccountService creates a new AccountService
func NewAccountService(repo AccountRepository, tokens *tokengenerator.TokenService, opts ...Option) *AccountService {
	s := &AccountService{
		repo:                repo,
		tokens:              tokens,
		hasher:              password.NewBcryptHasher(password.DefaultBcryptCost),
		notifier:            notification.NewLogNotifier(slog.Default()),
		verificationBaseURL: DefaultVerificationBaseURL,
		now:                 time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LoginResult carries the session token issued on successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Register creates an unverified account and sends the verification link.
// The account is persisted before the message is sent; a failed send leaves
// the account unverified and is reported as an internal error.
func (s *AccountService) Register(ctx context.Context, email, rawPassword string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(rawPassword) == "" {
		return ErrMissingCredentials
	}

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		slog.Info("Registration rejected, email already registered", "email", email)
		return ErrDuplicateAccount
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return apperrors.InternalWrap(err, "failed to look up account")
	}

	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return apperrors.InternalWrap(err, "failed to hash password")
	}

	token, _, err := s.tokens.IssueVerificationToken(email)
	if err != nil {
		return apperrors.InternalWrap(err, "failed to issue verification token")
	}

	now := s.now().UTC()
	expiry := now.Add(s.tokens.VerificationTokenExpiry)
	acct := &Account{
		ID:                 uuid.NewString(),
		Email:              email,
		PasswordHash:       hash,
		Status:             StatusUnverified,
		VerificationToken:  token,
		VerificationExpiry: &expiry,
		Version:            1,
		CreatedAt:          now,
	}

	if err := s.repo.Insert(ctx, acct); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			slog.Info("Registration rejected, email already registered", "email", email)
			return ErrDuplicateAccount
		}
		return apperrors.InternalWrap(err, "failed to save account")
	}
	slog.Info("Account registered", "account_id", acct.ID, "email", email)

	link := notice.VerificationLink(s.verificationBaseURL, token)
	message, err := notice.VerificationNotice(email, link, s.tokens.VerificationTokenExpiry)
	if err != nil {
		return apperrors.InternalWrap(err, "failed to render verification email")
	}
	if err := s.notifier.Send(ctx, message); err != nil {
		slog.Error("Failed to send verification email", "account_id", acct.ID, "email", email, "error", err)
		return apperrors.InternalWrap(err, "failed to send verification email")
	}

	return nil
}

// VerifyEmail consumes a pending verification token.
// Validity is decided by the stored token and stored expiry, not by the token signature.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidOrExpiredToken
	}

	acct, err := s.repo.FindByValidToken(ctx, token, s.now().UTC())
	if errors.Is(err, ErrAccountNotFound) {
		return ErrInvalidOrExpiredToken
	}
	if err != nil {
		return apperrors.InternalWrap(err, "failed to look up verification token")
	}

	acct.MarkVerified()
	if err := s.repo.Update(ctx, acct); err != nil {
		if errors.Is(err, ErrStaleAccount) {
			// lost a race with another verification of the same token
			return ErrInvalidOrExpiredToken
		}
		return apperrors.InternalWrap(err, "failed to save account")
	}

	slog.Info("Email verified", "account_id", acct.ID, "email", acct.Email)
	return nil
}

// Login checks credentials and issues a session token.
// The verification check comes before the password check.
func (s *AccountService) Login(ctx context.Context, email, rawPassword string) (LoginResult, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(rawPassword) == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	acct, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return LoginResult{}, ErrUnknownAccount
	}
	if err != nil {
		return LoginResult{}, apperrors.InternalWrap(err, "failed to look up account")
	}

	if !acct.IsVerified() {
		return LoginResult{}, ErrUnverifiedAccount
	}

	ok, err := s.hasher.Verify(rawPassword, acct.PasswordHash)
	if err != nil {
		return LoginResult{}, apperrors.InternalWrap(err, "failed to verify password")
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueSessionToken(acct.ID)
	if err != nil {
		return LoginResult{}, apperrors.InternalWrap(err, "failed to issue session token")
	}

	slog.Info("Login succeeded", "account_id", acct.ID)
	return LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// GetAccount loads an account by id for an authenticated caller
func (s *AccountService) GetAccount(ctx context.Context, id string) (*Account, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrUnknownAccount
	}
	if err != nil {
		return nil, apperrors.InternalWrap(err, "failed to load account")
	}
	return acct, nil
}
