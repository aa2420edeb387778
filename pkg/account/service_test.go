package account

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/notification"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/tokengenerator"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type serviceFixture struct {
	service  *AccountService
	repo     *InMemAccountRepository
	notifier *notification.MockNotifier
	tokens   *tokengenerator.TokenService
	clock    *testClock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	repo := NewInMemAccountRepository()
	notifier := &notification.MockNotifier{}
	tokens := tokengenerator.NewTokenService(
		tokengenerator.NewJwtTokenGenerator("test-secret-0123456789", "simple-account", "simple-account"),
	)
	clock := &testClock{now: time.Now().UTC()}

	service := NewAccountService(repo, tokens,
		WithPasswordHasher(password.NewBcryptHasher(4)),
		WithNotifier(notifier),
		WithVerificationBaseURL("http://localhost:2024/api/auth/verify"),
		WithClock(clock.Now),
	)

	return &serviceFixture{
		service:  service,
		repo:     repo,
		notifier: notifier,
		tokens:   tokens,
		clock:    clock,
	}
}

func (f *serviceFixture) pendingToken(t *testing.T, email string) string {
	t.Helper()
	acct, err := f.repo.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotEmpty(t, acct.VerificationToken)
	return acct.VerificationToken
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesUnverifiedAccountAndSendsLink", func(t *testing.T) {
		f := newServiceFixture(t)

		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))

		acct, err := f.repo.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, StatusUnverified, acct.Status)
		assert.NotEqual(t, "pw123", acct.PasswordHash)
		assert.NotEmpty(t, acct.ID)
		require.NotNil(t, acct.VerificationExpiry)
		assert.True(t, f.clock.Now().Add(24*time.Hour).Equal(*acct.VerificationExpiry))

		sent := f.notifier.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "a@x.com", sent[0].To)
		assert.Equal(t, "Verify your email", sent[0].Subject)
		assert.Contains(t, sent[0].Html, "http://localhost:2024/api/auth/verify/"+acct.VerificationToken)
		assert.Contains(t, sent[0].Text, "http://localhost:2024/api/auth/verify/"+acct.VerificationToken)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		f := newServiceFixture(t)

		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		err := f.service.Register(ctx, "a@x.com", "different")
		assert.ErrorIs(t, err, ErrDuplicateAccount)
		assert.Equal(t, "Email already registered", PublicMessage(err))
		assert.Len(t, f.notifier.Sent(), 1)
	})

	t.Run("DuplicateAfterVerification", func(t *testing.T) {
		f := newServiceFixture(t)

		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		require.NoError(t, f.service.VerifyEmail(ctx, f.pendingToken(t, "a@x.com")))
		assert.ErrorIs(t, f.service.Register(ctx, "a@x.com", "pw123"), ErrDuplicateAccount)
	})

	t.Run("MissingFields", func(t *testing.T) {
		f := newServiceFixture(t)

		err := f.service.Register(ctx, "", "pw123")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))
		err = f.service.Register(ctx, "a@x.com", "  ")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))
	})

	t.Run("NotifierFailureKeepsAccount", func(t *testing.T) {
		f := newServiceFixture(t)
		f.notifier.Err = errors.New("smtp unavailable")

		err := f.service.Register(ctx, "a@x.com", "pw123")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInternal))

		acct, err := f.repo.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, StatusUnverified, acct.Status)
	})

	t.Run("ConcurrentSameEmail", func(t *testing.T) {
		f := newServiceFixture(t)

		var wg sync.WaitGroup
		errs := make([]error, 5)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = f.service.Register(ctx, "race@x.com", "pw123")
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrDuplicateAccount)
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		token := f.pendingToken(t, "a@x.com")

		require.NoError(t, f.service.VerifyEmail(ctx, token))

		acct, err := f.repo.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.True(t, acct.IsVerified())
		assert.Empty(t, acct.VerificationToken)
		assert.Nil(t, acct.VerificationExpiry)
	})

	t.Run("SecondUseFails", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		token := f.pendingToken(t, "a@x.com")

		require.NoError(t, f.service.VerifyEmail(ctx, token))
		assert.ErrorIs(t, f.service.VerifyEmail(ctx, token), ErrInvalidOrExpiredToken)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		f := newServiceFixture(t)
		assert.ErrorIs(t, f.service.VerifyEmail(ctx, "never-issued"), ErrInvalidOrExpiredToken)
		assert.ErrorIs(t, f.service.VerifyEmail(ctx, ""), ErrInvalidOrExpiredToken)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		token := f.pendingToken(t, "a@x.com")

		f.clock.Advance(24 * time.Hour)
		err := f.service.VerifyEmail(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
		assert.Equal(t, "Invalid or expired verification token", PublicMessage(err))
	})

	t.Run("JustBeforeExpiry", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		token := f.pendingToken(t, "a@x.com")

		f.clock.Advance(24*time.Hour - time.Second)
		assert.NoError(t, f.service.VerifyEmail(ctx, token))
	})

	t.Run("ConcurrentVerifySucceedsOnce", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		token := f.pendingToken(t, "a@x.com")

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = f.service.VerifyEmail(ctx, token)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
		}
		assert.Equal(t, 1, succeeded)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		require.NoError(t, f.service.VerifyEmail(ctx, f.pendingToken(t, "a@x.com")))

		result, err := f.service.Login(ctx, "a@x.com", "pw123")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)

		claims, err := f.tokens.ParseSessionToken(result.Token)
		require.NoError(t, err)
		acct, err := f.repo.FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, acct.ID, claims.Subject)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), result.ExpiresAt, time.Minute)
	})

	t.Run("UnverifiedEvenWithCorrectPassword", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))

		_, err := f.service.Login(ctx, "a@x.com", "pw123")
		assert.ErrorIs(t, err, ErrUnverifiedAccount)
		assert.Equal(t, "Please verify your email first", PublicMessage(err))

		// unverified is reported before the password is checked
		_, err = f.service.Login(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, err, ErrUnverifiedAccount)
	})

	t.Run("WrongPasswordAndUnknownEmailLookAlike", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		require.NoError(t, f.service.VerifyEmail(ctx, f.pendingToken(t, "a@x.com")))

		_, wrongPassword := f.service.Login(ctx, "a@x.com", "wrong")
		assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)

		_, unknown := f.service.Login(ctx, "nobody@x.com", "pw123")
		assert.ErrorIs(t, unknown, ErrUnknownAccount)

		assert.Equal(t, PublicMessage(wrongPassword), PublicMessage(unknown))
		assert.Equal(t, "Invalid credentials", PublicMessage(unknown))
		assert.Equal(t, apperrors.MapErrorCodeToHTTPStatus(apperrors.GetCode(wrongPassword)),
			apperrors.MapErrorCodeToHTTPStatus(apperrors.GetCode(unknown)))
	})

	t.Run("PasswordLongerThan72Bytes", func(t *testing.T) {
		f := newServiceFixture(t)
		long := strings.Repeat("p", 73)
		require.NoError(t, f.service.Register(ctx, "a@x.com", long))
		require.NoError(t, f.service.VerifyEmail(ctx, f.pendingToken(t, "a@x.com")))

		result, err := f.service.Login(ctx, "a@x.com", long)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)

		_, err = f.service.Login(ctx, "a@x.com", strings.Repeat("p", 71))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("EmailIsCaseSensitive", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))
		require.NoError(t, f.service.VerifyEmail(ctx, f.pendingToken(t, "a@x.com")))

		_, err := f.service.Login(ctx, strings.ToUpper("a@x.com"), "pw123")
		assert.ErrorIs(t, err, ErrUnknownAccount)
	})
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	require.NoError(t, f.service.Register(ctx, "a@x.com", "pw123"))

	stored, err := f.repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	acct, err := f.service.GetAccount(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", acct.Email)

	_, err = f.service.GetAccount(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestRegister_Argon2Hasher(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	hasher, err := password.NewPasswordHasher(password.AlgorithmArgon2id, 4)
	require.NoError(t, err)
	f.service = NewAccountService(f.repo, f.tokens,
		WithPasswordHasher(hasher),
		WithNotifier(f.notifier),
		WithClock(f.clock.Now),
	)

	require.NoError(t, f.service.Register(ctx, "argon@x.com", "pw123"))
	require.NoError(t, f.service.VerifyEmail(ctx, f.pendingToken(t, "argon@x.com")))

	acct, err := f.repo.FindByEmail(ctx, "argon@x.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(acct.PasswordHash, "$argon2id$"))

	_, err = f.service.Login(ctx, "argon@x.com", "pw123")
	assert.NoError(t, err)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Email already registered", PublicMessage(ErrDuplicateAccount))
	assert.Equal(t, "Server error", PublicMessage(apperrors.InternalWrap(errors.New("db down"), "failed")))
	assert.Equal(t, "Server error", PublicMessage(errors.New("plain")))
}
