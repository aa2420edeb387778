package tokengenerator

import (
	"fmt"
	"time"
)

// Token use constants, carried in the token_use claim
const (
	VERIFICATION_TOKEN_USE = "verification"
	SESSION_TOKEN_USE      = "session"
)

// Default token expiry durations
const (
	DefaultVerificationTokenExpiry = 24 * time.Hour
	DefaultSessionTokenExpiry      = 7 * 24 * time.Hour
)

// TokenService issues the two kinds of tokens an account ever receives.
type TokenService struct {
	generator TokenGenerator

	VerificationTokenExpiry time.Duration
	SessionTokenExpiry      time.Duration
}

// TokenServiceOption is a function that configures a TokenService
type TokenServiceOption func(*TokenService)

// WithVerificationTokenExpiry sets the verification token lifetime
func WithVerificationTokenExpiry(expiry time.Duration) TokenServiceOption {
	return func(ts *TokenService) {
		ts.VerificationTokenExpiry = expiry
	}
}

// WithSessionTokenExpiry sets the session token lifetime
func WithSessionTokenExpiry(expiry time.Duration) TokenServiceOption {
	return func(ts *TokenService) {
		ts.SessionTokenExpiry = expiry
	}
}

// NewTokenService creates a new TokenService
func NewTokenService(generator TokenGenerator, options ...TokenServiceOption) *TokenService {
	ts := &TokenService{
		generator:               generator,
		VerificationTokenExpiry: DefaultVerificationTokenExpiry,
		SessionTokenExpiry:      DefaultSessionTokenExpiry,
	}

	for _, option := range options {
		option(ts)
	}

	return ts
}

// IssueVerificationToken signs a token bound to email
func (ts *TokenService) IssueVerificationToken(email string) (string, time.Time, error) {
	claims := Claims{TokenUse: VERIFICATION_TOKEN_USE, Email: email}
	claims.Subject = email
	return ts.generator.GenerateToken(claims, ts.VerificationTokenExpiry)
}

// IssueSessionToken signs a bearer token whose subject is the account id
func (ts *TokenService) IssueSessionToken(accountID string) (string, time.Time, error) {
	claims := Claims{TokenUse: SESSION_TOKEN_USE}
	claims.Subject = accountID
	return ts.generator.GenerateToken(claims, ts.SessionTokenExpiry)
}

// ParseSessionToken validates a session token and returns its claims
func (ts *TokenService) ParseSessionToken(tokenStr string) (*Claims, error) {
	claims, err := ts.generator.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenUse != SESSION_TOKEN_USE {
		return nil, fmt.Errorf("unexpected token use: %q", claims.TokenUse)
	}
	return claims, nil
}
