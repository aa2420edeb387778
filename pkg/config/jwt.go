package config

import (
	"time"
)

const developmentJWTSecret = "very-secure-jwt-secret"

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret                  string        `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer                  string        `env:"JWT_ISSUER" env-default:"simple-account"`
	Audience                string        `env:"JWT_AUDIENCE" env-default:"simple-account"`
	SessionTokenExpiry      time.Duration `env:"SESSION_TOKEN_EXPIRY" env-default:"168h"`
	VerificationTokenExpiry time.Duration `env:"VERIFICATION_TOKEN_EXPIRY" env-default:"24h"`
}

// Validate rejects the built-in development secret outside development.
func (j JWTConfig) Validate() ValidationErrors {
	errs := CollectErrors(
		RequireMinLength("JWT_SECRET", j.Secret, 16),
		RequirePositiveDuration("SESSION_TOKEN_EXPIRY", j.SessionTokenExpiry),
		RequirePositiveDuration("VERIFICATION_TOKEN_EXPIRY", j.VerificationTokenExpiry),
	)
	if j.Secret == developmentJWTSecret && !IsDevelopment() {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be set outside development"})
	}
	return errs
}
