package account

import "time"

// VerificationStatus is the verification state of an account
type VerificationStatus string

const (
	StatusUnverified VerificationStatus = "unverified"
	StatusVerified   VerificationStatus = "verified"
)

// Account is the persisted identity record.
// VerificationToken and VerificationExpiry are set together and cleared together.
type Account struct {
	ID                 string             `json:"id" bson:"_id"`
	Email              string             `json:"email" bson:"email"`
	PasswordHash       string             `json:"password_hash" bson:"password_hash"`
	Status             VerificationStatus `json:"status" bson:"status"`
	VerificationToken  string             `json:"verification_token,omitempty" bson:"verification_token,omitempty"`
	VerificationExpiry *time.Time         `json:"verification_expiry,omitempty" bson:"verification_expiry,omitempty"`
	Version            int64              `json:"version" bson:"version"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
}

// IsVerified reports whether the email has been verified
func (a *Account) IsVerified() bool {
	return a.Status == StatusVerified
}

// HasValidToken reports whether token matches the pending token and is still
// strictly before its expiry at now.
func (a *Account) HasValidToken(token string, now time.Time) bool {
	if token == "" || a.VerificationToken != token || a.VerificationExpiry == nil {
		return false
	}
	return now.Before(*a.VerificationExpiry)
}

// MarkVerified flips the account to verified and clears the pending token.
func (a *Account) MarkVerified() {
	a.Status = StatusVerified
	a.VerificationToken = ""
	a.VerificationExpiry = nil
}

func (a *Account) clone() *Account {
	c := *a
	if a.VerificationExpiry != nil {
		expiry := *a.VerificationExpiry
		c.VerificationExpiry = &expiry
	}
	return &c
}
