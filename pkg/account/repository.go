package account

import (
	"context"
	"time"
)

// AccountRepository is the credential store.
// Insert must fail with ErrDuplicateEmail atomically; Update must fail with
// ErrStaleAccount when account.Version no longer matches the stored record.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	// FindByValidToken returns the account whose pending token equals token and
	// whose expiry is strictly after now.
	FindByValidToken(ctx context.Context, token string, now time.Time) (*Account, error)
	Insert(ctx context.Context, account *Account) error
	// Update persists status and verification fields and bumps account.Version.
	Update(ctx context.Context, account *Account) error
}
