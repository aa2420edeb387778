package account

import (
	"context"
	"sync"
	"time"
)

// InMemAccountRepository implements AccountRepository using in-memory maps
type InMemAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*Account // Key: account ID
	byEmail  map[string]string   // Key: email, value: account ID
}

// NewInMemAccountRepository creates a new in-memory account repository
func NewInMemAccountRepository() *InMemAccountRepository {
	return &InMemAccountRepository{
		accounts: make(map[string]*Account),
		byEmail:  make(map[string]string),
	}
}

func (r *InMemAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return r.accounts[id].clone(), nil
}

func (r *InMemAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acct, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.clone(), nil
}

func (r *InMemAccountRepository) FindByValidToken(ctx context.Context, token string, now time.Time) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, acct := range r.accounts {
		if acct.HasValidToken(token, now) {
			return acct.clone(), nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *InMemAccountRepository) Insert(ctx context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return insertInto(r.accounts, r.byEmail, account)
}

func (r *InMemAccountRepository) Update(ctx context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := updateIn(r.accounts, account)
	return err
}

// insertInto and updateIn hold the map logic shared with the file repository.
// Callers must hold the write lock.
func insertInto(accounts map[string]*Account, byEmail map[string]string, account *Account) error {
	if _, exists := byEmail[account.Email]; exists {
		return ErrDuplicateEmail
	}
	if _, exists := accounts[account.ID]; exists {
		return ErrDuplicateEmail
	}
	accounts[account.ID] = account.clone()
	byEmail[account.Email] = account.ID
	return nil
}

// updateIn returns the previous stored record so callers can roll back.
func updateIn(accounts map[string]*Account, account *Account) (*Account, error) {
	stored, ok := accounts[account.ID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	if stored.Version != account.Version {
		return nil, ErrStaleAccount
	}

	next := stored.clone()
	next.Status = account.Status
	next.VerificationToken = account.VerificationToken
	next.VerificationExpiry = account.clone().VerificationExpiry
	next.Version = stored.Version + 1

	accounts[account.ID] = next
	account.Version = next.Version
	return stored, nil
}
