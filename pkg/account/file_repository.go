package account

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const accountsFileName = "accounts.json"

// FileAccountRepository implements AccountRepository using a JSON file
type FileAccountRepository struct {
	dataDir  string
	accounts map[string]*Account // Key: account ID
	byEmail  map[string]string   // Key: email
	mutex    sync.RWMutex
}

// accountData represents the structure of data stored in the JSON file
type accountData struct {
	Accounts []*Account `json:"accounts"`
}

// NewFileAccountRepository creates a new file-based account repository
func NewFileAccountRepository(dataDir string) (*FileAccountRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileAccountRepository{
		dataDir:  dataDir,
		accounts: make(map[string]*Account),
		byEmail:  make(map[string]string),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

func (r *FileAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return r.accounts[id].clone(), nil
}

func (r *FileAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	acct, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return acct.clone(), nil
}

func (r *FileAccountRepository) FindByValidToken(ctx context.Context, token string, now time.Time) (*Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, acct := range r.accounts {
		if acct.HasValidToken(token, now) {
			return acct.clone(), nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *FileAccountRepository) Insert(ctx context.Context, account *Account) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := insertInto(r.accounts, r.byEmail, account); err != nil {
		return err
	}

	if err := r.save(); err != nil {
		delete(r.accounts, account.ID)
		delete(r.byEmail, account.Email)
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (r *FileAccountRepository) Update(ctx context.Context, account *Account) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	previous, err := updateIn(r.accounts, account)
	if err != nil {
		return err
	}

	if err := r.save(); err != nil {
		r.accounts[account.ID] = previous
		account.Version = previous.Version
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (r *FileAccountRepository) load() error {
	filePath := filepath.Join(r.dataDir, accountsFileName)

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var stored accountData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	for _, acct := range stored.Accounts {
		r.accounts[acct.ID] = acct
		r.byEmail[acct.Email] = acct.ID
	}
	return nil
}

// save writes to a temp file and renames it over the data file. Caller must hold the lock.
func (r *FileAccountRepository) save() error {
	accounts := make([]*Account, 0, len(r.accounts))
	for _, acct := range r.accounts {
		accounts = append(accounts, acct)
	}

	jsonData, err := json.MarshalIndent(accountData{Accounts: accounts}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	tempFile := filepath.Join(r.dataDir, accountsFileName+".tmp")
	if err := os.WriteFile(tempFile, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	finalFile := filepath.Join(r.dataDir, accountsFileName)
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
