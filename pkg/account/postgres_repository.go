package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresAccountRepository implements AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	db DBTX
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository
func NewPostgresAccountRepository(db DBTX) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const selectAccount = `
	SELECT id, email, password_hash, status, verification_token, verification_expiry, version, created_at
	FROM accounts
`

func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return r.queryOne(ctx, selectAccount+` WHERE email = $1`, email)
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	return r.queryOne(ctx, selectAccount+` WHERE id = $1`, accountID)
}

func (r *PostgresAccountRepository) FindByValidToken(ctx context.Context, token string, now time.Time) (*Account, error) {
	if token == "" {
		return nil, ErrAccountNotFound
	}
	return r.queryOne(ctx, selectAccount+` WHERE verification_token = $1 AND verification_expiry > $2`, token, now.UTC())
}

func (r *PostgresAccountRepository) Insert(ctx context.Context, account *Account) error {
	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return fmt.Errorf("invalid account id %q: %w", account.ID, err)
	}

	query := `
		INSERT INTO accounts (id, email, password_hash, status, verification_token, verification_expiry, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query,
		accountID,
		account.Email,
		account.PasswordHash,
		string(account.Status),
		nullableString(account.VerificationToken),
		account.VerificationExpiry,
		account.Version,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) Update(ctx context.Context, account *Account) error {
	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return ErrAccountNotFound
	}

	query := `
		UPDATE accounts
		SET status = $2,
		    verification_token = $3,
		    verification_expiry = $4,
		    version = version + 1
		WHERE id = $1 AND version = $5
		RETURNING version
	`
	var version int64
	err = r.db.QueryRow(ctx, query,
		accountID,
		string(account.Status),
		nullableString(account.VerificationToken),
		account.VerificationExpiry,
		account.Version,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrStaleAccount
	}
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	account.Version = version
	return nil
}

func (r *PostgresAccountRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*Account, error) {
	var (
		acct    Account
		id      uuid.UUID
		status  string
		token   *string
		expires *time.Time
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&id,
		&acct.Email,
		&acct.PasswordHash,
		&status,
		&token,
		&expires,
		&acct.Version,
		&acct.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	acct.ID = id.String()
	acct.Status = VerificationStatus(status)
	if token != nil {
		acct.VerificationToken = *token
	}
	if expires != nil {
		utc := expires.UTC()
		acct.VerificationExpiry = &utc
	}
	acct.CreatedAt = acct.CreatedAt.UTC()
	return &acct, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
