package password

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Algorithm names accepted by NewPasswordHasher
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	// DefaultBcryptCost matches the cost accounts have always been hashed with.
	DefaultBcryptCost = 12
)

// PasswordHasher defines the interface for password hashing implementations
type PasswordHasher interface {
	// Hash hashes a password
	Hash(password string) (string, error)

	// Verify checks if the provided password matches the stored hash.
	// A mismatch is reported as (false, nil).
	Verify(password, hashedPassword string) (bool, error)
}

// NewPasswordHasher returns a hasher that hashes new passwords with the named
// algorithm and verifies hashes produced by any supported algorithm.
func NewPasswordHasher(algorithm string, bcryptCost int) (PasswordHasher, error) {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	bcryptHasher := NewBcryptHasher(bcryptCost)
	argon2Hasher := NewArgon2Hasher()

	var current PasswordHasher
	switch strings.ToLower(algorithm) {
	case "", AlgorithmBcrypt:
		current = bcryptHasher
	case AlgorithmArgon2id, "argon2":
		current = argon2Hasher
	default:
		return nil, fmt.Errorf("unsupported password hasher: %s (supported: bcrypt, argon2id)", algorithm)
	}

	return &versionedHasher{
		current: current,
		bcrypt:  bcryptHasher,
		argon2:  argon2Hasher,
	}, nil
}

// versionedHasher picks the verifier from the stored hash prefix so that
// switching PASSWORD_HASHER does not lock out existing accounts.
type versionedHasher struct {
	current PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (h *versionedHasher) Hash(password string) (string, error) {
	return h.current.Hash(password)
}

func (h *versionedHasher) Verify(password, hashedPassword string) (bool, error) {
	if strings.HasPrefix(hashedPassword, "$argon2id$") {
		return h.argon2.Verify(password, hashedPassword)
	}
	return h.bcrypt.Verify(password, hashedPassword)
}
