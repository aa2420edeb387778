package config

import "strings"

// Persistence types accepted by ACCOUNT_PERSISTENCE
var PersistenceTypes = []string{"mongo", "postgres", "file", "memory"}

// AccountConfig holds account lifecycle settings
type AccountConfig struct {
	Persistence         string `env:"ACCOUNT_PERSISTENCE" env-default:"mongo"`
	DataDir             string `env:"ACCOUNT_DATA_DIR" env-default:"./data"`
	VerificationBaseURL string `env:"VERIFICATION_BASE_URL" env-default:"http://localhost:2024/api/auth/verify"`
	PasswordHasher      string `env:"PASSWORD_HASHER" env-default:"bcrypt"`
	BcryptCost          int    `env:"BCRYPT_COST" env-default:"12"`
}

func (a AccountConfig) Validate() ValidationErrors {
	errs := CollectErrors(
		RequireOneOf("ACCOUNT_PERSISTENCE", strings.ToLower(a.Persistence), PersistenceTypes),
		RequireValidURL("VERIFICATION_BASE_URL", a.VerificationBaseURL),
		RequireOneOf("PASSWORD_HASHER", strings.ToLower(a.PasswordHasher), []string{"bcrypt", "argon2id"}),
		RequireInRange("BCRYPT_COST", a.BcryptCost, 4, 31),
	)
	if strings.EqualFold(a.Persistence, "file") {
		if err := RequireNonEmpty("ACCOUNT_DATA_DIR", a.DataDir); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}
