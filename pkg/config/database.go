package config

import (
	"fmt"
	"net/url"
)

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `env:"ACCOUNT_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"ACCOUNT_PG_PORT" env-default:"5432"`
	Database string `env:"ACCOUNT_PG_DATABASE" env-default:"account_db"`
	User     string `env:"ACCOUNT_PG_USER" env-default:"account"`
	Password string `env:"ACCOUNT_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"ACCOUNT_PG_SCHEMA" env-default:"public"`
	Migrate  bool   `env:"ACCOUNT_PG_MIGRATE" env-default:"true"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL. Schema is
// sent as the connection search_path so tables and the goose version table
// are created and looked up there.
func (d DatabaseConfig) ToDatabaseURL() string {
	query := url.Values{}
	query.Set("sslmode", "disable")
	if d.Schema != "" {
		query.Set("search_path", d.Schema)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Database,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func (d DatabaseConfig) Validate() ValidationErrors {
	return CollectErrors(
		RequireNonEmpty("ACCOUNT_PG_HOST", d.Host),
		RequireValidPort("ACCOUNT_PG_PORT", d.Port),
		RequireNonEmpty("ACCOUNT_PG_DATABASE", d.Database),
		RequireNonEmpty("ACCOUNT_PG_USER", d.User),
		RequireNonEmpty("ACCOUNT_PG_SCHEMA", d.Schema),
	)
}
