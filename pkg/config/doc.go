// Package config holds the configuration sections of the account service.
//
// Each section is a plain struct tagged for github.com/ilyakaznacheev/cleanenv
// (env and env-default tags) and embedded in the binary's top-level Config:
//
//	type Config struct {
//		AppConfig     app.AppConfig
//		AccountConfig config.AccountConfig
//		JwtConfig     config.JWTConfig
//		...
//	}
//
//	cfg := Config{}
//	cleanenv.ReadEnv(&cfg)
//
// # Validation
//
// Sections expose Validate() ValidationErrors built from the Require* helpers.
// Validate combines several sections into a single error:
//
//	err := config.Validate(cfg.AccountConfig.Validate, cfg.JwtConfig.Validate)
//
// # Environment
//
// APP_ENV selects development (default), staging, production or test. The
// built-in JWT_SECRET default is rejected outside development.
package config
