package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-account/migrations"
	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/account/api"
	pkgconfig "github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/notification"
	"github.com/tendant/simple-account/pkg/password"
	"github.com/tendant/simple-account/pkg/tokengenerator"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Config struct {
	AppConfig      app.AppConfig
	ServerConfig   pkgconfig.ServerConfig
	AccountConfig  pkgconfig.AccountConfig
	MongoConfig    pkgconfig.MongoConfig
	DatabaseConfig pkgconfig.DatabaseConfig
	EmailConfig    pkgconfig.EmailConfig
	JwtConfig      pkgconfig.JWTConfig
}

// Validate checks the sections the selected persistence actually uses
func (c Config) Validate() error {
	validators := []pkgconfig.Validator{
		c.ServerConfig.Validate,
		c.AccountConfig.Validate,
		c.EmailConfig.Validate,
		c.JwtConfig.Validate,
	}
	switch strings.ToLower(c.AccountConfig.Persistence) {
	case "mongo":
		validators = append(validators, c.MongoConfig.Validate)
	case "postgres":
		validators = append(validators, c.DatabaseConfig.Validate)
	}
	return pkgconfig.Validate(validators...)
}

// loadEnvFile loads environment variables from .env file if it exists
// Only sets variables that are not already set in the environment
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		slog.Error("Failed to get executable path", "error", err)
		return
	}
	envFile := filepath.Join(filepath.Dir(execPath), ".env")

	// Also check current working directory
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		cwd, err := os.Getwd()
		if err != nil {
			slog.Error("Failed to get current working directory", "error", err)
			return
		}
		envFile = filepath.Join(cwd, ".env")
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Info("No .env file found, using environment only", "path", envFile)
		return
	}

	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "error", err, "path", envFile)
		return
	}
	slog.Info("Configuration loaded from .env file", "path", envFile)
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true, // Enables line number & file path
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openRepository builds the credential store for the configured persistence
// type. The returned func releases the underlying client or pool.
func openRepository(ctx context.Context, config Config) (account.AccountRepository, func(), error) {
	persistence := strings.ToLower(config.AccountConfig.Persistence)
	repoConfig := account.RepositoryConfig{DataDir: config.AccountConfig.DataDir}
	closeFn := func() {}

	switch persistence {
	case "mongo":
		client, err := mongo.Connect(options.Client().ApplyURI(config.MongoConfig.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		closeFn = func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("Failed disconnecting mongo client", "error", err)
			}
		}
		if err := client.Ping(ctx, nil); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		repoConfig.Collection = client.Database(config.MongoConfig.Database).Collection(config.MongoConfig.Collection)
		slog.Info("Using mongo account store", "database", config.MongoConfig.Database, "collection", config.MongoConfig.Collection)

	case "postgres":
		dbConfig := config.DatabaseConfig
		pool, err := pgxpool.New(ctx, dbConfig.ToDatabaseURL())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User, "schema", dbConfig.Schema)
			return nil, nil, fmt.Errorf("failed to create db pool: %w", err)
		}
		closeFn = pool.Close
		if dbConfig.Migrate {
			if err := migrations.Up(ctx, pool, dbConfig.Schema); err != nil {
				closeFn()
				return nil, nil, err
			}
		}
		repoConfig.Pool = pool
		slog.Info("Using postgres account store", "db", dbConfig.Database, "host", dbConfig.Host, "schema", dbConfig.Schema)

	default:
		slog.Info("Using local account store", "persistence", persistence, "data_dir", config.AccountConfig.DataDir)
	}

	repo, err := account.NewAccountRepository(ctx, persistence, repoConfig)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return repo, closeFn, nil
}

func newNotifier(config pkgconfig.EmailConfig) (notification.Notifier, error) {
	if !config.Enabled {
		slog.Warn("Email delivery disabled, verification emails will be dropped")
		return notification.NewLogNotifier(slog.Default()), nil
	}
	return notification.NewEmailNotifier(config.ToSMTPConfig())
}

func main() {
	slog.SetDefault(newLogger("text"))

	// Load .env file if it exists (before reading environment variables)
	loadEnvFile()

	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed reading configuration", "error", err)
		os.Exit(-1)
	}
	slog.SetDefault(newLogger(config.ServerConfig.LogFormat))

	if err := config.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(-1)
	}

	ctx := context.Background()

	repo, closeRepo, err := openRepository(ctx, config)
	if err != nil {
		slog.Error("Failed opening account store", "error", err)
		os.Exit(-1)
	}
	defer closeRepo()

	hasher, err := password.NewPasswordHasher(config.AccountConfig.PasswordHasher, config.AccountConfig.BcryptCost)
	if err != nil {
		slog.Error("Failed creating password hasher", "error", err)
		os.Exit(-1)
	}

	notifier, err := newNotifier(config.EmailConfig)
	if err != nil {
		slog.Error("Failed creating email notifier", "error", err)
		os.Exit(-1)
	}

	tokenService := tokengenerator.NewTokenService(
		tokengenerator.NewJwtTokenGenerator(config.JwtConfig.Secret, config.JwtConfig.Issuer, config.JwtConfig.Audience),
		tokengenerator.WithVerificationTokenExpiry(config.JwtConfig.VerificationTokenExpiry),
		tokengenerator.WithSessionTokenExpiry(config.JwtConfig.SessionTokenExpiry),
	)

	accountService := account.NewAccountService(repo, tokenService,
		account.WithPasswordHasher(hasher),
		account.WithNotifier(notifier),
		account.WithVerificationBaseURL(config.AccountConfig.VerificationBaseURL),
	)

	tokenAuth := jwtauth.New("HS256", []byte(config.JwtConfig.Secret), nil)
	accountHandle := api.NewHandle(accountService, tokenAuth)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	server.R.Route(config.ServerConfig.APIPrefix, func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: config.ServerConfig.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
		r.Mount("/", api.Routes(accountHandle))
	})

	slog.Info("Account service configured", "prefix", config.ServerConfig.APIPrefix, "persistence", config.AccountConfig.Persistence)
	server.Run()
}
