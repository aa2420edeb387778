package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	pkgconfig "github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/notice"
	"github.com/tendant/simple-account/pkg/notification"
)

type Config struct {
	EmailConfig   pkgconfig.EmailConfig
	AccountConfig pkgconfig.AccountConfig
	JwtConfig     pkgconfig.JWTConfig
}

// emailtest sends the verification email through the configured SMTP server
// with a dummy token, to check delivery and rendering.
func main() {
	envFile := flag.String("env", ".env", "Optional .env file")
	to := flag.String("to", "", "Recipient email address")
	token := flag.String("token", "test-token", "Token to embed in the link")
	flag.Parse()

	if *to == "" {
		fmt.Println("Error: -to is required")
		os.Exit(1)
	}

	if _, err := os.Stat(*envFile); err == nil {
		if err := godotenv.Load(*envFile); err != nil {
			slog.Error("Failed to load .env file", "path", *envFile, "error", err)
		}
	}

	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed reading configuration", "error", err)
		os.Exit(1)
	}
	if errs := config.EmailConfig.Validate(); errs.HasErrors() {
		slog.Error("Invalid email configuration", "error", errs)
		os.Exit(1)
	}

	notifier, err := notification.NewEmailNotifier(config.EmailConfig.ToSMTPConfig())
	if err != nil {
		slog.Error("Failed to create email notifier", "error", err)
		os.Exit(1)
	}

	link := notice.VerificationLink(config.AccountConfig.VerificationBaseURL, *token)
	message, err := notice.VerificationNotice(*to, link, config.JwtConfig.VerificationTokenExpiry)
	if err != nil {
		slog.Error("Failed to render verification email", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := notifier.Send(ctx, message); err != nil {
		slog.Error("Failed to send email", "host", config.EmailConfig.Host, "port", config.EmailConfig.Port, "error", err)
		os.Exit(1)
	}

	fmt.Println("Email sent successfully!")
}
