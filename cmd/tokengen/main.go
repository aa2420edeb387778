package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	pkgconfig "github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/tokengenerator"
)

// tokengen mints or inspects session tokens with the service's JWT settings,
// for exercising GET /me by hand.
func main() {
	var jwtConfig pkgconfig.JWTConfig
	if err := cleanenv.ReadEnv(&jwtConfig); err != nil {
		slog.Error("Failed reading JWT configuration", "err", err)
		os.Exit(1)
	}

	accountID := flag.String("account", "", "Account id to use as the token subject")
	expiry := flag.Duration("expiry", jwtConfig.SessionTokenExpiry, "Token expiry duration (e.g., 30m, 1h, 168h)")
	parse := flag.String("parse", "", "Parse and print the claims of an existing session token instead")
	outputFormat := flag.String("format", "compact", "Output format: compact or full")
	flag.Parse()

	tokens := tokengenerator.NewTokenService(
		tokengenerator.NewJwtTokenGenerator(jwtConfig.Secret, jwtConfig.Issuer, jwtConfig.Audience),
		tokengenerator.WithSessionTokenExpiry(*expiry),
	)

	if *parse != "" {
		claims, err := tokens.ParseSessionToken(*parse)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid session token: %v\n", err)
			os.Exit(1)
		}
		claimsJSON, _ := json.MarshalIndent(claims, "", "  ")
		fmt.Printf("%s\n", claimsJSON)
		return
	}

	if *accountID == "" {
		fmt.Fprintln(os.Stderr, "Error: -account is required")
		os.Exit(1)
	}

	tokenStr, expiryTime, err := tokens.IssueSessionToken(*accountID)
	if err != nil {
		slog.Error("Failed to generate token", "err", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "compact":
		fmt.Println(tokenStr)
	case "full":
		fmt.Printf("Token: %s\nExpires: %s\n", tokenStr, expiryTime.Format(time.RFC3339))
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown output format: %s\n", *outputFormat)
		os.Exit(1)
	}
}
