// Command token mints a bearer token for a participant, signed with the
// server's JWT_SECRET.
//
//	JWT_SECRET=... go run ./cmd/token -participant "María"
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/sharedledger/internal/auth"
	"github.com/mmynk/sharedledger/internal/config"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/pkg/logging"
)

func main() {
	logging.Setup()

	name := flag.String("participant", "", "participant the token identifies")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.AuthEnabled() {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	participant, err := models.ParseParticipant(*name)
	if err != nil {
		slog.Error("Invalid participant", "participant", *name, "error", err)
		os.Exit(2)
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(participant)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
