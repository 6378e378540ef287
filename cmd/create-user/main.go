// Command create-user provisions an account and mints a session token for
// it. The session exchange with an external identity provider happens outside
// this service, so operators use this tool to onboard users directly.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"kharcha/internal/config"
	applog "kharcha/internal/log"
	"kharcha/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	applog.Setup(cfg.LogLevel, "create-user")

	id := flag.String("id", "", "user id (required)")
	email := flag.String("email", "", "email address (required)")
	name := flag.String("name", "", "display name")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "session lifetime")
	flag.Parse()

	if *id == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.CreateUser(ctx, storage.User{ID: *id, Email: *email, Name: *name}); err != nil {
		slog.Error("Failed to create user", "error", err)
		os.Exit(1)
	}

	token, err := newToken()
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}
	expires := time.Now().Add(*ttl)
	if err := repo.CreateSession(ctx, storage.Session{
		Token:     token,
		UserID:    *id,
		ExpiresAt: expires,
	}); err != nil {
		slog.Error("Failed to create session", "error", err)
		os.Exit(1)
	}

	fmt.Printf("user:    %s <%s>\n", *id, *email)
	fmt.Printf("token:   %s\n", token)
	fmt.Printf("expires: %s\n", expires.UTC().Format(time.RFC3339))
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
