// seed inserts a development account for local testing.
// Idempotent: skips the insert if the dev account (dev@example.com) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	accountdomain "eduplatform/backend/internal/account/domain"
	accountrepo "eduplatform/backend/internal/account/repository"
	"eduplatform/backend/internal/config"
	"eduplatform/backend/internal/db"
	"eduplatform/backend/internal/security"
)

const (
	devEmail    = "dev@example.com"
	devPassword = "Dev-password1!"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	repo := accountrepo.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := repo.GetByEmail(ctx, devEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.PBKDF2Iterations)
	passwordHash, err := hasher.Hash(devPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	account := &accountdomain.Account{
		ID:           uuid.New().String(),
		Email:        devEmail,
		Name:         "Dev User",
		PasswordHash: passwordHash,
		Profile:      map[string]string{"role": "student"},
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.Create(ctx, account); err != nil {
		log.Fatalf("create dev account: %v", err)
	}

	log.Printf("Seeded dev account %s (password %s)", devEmail, devPassword)
}
