package main

import (
	"fmt"
	"log"
	"os"

	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/kousaila502/ecommerce-microservices-platform/config"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
)

// Seeds the admin account the platform ships with. Idempotent.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.UserPostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := envOr("SEED_ADMIN_EMAIL", "admin@ecommerce.local")
	password := envOr("SEED_ADMIN_PASSWORD", "admin123!")
	name := envOr("SEED_ADMIN_NAME", "Platform Admin")

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (name, email, mobile, password_hash, role, status, is_email_verified)
		VALUES ($1, $2, '', $3, 'admin', 'active', TRUE)
		ON CONFLICT (email) DO UPDATE SET role = 'admin', status = 'active'
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%d email=%s\n", id, email)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
