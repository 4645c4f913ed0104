// Creates a local user and prints a token for it.
//
//	go run scripts/seed_user.go -name Alice -email alice@example.com -password secret
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"devconnector-api/config"
	"devconnector-api/internal/domain"
	"devconnector-api/internal/repository/postgres"
	"devconnector-api/pkg/database"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	name := flag.String("name", "Test User", "display name")
	email := flag.String("email", "test@example.com", "unique email")
	password := flag.String("password", "", "plain password to hash")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *password == "" {
		fmt.Println("Error: -password is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Println("Error: JWT_SECRET must be set to mint a token")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 10)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         *name,
		Email:        *email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := postgres.NewUserRepository(pool).Create(ctx, user); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user": map[string]string{"id": user.ID},
		"sub":  user.ID,
		"iat":  now.Unix(),
		"exp":  now.Add(*ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	fmt.Printf("User: %s\nID: %s\nToken: %s\n", user.Email, user.ID, token)
}
