package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/IbnuAlii/GuulSideApp/internal/config"
	"github.com/IbnuAlii/GuulSideApp/internal/db"
	"github.com/IbnuAlii/GuulSideApp/internal/domain"
	"github.com/IbnuAlii/GuulSideApp/internal/logger"
	"github.com/IbnuAlii/GuulSideApp/internal/repository"
	"github.com/IbnuAlii/GuulSideApp/internal/service"
)

// Seeds a user (or signs in to an existing one) and prints a session token.
func main() {
	name := flag.String("name", "Tester", "display name")
	email := flag.String("email", "tester@example.com", "email")
	password := flag.String("password", "password123", "password")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	defer pool.Close()

	auth := service.NewAuthService(
		repository.NewUserRepository(pool),
		service.NewPasswordHasher(),
		service.NewTokenIssuer(cfg.JWTSecret),
		service.NewAuditService(repository.NewAuditRepository(pool)),
	)
	req := service.RequestInfo{IP: "127.0.0.1", UserAgent: "create_test_user"}

	token, user, err := auth.Signup(ctx, service.SignupInput{Name: *name, Email: *email, Password: *password}, req)
	switch {
	case err == nil:
		logger.Info("user created", "id", user.ID, "email", user.Email)
	case errors.Is(err, domain.ErrConflict):
		token, err = auth.Signin(ctx, service.SigninInput{Email: *email, Password: *password}, req)
		if err != nil {
			logger.Fatal("user exists but signin failed", "email", *email, "error", err)
		}
		logger.Info("user already exists", "email", *email)
	default:
		logger.Fatal("create user failed", "error", err)
	}

	fmt.Println(token)
}
