package db

import (
	"context"
	"fmt"

	"github.com/IbnuAlii/GuulSideApp/internal/logger"
	"github.com/IbnuAlii/GuulSideApp/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Connect opens a pool and pings it. Callers treat the error as fatal at startup.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected")
	return pool, nil
}

// gooseRun is a seam for tests.
var gooseRun = func(ctx context.Context, command string, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, sqlDB, ".")
	case "down":
		return goose.DownContext(ctx, sqlDB, ".")
	case "status":
		return goose.StatusContext(ctx, sqlDB, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return RunMigrations(ctx, "up", pool)
}

// RunMigrations runs a goose command (up, down, status) against the embedded migrations.
func RunMigrations(ctx context.Context, command string, pool *pgxpool.Pool) error {
	if err := gooseRun(ctx, command, pool); err != nil {
		return fmt.Errorf("migrations %s: %w", command, err)
	}
	logger.Info("migrations finished", "command", command)
	return nil
}
