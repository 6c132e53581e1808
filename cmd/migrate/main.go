package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/IbnuAlii/GuulSideApp/internal/config"
	"github.com/IbnuAlii/GuulSideApp/internal/db"
	"github.com/IbnuAlii/GuulSideApp/internal/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down|status]\n")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, command, pool); err != nil {
		logger.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
}
