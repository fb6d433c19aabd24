package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"aptrade/internal/cli"
)

func main() {
	// Load .env for local development (optional everywhere else)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cli.Execute()
}
