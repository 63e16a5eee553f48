package main

import (
	"context"
	"log/slog"
	"os"

	"go-marketplace/internal/app"
	"go-marketplace/internal/logger"
)

func main() {
	// Pretty output until config decides the real format.
	slog.SetDefault(logger.New(os.Stdout, "pretty", "info"))

	application, err := app.New(context.Background())
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
