package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/japaniel/sajeon/internal/logger"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		logger.New("sajeon").Error("command failed", "error", err)
		cancel()
		os.Exit(ExitCodeFailure)
	}
}
