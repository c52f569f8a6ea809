package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vaxreg/internal/bootstrap"
	"vaxreg/internal/platform/config"
	"vaxreg/internal/platform/logger"
)

// main runs the interactive console against the configured store. Reminder
// lines and warnings go to stderr so they do not interleave with prompts.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open registry", "error", err)
		os.Exit(1)
	}

	shell := NewShell(app.Registry, os.Stdin, os.Stdout)
	runErr := shell.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Reminder.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		log.Warn("reminder scheduler shutdown", "error", err)
	}
	if err := app.Close(); err != nil {
		log.Warn("closing resources", "error", err)
	}
	if runErr != nil {
		log.Error("console stopped with error", "error", runErr)
		os.Exit(1)
	}
}
