package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nahidhasan98/diff-notifier/internal/config"
	"github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/handlers"
	"github.com/nahidhasan98/diff-notifier/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// Global variables for configuration and services
var (
	cfg *config.Config
	log *logger.Logger
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	inv, err := handlers.ParseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s\n", err, handlers.Usage)
		return errors.ExitCode(err)
	}

	// Interrupts cancel outstanding calls; nothing is sent afterwards
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Initialization error: %v\n", err)
		return errors.ExitCode(err)
	}

	if err := handlers.New(cfg, log, os.Stdout).Run(ctx, inv); err != nil {
		logFailure(err)
		return errors.ExitCode(err)
	}

	log.Info("Done")
	return 0
}

func initialize() error {
	var err error

	// Load configuration
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	log = logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Infof("Diff Notifier %s", version)

	return nil
}

func logFailure(err error) {
	appErr, ok := errors.As(err)
	if !ok {
		log.Error("Action failed", err)
		return
	}

	l := log.With("error_code", appErr.Code).With("exit_code", appErr.ExitCode)
	if appErr.Details != "" {
		l = l.With("collaborator", appErr.Details)
	}
	l.Error(appErr.Message, appErr.Err)
}
