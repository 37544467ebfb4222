// Package main is the entry point for the fetch-files application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joe/fetch-files/internal/app"
	"github.com/joe/fetch-files/internal/config"
	"github.com/joe/fetch-files/internal/logging"
	"github.com/joe/fetch-files/pkg/errors"
)

func main() {
	// Parse configuration
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	application, err := app.New(cfg)
	if err != nil {
		fatal(err)
	}

	// Shut down cleanly on Ctrl-C or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fatal(err)
	}
}

// fatal prints the error with actionable suggestions and exits.
func fatal(err error) {
	enriched := errors.NewEnricher().Enrich(err, "")
	fmt.Fprintf(os.Stderr, "Error: %v\n", enriched)

	if suggestions := errors.FormatSuggestions(enriched); suggestions != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestions:\n%s\n", suggestions)
	}

	os.Exit(1)
}
