package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/assistant-app/console/internal/api"
	"github.com/assistant-app/console/internal/config"
	"github.com/assistant-app/console/internal/observability"
	"github.com/assistant-app/console/internal/session"
	"github.com/assistant-app/console/internal/storage"
	"github.com/assistant-app/console/internal/theme"
	"github.com/assistant-app/console/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		// No .env is the normal case outside development.
		observability.Logger().Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := observability.InitFile(config.LogFile()); err != nil {
		log.Printf("warning: diagnostics log unavailable: %v", err)
	}

	store := storage.Open(config.StorageFile())
	sess := session.New(store)
	themes := theme.New(store, cfg.UI.Theme)

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithTokenSource(func() string {
			token, _ := store.GetString(storage.KeyAuthToken)
			return token
		}),
		api.WithSessionExpiredNotice(func(message string) {
			fmt.Fprintln(os.Stdout, message)
		}),
	)

	app := ui.New(cfg, client, sess, themes, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("app error: %v", err)
	}
}
