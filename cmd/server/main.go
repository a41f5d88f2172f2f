package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nahidhasan98/changelog-notifier/internal/changelog"
	"github.com/nahidhasan98/changelog-notifier/internal/config"
	"github.com/nahidhasan98/changelog-notifier/internal/github"
	"github.com/nahidhasan98/changelog-notifier/internal/handlers"
	"github.com/nahidhasan98/changelog-notifier/internal/logger"
	"github.com/nahidhasan98/changelog-notifier/internal/server"
	"github.com/nahidhasan98/changelog-notifier/internal/store"
	"github.com/nahidhasan98/changelog-notifier/internal/whatsapp"
)

// Global variables for configuration and services
var (
	cfg         *config.Config
	log         *logger.Logger
	commitStore *store.CommitStore
	waClient    *whatsapp.Client // nil when delivery is disabled
	errChan     = make(chan error, 2)
)

func main() {
	// Create a context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create a wait group for graceful shutdown
	var wg sync.WaitGroup

	// Initialize configuration and services
	if err := initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Initialization error: %v\n", err)
		os.Exit(1)
	}
	defer commitStore.Close()

	// Initialize and start WhatsApp client
	if waClient != nil {
		startWhatsAppClient(ctx, &wg)
	}

	// Start the web server
	startWebServer(ctx, &wg)

	// Handle shutdown signals
	waitForShutdown(cancel, &wg)
}

func initialize(ctx context.Context) error {
	var err error

	// Load configuration
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log = logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting Changelog Notifier")

	commitStore, err = store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open commit store: %w", err)
	}

	if !cfg.WhatsApp.Enabled {
		log.Info("WhatsApp delivery disabled")
		return nil
	}

	waClient, err = whatsapp.NewClient(ctx, whatsapp.Options{
		DSN:        cfg.WhatsApp.DSN,
		LogLevel:   cfg.WhatsApp.LogLevel,
		DeviceName: cfg.WhatsApp.DeviceName,
		Recipient:  cfg.WhatsApp.Recipient,
	}, log)
	if err != nil {
		commitStore.Close()
		return fmt.Errorf("failed to create WhatsApp client: %w", err)
	}

	return nil
}

func startWhatsAppClient(ctx context.Context, wg *sync.WaitGroup) {
	wg.Go(func() {
		defer func() {
			waClient.Disconnect()
			log.Info("WhatsApp client shutdown complete")
		}()

		log.Info("Starting WhatsApp client...")
		if err := waClient.Connect(ctx); err != nil {
			errChan <- fmt.Errorf("failed to connect to WhatsApp: %w", err)
			return
		}

		// Reconnections are handled by the client until shutdown
		<-ctx.Done()
		log.Info("WhatsApp client shutting down...")
	})
}

func startWebServer(ctx context.Context, wg *sync.WaitGroup) {
	wg.Go(func() {
		log.Info("Starting HTTP server...")

		deps := handlers.Dependencies{
			Source: github.NewClient(github.Config{
				BaseURL: cfg.GitHub.APIURL,
				Token:   cfg.GitHub.Token,
				PerPage: cfg.GitHub.PerPage,
				Timeout: cfg.GitHub.Timeout,
			}, log.With("component", "github")),
			Store: commitStore,
			Generator: &changelog.Generator{
				Now:           time.Now,
				MaxHighlights: cfg.Changelog.MaxHighlights,
			},
			MaxCommits:   cfg.Changelog.MaxCommits,
			ListLimit:    cfg.Changelog.ListLimit,
			GitHubSecret: cfg.GitHub.WebhookSecret,
			GiteaSecret:  cfg.Gitea.WebhookSecret,
		}
		// Only set when enabled so a nil client never becomes a non-nil interface
		if waClient != nil {
			deps.Publisher = waClient
		}

		// Initialize and start HTTP server
		httpServer := server.New(cfg, handlers.New(deps, log), log)
		if err := httpServer.Start(errChan); err != nil {
			errChan <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}

		// Keep the server running until shutdown
		<-ctx.Done()
		log.Info("HTTP server shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during HTTP server shutdown", err)
		}
	})
}

func waitForShutdown(cancel context.CancelFunc, wg *sync.WaitGroup) {
	// Wait for either service to fail or for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Error("Service failed", err)
	case <-sigChan:
		log.Info("Received shutdown signal")
	}

	// Cancel context to signal goroutines to shutdown
	cancel()

	// Wait for all goroutines to finish
	wg.Wait()

	log.Info("Application stopped")
}
