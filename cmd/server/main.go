package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avandyck/outliner/internal/api"
	"github.com/avandyck/outliner/internal/config"
	"github.com/avandyck/outliner/internal/pipeline"
	"github.com/avandyck/outliner/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Result sinks: local directory, plus webhook when configured.
	var sinks []store.Store
	var webhook *store.WebhookStore
	if cfg.OutputDir != "" {
		fs, err := store.NewFileStore(cfg.OutputDir)
		if err != nil {
			log.Error("output dir unavailable", "dir", cfg.OutputDir, "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, fs)
	}
	if cfg.WebhookURL != "" {
		webhook = store.NewWebhookStore(cfg.WebhookURL, cfg.WebhookAPIKey)
		sinks = append(sinks, webhook)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, sinks, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if webhook != nil {
			webhook.Close()
		}
	}()

	log.Info("starting outliner", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
