package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/readmedraft/readmed/internal/api"
	"github.com/readmedraft/readmed/internal/config"
	"github.com/readmedraft/readmed/internal/draft"
	"github.com/readmedraft/readmed/internal/pipeline"
	"github.com/readmedraft/readmed/internal/storage"
	"github.com/readmedraft/readmed/internal/templates"
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

	// Persistence backend.
	var backend storage.Backend
	var closeBackend func()
	switch cfg.StoreBackend {
	case "remote":
		rb := storage.NewRemoteBackend(cfg.StoreURL, cfg.StoreAPIKey)
		backend = rb
		closeBackend = rb.Close
	default:
		fb, err := storage.NewFileBackend(cfg.DataDir)
		if err != nil {
			log.Error("init file backend", "error", err)
			os.Exit(1)
		}
		backend = fb
	}

	// Template catalog.
	catalog, err := templates.Load(cfg.TemplatesDir)
	if err != nil {
		log.Error("load templates", "error", err)
		os.Exit(1)
	}

	// Draft store, restoring any previously saved draft.
	store := draft.NewStore(backend, log, cfg.AutosaveDebounce, cfg.AutosaveEnabled)
	if saved, err := backend.LoadDraft(ctx); err != nil {
		log.Warn("restore draft failed, starting empty", "error", err)
	} else if saved != nil {
		store.Restore(*saved)
		log.Info("restored saved draft", "sections", len(saved.Sections))
	}

	// Import pipeline.
	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(ctx)

	// HTTP server.
	srv := api.NewServer(store, orch, catalog, backend, log, cfg)

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

		// Flush unsaved edits before exit.
		store.Shutdown(shutdownCtx)

		if closeBackend != nil {
			closeBackend()
		}
	}()

	log.Info("starting readmed", "port", cfg.Port, "backend", cfg.StoreBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
