package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docsearch/internal/api"
	"github.com/dgallion1/docsearch/internal/config"
	"github.com/dgallion1/docsearch/internal/parser"
	"github.com/dgallion1/docsearch/internal/pipeline"
	"github.com/dgallion1/docsearch/internal/stats"
	"github.com/dgallion1/docsearch/internal/textindex"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the index.
	index := textindex.New(&parser.Extractor{FallbackPdftotext: cfg.PDFFallbackPdftotext}, log)
	if cfg.DocumentPath != "" {
		loadCtx, loadCancel := context.WithTimeout(ctx, cfg.LoadTimeout)
		if _, err := index.LoadFromPath(loadCtx, cfg.DocumentPath); err != nil {
			log.Error("initial document load failed", "path", cfg.DocumentPath, "error", err)
		}
		loadCancel()
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, index, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(index, orch, stats.NewLatency(cfg.StatsWindow), log, cfg)

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
	}()

	log.Info("starting docsearch", "port", cfg.Port, "loaded", index.Loaded())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
