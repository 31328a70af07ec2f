package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/invoicegest/internal/api"
	"github.com/dgallion1/invoicegest/internal/config"
	"github.com/dgallion1/invoicegest/internal/invoice"
	"github.com/dgallion1/invoicegest/internal/pipeline"
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

	proc := invoice.NewProcessor(invoice.Config{
		Timeout:     cfg.DocumentTimeout,
		Tolerance:   cfg.LineTolerance,
		PDFFallback: cfg.PDFFallbackPdftotext,
	}, log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, proc, log)
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

	// Graceful shutdown. The listener stops before the queue closes so no
	// request submits to a closed queue.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		orch.Stop()
	}()

	log.Info("starting invoicegest", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
