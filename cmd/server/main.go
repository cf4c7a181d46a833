package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nextudy/summarizer/internal/api"
	"github.com/nextudy/summarizer/internal/config"
	"github.com/nextudy/summarizer/internal/jobs"
	"github.com/nextudy/summarizer/internal/llm"
	"github.com/nextudy/summarizer/internal/summarize"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the model client and pipeline.
	client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	pipeline := summarize.New(client, log, summarize.Config{
		ChunkMaxChars: cfg.ChunkMaxChars,
		Concurrency:   cfg.ChunkConcurrency,
		MaxAttempts:   cfg.MaxAttempts,
	})

	// Initialize the upload job pool.
	orch := jobs.NewOrchestrator(pipeline, log, jobs.Options{
		WorkerCount:          cfg.WorkerCount,
		MaxQueueSize:         cfg.MaxQueueSize,
		JobTTL:               cfg.JobTTL,
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	})
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(pipeline, orch, client, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // sync summarize spans many model calls
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

		client.Close()
	}()

	log.Info("starting summarizer", "port", cfg.Port, "model", cfg.LLMModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
