package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docsift/internal/api"
	"github.com/dgallion1/docsift/internal/config"
	"github.com/dgallion1/docsift/internal/embedding"
	"github.com/dgallion1/docsift/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := cfg.Logger()
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the embedder, instrumented for /api/stats/embedding.
	base, err := embedding.New(cfg.EmbeddingConfig(log))
	if err != nil {
		log.Error("embedder init failed", "error", err)
		os.Exit(1)
	}
	stats := embedding.NewStats(base.Name(), time.Hour)
	emb := embedding.Instrument(base, stats)

	// Initialize pipeline.
	p := pipeline.New(pipeline.Options{
		Params:           cfg.OutlineParams(),
		Embedder:         emb,
		TopSections:      cfg.TopSections,
		TopSentences:     cfg.TopSentences,
		ParseConcurrency: cfg.ParseConcurrency,
		Logger:           log,
	})
	orch := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	}, p, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(p, orch, stats, log, cfg)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		emb.Close()
	}()

	log.Info("starting docsift", "port", cfg.Port, "embedder", base.Name(), "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
