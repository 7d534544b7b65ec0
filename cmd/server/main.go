package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/vindo333/extractor/internal/api"
	"github.com/vindo333/extractor/internal/config"
	"github.com/vindo333/extractor/internal/extract"
	"github.com/vindo333/extractor/internal/fetch"
	"github.com/vindo333/extractor/internal/pipeline"
)

func main() {
	cfg := config.Load()
	log := cfg.Logger(os.Stdout)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.APIKey() == "" {
		log.Warn("no server model key configured; requests must supply apiKey", "provider", cfg.ModelProvider)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	provider, err := extract.NewProvider(cfg.ModelProvider, cfg.ModelName, extract.ProviderOptions{
		BaseURL: cfg.ModelBaseURL,
		Timeout: cfg.ModelTimeout,
	})
	if err != nil {
		log.Error("invalid model provider", "error", err)
		os.Exit(1)
	}
	var limiter *rate.Limiter
	if cfg.ModelRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ModelRPS), 1)
	}
	extractor := extract.NewExtractor(provider, extract.Options{
		MaxTokens:   cfg.ModelMaxTokens,
		Temperature: &cfg.ModelTemperature,
		Limiter:     limiter,
		Stats:       extract.NewLLMStats(time.Hour),
		Log:         log,
	})
	fetcher := fetch.NewClient(fetch.Options{
		Timeout:   cfg.FetchTimeout,
		MaxBytes:  cfg.MaxPageBytes,
		UserAgent: cfg.UserAgent,
		Log:       log,
	})

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(fetcher, extractor, pipeline.Options{
		Concurrency:  cfg.MaxConcurrentPages,
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		MaxRetries:   cfg.ModelMaxRetries,
		JobTTL:       cfg.JobTTL,
		Log:          log,
	})
	orch.Start(ctx)

	srv := api.NewServer(orch, extractor, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
		orch.Stop()
	}()

	log.Info("starting extractor",
		slog.String("port", cfg.Port),
		slog.String("provider", provider.Name()),
		slog.String("model", provider.Model()),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
