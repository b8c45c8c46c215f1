package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmoralesc/actalyzer/internal/analyze"
	"github.com/dmoralesc/actalyzer/internal/api"
	"github.com/dmoralesc/actalyzer/internal/chunker"
	"github.com/dmoralesc/actalyzer/internal/config"
	"github.com/dmoralesc/actalyzer/internal/llm"
	"github.com/dmoralesc/actalyzer/internal/pipeline"
	"github.com/dmoralesc/actalyzer/internal/store"
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

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	llmClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.LLMRequestsPerSecond)

	analyzer := analyze.NewAnalyzer(llmClient, analyze.Config{
		AnalysisModel:             cfg.AnalysisModel,
		SummaryModel:              cfg.SummaryModel,
		AnalysisTemperature:       cfg.AnalysisTemperature,
		SummaryTemperature:        cfg.SummaryTemperature,
		SummaryMaxTokens:          cfg.SummaryMaxTokens,
		FinancialSummaryMaxTokens: cfg.FinancialSummaryMaxTokens,
	}, log)

	chunkCfg := chunker.Config{
		MaxTokens:     cfg.MaxChunkTokens,
		OverlapTokens: cfg.ChunkOverlapTokens,
		Count:         chunker.NewTokenCounter(cfg.AnalysisModel),
	}

	processor := pipeline.NewProcessor(analyzer, chunkCfg, log)

	orch := pipeline.NewOrchestrator(processor, st, log, cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL)
	orch.Start(ctx)

	srv := api.NewServer(processor, orch, st, llmClient, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
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

		llmClient.Close()
		st.Close()
	}()

	log.Info("starting actalyzer", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
