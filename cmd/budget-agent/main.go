// cmd/budget-agent/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	generateresponse "github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/agent/generate-response"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/agent/orchestrator"
	parseintent "github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/agent/parse-intent"
	querytransactions "github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/agent/query-transactions"
	routefunction "github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/agent/route-function"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/config"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/database"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/llm"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/observability"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/ingest"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/server"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/storage"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting budget agent...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("budget-agent")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Model client ---
	anthropicClient := llm.NewAnthropic(cfg.Anthropic)

	// --- Storage ---
	store := storage.NewStore(pg.GetDB(), log)
	accountCache := storage.NewAccountCache(rdb, config.GetDuration(cfg.Database.Redis.CacheTTL), log)

	// --- Pipeline stages ---
	queries := querytransactions.NewService(store, accountCache, log)

	parser := parseintent.NewHandler(
		parseintent.NewConfigFromStage(config.GetStageConfig(cfg, parseintent.StageName), cfg.Anthropic.MaxTokens),
		anthropicClient,
		log,
	)
	router := routefunction.NewRouter(queries, log)
	generator := generateresponse.NewHandler(
		generateresponse.NewConfigFromStage(config.GetStageConfig(cfg, generateresponse.StageName), cfg.Anthropic.MaxTokens),
		anthropicClient,
		log,
	)

	orch := orchestrator.New(parser, router, generator, queries, obs, log)

	// --- Ingestion ---
	categorizer := ingest.NewCategorizer(anthropicClient, cfg.Ingest.BatchSize, log)
	importer := ingest.NewImporter(store, categorizer, accountCache, log)

	// --- HTTP server ---
	srv := server.New(cfg.Server, cfg.Ingest, orch, importer, log)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
