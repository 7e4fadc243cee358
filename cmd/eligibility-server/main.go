// cmd/eligibility-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"eligibility-engine/internal/audit"
	"eligibility-engine/internal/common/config"
	"eligibility-engine/internal/common/database"
	apperrors "eligibility-engine/internal/common/errors"
	"eligibility-engine/internal/common/logger"
	"eligibility-engine/internal/common/observability"
	"eligibility-engine/internal/eligibility"
	"eligibility-engine/internal/genai"
	"eligibility-engine/internal/notify"
	"eligibility-engine/internal/policy"
	"eligibility-engine/internal/server"
	"eligibility-engine/internal/session"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting eligibility server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
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
		zapLog.Fatal("postgres failed after retries", zap.Error(apperrors.NewDatabaseConnectionFailedError(err)))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	policyStore := policy.NewStore(pg.GetDB())

	// --- Init Session Store ---
	var sessions session.Store
	switch cfg.Session.Backend {
	case "redis":
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(apperrors.NewDatabaseConnectionFailedError(err)))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")

		sessions = session.NewRedisStore(rdb.GetClient(), time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	default:
		zapLog.Info("Using in-memory session store")
		sessions = session.NewMemoryStore()
	}

	// --- Init GenAI Client ---
	genClient := genai.NewClient(&genai.Config{
		BaseURL:    cfg.GenAI.BaseURL,
		APIKey:     cfg.GenAI.APIKey,
		Timeout:    time.Duration(cfg.GenAI.TimeoutMillis) * time.Millisecond,
		MaxRetries: cfg.GenAI.MaxRetries,
		MaxTokens:  cfg.GenAI.MaxTokens,
	}, log)

	engine := eligibility.NewEngine(&eligibility.Config{
		ExtractTemperature:  cfg.GenAI.ExtractTemperature,
		JudgeTemperature:    cfg.GenAI.JudgeTemperature,
		QuestionTemperature: cfg.GenAI.QuestionTemperature,
	}, genClient, policyStore, log)

	// --- Optional Collaborators ---
	var opts []server.Option

	if cfg.Audit.Enabled && cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		opts = append(opts, server.WithAudit(
			audit.NewIndexer(esClient.GetClient(), cfg.Database.Elasticsearch.Index, log),
		))
	}

	if cfg.Notifications.Enabled {
		notifier, err := notify.NewNotifier(ctx, &notify.Config{
			AWSRegion:   cfg.Notifications.AWSRegion,
			SenderEmail: cfg.Notifications.SenderEmail,
			OpsEmail:    cfg.Notifications.OpsEmail,
			SNSTopicARN: cfg.Notifications.SNSTopicARN,
		}, log)
		if err != nil {
			zapLog.Fatal("notifier init failed", zap.Error(err))
		}
		opts = append(opts, server.WithNotifier(notifier))
	}

	srv := server.New(engine, sessions, policyStore, log, opts...)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: srv.Router(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
