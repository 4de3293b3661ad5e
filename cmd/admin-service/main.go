// cmd/admin-service/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mangotango-admin/internal/batch"
	"mangotango-admin/internal/common/config"
	"mangotango-admin/internal/common/database"
	"mangotango-admin/internal/common/logger"
	"mangotango-admin/internal/common/observability"
	"mangotango-admin/internal/feed"
	"mangotango-admin/internal/mailer"
	"mangotango-admin/internal/server"
	"mangotango-admin/internal/store"
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

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting admin service...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("admin-service")
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
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
		// Test the connection with context
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Stores ---
	techStore := store.NewTechnicianStore(pg.DB)
	noteStore := store.NewNotificationStore(rdb.GetClient(), cfg.Feed, log)
	archive := store.NewReportArchive(esClient.Client, cfg.Database.Elasticsearch.Index, log)

	// --- Mail transport ---
	var transport mailer.Transport
	switch cfg.Mail.Provider {
	case "ses":
		transport, err = mailer.NewSESTransport(ctx, cfg.Mail)
		if err != nil {
			zapLog.Fatal("SES transport init failed", zap.Error(err))
		}
	default:
		transport = mailer.NewSMTPTransport(cfg.Mail)
	}

	var mailerOpts []mailer.Option
	if cfg.Mail.SMS.Enabled {
		sms, err := mailer.NewSNSSender(ctx, cfg.Mail.SMS.Region)
		if err != nil {
			zapLog.Fatal("SNS sender init failed", zap.Error(err))
		}
		mailerOpts = append(mailerOpts, mailer.WithSMS(sms))
	}
	notifier := mailer.New(cfg.Mail, transport, log, mailerOpts...)

	// --- Batch processor ---
	processor := batch.NewProcessor(techStore, notifier, log,
		batch.WithPause(time.Duration(cfg.Batch.RateLimitMs)*time.Millisecond),
	)
	runner := &observedRunner{processor: processor, obs: obs}

	// --- Live notification feed ---
	notificationFeed := feed.New(noteStore, log)
	if err := notificationFeed.Start(ctx); err != nil {
		zapLog.Fatal("notification feed failed to start", zap.Error(err))
	}
	defer notificationFeed.Stop()
	zapLog.Info("Notification feed subscribed")

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		zapLog.Info("Shutdown signal received, stopping admin service...")
		cancel()
	}()

	srv := server.New(cfg.Server, notifier, runner, noteStore, log,
		server.WithEventWriter(noteStore),
		server.WithArchiver(archive),
	)
	if err := srv.Run(ctx); err != nil {
		zapLog.Fatal("HTTP server failed", zap.Error(err))
	}

	zapLog.Info("Admin service stopped gracefully")
}

// observedRunner wraps the processor with run counters and timing.
type observedRunner struct {
	processor *batch.Processor
	obs       *observability.Observability
}

func (r *observedRunner) Run(ctx context.Context) (*batch.Report, error) {
	start := time.Now()
	report, err := r.processor.Run(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}
	r.obs.RecordBatchRun(ctx, status)
	r.obs.RecordBatchDuration(ctx, time.Since(start), status)

	return report, err
}
