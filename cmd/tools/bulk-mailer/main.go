// cmd/tools/bulk-mailer/main.go
//
// One-shot runner for the bulk registration email pass. Fetches every
// technician registration, dispatches the categorized emails and prints the
// processing report. Intended for operators; the admin service exposes the
// same run over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"mangotango-admin/internal/batch"
	"mangotango-admin/internal/common/config"
	"mangotango-admin/internal/common/database"
	"mangotango-admin/internal/common/logger"
	"mangotango-admin/internal/mailer"
	"mangotango-admin/internal/store"
)

func main() {
	var (
		skipArchive = flag.Bool("skip-archive", false, "do not index the report into Elasticsearch")
		pauseMs     = flag.Int("pause-ms", -1, "override the pause between dispatched emails (-1 uses config)")
	)
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

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
	notifier := mailer.New(cfg.Mail, transport, log)

	opts := []batch.Option{
		batch.WithPause(time.Duration(cfg.Batch.RateLimitMs) * time.Millisecond),
	}
	if *pauseMs >= 0 {
		opts = append(opts, batch.WithPause(time.Duration(*pauseMs)*time.Millisecond))
	}

	processor := batch.NewProcessor(store.NewTechnicianStore(pg.DB), notifier, log, opts...)

	report, err := processor.Run(ctx)
	if err != nil {
		zapLog.Error("bulk email run failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Print(report.Render())

	if !*skipArchive {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, report not archived", zap.Error(err))
			return
		}
		archive := store.NewReportArchive(esClient.Client, cfg.Database.Elasticsearch.Index, log)
		runID, err := archive.Archive(ctx, report)
		if err != nil {
			zapLog.Warn("failed to archive report", zap.Error(err))
			return
		}
		fmt.Printf("Report archived with run id %s\n", runID)
	}
}
