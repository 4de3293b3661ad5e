// internal/store/reports.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"mangotango-admin/internal/batch"
	"mangotango-admin/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
)

// ReportArchive indexes batch reports into Elasticsearch so past runs stay
// inspectable after the rendered summary scrolls away.
type ReportArchive struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewReportArchive(client *elasticsearch.Client, index string, log logger.Logger) *ReportArchive {
	return &ReportArchive{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "report-archive"}),
	}
}

type reportDocument struct {
	RunID       string                 `json:"runId"`
	Processed   int                    `json:"processed"`
	Failed      int                    `json:"failed"`
	ProcessedBy []batch.ProcessedEmail `json:"processedList"`
	FailedBy    []batch.FailedEmail    `json:"failedList"`
	CompletedAt string                 `json:"completedAt"`
}

// Archive stores one report document. Failures are returned, not retried;
// archiving is best effort and never blocks the batch result.
func (a *ReportArchive) Archive(ctx context.Context, report *batch.Report) (string, error) {
	runID := uuid.New().String()
	doc := reportDocument{
		RunID:       runID,
		Processed:   report.ProcessedCount(),
		Failed:      report.FailedCount(),
		ProcessedBy: report.Processed,
		FailedBy:    report.Failed,
		CompletedAt: report.CompletedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal report document: %w", err)
	}

	res, err := a.client.Index(
		a.index,
		bytes.NewReader(body),
		a.client.Index.WithContext(ctx),
		a.client.Index.WithDocumentID(runID),
	)
	if err != nil {
		return "", fmt.Errorf("index report: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("index report: %s", res.Status())
	}

	a.logger.Info("archived batch report", map[string]interface{}{
		"runId":     runID,
		"processed": doc.Processed,
		"failed":    doc.Failed,
	})
	return runID, nil
}
