// internal/batch/processor.go
package batch

import (
	"context"
	"time"

	commonerrors "mangotango-admin/internal/common/errors"
	"mangotango-admin/internal/common/logger"
	"mangotango-admin/internal/common/metrics"
	"mangotango-admin/internal/models"
)

// Failure reasons recorded in the report.
const (
	ReasonIncompleteData = "Incomplete data"
	ReasonSendFailed     = "Email sending failed"
)

// DefaultPause is the delay between dispatched emails, matching the rate
// limit of the notification channel.
const DefaultPause = 1000 * time.Millisecond

// TechnicianSource provides the full registration snapshot.
type TechnicianSource interface {
	FetchAll(ctx context.Context) ([]models.TechnicianRecord, error)
}

// Notifier dispatches categorized emails. The bool reports whether the email
// went out; a non-nil error carries the transport's own failure text.
type Notifier interface {
	SendApproval(ctx context.Context, rec models.TechnicianRecord) (bool, error)
	SendRejection(ctx context.Context, rec models.TechnicianRecord) (bool, error)
}

// Processor iterates all technician registrations, branches per status and
// dispatches the matching email, accumulating an ordered report. Strictly
// sequential: no two sends for a run are ever in flight concurrently.
type Processor struct {
	source   TechnicianSource
	notifier Notifier
	logger   logger.Logger
	pause    time.Duration
	sleep    func(ctx context.Context, d time.Duration)
	now      func() time.Time
}

// Option configures a Processor.
type Option func(*Processor)

// WithPause overrides the delay between dispatched records.
func WithPause(d time.Duration) Option {
	return func(p *Processor) { p.pause = d }
}

// WithSleeper injects the pause implementation. Tests inject a recording
// no-op to avoid real wall-clock delays.
func WithSleeper(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(p *Processor) { p.sleep = sleep }
}

// WithClock injects the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

func NewProcessor(source TechnicianSource, notifier Notifier, log logger.Logger, opts ...Option) *Processor {
	p := &Processor{
		source:   source,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"component": "bulk-email-processor"}),
		pause:    DefaultPause,
		sleep:    sleepContext,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes the full registration snapshot in input order. A single
// record's failure never aborts the run; only the initial fetch is fatal.
func (p *Processor) Run(ctx context.Context) (*Report, error) {
	records, err := p.source.FetchAll(ctx)
	if err != nil {
		return nil, commonerrors.NewFetchFailureError(err)
	}

	p.logger.Info("processing technician registrations", map[string]interface{}{
		"count": len(records),
	})

	report := &Report{}
	for _, rec := range records {
		dispatched := p.processOne(ctx, rec, report)
		if dispatched {
			// Rate-limit pause applies only to records that reached the
			// notification channel, not to skips.
			p.sleep(ctx, p.pause)
		}
	}
	report.CompletedAt = p.now()

	p.logger.Info("bulk email processing finished", map[string]interface{}{
		"processed": len(report.Processed),
		"failed":    len(report.Failed),
	})
	return report, nil
}

// processOne classifies and dispatches a single record, appending at most
// one outcome. Returns whether a send was attempted.
func (p *Processor) processOne(ctx context.Context, rec models.TechnicianRecord, report *Report) bool {
	if !rec.Complete() {
		p.logger.Warn("skipping incomplete record", map[string]interface{}{
			"recordId": rec.ID,
		})
		report.Failed = append(report.Failed, FailedEmail{
			ID:     rec.ID,
			Email:  rec.DisplayEmail(),
			Name:   rec.FullName(),
			Reason: ReasonIncompleteData,
		})
		metrics.BulkEmailsFailed.WithLabelValues("incomplete_data").Inc()
		return false
	}

	status := models.NormalizeStatus(rec.Status)

	var sent bool
	var err error
	switch status {
	case models.StatusApproved:
		sent, err = p.notifier.SendApproval(ctx, rec)
	case models.StatusRejected:
		sent, err = p.notifier.SendRejection(ctx, rec)
	case models.StatusPending:
		p.logger.Debug("skipping pending registration", map[string]interface{}{
			"recordId": rec.ID,
		})
		metrics.BulkRecordsSkipped.WithLabelValues("pending").Inc()
		return false
	default:
		// Observability event, not a failure.
		p.logger.Info("skipping record with unrecognized status", map[string]interface{}{
			"recordId": rec.ID,
			"status":   rec.Status,
		})
		metrics.BulkRecordsSkipped.WithLabelValues("unrecognized").Inc()
		return false
	}

	switch {
	case err != nil:
		p.logger.WithError(err).Error("email send errored", map[string]interface{}{
			"recordId": rec.ID,
			"email":    rec.Email,
		})
		report.Failed = append(report.Failed, FailedEmail{
			ID:     rec.ID,
			Email:  rec.Email,
			Name:   rec.FullName(),
			Reason: err.Error(),
		})
		metrics.BulkEmailsFailed.WithLabelValues("error").Inc()
	case !sent:
		p.logger.Error("email send failed", map[string]interface{}{
			"recordId": rec.ID,
			"email":    rec.Email,
		})
		report.Failed = append(report.Failed, FailedEmail{
			ID:     rec.ID,
			Email:  rec.Email,
			Name:   rec.FullName(),
			Reason: ReasonSendFailed,
		})
		metrics.BulkEmailsFailed.WithLabelValues("send_failed").Inc()
	default:
		report.Processed = append(report.Processed, ProcessedEmail{
			ID:        rec.ID,
			Email:     rec.Email,
			Name:      rec.FullName(),
			Status:    status,
			Timestamp: p.now(),
		})
		metrics.BulkEmailsProcessed.WithLabelValues(status.String()).Inc()
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
