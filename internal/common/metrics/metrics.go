// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BulkEmailsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_emails_processed_total",
			Help: "Total number of technician emails dispatched successfully",
		},
		[]string{"status"},
	)

	BulkEmailsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_emails_failed_total",
			Help: "Total number of technician records that failed processing",
		},
		[]string{"reason"},
	)

	BulkRecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulk_records_skipped_total",
			Help: "Total number of records skipped without an outcome",
		},
		[]string{"status"},
	)

	NotificationsUnread = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notifications_unread",
			Help: "Unread notification count from the most recent snapshot",
		},
	)

	MarkReadWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_mark_read_writes_total",
			Help: "Total number of mark-as-read writes issued by the feed",
		},
		[]string{"result"},
	)
)
