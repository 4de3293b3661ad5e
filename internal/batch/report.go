// internal/batch/report.go
package batch

import (
	"fmt"
	"strings"
	"time"

	"mangotango-admin/internal/models"
)

// ProcessedEmail records one successfully dispatched categorized email.
type ProcessedEmail struct {
	ID        string        `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Status    models.Status `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// FailedEmail records one record that could not be processed.
type FailedEmail struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Report aggregates the outcomes of one batch run. Both lists preserve input
// order; the report is built once per run and never mutated afterwards.
type Report struct {
	Processed   []ProcessedEmail `json:"processedList"`
	Failed      []FailedEmail    `json:"failedList"`
	CompletedAt time.Time        `json:"completedAt"`
}

func (r *Report) ProcessedCount() int { return len(r.Processed) }
func (r *Report) FailedCount() int    { return len(r.Failed) }

// Render produces the human-readable processing summary. Pure: no side
// effects beyond the returned string.
func (r *Report) Render() string {
	var b strings.Builder

	b.WriteString("BULK EMAIL PROCESSING REPORT\n")
	b.WriteString("=====================================\n")
	fmt.Fprintf(&b, "Total Processed: %d\n", r.ProcessedCount())
	fmt.Fprintf(&b, "Total Failed: %d\n", r.FailedCount())
	fmt.Fprintf(&b, "Completed: %s\n", r.CompletedAt.Format(time.RFC1123))
	b.WriteString("\nSUCCESSFUL EMAILS:\n")
	if len(r.Processed) == 0 {
		b.WriteString("None\n")
	} else {
		for _, item := range r.Processed {
			fmt.Fprintf(&b, "- %s (%s) - %s\n", item.Name, item.Email, strings.ToUpper(item.Status.String()))
		}
	}
	b.WriteString("\nFAILED EMAILS:\n")
	if len(r.Failed) == 0 {
		b.WriteString("None\n")
	} else {
		for _, item := range r.Failed {
			fmt.Fprintf(&b, "- %s (%s) - %s\n", item.Name, item.Email, item.Reason)
		}
	}
	b.WriteString("=====================================\n")

	return b.String()
}
