package batch

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mangotango-admin/internal/models"
)

func TestRenderWithOutcomes(t *testing.T) {
	report := &Report{
		Processed: []ProcessedEmail{
			{ID: "t1", Email: "ana@example.com", Name: "Ana Reyes", Status: models.StatusApproved},
			{ID: "t2", Email: "ben@example.com", Name: "Ben Cruz", Status: models.StatusRejected},
		},
		Failed: []FailedEmail{
			{ID: "t3", Email: "No email", Name: "Carla", Reason: ReasonIncompleteData},
		},
		CompletedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	out := report.Render()

	assert.Contains(t, out, "Total Processed: 2")
	assert.Contains(t, out, "Total Failed: 1")
	assert.Contains(t, out, "- Ana Reyes (ana@example.com) - APPROVED")
	assert.Contains(t, out, "- Ben Cruz (ben@example.com) - REJECTED")
	assert.Contains(t, out, "- Carla (No email) - Incomplete data")
	assert.NotContains(t, out, "None")
}

func TestRenderEmptySections(t *testing.T) {
	report := &Report{CompletedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	out := report.Render()

	assert.Contains(t, out, "Total Processed: 0")
	assert.Contains(t, out, "Total Failed: 0")
	// Both sections fall back to the None placeholder.
	assert.Equal(t, 2, strings.Count(out, "None\n"))
}

func TestRenderSectionOrder(t *testing.T) {
	report := &Report{
		Processed: []ProcessedEmail{{Name: "Ana", Email: "a@example.com", Status: models.StatusApproved}},
		Failed:    []FailedEmail{{Name: "Ben", Email: "b@example.com", Reason: ReasonSendFailed}},
	}

	out := report.Render()

	successIdx := strings.Index(out, "SUCCESSFUL EMAILS:")
	failedIdx := strings.Index(out, "FAILED EMAILS:")
	assert.Greater(t, failedIdx, successIdx)
	assert.Greater(t, successIdx, 0)
}
