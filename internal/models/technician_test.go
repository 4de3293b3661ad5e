package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Status
	}{
		{"lowercase approved", "approved", StatusApproved},
		{"uppercase approved", "APPROVED", StatusApproved},
		{"mixed case approved", "Approved", StatusApproved},
		{"rejected", "rejected", StatusRejected},
		{"mixed case rejected", "ReJeCtEd", StatusRejected},
		{"pending", "pending", StatusPending},
		{"unknown value", "on-hold", StatusUnrecognized},
		{"empty", "", StatusUnrecognized},
		{"whitespace only", "  ", StatusUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeStatus(tt.raw))
		})
	}
}

func TestTechnicianRecordComplete(t *testing.T) {
	tests := []struct {
		name     string
		rec      TechnicianRecord
		expected bool
	}{
		{
			name:     "all fields present",
			rec:      TechnicianRecord{FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"},
			expected: true,
		},
		{
			name:     "missing email",
			rec:      TechnicianRecord{FirstName: "Ana", LastName: "Reyes"},
			expected: false,
		},
		{
			name:     "missing first name",
			rec:      TechnicianRecord{LastName: "Reyes", Email: "ana@example.com"},
			expected: false,
		},
		{
			name:     "missing last name",
			rec:      TechnicianRecord{FirstName: "Ana", Email: "ana@example.com"},
			expected: false,
		},
		{
			name:     "empty record",
			rec:      TechnicianRecord{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rec.Complete())
		})
	}
}

func TestTechnicianRecordDisplayFallbacks(t *testing.T) {
	rec := TechnicianRecord{}
	assert.Equal(t, "No name", rec.FullName())
	assert.Equal(t, "No email", rec.DisplayEmail())
	assert.Equal(t, "Technician", rec.DisplayExpertise())
	assert.Equal(t, "Not provided", rec.DisplayPhoneNumber())
	assert.Equal(t, "Not provided", rec.DisplayAddress())

	rec = TechnicianRecord{FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com", Expertise: "Irrigation"}
	assert.Equal(t, "Ana Reyes", rec.FullName())
	assert.Equal(t, "ana@example.com", rec.DisplayEmail())
	assert.Equal(t, "Irrigation", rec.DisplayExpertise())
}

func TestTechnicianRecordPartialName(t *testing.T) {
	rec := TechnicianRecord{FirstName: "Ana"}
	assert.Equal(t, "Ana", rec.FullName())

	rec = TechnicianRecord{LastName: "Reyes"}
	assert.Equal(t, "No name Reyes", rec.FullName())
}

func TestNotificationEntryRecognizable(t *testing.T) {
	tests := []struct {
		name     string
		entry    NotificationEntry
		expected bool
	}{
		{"title only", NotificationEntry{ID: "n1", Title: "New registration"}, true},
		{"message only", NotificationEntry{ID: "n1", Message: "A technician signed up"}, true},
		{"both", NotificationEntry{ID: "n1", Title: "t", Message: "m"}, true},
		{"no id", NotificationEntry{Title: "t"}, false},
		{"no content", NotificationEntry{ID: "n1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.Recognizable())
		})
	}
}
