// Package errors provides standardized error handling for the admin
// notification service.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeInvalidRecord marks a technician record missing required fields.
	// Never retried; always recorded as a failed outcome.
	ErrCodeInvalidRecord ErrorCode = "INVALID_RECORD"

	// ErrCodeSendFailure marks a notifier action that returned false or
	// errored. Not retried within a run.
	ErrCodeSendFailure ErrorCode = "SEND_FAILURE"

	// ErrCodeFetchFailure marks a failed bulk read of the technician set.
	// Fatal to the batch run; no partial report is produced.
	ErrCodeFetchFailure ErrorCode = "FETCH_FAILURE"

	// ErrCodeSubscriptionFailure marks a disconnected or errored live feed.
	// Logged; the feed keeps its last-known-good state.
	ErrCodeSubscriptionFailure ErrorCode = "SUBSCRIPTION_FAILURE"

	// ErrCodeWriteFailure marks a failed mark-as-read write. Logged per
	// entry; does not block marking other entries.
	ErrCodeWriteFailure ErrorCode = "WRITE_FAILURE"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewInvalidRecordError creates a non-retryable incomplete-record error.
func NewInvalidRecordError(recordID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRecord,
		Message:   "Technician record is missing required fields",
		Details:   fmt.Sprintf("recordId: %s", recordID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSendFailureError creates a non-retryable notification send error.
func NewSendFailureError(recordID string, err error) *StandardError {
	details := fmt.Sprintf("recordId: %s", recordID)
	if err != nil {
		details = fmt.Sprintf("recordId: %s, error: %s", recordID, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeSendFailure,
		Message:   "Notification send failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFetchFailureError creates a retryable bulk-read error. The batch run
// aborts, but the caller may start a fresh run.
func NewFetchFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFetchFailure,
		Message:   "Failed to fetch technician registrations",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubscriptionFailureError creates a subscription error for the live feed.
func NewSubscriptionFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubscriptionFailure,
		Message:   "Notification subscription error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWriteFailureError creates a per-entry mark-as-read write error.
func NewWriteFailureError(entryID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWriteFailure,
		Message:   "Failed to mark notification as read",
		Details:   fmt.Sprintf("entryId: %s, error: %s", entryID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a non-retryable configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
