// internal/models/notification.go
package models

import "time"

// NotificationEntry is one item in the admin notification backlog. Entries
// live in the store; the feed only holds a derived view rebuilt per snapshot.
type NotificationEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"` // transitions only false -> true
}

// Recognizable reports whether the entry has enough shape to render.
// Malformed store documents are skipped, not treated as errors.
func (n NotificationEntry) Recognizable() bool {
	return n.ID != "" && (n.Title != "" || n.Message != "")
}
