// internal/feed/feed.go
package feed

import (
	"context"
	"strconv"
	"sync"

	commonerrors "mangotango-admin/internal/common/errors"
	"mangotango-admin/internal/common/logger"
	"mangotango-admin/internal/common/metrics"
	"mangotango-admin/internal/models"
)

// NotificationSource provides full-snapshot pushes of the backlog plus the
// single-field acknowledgement write.
type NotificationSource interface {
	Subscribe(ctx context.Context) (<-chan []models.NotificationEntry, func(), error)
	MarkRead(ctx context.Context, id string) error
}

// Feed maintains a derived view of the notification backlog: the rendered
// list, an unread count, and panel visibility. Every snapshot emission is an
// authoritative replace of the previous state, never a merge.
type Feed struct {
	source NotificationSource
	logger logger.Logger

	mu      sync.Mutex
	entries []models.NotificationEntry
	unread  int
	open    bool

	unsubscribe func()
	onUpdate    func(entries []models.NotificationEntry, unread int)
}

// Option configures a Feed.
type Option func(*Feed)

// WithUpdateHook registers a callback invoked after each applied snapshot.
// The hook runs on the subscription goroutine and must not block.
func WithUpdateHook(hook func(entries []models.NotificationEntry, unread int)) Option {
	return func(f *Feed) { f.onUpdate = hook }
}

func New(source NotificationSource, log logger.Logger, opts ...Option) *Feed {
	f := &Feed{
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "notification-feed"}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start establishes the live subscription and consumes snapshots until the
// stream ends. A later stream error leaves the feed in its last-known-good
// state; reconnection is the store client's concern, not the feed's.
func (f *Feed) Start(ctx context.Context) error {
	snapshots, unsubscribe, err := f.source.Subscribe(ctx)
	if err != nil {
		return commonerrors.NewSubscriptionFailureError(err)
	}
	f.unsubscribe = unsubscribe

	go func() {
		for snapshot := range snapshots {
			f.apply(snapshot)
		}
		f.logger.Warn("notification subscription ended, keeping last snapshot", nil)
	}()
	return nil
}

// Stop cancels the subscription.
func (f *Feed) Stop() {
	if f.unsubscribe != nil {
		f.unsubscribe()
	}
}

// apply replaces the rendered state with the new snapshot.
func (f *Feed) apply(snapshot []models.NotificationEntry) {
	entries := make([]models.NotificationEntry, 0, len(snapshot))
	unread := 0
	for _, entry := range snapshot {
		if !entry.Recognizable() {
			continue
		}
		entries = append(entries, entry)
		if !entry.Read {
			unread++
		}
	}

	f.mu.Lock()
	f.entries = entries
	f.unread = unread
	hook := f.onUpdate
	f.mu.Unlock()

	metrics.NotificationsUnread.Set(float64(unread))

	if hook != nil {
		hook(entries, unread)
	}
}

// Entries returns a copy of the current rendered list, most recent first.
func (f *Feed) Entries() []models.NotificationEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.NotificationEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// UnreadCount reports the unread total from the most recent snapshot.
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// Badge renders the unread indicator: empty when nothing is unread,
// otherwise the literal count.
func (f *Feed) Badge() string {
	count := f.UnreadCount()
	if count == 0 {
		return ""
	}
	return strconv.Itoa(count)
}

// IsOpen reports panel visibility.
func (f *Feed) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// ToggleOpen flips panel visibility and returns the new state. Opening
// acknowledges every currently-unread entry with one write each; the panel
// state flips before any write so the UI never waits on the store. Per-entry
// write failures are logged and do not block the remaining writes. MarkRead
// is idempotent, so overlapping acknowledgement batches from a rapid double
// toggle are safe.
func (f *Feed) ToggleOpen(ctx context.Context) bool {
	f.mu.Lock()
	f.open = !f.open
	opened := f.open
	var toAck []string
	if opened {
		for _, entry := range f.entries {
			if !entry.Read {
				toAck = append(toAck, entry.ID)
			}
		}
	}
	f.mu.Unlock()

	if !opened {
		return false
	}

	for _, id := range toAck {
		if err := f.source.MarkRead(ctx, id); err != nil {
			f.logger.WithError(commonerrors.NewWriteFailureError(id, err)).Error(
				"mark-as-read write failed", map[string]interface{}{"entryId": id})
			metrics.MarkReadWrites.WithLabelValues("failed").Inc()
			continue
		}
		metrics.MarkReadWrites.WithLabelValues("ok").Inc()
	}
	return true
}

// DismissOutside closes an open panel without side effects. Models any
// interaction outside both the trigger control and the panel.
func (f *Feed) DismissOutside() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
}
