package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangotango-admin/internal/common/logger"
	"mangotango-admin/internal/models"
)

// fakeSource drives the feed with hand-built snapshots and records
// acknowledgement writes.
type fakeSource struct {
	mu           sync.Mutex
	snapshots    chan []models.NotificationEntry
	subscribeErr error
	markReadErr  map[string]error
	marked       []string
	unsubscribed bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		snapshots:   make(chan []models.NotificationEntry, 8),
		markReadErr: map[string]error{},
	}
}

func (f *fakeSource) Subscribe(ctx context.Context) (<-chan []models.NotificationEntry, func(), error) {
	if f.subscribeErr != nil {
		return nil, nil, f.subscribeErr
	}
	return f.snapshots, func() {
		f.mu.Lock()
		f.unsubscribed = true
		f.mu.Unlock()
	}, nil
}

func (f *fakeSource) MarkRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.markReadErr[id]; err != nil {
		return err
	}
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeSource) markedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.marked))
	copy(out, f.marked)
	return out
}

func entry(id string, read bool) models.NotificationEntry {
	return models.NotificationEntry{
		ID:        id,
		Title:     "New registration",
		Message:   "entry " + id,
		CreatedAt: time.Now(),
		Read:      read,
	}
}

// startFeed wires a feed with an update hook so tests can wait for a
// snapshot to land instead of polling.
func startFeed(t *testing.T, source *fakeSource) (*Feed, chan int) {
	t.Helper()
	applied := make(chan int, 8)
	f := New(source, logger.NewNoOpLogger(), WithUpdateHook(func(entries []models.NotificationEntry, unread int) {
		applied <- unread
	}))
	require.NoError(t, f.Start(context.Background()))
	t.Cleanup(f.Stop)
	return f, applied
}

func waitApplied(t *testing.T, applied chan int) int {
	t.Helper()
	select {
	case unread := <-applied:
		return unread
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return 0
	}
}

func TestFeedAppliesSnapshot(t *testing.T) {
	source := newFakeSource()
	f, applied := startFeed(t, source)

	source.snapshots <- []models.NotificationEntry{entry("n1", false), entry("n2", true)}
	unread := waitApplied(t, applied)

	assert.Equal(t, 1, unread)
	assert.Equal(t, 1, f.UnreadCount())
	require.Len(t, f.Entries(), 2)
	assert.Equal(t, "n1", f.Entries()[0].ID)
}

func TestFeedSnapshotReplacesPreviousState(t *testing.T) {
	source := newFakeSource()
	f, applied := startFeed(t, source)

	source.snapshots <- []models.NotificationEntry{entry("n1", false), entry("n2", false)}
	waitApplied(t, applied)

	source.snapshots <- []models.NotificationEntry{entry("n3", false)}
	waitApplied(t, applied)

	// Replace, not merge.
	require.Len(t, f.Entries(), 1)
	assert.Equal(t, "n3", f.Entries()[0].ID)
	assert.Equal(t, 1, f.UnreadCount())
}

func TestFeedBadge(t *testing.T) {
	source := newFakeSource()
	f, applied := startFeed(t, source)

	assert.Equal(t, "", f.Badge())

	source.snapshots <- []models.NotificationEntry{entry("n1", false), entry("n2", false), entry("n3", true)}
	waitApplied(t, applied)
	assert.Equal(t, "2", f.Badge())

	source.snapshots <- []models.NotificationEntry{entry("n1", true), entry("n2", true), entry("n3", true)}
	waitApplied(t, applied)
	assert.Equal(t, "", f.Badge())
}

func TestToggleOpenMarksEveryUnreadEntry(t *testing.T) {
	source := newFakeSource()
	f, applied := startFeed(t, source)

	source.snapshots <- []models.NotificationEntry{entry("n1", false), entry("n2", true), entry("n3", false)}
	waitApplied(t, applied)

	opened := f.ToggleOpen(context.Background())
	assert.True(t, opened)
	assert.True(t, f.IsOpen())
	assert.ElementsMatch(t, []string{"n1", "n3"}, source.markedIDs())
}

func TestToggleOpenCloseDoesNotWrite(t *testing.T) {
	source := newFakeSource()
	f, applied := startFeed(t, source)

	source.snapshots <- []models.NotificationEntry{entry("n1", false)}
	waitApplied(t, applied)

	f.ToggleOpen(context.Background())
	require.Len(t, source.markedIDs(), 1)

	closed := f.ToggleOpen(context.Background())
	assert.False(t, closed)
	assert.False(t, f.IsOpen())
	// Closing never writes.
	assert.Len(t, source.markedIDs(), 1)
}

func TestToggleOpenWriteFailureDoesNotBlockOthers(t *testing.T) {
	source := newFakeSource()
	source.markReadErr["n2"] = errors.New("write refused")
	f, applied := startFeed(t, source)

	source.snapshots <- []models.NotificationEntry{entry("n1", false), entry("n2", false), entry("n3", false)}
	waitApplied(t, applied)

	opened := f.ToggleOpen(context.Background())
	assert.True(t, opened)
	assert.ElementsMatch(t, []string{"n1", "n3"}, source.markedIDs())
}

func TestDismissOutsideClosesWithoutWrites(t *testing.T) {
	source := newFakeSource()
	f, applied := startFeed(t, source)

	source.snapshots <- []models.NotificationEntry{entry("n1", true), entry("n2", false)}
	waitApplied(t, applied)

	f.ToggleOpen(context.Background())
	written := len(source.markedIDs())
	require.True(t, f.IsOpen())

	f.DismissOutside()
	assert.False(t, f.IsOpen())
	assert.Len(t, source.markedIDs(), written)

	// Dismiss on a closed panel stays closed.
	f.DismissOutside()
	assert.False(t, f.IsOpen())
}

func TestFeedSkipsUnrecognizableEntries(t *testing.T) {
	source := newFakeSource()
	f, applied := startFeed(t, source)

	source.snapshots <- []models.NotificationEntry{
		entry("n1", false),
		{ID: "n2"},                    // no title or message
		{Title: "orphan", Read: false}, // no id
	}
	waitApplied(t, applied)

	require.Len(t, f.Entries(), 1)
	assert.Equal(t, 1, f.UnreadCount())
}

func TestFeedKeepsLastStateWhenStreamEnds(t *testing.T) {
	source := newFakeSource()
	f, applied := startFeed(t, source)

	source.snapshots <- []models.NotificationEntry{entry("n1", false)}
	waitApplied(t, applied)

	close(source.snapshots)
	// Give the consumer goroutine a moment to observe the close.
	time.Sleep(50 * time.Millisecond)

	require.Len(t, f.Entries(), 1)
	assert.Equal(t, 1, f.UnreadCount())
	assert.Equal(t, "1", f.Badge())
}

func TestStartSubscribeFailure(t *testing.T) {
	source := newFakeSource()
	source.subscribeErr = errors.New("redis unavailable")

	f := New(source, logger.NewNoOpLogger())
	err := f.Start(context.Background())
	require.Error(t, err)
}

func TestStopUnsubscribes(t *testing.T) {
	source := newFakeSource()
	f, _ := startFeed(t, source)

	f.Stop()
	source.mu.Lock()
	defer source.mu.Unlock()
	assert.True(t, source.unsubscribed)
}
