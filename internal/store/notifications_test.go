package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangotango-admin/internal/common/config"
	"mangotango-admin/internal/common/logger"
	"mangotango-admin/internal/models"
)

func testFeedConfig() config.FeedConfig {
	return config.FeedConfig{
		Channel:     "notifications:updated",
		BacklogKey:  "notifications:by-created",
		EntryPrefix: "notification:",
	}
}

func newTestStore(t *testing.T) (*NotificationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewNotificationStore(client, testFeedConfig(), logger.NewNoOpLogger()), mr
}

func TestCreateAndFetchOrdered(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	_, err := s.Create(ctx, models.NotificationEntry{ID: "n1", Title: "first", CreatedAt: base})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.NotificationEntry{ID: "n2", Title: "second", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	_, err = s.Create(ctx, models.NotificationEntry{ID: "n3", Title: "third", CreatedAt: base.Add(2 * time.Minute)})
	require.NoError(t, err)

	entries, err := s.FetchOrdered(ctx)
	require.NoError(t, err)

	// Most recent first.
	require.Len(t, entries, 3)
	assert.Equal(t, "n3", entries[0].ID)
	assert.Equal(t, "n2", entries[1].ID)
	assert.Equal(t, "n1", entries[2].ID)
	assert.False(t, entries[0].Read)
}

func TestCreateAssignsID(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.Create(context.Background(), models.NotificationEntry{Title: "generated"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	entries, err := s.FetchOrdered(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
}

func TestMarkReadFlipsFlagIdempotently(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.NotificationEntry{ID: "n1", Title: "unread"})
	require.NoError(t, err)

	require.NoError(t, s.MarkRead(ctx, "n1"))
	require.NoError(t, s.MarkRead(ctx, "n1"))

	entries, err := s.FetchOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Read)
}

func TestFetchOrderedSkipsUnrecognizableEntries(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, models.NotificationEntry{ID: "n1", Title: "keep"})
	require.NoError(t, err)

	// Backlog references an entry whose hash carries no content.
	mr.ZAdd("notifications:by-created", 1, "ghost")

	entries, err := s.FetchOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "n1", entries[0].ID)
}

func TestSubscribeEmitsInitialAndChangeSnapshots(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := s.Create(ctx, models.NotificationEntry{ID: "n1", Title: "existing"})
	require.NoError(t, err)

	snapshots, unsubscribe, err := s.Subscribe(ctx)
	require.NoError(t, err)
	defer unsubscribe()

	select {
	case snapshot := <-snapshots:
		require.Len(t, snapshot, 1)
		assert.Equal(t, "n1", snapshot[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	_, err = s.Create(ctx, models.NotificationEntry{ID: "n2", Title: "new"})
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snapshot := <-snapshots:
			if len(snapshot) == 2 {
				assert.Equal(t, "n2", snapshot[0].ID)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for change snapshot")
		}
	}
}

func TestSubscribeUnsubscribeClosesChannel(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	snapshots, unsubscribe, err := s.Subscribe(ctx)
	require.NoError(t, err)

	unsubscribe()
	// Unsubscribe twice is safe.
	unsubscribe()

	select {
	case _, ok := <-snapshots:
		if ok {
			// Initial snapshot may still be buffered; the close follows.
			_, ok = <-snapshots
			assert.False(t, ok)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestMarkReadWriteFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	s := NewNotificationStore(client, testFeedConfig(), logger.NewNoOpLogger())

	mock.ExpectHSet("notification:n1", "read", "1").SetErr(assert.AnError)

	err := s.MarkRead(context.Background(), "n1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark notification n1 read")
	assert.NoError(t, mock.ExpectationsWereMet())
}
