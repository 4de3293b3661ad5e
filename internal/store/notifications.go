// internal/store/notifications.go
package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"mangotango-admin/internal/common/config"
	"mangotango-admin/internal/common/logger"
	"mangotango-admin/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NotificationStore keeps the admin notification backlog in Redis. Entries
// are hashes keyed by id, ordered through a sorted set scored by creation
// time. Every write publishes on the change channel so subscribers can
// refetch a full snapshot.
type NotificationStore struct {
	client *redis.Client
	cfg    config.FeedConfig
	logger logger.Logger
}

func NewNotificationStore(client *redis.Client, cfg config.FeedConfig, log logger.Logger) *NotificationStore {
	return &NotificationStore{
		client: client,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notification-store"}),
	}
}

func (s *NotificationStore) entryKey(id string) string {
	return s.cfg.EntryPrefix + id
}

// Create inserts a new unread entry and announces the change. Used by the
// registration flow; the feed itself never creates entries.
func (s *NotificationStore) Create(ctx context.Context, entry models.NotificationEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	fields := map[string]interface{}{
		"title":     entry.Title,
		"message":   entry.Message,
		"createdAt": entry.CreatedAt.Format(time.RFC3339Nano),
		"read":      boolField(entry.Read),
	}
	if err := s.client.HSet(ctx, s.entryKey(entry.ID), fields).Err(); err != nil {
		return "", fmt.Errorf("store notification %s: %w", entry.ID, err)
	}
	if err := s.client.ZAdd(ctx, s.cfg.BacklogKey, redis.Z{
		Score:  float64(entry.CreatedAt.UnixMilli()),
		Member: entry.ID,
	}).Err(); err != nil {
		return "", fmt.Errorf("index notification %s: %w", entry.ID, err)
	}

	s.announce(ctx)
	return entry.ID, nil
}

// FetchOrdered returns the full backlog, most recent first. Entries whose
// hash is missing or unrecognizable are skipped.
func (s *NotificationStore) FetchOrdered(ctx context.Context) ([]models.NotificationEntry, error) {
	ids, err := s.client.ZRevRange(ctx, s.cfg.BacklogKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read notification backlog: %w", err)
	}

	entries := make([]models.NotificationEntry, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.HGetAll(ctx, s.entryKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("read notification %s: %w", id, err)
		}
		entry := entryFromHash(id, data)
		if !entry.Recognizable() {
			s.logger.Debug("skipping unrecognizable notification entry", map[string]interface{}{
				"entryId": id,
			})
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// MarkRead flags a single entry as read. Setting read=true repeatedly is a
// no-op, which keeps overlapping acknowledgement batches safe.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	if err := s.client.HSet(ctx, s.entryKey(id), "read", "1").Err(); err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	s.announce(ctx)
	return nil
}

// Subscribe delivers full-backlog snapshots: one immediately, then one per
// backend change. Each emission replaces the previous; a slow consumer only
// ever sees the latest snapshot. The returned func cancels the subscription
// and closes the channel.
func (s *NotificationStore) Subscribe(ctx context.Context) (<-chan []models.NotificationEntry, func(), error) {
	pubsub := s.client.Subscribe(ctx, s.cfg.Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe to %s: %w", s.cfg.Channel, err)
	}

	out := make(chan []models.NotificationEntry, 1)
	done := make(chan struct{})

	go func() {
		defer close(out)

		s.emitSnapshot(ctx, out)

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				s.emitSnapshot(ctx, out)
			}
		}
	}()

	var once func()
	closed := false
	once = func() {
		if closed {
			return
		}
		closed = true
		close(done)
		_ = pubsub.Close()
	}
	return out, once, nil
}

// emitSnapshot refetches the backlog and pushes it latest-wins.
func (s *NotificationStore) emitSnapshot(ctx context.Context, out chan []models.NotificationEntry) {
	snapshot, err := s.FetchOrdered(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to refetch notification snapshot", nil)
		return
	}
	// Drop a pending stale snapshot so the consumer always gets the newest.
	select {
	case <-out:
	default:
	}
	select {
	case out <- snapshot:
	default:
	}
}

func (s *NotificationStore) announce(ctx context.Context) {
	if err := s.client.Publish(ctx, s.cfg.Channel, "changed").Err(); err != nil {
		s.logger.WithError(err).Warn("failed to announce backlog change", nil)
	}
}

func entryFromHash(id string, data map[string]string) models.NotificationEntry {
	entry := models.NotificationEntry{
		ID:      id,
		Title:   data["title"],
		Message: data["message"],
	}
	if ts, err := time.Parse(time.RFC3339Nano, data["createdAt"]); err == nil {
		entry.CreatedAt = ts
	}
	if read, err := strconv.ParseBool(data["read"]); err == nil {
		entry.Read = read
	}
	return entry
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
