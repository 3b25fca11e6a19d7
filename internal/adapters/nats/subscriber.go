package natsadapter

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/antipodes/internal/core/domain"
)

// Subscriber follows the records published by running sessions.
type Subscriber struct {
	conn   *nats.Conn
	prefix string
	subs   []*nats.Subscription
}

// NewSubscriber connects to NATS.
func NewSubscriber(url, prefix string) (*Subscriber, error) {
	conn, err := connect(url, "antipodes-watcher")
	if err != nil {
		return nil, err
	}
	return &Subscriber{conn: conn, prefix: orDefault(prefix)}, nil
}

// SubscribeSync delivers sync records from both maps.
func (s *Subscriber) SubscribeSync(ctx context.Context, handler func(ctx context.Context, rec *domain.SyncRecord) error) error {
	sub, err := s.conn.Subscribe(syncSubject(s.prefix, "*"), func(msg *nats.Msg) {
		var rec domain.SyncRecord
		if err := json.Unmarshal(msg.Data, &rec); err != nil {
			slog.Warn("malformed sync record", "subject", msg.Subject, "error", err)
			return
		}
		if err := handler(ctx, &rec); err != nil {
			slog.Warn("sync handler failed", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// SubscribeSearch delivers applied search records.
func (s *Subscriber) SubscribeSearch(ctx context.Context, handler func(ctx context.Context, rec *domain.SearchRecord) error) error {
	sub, err := s.conn.Subscribe(searchSubject(s.prefix), func(msg *nats.Msg) {
		var rec domain.SearchRecord
		if err := json.Unmarshal(msg.Data, &rec); err != nil {
			slog.Warn("malformed search record", "subject", msg.Subject, "error", err)
			return
		}
		if err := handler(ctx, &rec); err != nil {
			slog.Warn("search handler failed", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
