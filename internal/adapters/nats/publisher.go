package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/antipodes/internal/core/domain"
)

// DefaultPrefix is the subject root when none is configured.
const DefaultPrefix = "antipodes"

// Publisher implements ports.EventPublisher using core NATS subjects:
//
//	<prefix>.sync.<source map>
//	<prefix>.search
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

// NewPublisher connects to NATS.
func NewPublisher(url, prefix string) (*Publisher, error) {
	conn, err := connect(url, "antipodes-publisher")
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, prefix: orDefault(prefix)}, nil
}

func (p *Publisher) PublishSync(ctx context.Context, rec *domain.SyncRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return p.conn.Publish(syncSubject(p.prefix, rec.Source), data)
}

func (p *Publisher) PublishSearch(ctx context.Context, rec *domain.SearchRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return p.conn.Publish(searchSubject(p.prefix), data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

func connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}

func orDefault(prefix string) string {
	if prefix == "" {
		return DefaultPrefix
	}
	return prefix
}

func syncSubject(prefix, source string) string { return prefix + ".sync." + source }

func searchSubject(prefix string) string { return prefix + ".search" }
