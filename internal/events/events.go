package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

// Type names a domain event; it is also the subject suffix.
type Type string

const (
	PromptCreated Type = "prompt.created"
	PromptUpvoted Type = "prompt.upvoted"
	PromptDeleted Type = "prompt.deleted"
)

// Event is the JSON payload published for prompt lifecycle changes.
type Event struct {
	Type      Type      `json:"type"`
	PromptID  string    `json:"promptId"`
	UserID    string    `json:"userId,omitempty"`
	Upvotes   int64     `json:"upvotes"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers events. Implementations must not block on slow consumers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher discards events; used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type conn interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher publishes events on "<prefix>.<type>" subjects.
type NATSPublisher struct {
	conn   conn
	prefix string
}

// Connect dials NATS with reconnects enabled.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("prompthub-api"), nats.MaxReconnects(-1), nats.ReconnectWait(2*time.Second))
}

func NewNATSPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return newPublisher(nc, prefix)
}

func newPublisher(c conn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = "prompthub"
	}
	return &NATSPublisher{conn: c, prefix: prefix}
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(t Type) string {
	return p.prefix + "." + string(t)
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.Subject(e.Type), b)
}
