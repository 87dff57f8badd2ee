package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"lingo-quiz-service/internal/app"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisherDisabledWithoutURL(t *testing.T) {
	p, err := NewPublisher("", "", nil)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if p.Enabled() {
		t.Fatalf("expected disabled publisher")
	}
	if err := p.Publish(context.Background(), app.Event{Type: app.EventLevelUp}); err != nil {
		t.Fatalf("disabled publish should be a no-op, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestPublisherRoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisherWithChannel(ch, DefaultExchange)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), app.Event{
		Type:      app.EventLevelUp,
		UserID:    "u1",
		SessionID: "s1",
		Payload:   map[string]any{"from": 4, "to": 5},
		At:        at,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if ch.exchange != "quiz.events" || ch.key != "quiz.level.up" {
		t.Fatalf("unexpected route %s/%s", ch.exchange, ch.key)
	}
	if ch.msg.Headers["user_id"] != "u1" || !ch.msg.Timestamp.Equal(at) {
		t.Fatalf("unexpected message %+v", ch.msg)
	}

	var decoded app.Event
	if err := json.Unmarshal(ch.msg.Body, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.UserID != "u1" || decoded.Payload["to"] != float64(5) {
		t.Fatalf("unexpected body %+v", decoded)
	}

	if err := p.Close(); err != nil || !ch.closed {
		t.Fatalf("expected channel closed, err=%v", err)
	}
}

func TestPublisherWrapsErrors(t *testing.T) {
	boom := errors.New("channel closed")
	p := newPublisherWithChannel(&fakeChannel{err: boom}, DefaultExchange)
	if err := p.Publish(context.Background(), app.Event{Type: app.EventAnswerRecorded}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
