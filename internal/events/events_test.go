package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestNewPublisherWithoutURL(t *testing.T) {
	pub, err := NewPublisher("", "catalog.events", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	if _, ok := pub.(NopPublisher); !ok {
		t.Fatalf("NewPublisher type = %T, want NopPublisher", pub)
	}
	if err := pub.Publish(context.Background(), New(GenreCreated, "x", nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestEventJSON(t *testing.T) {
	before := time.Now().UTC()
	event := New(MovieDeleted, "652f0744373e017388151858", nil)

	if event.OccurredAt.Before(before) {
		t.Fatalf("OccurredAt = %s, want after %s", event.OccurredAt, before)
	}

	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != "movie.deleted" || decoded["id"] != "652f0744373e017388151858" {
		t.Fatalf("decoded = %v", decoded)
	}
	if _, ok := decoded["data"]; ok {
		t.Fatalf("data present on event without payload")
	}
}
