// Package events publishes catalog changes so other services can follow them.
package events

import (
	"context"
	"time"
)

const (
	GenreCreated = "genre.created"
	GenreUpdated = "genre.updated"
	GenreDeleted = "genre.deleted"
	MovieCreated = "movie.created"
	MovieUpdated = "movie.updated"
	MovieDeleted = "movie.deleted"
)

// Event is the message body. Type doubles as the routing key.
type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

func New(eventType, id string, data any) Event {
	return Event{
		Type:       eventType,
		ID:         id,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
