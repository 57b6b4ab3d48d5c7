// Package events publishes audit events about directory changes.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeUserCreated        = "user.created"
	TypeUserUpdated        = "user.updated"
	TypeUserDeleted        = "user.deleted"
	TypeDirectoryPublished = "directory.published"
)

// Event is one audit record. Details never carries password material.
type Event struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Username string            `json:"username,omitempty"`
	Actor    string            `json:"actor,omitempty"`
	At       time.Time         `json:"at"`
	Details  map[string]string `json:"details,omitempty"`
}

// NewEvent returns an Event with a fresh id and timestamp.
func NewEvent(typ, username, actor string) Event {
	return Event{
		ID:       uuid.NewString(),
		Type:     typ,
		Username: username,
		Actor:    actor,
		At:       time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
