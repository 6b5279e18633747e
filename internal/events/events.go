// Package events describes record-change notifications emitted after writes.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreated      Action = "created"
	ActionUpdated      Action = "updated"
	ActionDeleted      Action = "deleted"
	ActionStateChanged Action = "state_changed"
)

type Entity string

const (
	EntityClient     Entity = "client"
	EntityContract   Entity = "contract"
	EntityTask       Entity = "task"
	EntityWorkRecord Entity = "work_record"
	EntityInvoice    Entity = "invoice"
)

type Event struct {
	ID        uuid.UUID              `json:"id"`
	Entity    Entity                 `json:"entity"`
	EntityID  uuid.UUID              `json:"entity_id"`
	Action    Action                 `json:"action"`
	Data      map[string]interface{} `json:"data,omitempty"`
	TraceID   string                 `json:"trace_id,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	At        time.Time              `json:"at"`
}

func New(entity Entity, id uuid.UUID, action Action, data map[string]interface{}) Event {
	return Event{
		ID:       uuid.New(),
		Entity:   entity,
		EntityID: id,
		Action:   action,
		Data:     data,
		At:       time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type nopPublisher struct{}

// Nop discards every event.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
