// Package events carries ledger change notifications between the API and the worker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
	GoalFunded         = "goal.funded"
	GoalAchieved       = "goal.achieved"
)

// Event is a lightweight message; consumers re-read whatever else they need from the database
type Event struct {
	Type       string          `json:"type"`
	UserID     uint            `json:"userId"`
	EntityID   uint            `json:"entityId"`
	AccountID  uint            `json:"accountId,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"` // Account balance before the change
	Kind       string          `json:"kind,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// New stamps an event with the current time
func New(eventType string, userID, entityID uint) Event {
	return Event{Type: eventType, UserID: userID, EntityID: entityID, OccurredAt: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event
func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher sends events to whoever listens
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops events; used when no broker is configured
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory
type Recorder struct {
	Events []Event
}

// Publish implements Publisher
func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

// Types lists the types of recorded events in order
func (r *Recorder) Types() []string {
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}
