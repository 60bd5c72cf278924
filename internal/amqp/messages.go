package amqp

import (
	"encoding/json"
	"time"

	"github.com/PDA080442/personal-finance-app/internal/core"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// RecordEvent notifies external consumers (export collaborators, sync
// jobs) of a ledger change. Carries the full record on creation so
// consumers need no read access to the store.
type RecordEvent struct {
	Action      string    `json:"action"`
	RecordID    int64     `json:"record_id"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Kind        string    `json:"kind,omitempty"`
	RecordedAt  time.Time `json:"recorded_at,omitempty"`
	EmittedAt   time.Time `json:"emitted_at"`
}

// NewRecordCreatedEvent builds the event for a freshly stored record.
func NewRecordCreatedEvent(rec core.Record) *RecordEvent {
	return &RecordEvent{
		Action:      ActionCreated,
		RecordID:    rec.ID,
		Category:    rec.Category,
		AmountCents: rec.Amount.Cents,
		Kind:        string(rec.Kind),
		RecordedAt:  rec.Timestamp,
		EmittedAt:   time.Now(),
	}
}

// NewRecordDeletedEvent builds the event for a removed record.
func NewRecordDeletedEvent(id int64) *RecordEvent {
	return &RecordEvent{
		Action:    ActionDeleted,
		RecordID:  id,
		EmittedAt: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON creates an event from JSON bytes.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
