package amqp

import (
	"encoding/json"
	"time"
)

// Transaction event actions carried on the bus.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionEvent is the lightweight message published whenever a
// transaction changes. The export worker fetches the full row by ID, so the
// payload stays small; deleted events carry enough data to write a reversal.
type TransactionEvent struct {
	Action      string    `json:"action"`
	ID          int64     `json:"id"`
	Owner       string    `json:"owner"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
