package amqp

import (
	"testing"
	"time"
)

func TestTransactionEventRoundTrip(t *testing.T) {
	event := &TransactionEvent{
		Action:      ActionDeleted,
		ID:          42,
		Owner:       "user_1",
		AmountCents: 1250,
		Category:    "Food",
		Description: "lunch",
		Timestamp:   time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := TransactionEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if *got != *event {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, event)
	}
}

func TestTransactionEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}
