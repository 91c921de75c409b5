package rules

import (
	"testing"
	"time"
)

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()

	allEventCount := 0
	handle := bus.Subscribe(func(e Event) {
		allEventCount++
	})

	bus.Publish(NewEvent(EventDrew, "act1", "Writing", "alice"))
	bus.Publish(NewEvent(EventSplayed, "act1", "Clothing", "alice"))
	bus.Publish(NewEvent(EventActivationDone, "act1", "Clothing", "alice"))
	if allEventCount != 3 {
		t.Fatalf("expected all event count 3, got %d", allEventCount)
	}

	bus.Unsubscribe(handle)
	bus.Publish(NewEvent(EventDrew, "act2", "Writing", "alice"))
	if allEventCount != 3 {
		t.Fatalf("expected all event count still 3 after unsubscribe, got %d", allEventCount)
	}
}

func TestNilBusDropsEvents(t *testing.T) {
	var bus *EventBus
	bus.Publish(NewEvent(EventDrew, "act1", "Writing", "alice"))
}

func TestCardEventFields(t *testing.T) {
	evt := NewCardEvent(EventTransferred, "act1", "Archery", "bob", []string{"Oars", "Sailing"})
	evt.TargetPlayerID = "alice"

	if evt.Type != EventTransferred {
		t.Fatalf("expected type EventTransferred, got %s", evt.Type)
	}
	if evt.ID == "" {
		t.Fatal("expected a generated event ID")
	}
	if evt.Amount != 2 {
		t.Fatalf("expected amount 2, got %d", evt.Amount)
	}
	if evt.SourceCard != "Archery" || evt.PlayerID != "bob" {
		t.Fatalf("unexpected source/player %s/%s", evt.SourceCard, evt.PlayerID)
	}
	if evt.Metadata == nil {
		t.Fatal("expected metadata map")
	}
}

func TestEventTimestamp(t *testing.T) {
	before := time.Now()
	evt := NewEvent(EventDrew, "act1", "Writing", "alice")
	after := time.Now()

	if evt.Timestamp.Before(before) || evt.Timestamp.After(after) {
		t.Fatal("event timestamp should be between before and after")
	}
}
