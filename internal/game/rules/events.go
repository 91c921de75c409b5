package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a resolution event.
type EventType string

const (
	// Card movement events
	EventDrew        EventType = "DREW"
	EventRevealed    EventType = "REVEALED"
	EventMelded      EventType = "MELDED"
	EventTucked      EventType = "TUCKED"
	EventReturned    EventType = "RETURNED"
	EventScored      EventType = "SCORED"
	EventTransferred EventType = "TRANSFERRED"
	EventExchanged   EventType = "EXCHANGED"

	// Board and achievement events
	EventSplayed  EventType = "SPLAYED"
	EventAchieved EventType = "ACHIEVED"

	// Decision events
	EventDeclined EventType = "DECLINED"

	// Activation events
	EventDogmaActivated  EventType = "DOGMA_ACTIVATED"
	EventDemandIssued    EventType = "DEMAND_ISSUED"
	EventDemandResolved  EventType = "DEMAND_RESOLVED"
	EventChainedResolved EventType = "CHAINED_RESOLVED"
	EventActivationDone  EventType = "ACTIVATION_DONE"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type           EventType
	ID             string            // Unique event ID
	ActivationID   string            // Card activation the event belongs to
	SourceCard     string            // Name of the card whose effect caused the event
	PlayerID       string            // Player acting
	TargetPlayerID string            // Other player involved (transfer receiver, demand target)
	Cards          []string          // Names of the cards involved
	Amount         int               // Numeric value (cards drawn, age, outcome size)
	Data           string            // Additional string data (color, direction, achievement)
	Timestamp      time.Time         // When the event occurred
	Metadata       map[string]string // Additional metadata
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// EventBus provides a synchronous publish/subscribe implementation.
type EventBus struct {
	mu         sync.RWMutex
	listeners  map[int]Listener
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
}

// Publish delivers the event to all registered listeners synchronously.
// A nil bus drops the event.
func (bus *EventBus) Publish(event Event) {
	if bus == nil {
		return
	}
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, activationID, sourceCard, playerID string) Event {
	return Event{
		Type:         eventType,
		ID:           uuid.NewString(),
		ActivationID: activationID,
		SourceCard:   sourceCard,
		PlayerID:     playerID,
		Timestamp:    time.Now(),
		Metadata:     make(map[string]string),
	}
}

// NewCardEvent creates an event naming the cards involved.
func NewCardEvent(eventType EventType, activationID, sourceCard, playerID string, cardNames []string) Event {
	evt := NewEvent(eventType, activationID, sourceCard, playerID)
	evt.Cards = cardNames
	evt.Amount = len(cardNames)
	return evt
}
