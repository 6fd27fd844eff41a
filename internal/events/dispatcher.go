package events

import (
	"context"
	"log/slog"
	"sync"
)

// Event represents a domain event that can be dispatched to observers.
type Event struct {
	// Type is the event type (e.g., "sync:status", "collection:changed")
	Type string

	// Data is the typed payload, one of the structs in messages.go.
	Data any

	// Context provides execution context for the event
	Context context.Context
}

// Observer defines the interface for objects that want to be notified of events.
type Observer interface {
	// OnEvent is called when an event is dispatched.
	OnEvent(event Event) error

	// GetName returns a human-readable name for this observer (for logging/debugging).
	GetName() string

	// ShouldHandle returns true if this observer should handle the given event type.
	ShouldHandle(eventType string) bool
}

// EventDispatcher implements the Observer pattern for event distribution.
// Thread-safe for concurrent use.
type EventDispatcher struct {
	observers []Observer
	mu        sync.RWMutex
	logger    *slog.Logger
}

// NewEventDispatcher creates a new EventDispatcher.
func NewEventDispatcher(logger *slog.Logger) *EventDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventDispatcher{
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

// Register adds an observer to the dispatcher.
func (d *EventDispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	d.logger.Debug("Registered observer", "observer", observer.GetName())
}

// Unregister removes an observer from the dispatcher.
func (d *EventDispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			d.logger.Debug("Unregistered observer", "observer", observer.GetName())
			return
		}
	}
}

// Dispatch sends an event to all registered observers in registration order.
// An observer error is logged and does not stop delivery to the others.
func (d *EventDispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, observer := range observers {
		if !observer.ShouldHandle(event.Type) {
			continue
		}

		if err := observer.OnEvent(event); err != nil {
			d.logger.Warn("Observer failed to handle event",
				"observer", observer.GetName(), "event", event.Type, "error", err)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *EventDispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// NewTypedEvent creates an Event carrying data.
func NewTypedEvent[T any](ctx context.Context, eventType string, data T) Event {
	if ctx == nil {
		ctx = context.Background()
	}
	return Event{Type: eventType, Data: data, Context: ctx}
}

// GetTypedData extracts typed data from an Event.
// Returns the zero value and false if the data is not of the expected type.
func GetTypedData[T any](event Event) (T, bool) {
	typed, ok := event.Data.(T)
	return typed, ok
}

// LogObserver writes every event to a logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnEvent(event Event) error {
	o.logger.Debug("Event", "type", event.Type, "data", event.Data)
	return nil
}

func (o *LogObserver) GetName() string { return "LogObserver" }

func (o *LogObserver) ShouldHandle(string) bool { return true }
