package websocket

import (
	"github.com/ramonehamilton/mtg-binder/internal/events"
)

// Observer forwards dispatcher events to WebSocket clients.
type Observer struct {
	hub *Hub
}

// NewObserver creates an observer broadcasting through hub.
func NewObserver(hub *Hub) *Observer {
	return &Observer{hub: hub}
}

// OnEvent broadcasts the event.
func (o *Observer) OnEvent(event events.Event) error {
	if o.hub == nil {
		return nil
	}
	o.hub.BroadcastEvent(Event{Type: event.Type, Data: event.Data})
	return nil
}

// GetName returns the observer's name.
func (o *Observer) GetName() string {
	return "WebSocketObserver"
}

// ShouldHandle forwards every event.
func (o *Observer) ShouldHandle(string) bool {
	return true
}

var _ events.Observer = (*Observer)(nil)
