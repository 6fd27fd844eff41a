package events

import "time"

// Event types.
const (
	SyncStatus        = "sync:status"
	CollectionChanged = "collection:changed"
	DecksChanged      = "decks:changed"
)

// SyncStatusEvent is the payload for sync:status events.
type SyncStatusEvent struct {
	State     string    `json:"state"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CollectionChangedEvent is the payload for collection:changed events.
type CollectionChangedEvent struct {
	Entries int `json:"entries"` // Distinct printings
	Cards   int `json:"cards"`   // Sum of quantities
}

// DecksChangedEvent is the payload for decks:changed events.
type DecksChangedEvent struct {
	Count int `json:"count"`
}
