package domain

import "time"

// Event types pushed to dashboard subscribers.
const (
	EventSnapshotReloaded = "snapshot.reloaded"
	EventReloadFailed     = "snapshot.reload_failed"
	EventPong             = "PONG"
)

// Event is a notification delivered over the websocket hub.
type Event struct {
	Type      string    `json:"type"`
	Variant   string    `json:"variant,omitempty"`
	Version   int64     `json:"version,omitempty"`
	Records   int       `json:"records,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSnapshotEvent describes a successful reload.
func NewSnapshotEvent(s *Snapshot) Event {
	return Event{
		Type:      EventSnapshotReloaded,
		Variant:   s.Variant,
		Version:   s.Version,
		Records:   s.Len(),
		CreatedAt: time.Now().UTC(),
	}
}
