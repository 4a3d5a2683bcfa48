package capture

import "time"

// Property keys stamped on every event.
const (
	PropertySessionID = "$session_id"
	PropertyWindowID  = "$window_id"
	PropertyLib       = "$lib"

	// LibName identifies this SDK in the $lib property.
	LibName = "analyticskit-go"
)

// Event is a captured analytics event.
type Event struct {
	UUID       string         `json:"uuid"`
	Name       string         `json:"event"`
	Timestamp  time.Time      `json:"timestamp"`
	Properties map[string]any `json:"properties"`
}

// SessionID returns the $session_id property.
func (e Event) SessionID() string {
	id, _ := e.Properties[PropertySessionID].(string)
	return id
}

// WindowID returns the $window_id property.
func (e Event) WindowID() string {
	id, _ := e.Properties[PropertyWindowID].(string)
	return id
}
