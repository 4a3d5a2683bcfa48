package sessionprops

import (
	"encoding/json"
	"maps"
)

// Entry is the persisted value: the session the properties were captured for
// and the properties themselves.
type Entry struct {
	SessionID string         `json:"sessionId"`
	Props     map[string]any `json:"props"`
}

func (e Entry) encode() map[string]any {
	return map[string]any{"sessionId": e.SessionID, "props": maps.Clone(e.Props)}
}

// decodeEntry accepts the shapes stores hand back: a map, an Entry or JSON
// text. Anything else is the empty entry.
func decodeEntry(v any) Entry {
	switch t := v.(type) {
	case Entry:
		return t
	case map[string]any:
		var e Entry
		e.SessionID, _ = t["sessionId"].(string)
		if props, ok := t["props"].(map[string]any); ok {
			e.Props = props
		}
		return e
	case string:
		var e Entry
		if err := json.Unmarshal([]byte(t), &e); err != nil {
			return Entry{}
		}
		return e
	case []byte:
		return decodeEntry(string(t))
	default:
		return Entry{}
	}
}
