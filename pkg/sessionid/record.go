package sessionid

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is the shared session state: the tuple
// [lastActivityTimestamp, sessionId, sessionStartTimestamp].
// Timestamps are unix milliseconds; zero means "not set".
type Record struct {
	LastActivityTimestamp int64
	SessionID             string
	SessionStartTimestamp int64
}

// Valid reports whether the record names a session.
func (r Record) Valid() bool {
	return r.SessionID != ""
}

// Encode returns the persisted tuple form; unset fields become nil.
func (r Record) Encode() []any {
	return []any{nullableMillis(r.LastActivityTimestamp), nullableString(r.SessionID), nullableMillis(r.SessionStartTimestamp)}
}

// normalize fills unset timestamps without touching the session id:
// last activity falls back to timestamp, the start to the last activity.
func (r Record) normalize(timestamp int64) Record {
	if r.LastActivityTimestamp <= 0 {
		r.LastActivityTimestamp = timestamp
	}
	if r.SessionStartTimestamp <= 0 {
		r.SessionStartTimestamp = r.LastActivityTimestamp
	}
	return r
}

// DecodeRecord converts a stored value into a Record field by field.
// Unknown shapes decode to the empty record; a two element legacy tuple has
// its start populated from the activity timestamp.
func DecodeRecord(v any) Record {
	tuple, ok := asTuple(v)
	if !ok {
		return Record{}
	}

	var r Record
	if len(tuple) > 0 {
		r.LastActivityTimestamp = toMillis(tuple[0])
	}
	if len(tuple) > 1 {
		if id, ok := tuple[1].(string); ok {
			r.SessionID = strings.TrimSpace(id)
		}
	}
	if len(tuple) > 2 {
		r.SessionStartTimestamp = toMillis(tuple[2])
	} else if len(tuple) == 2 {
		r.SessionStartTimestamp = r.LastActivityTimestamp
	}
	return r
}

func asTuple(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case Record:
		return t.Encode(), true
	case *Record:
		if t == nil {
			return nil, false
		}
		return t.Encode(), true
	case string:
		var tuple []any
		if err := json.Unmarshal([]byte(t), &tuple); err != nil {
			return nil, false
		}
		return tuple, true
	case []byte:
		return asTuple(string(t))
	default:
		return nil, false
	}
}

// toMillis accepts the numeric shapes stores produce and returns 0 for
// anything missing, non-numeric or non-positive.
func toMillis(v any) int64 {
	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case uint32:
		n = int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return 0
		}
		n = int64(t)
	case float32:
		return toMillis(float64(t))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t > math.MaxInt64 {
			return 0
		}
		n = int64(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			n = i
		} else if f, err := t.Float64(); err == nil {
			return toMillis(f)
		}
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return toMillis(f)
	}
	return max(n, 0)
}

func nullableMillis(ms int64) any {
	if ms <= 0 {
		return nil
	}
	return ms
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
