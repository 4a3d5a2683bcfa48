package logger

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under the key "error". A nil error yields an empty Attr,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under the key "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Component records the emitting package under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// SessionID records a session identifier under "session_id".
// Empty ids yield an empty Attr.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}

// WindowID records a window identifier under "window_id".
// Empty ids yield an empty Attr.
func WindowID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("window_id", id)
}

// Event records an analytics event name under "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Reasons records the names of the rotation reasons that are true under
// "change_reason".
func Reasons(reasons map[string]bool) slog.Attr {
	as := make([]slog.Attr, 0, len(reasons))
	for _, name := range slices.Sorted(maps.Keys(reasons)) {
		if reasons[name] {
			as = append(as, slog.Bool(name, true))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "change_reason", Value: slog.GroupValue(as...)}
}

// Duration records a duration under "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
