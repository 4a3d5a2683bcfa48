package sessionid

// SessionIDHandler is notified when the session id changes. reason is nil
// for the immediate call made on registration.
type SessionIDHandler func(sessionID, windowID string, reason *ChangeReason)

// ForcedIdleResetHandler is notified when the idle timer ends a session.
type ForcedIdleResetHandler func()

type observer[T any] struct {
	fn T
}

// observerList is an ordered set of handlers identified by entry pointer.
// Callers synchronise access.
type observerList[T any] struct {
	entries []*observer[T]
}

func (l *observerList[T]) add(fn T) *observer[T] {
	o := &observer[T]{fn: fn}
	l.entries = append(l.entries, o)
	return o
}

func (l *observerList[T]) remove(o *observer[T]) {
	for i, e := range l.entries {
		if e == o {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *observerList[T]) snapshot() []T {
	out := make([]T, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.fn
	}
	return out
}

func (l *observerList[T]) clear() {
	l.entries = nil
}
