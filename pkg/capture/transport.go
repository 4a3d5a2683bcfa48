package capture

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/analyticskit/pkg/logger"
)

// Transport delivers captured events.
type Transport interface {
	Send(ctx context.Context, ev Event) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, ev Event) error

func (f TransportFunc) Send(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

// MemoryTransport buffers events in a channel. When the buffer is full new
// events are dropped rather than blocking the caller.
// All methods are safe for concurrent use.
type MemoryTransport struct {
	mu      sync.RWMutex
	events  chan Event
	closed  bool
	dropped atomic.Uint64
}

// NewMemoryTransport creates a transport buffering up to bufferSize events.
// A minimum buffer size of 1 is enforced.
func NewMemoryTransport(bufferSize int) *MemoryTransport {
	return &MemoryTransport{events: make(chan Event, max(bufferSize, 1))}
}

// Send enqueues ev without blocking. A full buffer drops ev and returns nil.
func (t *MemoryTransport) Send(ctx context.Context, ev Event) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return ErrTransportClosed
	}

	select {
	case t.events <- ev:
	default:
		t.dropped.Add(1)
	}
	return nil
}

// Events returns the receive side of the buffer. It is closed by Close.
func (t *MemoryTransport) Events() <-chan Event {
	return t.events
}

// Drain returns every buffered event without waiting for more.
func (t *MemoryTransport) Drain() []Event {
	var out []Event
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (t *MemoryTransport) Dropped() uint64 {
	return t.dropped.Load()
}

// Close stops accepting events. Buffered events stay readable.
// It is safe to call Close multiple times.
func (t *MemoryTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	close(t.events)
	return nil
}

// LogTransport writes each event as one structured log line.
type LogTransport struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogTransport logs events to l at level. A nil l uses slog.Default().
func NewLogTransport(l *slog.Logger, level slog.Level) *LogTransport {
	if l == nil {
		l = slog.Default()
	}
	return &LogTransport{logger: l.With(logger.Component("capture.transport")), level: level}
}

func (t *LogTransport) Send(ctx context.Context, ev Event) error {
	t.logger.LogAttrs(ctx, t.level, "event captured",
		logger.Event(ev.Name),
		slog.String("uuid", ev.UUID),
		logger.SessionID(ev.SessionID()),
		logger.WindowID(ev.WindowID()),
		slog.Time("timestamp", ev.Timestamp),
		slog.Any("properties", ev.Properties),
	)
	return nil
}
