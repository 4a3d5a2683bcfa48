package capture

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/dmitrymomot/analyticskit/pkg/device"
	"github.com/dmitrymomot/analyticskit/pkg/logger"
	"github.com/dmitrymomot/analyticskit/pkg/sessionid"
)

// Sessions resolves the session and window ids for an event.
// *sessionid.Manager satisfies it.
type Sessions interface {
	CheckAndGetAt(ctx context.Context, readOnly bool, timestamp int64) sessionid.Result
}

// EntryProperties supplies the session entry properties.
// *sessionprops.Manager satisfies it.
type EntryProperties interface {
	Properties(ctx context.Context) map[string]any
}

// Client stamps events with session identity and sends them.
type Client struct {
	sessions  Sessions
	transport Transport
	entry     EntryProperties
	super     map[string]any
	device    map[string]any
	logger    *slog.Logger
	now       func() time.Time
	newUUID   func() string
}

// Option configures a Client.
type Option func(*Client)

// WithEntryProperties attaches session entry properties to every event.
func WithEntryProperties(e EntryProperties) Option {
	return func(c *Client) {
		c.entry = e
	}
}

// WithSuperProperties attaches props to every event. Event properties
// override them.
func WithSuperProperties(props map[string]any) Option {
	return func(c *Client) {
		c.super = maps.Clone(props)
	}
}

// WithUserAgent attaches the browser, OS and device type parsed from ua.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.device = device.Parse(ua).Properties()
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithUUIDGenerator replaces the event uuid generator (UUIDv7 by default).
func WithUUIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if gen != nil {
			c.newUUID = gen
		}
	}
}

// New creates a capture client.
func New(sessions Sessions, transport Transport, opts ...Option) *Client {
	c := &Client{
		sessions:  sessions,
		transport: transport,
		logger:    slog.Default(),
		now:       time.Now,
		newUUID:   sessionid.NewUUIDv7,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("capture"))
	return c
}

// CaptureOption adjusts a single Capture call.
type CaptureOption func(*captureOptions)

type captureOptions struct {
	readOnly  bool
	timestamp time.Time
}

// ReadOnly resolves the session without recording activity: the session is
// not extended and the idle timer is not re-armed.
func ReadOnly() CaptureOption {
	return func(o *captureOptions) {
		o.readOnly = true
	}
}

// At sets the event timestamp instead of the current time.
func At(t time.Time) CaptureOption {
	return func(o *captureOptions) {
		o.timestamp = t
	}
}

// Capture builds the event, resolves its session and sends it. The event is
// returned even when sending fails.
func (c *Client) Capture(ctx context.Context, name string, props map[string]any, opts ...CaptureOption) (Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Event{}, ErrEmptyEventName
	}

	o := captureOptions{timestamp: c.now()}
	for _, opt := range opts {
		opt(&o)
	}

	session := c.sessions.CheckAndGetAt(ctx, o.readOnly, o.timestamp.UnixMilli())

	merged := make(map[string]any, len(c.super)+len(c.device)+len(props)+3)
	maps.Copy(merged, c.super)
	maps.Copy(merged, c.device)
	if c.entry != nil {
		maps.Copy(merged, c.entry.Properties(ctx))
	}
	maps.Copy(merged, props)
	merged[PropertySessionID] = session.SessionID
	merged[PropertyWindowID] = session.WindowID
	merged[PropertyLib] = LibName

	ev := Event{
		UUID:       c.newUUID(),
		Name:       name,
		Timestamp:  o.timestamp,
		Properties: merged,
	}

	if err := c.transport.Send(ctx, ev); err != nil {
		c.logger.WarnContext(ctx, "failed to send event",
			logger.Event(name), logger.SessionID(session.SessionID), logger.Error(err))
		return ev, errors.Join(ErrSendFailed, err)
	}

	return ev, nil
}
