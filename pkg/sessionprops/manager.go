package sessionprops

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/analyticskit/pkg/logger"
	"github.com/dmitrymomot/analyticskit/pkg/persistence"
	"github.com/dmitrymomot/analyticskit/pkg/sessionid"
)

const (
	// StorageKey is the shared property holding the entry properties.
	StorageKey = "$client_session_props"

	// PropertyPrefix is prepended to every entry property returned by Properties.
	PropertyPrefix = "$session_entry_"
)

// Sessions is the part of the session id manager this package listens to.
// *sessionid.Manager satisfies it.
type Sessions interface {
	OnSessionID(h sessionid.SessionIDHandler) (unsubscribe func())
}

// Manager records entry properties once per session.
type Manager struct {
	mu      sync.Mutex
	store   persistence.Store
	source  SourceFunc
	logger  *slog.Logger
	timeout time.Duration

	unsubscribe func()
	closeOnce   sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTimeout bounds store calls made from session change notifications.
// Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = max(d, 0)
	}
}

// New subscribes to session changes and records entry properties from
// source whenever the stored properties belong to another session.
func New(store persistence.Store, sessions Sessions, source SourceFunc, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		source:  source,
		logger:  slog.Default(),
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.source == nil {
		m.source = Static(nil)
	}
	m.logger = m.logger.With(logger.Component("sessionprops"))

	m.unsubscribe = sessions.OnSessionID(m.handleSessionID)
	return m
}

// Close stops listening for session changes.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
	})
}

func (m *Manager) handleSessionID(sessionID, _ string, _ *sessionid.ChangeReason) {
	ctx, cancel := m.notifyContext()
	defer cancel()

	if err := m.Update(ctx, sessionID); err != nil {
		m.logger.WarnContext(ctx, "failed to record session entry properties",
			logger.SessionID(sessionID), logger.Error(err))
	}
}

func (m *Manager) notifyContext() (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(context.Background(), m.timeout)
	}
	return context.WithCancel(context.Background())
}

// Update records fresh entry properties for sessionID unless the stored
// ones already belong to it.
func (m *Manager) Update(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.load(ctx)
	if err != nil {
		return err
	}
	if current.SessionID == sessionID {
		return nil
	}

	entry := Entry{SessionID: sessionID, Props: m.source()}
	if err := m.store.Register(ctx, persistence.Properties{StorageKey: entry.encode()}); err != nil {
		return errors.Join(ErrWriteFailed, err)
	}

	m.logger.DebugContext(ctx, "recorded session entry properties", logger.SessionID(sessionID))
	return nil
}

// Entry returns the stored entry properties without prefixes.
func (m *Manager) Entry(ctx context.Context) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// Properties returns the stored entry properties with PropertyPrefix
// applied. Read failures yield an empty map.
func (m *Manager) Properties(ctx context.Context) map[string]any {
	entry, err := m.Entry(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to read session entry properties", logger.Error(err))
		return map[string]any{}
	}

	out := make(map[string]any, len(entry.Props))
	for k, v := range entry.Props {
		out[PropertyPrefix+k] = v
	}
	return out
}

func (m *Manager) load(ctx context.Context) (Entry, error) {
	raw, err := m.store.Get(ctx, StorageKey)
	if err != nil {
		return Entry{}, errors.Join(ErrReadFailed, err)
	}
	return decodeEntry(raw), nil
}
