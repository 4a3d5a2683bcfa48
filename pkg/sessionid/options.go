package sessionid

import (
	"log/slog"

	"github.com/dmitrymomot/analyticskit/pkg/persistence"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// Lifecycle lets the manager register a tab-unload hook.
// *lifecycle.Hooks satisfies it.
type Lifecycle interface {
	OnUnload(fn func()) (remove func())
}

// WithConfig sets custom configuration
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.config = cfg
	}
}

// WithIdleTimeoutSeconds overrides the configured idle timeout. The value is
// still clamped.
func WithIdleTimeoutSeconds(seconds float64) Option {
	return func(m *Manager) {
		m.config.SessionIdleTimeoutSeconds = IdleTimeoutSeconds(seconds)
	}
}

// WithBootstrapSessionID seeds the shared record with id at construction.
// The record is overwritten unconditionally, replacing any live session
// other tabs sharing the store are using.
func WithBootstrapSessionID(id string) Option {
	return func(m *Manager) {
		m.config.BootstrapSessionID = id
	}
}

// WithTabStore sets the per-tab storage used for the window id.
// Without it the window id lives in memory only.
func WithTabStore(tabs persistence.TabStore) Option {
	return func(m *Manager) {
		m.tabs = tabs
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces the wall clock and timer source.
func WithClock(c Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithSessionIDGenerator replaces the session id generator (UUIDv7 by default).
func WithSessionIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newSessionID = gen
		}
	}
}

// WithWindowIDGenerator replaces the window id generator (UUIDv7 by default).
func WithWindowIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newWindowID = gen
		}
	}
}

// WithLifecycle registers the manager's unload hook on lc.
func WithLifecycle(lc Lifecycle) Option {
	return func(m *Manager) {
		m.lifecycle = lc
	}
}
