package sessionid

import (
	"errors"

	"github.com/dmitrymomot/analyticskit/pkg/logger"
)

func (m *Manager) tabsSupported() bool {
	return m.tabs != nil && m.tabs.Supported()
}

// initWindowID adopts the stored window id only when no primary window flag
// is present. A flag that is already set means this tab's storage was copied
// from a live tab (duplicate / restore), so the copied id is cycled.
func (m *Manager) initWindowID() {
	if !m.tabsSupported() {
		return
	}

	last, err := m.tabs.Get(m.windowKey)
	if err != nil {
		m.logger.Warn("failed to read window id", logger.Error(errors.Join(ErrWindowStore, err)))
	}
	primary, err := m.tabs.Get(m.primaryWindowKey)
	if err != nil {
		m.logger.Warn("failed to read primary window flag", logger.Error(errors.Join(ErrWindowStore, err)))
	}

	if last != "" && primary == "" {
		m.windowID = last
	} else if err := m.tabs.Remove(m.windowKey); err != nil {
		m.logger.Warn("failed to cycle window id", logger.Error(errors.Join(ErrWindowStore, err)))
	}

	if err := m.tabs.Set(m.primaryWindowKey, "true"); err != nil {
		m.logger.Warn("failed to set primary window flag", logger.Error(errors.Join(ErrWindowStore, err)))
	}
}

// handleUnload clears the primary window flag so a reload of this tab keeps
// its window id.
func (m *Manager) handleUnload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.tabsSupported() {
		return
	}
	if err := m.tabs.Remove(m.primaryWindowKey); err != nil {
		m.logger.Warn("failed to clear primary window flag", logger.Error(errors.Join(ErrWindowStore, err)))
	}
}

// resolveWindowIDLocked returns the tab's window id, generating one if the
// tab has none yet. Rotation does not affect it.
func (m *Manager) resolveWindowIDLocked() string {
	if m.tabsSupported() {
		id, err := m.tabs.Get(m.windowKey)
		if err != nil {
			m.logger.Warn("failed to read window id", logger.Error(errors.Join(ErrWindowStore, err)))
		}
		if id != "" {
			return id
		}
	}
	if m.windowID != "" {
		return m.windowID
	}
	return m.newWindowID()
}

func (m *Manager) persistWindowIDLocked(id string) {
	if !m.tabsSupported() {
		return
	}
	if err := m.tabs.Set(m.windowKey, id); err != nil {
		m.logger.Warn("failed to persist window id",
			logger.Error(errors.Join(ErrWindowStore, err)), logger.WindowID(id))
	}
}
