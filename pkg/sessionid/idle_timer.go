package sessionid

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/analyticskit/pkg/logger"
)

// idleResetDelay is the idle timeout plus a safety margin, so the forced
// reset always happens strictly after the nominal timeout.
func (m *Manager) idleResetDelay() time.Duration {
	return m.idleTimeout + m.idleTimeout*idleResetMarginPercent/100
}

// scheduleIdleResetLocked replaces any pending idle reset with a new one.
func (m *Manager) scheduleIdleResetLocked() {
	if m.destroyed.Load() {
		return
	}

	m.stopIdleTimerLocked()
	seq := m.idleSeq
	m.idleTimer = m.clock.AfterFunc(m.idleResetDelay(), func() {
		m.enforceIdleTimeout(seq)
	})
}

// stopIdleTimerLocked cancels the pending reset. Bumping the sequence also
// invalidates a callback that already started but has not taken the lock.
func (m *Manager) stopIdleTimerLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
	m.idleSeq++
}

// enforceIdleTimeout re-reads the shared record and resets the session only
// if it is still idle. Another tab may have recorded activity since the timer
// was armed, in which case nothing happens.
func (m *Manager) enforceIdleTimeout(seq uint64) {
	m.mu.Lock()
	if m.destroyed.Load() || seq != m.idleSeq {
		m.mu.Unlock()
		return
	}
	m.idleTimer = nil

	ctx, cancel := m.storeContext()
	defer cancel()

	stored, err := m.readRecordLocked(ctx)
	if err != nil {
		m.mu.Unlock()
		return
	}

	now := m.clock.Now().UnixMilli()
	rec := stored.normalize(now)
	if !rec.Valid() || now-rec.LastActivityTimestamp < m.idleTimeout.Milliseconds() {
		m.mu.Unlock()
		m.logger.Debug("idle timer fired but session is active", logger.SessionID(rec.SessionID))
		return
	}

	m.resetLocked(ctx)
	handlers := m.resetHandlers.snapshot()
	m.mu.Unlock()

	m.logger.Info("session reset after idle timeout",
		logger.SessionID(rec.SessionID),
		slog.Int64("idle_ms", now-rec.LastActivityTimestamp))

	for _, h := range handlers {
		if m.destroyed.Load() {
			return
		}
		h()
	}
}
