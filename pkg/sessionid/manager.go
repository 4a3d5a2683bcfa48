package sessionid

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/analyticskit/pkg/logger"
	"github.com/dmitrymomot/analyticskit/pkg/persistence"
)

// Manager decides, on every tracked activity, whether the current session
// continues or a new one begins. The session record is shared with every
// other manager using the same store; the window id is private to the tab.
//
// Methods are safe for concurrent use. Handlers run after the internal lock
// is released and may call back into the manager.
type Manager struct {
	mu sync.Mutex

	store     persistence.Store
	tabs      persistence.TabStore
	config    Config
	logger    *slog.Logger
	clock     Clock
	lifecycle Lifecycle

	newSessionID IDGenerator
	newWindowID  IDGenerator

	idleTimeout      time.Duration
	windowKey        string
	primaryWindowKey string

	// sessionID and windowID are the ids most recently handed out.
	sessionID string
	windowID  string

	// lastKnown is used only when the store cannot be read.
	lastKnown Record

	// provisional keeps a rotation decided by a read-only check, which must
	// not be written, so repeated reads of the same stored state agree.
	provisional *provisionalSession

	idleTimer Timer
	idleSeq   uint64

	sessionHandlers observerList[SessionIDHandler]
	resetHandlers   observerList[ForcedIdleResetHandler]
	removeUnload    func()
	destroyed       atomic.Bool
}

type provisionalSession struct {
	basis  Record
	record Record
}

// adoptable reports whether p can stand in for a fresh session at timestamp:
// the stored record is unchanged and p is itself neither past the length
// limit nor, for a write check, idle.
func (p *provisionalSession) adoptable(stored Record, timestamp int64, readOnly bool, idle time.Duration) bool {
	if p == nil || p.basis != stored || timestamp < p.record.SessionStartTimestamp {
		return false
	}
	if timestamp-p.record.SessionStartTimestamp >= SessionLengthLimit.Milliseconds() {
		return false
	}
	return readOnly || timestamp-p.record.LastActivityTimestamp < idle.Milliseconds()
}

// New creates a session id manager over the shared store.
func New(store persistence.Store, opts ...Option) *Manager {
	if store == nil {
		// Fail fast: without shared state there is nothing to manage.
		panic("sessionid: persistence store is required")
	}

	m := &Manager{
		store:        store,
		config:       DefaultConfig(),
		logger:       slog.Default(),
		clock:        systemClock{},
		newSessionID: NewUUIDv7,
		newWindowID:  NewUUIDv7,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With(logger.Component("sessionid"))

	timeout, warning := m.config.IdleTimeout()
	if warning != "" {
		m.logger.Warn(warning,
			slog.Float64("configured_seconds", float64(m.config.SessionIdleTimeoutSeconds)),
			logger.Duration(timeout))
	}
	m.idleTimeout = timeout

	m.windowKey = "ph_" + m.config.Token + "_window_id"
	m.primaryWindowKey = "ph_" + m.config.Token + "_primary_window_exists"

	m.initWindowID()

	if m.config.BootstrapSessionID != "" {
		m.bootstrap(m.config.BootstrapSessionID)
	}

	if m.lifecycle != nil {
		m.removeUnload = m.lifecycle.OnUnload(m.handleUnload)
	}

	return m
}

// NewFromConfig creates a Manager from the provided Config.
func NewFromConfig(store persistence.Store, cfg Config, opts ...Option) *Manager {
	return New(store, append([]Option{WithConfig(cfg)}, opts...)...)
}

// IdleTimeout returns the effective (clamped) idle timeout.
func (m *Manager) IdleTimeout() time.Duration {
	return m.idleTimeout
}

// CheckAndGet is CheckAndGetAt at the current time.
func (m *Manager) CheckAndGet(ctx context.Context, readOnly bool) Result {
	return m.CheckAndGetAt(ctx, readOnly, m.clock.Now().UnixMilli())
}

// CheckAndGetAt returns the session and window ids to attach to an activity
// happening at timestamp (unix ms), rotating the session when it has no id,
// has been idle for the idle timeout, or is older than SessionLengthLimit.
//
// A read-only check writes nothing to the shared store, ignores the idle
// timeout and leaves the idle timer alone.
func (m *Manager) CheckAndGetAt(ctx context.Context, readOnly bool, timestamp int64) Result {
	m.mu.Lock()
	previous := m.sessionID
	res := m.checkLocked(ctx, readOnly, timestamp)

	var handlers []SessionIDHandler
	if res.ChangeReason != nil && res.SessionID != previous {
		handlers = m.sessionHandlers.snapshot()
	}
	m.mu.Unlock()

	if len(handlers) > 0 {
		m.logger.DebugContext(ctx, "session id changed",
			logger.SessionID(res.SessionID),
			logger.WindowID(res.WindowID),
			logger.Reasons(res.ChangeReason.Map()))
	}
	for _, h := range handlers {
		if m.destroyed.Load() {
			break
		}
		h(res.SessionID, res.WindowID, res.ChangeReason)
	}

	return res
}

func (m *Manager) checkLocked(ctx context.Context, readOnly bool, timestamp int64) Result {
	stored, _ := m.readRecordLocked(ctx)
	rec := stored.normalize(timestamp)

	reason := ChangeReason{
		NoSessionID:              !rec.Valid(),
		ActivityTimeout:          !readOnly && timestamp-rec.LastActivityTimestamp >= m.idleTimeout.Milliseconds(),
		SessionPastMaximumLength: timestamp-rec.SessionStartTimestamp >= SessionLengthLimit.Milliseconds(),
	}

	rotated := reason.rotates()
	if rotated {
		if p := m.provisional; p.adoptable(stored, timestamp, readOnly, m.idleTimeout) {
			rec = p.record
		} else {
			rec = Record{
				LastActivityTimestamp: timestamp,
				SessionID:             m.newSessionID(),
				SessionStartTimestamp: timestamp,
			}
		}
	}

	if readOnly && rotated {
		m.provisional = &provisionalSession{basis: stored, record: rec}
	} else if !readOnly {
		m.provisional = nil
	}

	windowID := m.resolveWindowIDLocked()

	lastActivity := rec.LastActivityTimestamp
	if !readOnly {
		lastActivity = max(lastActivity, timestamp)
		m.writeRecordLocked(ctx, Record{
			LastActivityTimestamp: lastActivity,
			SessionID:             rec.SessionID,
			SessionStartTimestamp: rec.SessionStartTimestamp,
		})
		m.persistWindowIDLocked(windowID)
		m.scheduleIdleResetLocked()
	}

	m.sessionID = rec.SessionID
	m.windowID = windowID

	res := Result{
		SessionID:             rec.SessionID,
		WindowID:              windowID,
		SessionStartTimestamp: rec.SessionStartTimestamp,
		LastActivityTimestamp: lastActivity,
	}
	if rotated {
		res.ChangeReason = &reason
	}
	return res
}

// ResetSessionID clears the shared record. The next check starts a new
// session and reports NoSessionID.
func (m *Manager) ResetSessionID(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked(ctx)
}

func (m *Manager) resetLocked(ctx context.Context) {
	m.writeRecordLocked(ctx, Record{})
	m.sessionID = ""
	m.provisional = nil
}

// OnSessionID registers h for session id changes. When a session id is
// already known, h is called immediately with it and a nil reason.
func (m *Manager) OnSessionID(h SessionIDHandler) (unsubscribe func()) {
	if h == nil || m.destroyed.Load() {
		return func() {}
	}

	m.mu.Lock()
	entry := m.sessionHandlers.add(h)
	sessionID, windowID := m.sessionID, m.windowID
	m.mu.Unlock()

	if sessionID != "" {
		h(sessionID, windowID, nil)
	}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.sessionHandlers.remove(entry)
	}
}

// OnForcedIdleReset registers h for sessions ended by the idle timer.
func (m *Manager) OnForcedIdleReset(h ForcedIdleResetHandler) (unsubscribe func()) {
	if h == nil || m.destroyed.Load() {
		return func() {}
	}

	m.mu.Lock()
	entry := m.resetHandlers.add(h)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.resetHandlers.remove(entry)
	}
}

// Destroy stops the idle timer, removes the unload hook and drops every
// handler. It is idempotent; no idle callback acts after it returns.
func (m *Manager) Destroy() {
	m.mu.Lock()
	if m.destroyed.Swap(true) {
		m.mu.Unlock()
		return
	}

	m.stopIdleTimerLocked()
	m.sessionHandlers.clear()
	m.resetHandlers.clear()
	remove := m.removeUnload
	m.removeUnload = nil
	m.mu.Unlock()

	if remove != nil {
		remove()
	}
}

func (m *Manager) readRecordLocked(ctx context.Context) (Record, error) {
	raw, err := m.store.Get(ctx, SessionRecordKey)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to read session record, using last known state", logger.Error(err))
		return m.lastKnown, errors.Join(ErrRecordRead, err)
	}

	rec := DecodeRecord(raw)
	m.lastKnown = rec
	return rec, nil
}

func (m *Manager) writeRecordLocked(ctx context.Context, rec Record) {
	m.lastKnown = rec
	if err := m.store.Register(ctx, persistence.Properties{SessionRecordKey: rec.Encode()}); err != nil {
		m.logger.WarnContext(ctx, "failed to persist session record",
			logger.Error(errors.Join(ErrRecordWrite, err)),
			logger.SessionID(rec.SessionID))
	}
}

// bootstrap writes a caller-supplied session id. The start is taken from the
// id when it is a UUIDv7, otherwise from the current time.
func (m *Manager) bootstrap(id string) {
	now := m.clock.Now().UnixMilli()
	start := now
	if ms, err := uuidv7Millis(id); err == nil && ms > 0 {
		start = ms
	} else {
		m.logger.Debug("bootstrap session id carries no start time, using now",
			logger.SessionID(id), logger.Error(err))
	}

	ctx, cancel := m.storeContext()
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeRecordLocked(ctx, Record{
		LastActivityTimestamp: now,
		SessionID:             id,
		SessionStartTimestamp: start,
	})
	m.sessionID = id
}

// storeContext bounds store calls that have no caller context.
func (m *Manager) storeContext() (context.Context, context.CancelFunc) {
	if m.config.StoreTimeout > 0 {
		return context.WithTimeout(context.Background(), m.config.StoreTimeout)
	}
	return context.WithCancel(context.Background())
}
