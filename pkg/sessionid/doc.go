// Package sessionid manages session and window identity for an analytics
// client.
//
// A session is a bounded period of activity: it ends after an idle gap of
// the configured idle timeout, or SessionLengthLimit after it started,
// whichever comes first. Its state is one record shared by every SDK
// instance ("tab") that uses the same persistence.Store:
//
//	$sesid = [lastActivityTimestamp, sessionId, sessionStartTimestamp]
//
// The store has last-writer-wins semantics and no locks, so the Manager
// never trusts a cached copy: every check reads the record, decides, and
// writes it back. The window id, by contrast, is private to one tab and
// lives in a persistence.TabStore.
//
// # Architecture
//
//	 activity ──► CheckAndGet ──► read $sesid ──► rotate? ──► write $sesid
//	                   │                                        │
//	                   ▼                                        ▼
//	             window id (TabStore)                 re-arm idle timer
//	                                                            │
//	                           idle timeout × 1.1 ◄─────────────┘
//	                                   │
//	                                   ▼
//	                    re-read $sesid, still idle? ──► reset + notify
//
// A session rotates when the record has no id (NoSessionID), when the gap
// since the last activity reaches the idle timeout (ActivityTimeout, write
// checks only) or when the session reached SessionLengthLimit
// (SessionPastMaximumLength). Result.ChangeReason reports each condition.
//
// # Usage
//
//	store := persistence.NewMemoryStore()
//	m := sessionid.New(store,
//	    sessionid.WithTabStore(persistence.NewMemoryTabStore()),
//	    sessionid.WithIdleTimeoutSeconds(1800),
//	)
//	defer m.Destroy()
//
//	unsubscribe := m.OnSessionID(func(sessionID, windowID string, reason *sessionid.ChangeReason) {
//	    // new session started
//	})
//	defer unsubscribe()
//
//	res := m.CheckAndGet(ctx, false)
//	event.Properties["$session_id"] = res.SessionID
//	event.Properties["$window_id"] = res.WindowID
//
// Read-only checks (CheckAndGet(ctx, true)) return the current ids without
// counting as activity: nothing is written and the idle timer is untouched.
//
// # Duplicated tabs
//
// Browsers copy tab storage when a tab is duplicated. The manager keeps a
// "primary window exists" flag next to the window id; finding the flag set
// at construction means the storage was copied, and the window id is
// regenerated. An unload hook (see WithLifecycle) clears the flag so a plain
// reload keeps its window id.
//
// # Error Handling
//
// Store failures never reach callers. A failed read falls back to the last
// record this manager saw; a failed write is logged and the check proceeds
// with in-memory values. Invalid idle timeouts are clamped with a single
// warning.
package sessionid
