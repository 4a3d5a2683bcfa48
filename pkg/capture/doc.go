// Package capture builds analytics events and hands them to a Transport.
//
// Every captured event runs a session check first, so the event carries the
// $session_id and $window_id current at its timestamp, and a check made for
// a regular event keeps the session alive. Read-only captures (ReadOnly)
// are used for passive signals that must not extend the session.
//
// Properties are merged in this order, later sources winning:
//
//  1. super properties (WithSuperProperties)
//  2. device properties (WithUserAgent)
//  3. session entry properties (WithEntryProperties)
//  4. the properties passed to Capture
//  5. $session_id, $window_id and $lib
//
// Batching and delivery are the Transport's concern. MemoryTransport buffers
// events for tests and in-process consumers; LogTransport writes them to slog.
package capture
