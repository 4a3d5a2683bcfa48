// Package sessionprops captures where a session came from.
//
// When the session id manager starts a new session, the Manager records the
// entry URL, referrer and campaign parameters once and keeps them in the
// shared store under $client_session_props, tagged with the session id they
// belong to. Every tab sharing the store sees the same entry properties, and
// Properties returns them with the $session_entry_ prefix so they can be
// attached to each captured event.
//
//	sessions := sessionid.New(store)
//	entry := sessionprops.New(store, sessions, sessionprops.FromURL(pageURL, referrer))
//	defer entry.Close()
//
//	props := entry.Properties(ctx) // {"$session_entry_url": ..., "$session_entry_utm_source": ...}
package sessionprops
