package sessionid

// ChangeReason records which conditions rotated a session.
type ChangeReason struct {
	NoSessionID              bool
	ActivityTimeout          bool
	SessionPastMaximumLength bool
}

func (r ChangeReason) rotates() bool {
	return r.NoSessionID || r.ActivityTimeout || r.SessionPastMaximumLength
}

// Map returns the reasons keyed by their snake_case names.
func (r ChangeReason) Map() map[string]bool {
	return map[string]bool{
		"no_session_id":               r.NoSessionID,
		"activity_timeout":            r.ActivityTimeout,
		"session_past_maximum_length": r.SessionPastMaximumLength,
	}
}

// Result is what a check returns to the caller.
type Result struct {
	SessionID             string
	WindowID              string
	SessionStartTimestamp int64
	LastActivityTimestamp int64

	// ChangeReason is non-nil when this check rotated the session.
	ChangeReason *ChangeReason
}
