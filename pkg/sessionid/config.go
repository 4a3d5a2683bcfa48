package sessionid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultSessionIdleTimeoutSeconds is the idle gap after which a session ends.
	DefaultSessionIdleTimeoutSeconds = 30 * 60

	// MinSessionIdleTimeoutSeconds is the lower bound of the configurable idle timeout.
	MinSessionIdleTimeoutSeconds = 60

	// MaxSessionIdleTimeoutSeconds is the upper bound of the configurable idle timeout.
	MaxSessionIdleTimeoutSeconds = 10 * 60 * 60

	// SessionLengthLimit is the absolute maximum duration of one session.
	SessionLengthLimit = 24 * time.Hour

	// SessionRecordKey is the shared property holding the session record tuple.
	SessionRecordKey = "$sesid"

	// idleResetMarginPercent delays the forced idle reset past the nominal timeout.
	idleResetMarginPercent = 10
)

// Config holds session identity configuration
type Config struct {
	// Token namespaces the tab-scoped storage keys (project API token).
	Token string `env:"ANALYTICS_TOKEN"`

	// SessionIdleTimeoutSeconds is clamped to [60, 36000]; values that are
	// not numbers fall back to the default.
	SessionIdleTimeoutSeconds IdleTimeoutSeconds `env:"SESSION_IDLE_TIMEOUT_SECONDS" envDefault:"1800"`

	// BootstrapSessionID seeds the shared record at construction.
	BootstrapSessionID string `env:"BOOTSTRAP_SESSION_ID"`

	// StoreTimeout bounds store calls made from the idle timer and hooks,
	// which have no caller context. Zero disables the bound.
	StoreTimeout time.Duration `env:"SESSION_STORE_TIMEOUT" envDefault:"2s"`
}

// IdleTimeoutSeconds is a number of seconds parsed leniently from text:
// anything that is not a finite number becomes NaN, which IdleTimeout
// replaces with the default. A bad value is never a load error.
type IdleTimeoutSeconds float64

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (s *IdleTimeoutSeconds) UnmarshalText(text []byte) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(text)), 64)
	if err != nil {
		v = math.NaN()
	}
	*s = IdleTimeoutSeconds(v)
	return nil
}

// DefaultConfig returns default session identity configuration
func DefaultConfig() Config {
	return Config{
		SessionIdleTimeoutSeconds: DefaultSessionIdleTimeoutSeconds,
		StoreTimeout:              2 * time.Second,
	}
}

// ClampIdleTimeoutSeconds bounds seconds to the supported idle timeout range.
// The returned message is empty when no correction was needed.
func ClampIdleTimeoutSeconds(seconds float64) (float64, string) {
	switch {
	case math.IsNaN(seconds) || math.IsInf(seconds, 0):
		return DefaultSessionIdleTimeoutSeconds, fmt.Sprintf(
			"session_idle_timeout_seconds must be a number, using default %d", DefaultSessionIdleTimeoutSeconds)
	case seconds < MinSessionIdleTimeoutSeconds:
		return MinSessionIdleTimeoutSeconds, fmt.Sprintf(
			"session_idle_timeout_seconds is below the minimum of %d, using %d", MinSessionIdleTimeoutSeconds, MinSessionIdleTimeoutSeconds)
	case seconds > MaxSessionIdleTimeoutSeconds:
		return MaxSessionIdleTimeoutSeconds, fmt.Sprintf(
			"session_idle_timeout_seconds is above the maximum of %d, using %d", MaxSessionIdleTimeoutSeconds, MaxSessionIdleTimeoutSeconds)
	default:
		return seconds, ""
	}
}

// IdleTimeout returns the clamped idle timeout and the correction warning, if any.
func (c Config) IdleTimeout() (time.Duration, string) {
	seconds, warning := ClampIdleTimeoutSeconds(float64(c.SessionIdleTimeoutSeconds))
	return time.Duration(seconds * float64(time.Second)), warning
}
