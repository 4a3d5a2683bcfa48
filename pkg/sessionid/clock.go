package sessionid

import (
	"time"

	"github.com/google/uuid"
)

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Clock supplies the current time and schedules callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// IDGenerator returns a new opaque identifier.
type IDGenerator func() string

// NewUUIDv7 returns a time-ordered UUIDv7 string.
func NewUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// uuidv7Millis extracts the embedded unix millisecond timestamp of a UUIDv7.
func uuidv7Millis(id string) (int64, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return 0, err
	}
	if u.Version() != 7 {
		return 0, ErrBootstrapNotUUIDv7
	}
	sec, nsec := u.Time().UnixTime()
	return sec*1000 + nsec/int64(time.Millisecond), nil
}
