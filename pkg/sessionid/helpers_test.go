package sessionid_test

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/analyticskit/pkg/logger"
	"github.com/dmitrymomot/analyticskit/pkg/persistence"
	"github.com/dmitrymomot/analyticskit/pkg/sessionid"
)

const idleTimeout = 30 * time.Minute

var baseTime = time.UnixMilli(1_700_000_000_000)

// fakeClock runs scheduled callbacks synchronously from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NowMillis() int64 {
	return c.Now().UnixMilli()
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) sessionid.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward by d, firing due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of armed timers.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// sequence returns a generator yielding prefix-1, prefix-2, ...
func sequence(prefix string) sessionid.IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type testTab struct {
	manager *sessionid.Manager
	clock   *fakeClock
}

func newTestManager(t *testing.T, store persistence.Store, opts ...sessionid.Option) testTab {
	t.Helper()

	clock := newFakeClock(baseTime)
	base := []sessionid.Option{
		sessionid.WithClock(clock),
		sessionid.WithLogger(logger.Discard()),
		sessionid.WithSessionIDGenerator(sequence("sess")),
		sessionid.WithWindowIDGenerator(sequence("win")),
	}
	m := sessionid.New(store, append(base, opts...)...)
	t.Cleanup(m.Destroy)

	return testTab{manager: m, clock: clock}
}

func seedRecord(t *testing.T, store persistence.Store, tuple ...any) {
	t.Helper()
	require.NoError(t, store.Register(context.Background(), persistence.Properties{
		sessionid.SessionRecordKey: tuple,
	}))
}

func storedRecord(t *testing.T, store persistence.Store) sessionid.Record {
	t.Helper()
	v, err := store.Get(context.Background(), sessionid.SessionRecordKey)
	require.NoError(t, err)
	return sessionid.DecodeRecord(v)
}

func bufferLogger(buf *bytes.Buffer) sessionid.Option {
	return sessionid.WithLogger(logger.New(logger.WithOutput(buf), logger.WithJSONFormatter()))
}

// mockStore is a testify mock of persistence.Store.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) (any, error) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Error(1)
}

func (m *mockStore) Register(ctx context.Context, props persistence.Properties) error {
	return m.Called(ctx, props).Error(0)
}

func (m *mockStore) Unregister(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
