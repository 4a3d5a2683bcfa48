package sessionid_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/analyticskit/pkg/lifecycle"
	"github.com/dmitrymomot/analyticskit/pkg/persistence"
	"github.com/dmitrymomot/analyticskit/pkg/sessionid"
)

// resetDelay mirrors the margin applied to the idle timeout.
const resetDelay = idleTimeout * 11 / 10

func TestIdleTimer_ResetsIdleSession(t *testing.T) {
	store := persistence.NewMemoryStore()
	tab := newTestManager(t, store)

	resets := 0
	tab.manager.OnForcedIdleReset(func() { resets++ })

	first := tab.manager.CheckAndGet(t.Context(), false)
	require.Equal(t, 1, tab.clock.Pending())

	tab.clock.Advance(resetDelay - time.Millisecond)
	assert.Zero(t, resets)
	assert.True(t, storedRecord(t, store).Valid())

	tab.clock.Advance(time.Millisecond)
	assert.Equal(t, 1, resets)
	assert.False(t, storedRecord(t, store).Valid())

	next := tab.manager.CheckAndGet(t.Context(), false)
	assert.NotEqual(t, first.SessionID, next.SessionID)
	require.NotNil(t, next.ChangeReason)
	assert.True(t, next.ChangeReason.NoSessionID)
}

func TestIdleTimer_SkipsWhenAnotherTabWasActive(t *testing.T) {
	store := persistence.NewMemoryStore()
	tab := newTestManager(t, store)

	resets := 0
	tab.manager.OnForcedIdleReset(func() { resets++ })

	res := tab.manager.CheckAndGet(t.Context(), false)

	// activity recorded by another tab after this one armed its timer
	recent := baseTime.Add(20 * time.Minute).UnixMilli()
	seedRecord(t, store, recent, res.SessionID, res.SessionStartTimestamp)

	tab.clock.Advance(resetDelay)

	assert.Zero(t, resets)
	assert.Equal(t, sessionid.Record{
		LastActivityTimestamp: recent,
		SessionID:             res.SessionID,
		SessionStartTimestamp: res.SessionStartTimestamp,
	}, storedRecord(t, store))
}

func TestIdleTimer_SkipsWhenRecordAlreadyCleared(t *testing.T) {
	store := persistence.NewMemoryStore()
	tab := newTestManager(t, store)

	resets := 0
	tab.manager.OnForcedIdleReset(func() { resets++ })

	tab.manager.CheckAndGet(t.Context(), false)
	tab.manager.ResetSessionID(t.Context())

	tab.clock.Advance(resetDelay)
	assert.Zero(t, resets)
}

func TestIdleTimer_EachWriteReschedules(t *testing.T) {
	store := persistence.NewMemoryStore()
	tab := newTestManager(t, store)

	resets := 0
	tab.manager.OnForcedIdleReset(func() { resets++ })

	tab.manager.CheckAndGet(t.Context(), false)
	tab.clock.Advance(10 * time.Minute)
	tab.manager.CheckAndGet(t.Context(), false)
	assert.Equal(t, 1, tab.clock.Pending())

	// the first schedule would have fired here
	tab.clock.Advance(resetDelay - 10*time.Minute)
	assert.Zero(t, resets)

	tab.clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, resets)
}

func TestIdleTimer_ReadOnlyDoesNotArm(t *testing.T) {
	tab := newTestManager(t, persistence.NewMemoryStore())

	tab.manager.CheckAndGet(t.Context(), true)
	tab.manager.CheckAndGet(t.Context(), true)

	assert.Zero(t, tab.clock.Pending())
}

func TestIdleTimer_UsesClampedTimeout(t *testing.T) {
	tab := newTestManager(t, persistence.NewMemoryStore(), sessionid.WithIdleTimeoutSeconds(1))

	resets := 0
	tab.manager.OnForcedIdleReset(func() { resets++ })
	tab.manager.CheckAndGet(t.Context(), false)

	tab.clock.Advance(time.Minute)
	assert.Zero(t, resets)

	tab.clock.Advance(6 * time.Second)
	assert.Equal(t, 1, resets)
}

func TestIdleTimer_ReadFailureKeepsSession(t *testing.T) {
	boom := errors.New("boom")
	store := &mockStore{}
	store.On("Get", mock.Anything, sessionid.SessionRecordKey).Return([]any{baseTime.UnixMilli(), "sess-A", baseTime.UnixMilli()}, nil).Once()
	store.On("Register", mock.Anything, mock.Anything).Return(nil).Once()
	store.On("Get", mock.Anything, sessionid.SessionRecordKey).Return(nil, boom)

	tab := newTestManager(t, store)
	resets := 0
	tab.manager.OnForcedIdleReset(func() { resets++ })

	tab.manager.CheckAndGet(t.Context(), false)
	tab.clock.Advance(resetDelay)

	assert.Zero(t, resets)
	store.AssertNumberOfCalls(t, "Register", 1)
}

func TestIdleTimer_UnsubscribedHandlerNotCalled(t *testing.T) {
	tab := newTestManager(t, persistence.NewMemoryStore())

	resets := 0
	unsubscribe := tab.manager.OnForcedIdleReset(func() { resets++ })
	unsubscribe()

	tab.manager.CheckAndGet(t.Context(), false)
	tab.clock.Advance(resetDelay)

	assert.Zero(t, resets)
}

func TestManager_Destroy(t *testing.T) {
	t.Run("halts the idle timer", func(t *testing.T) {
		store := persistence.NewMemoryStore()
		tab := newTestManager(t, store)

		resets := 0
		tab.manager.OnForcedIdleReset(func() { resets++ })
		tab.manager.CheckAndGet(t.Context(), false)

		tab.manager.Destroy()
		assert.Zero(t, tab.clock.Pending())

		tab.clock.Advance(2 * resetDelay)
		assert.Zero(t, resets)
		assert.True(t, storedRecord(t, store).Valid())
	})

	t.Run("drops session handlers", func(t *testing.T) {
		tab := newTestManager(t, persistence.NewMemoryStore())

		calls := 0
		tab.manager.OnSessionID(func(string, string, *sessionid.ChangeReason) { calls++ })
		tab.manager.Destroy()

		tab.manager.CheckAndGet(t.Context(), false)
		assert.Zero(t, calls)

		tab.manager.OnSessionID(func(string, string, *sessionid.ChangeReason) { calls++ })
		assert.Zero(t, calls)
	})

	t.Run("is idempotent and removes the unload hook", func(t *testing.T) {
		hooks := lifecycle.New()
		tab := newTestManager(t, persistence.NewMemoryStore(),
			sessionid.WithTabStore(persistence.NewMemoryTabStore()),
			sessionid.WithLifecycle(hooks),
		)
		require.Equal(t, 1, hooks.Len())

		tab.manager.Destroy()
		tab.manager.Destroy()

		assert.Zero(t, hooks.Len())
	})

	t.Run("checks after destroy arm nothing", func(t *testing.T) {
		tab := newTestManager(t, persistence.NewMemoryStore())
		tab.manager.Destroy()

		tab.manager.CheckAndGet(t.Context(), false)
		assert.Zero(t, tab.clock.Pending())
	})
}
