package sessionid_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/analyticskit/pkg/persistence"
	"github.com/dmitrymomot/analyticskit/pkg/sessionid"
)

func TestCrossTab_SharedSession(t *testing.T) {
	store := persistence.NewMemoryStore()
	a := newTestManager(t, store, sessionid.WithSessionIDGenerator(sequence("a")), sessionid.WithWindowIDGenerator(sequence("wa")))
	b := newTestManager(t, store, sessionid.WithSessionIDGenerator(sequence("b")), sessionid.WithWindowIDGenerator(sequence("wb")))

	now := baseTime.UnixMilli()

	ra := a.manager.CheckAndGetAt(t.Context(), false, now)
	rb := b.manager.CheckAndGetAt(t.Context(), false, now+1000)

	assert.Equal(t, "a-1", ra.SessionID)
	assert.Equal(t, ra.SessionID, rb.SessionID)
	assert.Nil(t, rb.ChangeReason)
	assert.Equal(t, "wa-1", ra.WindowID)
	assert.Equal(t, "wb-1", rb.WindowID)
	assert.Equal(t, now+1000, storedRecord(t, store).LastActivityTimestamp)
}

func TestCrossTab_ActivityInOneTabKeepsOtherAlive(t *testing.T) {
	store := persistence.NewMemoryStore()
	a := newTestManager(t, store, sessionid.WithSessionIDGenerator(sequence("a")))
	b := newTestManager(t, store, sessionid.WithSessionIDGenerator(sequence("b")))

	now := baseTime.UnixMilli()
	step := (20 * time.Minute).Milliseconds()

	first := a.manager.CheckAndGetAt(t.Context(), false, now)
	b.manager.CheckAndGetAt(t.Context(), false, now+step)

	// 40 minutes after tab a last wrote, but only 20 after tab b
	res := a.manager.CheckAndGetAt(t.Context(), false, now+2*step)
	assert.Equal(t, first.SessionID, res.SessionID)
	assert.Nil(t, res.ChangeReason)
}

func TestCrossTab_RotationIsObservedByOtherTab(t *testing.T) {
	store := persistence.NewMemoryStore()
	a := newTestManager(t, store, sessionid.WithSessionIDGenerator(sequence("a")))
	b := newTestManager(t, store, sessionid.WithSessionIDGenerator(sequence("b")))

	var seenByB []string
	b.manager.OnSessionID(func(sessionID, _ string, _ *sessionid.ChangeReason) {
		seenByB = append(seenByB, sessionID)
	})

	now := baseTime.UnixMilli()
	a.manager.CheckAndGetAt(t.Context(), false, now)
	rb := b.manager.CheckAndGetAt(t.Context(), false, now+1)
	require.Equal(t, "a-1", rb.SessionID)

	b.manager.ResetSessionID(t.Context())
	ra := a.manager.CheckAndGetAt(t.Context(), false, now+2)
	require.NotNil(t, ra.ChangeReason)
	assert.True(t, ra.ChangeReason.NoSessionID)
	assert.Equal(t, "a-2", ra.SessionID)

	rb = b.manager.CheckAndGetAt(t.Context(), false, now+3)
	assert.Equal(t, "a-2", rb.SessionID)
	assert.Nil(t, rb.ChangeReason)
	assert.Empty(t, seenByB, "adopting another tab's session is not a rotation")

	// b rotates itself once the shared session ages out
	rb = b.manager.CheckAndGetAt(t.Context(), false, now+3+idleTimeout.Milliseconds())
	require.NotNil(t, rb.ChangeReason)
	assert.Equal(t, []string{"b-1"}, seenByB)
}
