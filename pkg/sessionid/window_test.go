package sessionid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/analyticskit/pkg/lifecycle"
	"github.com/dmitrymomot/analyticskit/pkg/persistence"
	"github.com/dmitrymomot/analyticskit/pkg/sessionid"
)

const (
	windowKey        = "ph_tok_window_id"
	primaryWindowKey = "ph_tok_primary_window_exists"
)

func tokenConfig() sessionid.Option {
	cfg := sessionid.DefaultConfig()
	cfg.Token = "tok"
	return sessionid.WithConfig(cfg)
}

func TestWindowID_PersistedPerTab(t *testing.T) {
	tabs := persistence.NewMemoryTabStore()
	tab := newTestManager(t, persistence.NewMemoryStore(), tokenConfig(), sessionid.WithTabStore(tabs))

	primary, err := tabs.Get(primaryWindowKey)
	require.NoError(t, err)
	assert.Equal(t, "true", primary)

	res := tab.manager.CheckAndGet(t.Context(), false)
	assert.Equal(t, "win-1", res.WindowID)

	stored, err := tabs.Get(windowKey)
	require.NoError(t, err)
	assert.Equal(t, "win-1", stored)
}

func TestWindowID_ReadOnlyKeepsItInMemory(t *testing.T) {
	tabs := persistence.NewMemoryTabStore()
	tab := newTestManager(t, persistence.NewMemoryStore(), tokenConfig(), sessionid.WithTabStore(tabs))

	first := tab.manager.CheckAndGet(t.Context(), true)
	second := tab.manager.CheckAndGet(t.Context(), true)
	assert.Equal(t, first.WindowID, second.WindowID)

	stored, err := tabs.Get(windowKey)
	require.NoError(t, err)
	assert.Empty(t, stored)

	written := tab.manager.CheckAndGet(t.Context(), false)
	assert.Equal(t, first.WindowID, written.WindowID)

	stored, err = tabs.Get(windowKey)
	require.NoError(t, err)
	assert.Equal(t, first.WindowID, stored)
}

func TestWindowID_ReloadKeepsWindow(t *testing.T) {
	store := persistence.NewMemoryStore()
	tabs := persistence.NewMemoryTabStore()
	hooks := lifecycle.New()

	before := newTestManager(t, store, tokenConfig(),
		sessionid.WithTabStore(tabs), sessionid.WithLifecycle(hooks))
	first := before.manager.CheckAndGet(t.Context(), false)

	hooks.Unload()
	before.manager.Destroy()

	primary, err := tabs.Get(primaryWindowKey)
	require.NoError(t, err)
	assert.Empty(t, primary)

	after := newTestManager(t, store, tokenConfig(),
		sessionid.WithTabStore(tabs),
		sessionid.WithWindowIDGenerator(sequence("reloaded")))
	res := after.manager.CheckAndGet(t.Context(), false)

	assert.Equal(t, first.WindowID, res.WindowID)
	assert.Equal(t, first.SessionID, res.SessionID)
}

func TestWindowID_DuplicatedTabCycles(t *testing.T) {
	store := persistence.NewMemoryStore()
	tabs := persistence.NewMemoryTabStore()

	original := newTestManager(t, store, tokenConfig(), sessionid.WithTabStore(tabs))
	first := original.manager.CheckAndGet(t.Context(), false)

	// the copy still carries the primary flag of the live tab
	duplicate := newTestManager(t, store, tokenConfig(),
		sessionid.WithTabStore(tabs.Clone()),
		sessionid.WithWindowIDGenerator(sequence("dup")))
	res := duplicate.manager.CheckAndGet(t.Context(), false)

	assert.Equal(t, "dup-1", res.WindowID)
	assert.Equal(t, first.SessionID, res.SessionID, "session is shared across tabs")

	again := original.manager.CheckAndGet(t.Context(), false)
	assert.Equal(t, first.WindowID, again.WindowID)
}

func TestWindowID_UnsupportedTabStore(t *testing.T) {
	tab := newTestManager(t, persistence.NewMemoryStore(), tokenConfig(),
		sessionid.WithTabStore(persistence.NewUnsupportedTabStore()))

	first := tab.manager.CheckAndGet(t.Context(), false)
	tab.manager.ResetSessionID(t.Context())
	second := tab.manager.CheckAndGet(t.Context(), false)

	assert.Equal(t, "win-1", first.WindowID)
	assert.Equal(t, first.WindowID, second.WindowID)
	assert.NotEqual(t, first.SessionID, second.SessionID)
}
