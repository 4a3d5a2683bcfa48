package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/analyticskit/pkg/config"
)

type defaultsConfig struct {
	Name    string        `env:"CFGTEST_DEFAULT_NAME" envDefault:"analytics"`
	Seconds float64       `env:"CFGTEST_DEFAULT_SECONDS" envDefault:"1800"`
	Timeout time.Duration `env:"CFGTEST_DEFAULT_TIMEOUT" envDefault:"2s"`
}

type envConfig struct {
	Name    string  `env:"CFGTEST_NAME"`
	Seconds float64 `env:"CFGTEST_SECONDS"`
}

type cachedConfig struct {
	Value string `env:"CFGTEST_CACHED"`
}

type prefixedConfig struct {
	Value string `env:"VALUE" envDefault:"none"`
}

type requiredConfig struct {
	Value string `env:"CFGTEST_REQUIRED,required"`
}

type fileConfig struct {
	FromFile string `env:"CFGTEST_FROM_FILE"`
	Override string `env:"CFGTEST_OVERRIDE"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "analytics", cfg.Name)
	assert.InDelta(t, 1800, cfg.Seconds, 0)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CFGTEST_NAME", "custom")
	t.Setenv("CFGTEST_SECONDS", "90.5")

	var cfg envConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "custom", cfg.Name)
	assert.InDelta(t, 90.5, cfg.Seconds, 0)
}

func TestLoad_CachesPerType(t *testing.T) {
	t.Setenv("CFGTEST_CACHED", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFGTEST_CACHED", "second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.ResetCache()
	var third cachedConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("TAB1_VALUE", "one")
	t.Setenv("TAB2_VALUE", "two")

	var tab1, tab2, plain prefixedConfig
	require.NoError(t, config.LoadWithPrefix("TAB1_", &tab1))
	require.NoError(t, config.LoadWithPrefix("TAB2_", &tab2))
	require.NoError(t, config.Load(&plain))

	assert.Equal(t, "one", tab1.Value)
	assert.Equal(t, "two", tab2.Value)
	assert.Equal(t, "none", plain.Value)
}

func TestLoad_Errors(t *testing.T) {
	err := config.Load[requiredConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)

	var cfg requiredConfig
	err = config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	assert.Panics(t, func() {
		var again requiredConfig
		config.MustLoad(&again)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CFGTEST_OVERRIDE", "process-value")

	require.NoError(t, config.LoadEnv("testdata/.env.test"))
	t.Cleanup(func() {
		_ = os.Unsetenv("CFGTEST_FROM_FILE")
	})

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-file", cfg.FromFile)
	assert.Equal(t, "process-value", cfg.Override)

	err := config.LoadEnv("testdata/missing.env")
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}
