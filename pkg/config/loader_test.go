package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogfusion/pkg/config"
)

type testConfig struct {
	Name    string `env:"TEST_APP_NAME" envDefault:"blogfusion"`
	Port    int    `env:"TEST_APP_PORT" envDefault:"8080"`
	Verbose bool   `env:"TEST_APP_VERBOSE" envDefault:"false"`
}

type requiredConfig struct {
	Secret string `env:"TEST_APP_MISSING_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "blogfusion", cfg.Name)
		assert.Equal(t, 8080, cfg.Port)
		assert.False(t, cfg.Verbose)
	})

	t.Run("cached between calls", func(t *testing.T) {
		var first, second testConfig
		require.NoError(t, config.Load(&first))
		t.Setenv("TEST_APP_PORT", "9999")
		require.NoError(t, config.Load(&second))
		// The env change after the first load is not observed.
		assert.Equal(t, first.Port, second.Port)
	})

	t.Run("nil pointer rejected", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}
