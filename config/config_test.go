package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	ListTestConfig struct {
		Capacity int    `mapstructure:"capacity" default:"16"`
		LogLevel string `mapstructure:"log_level"`
		Stress   StressTestConfig
	}
	StressTestConfig struct {
		Workers    int
		Operations int
	}
	MultipleWordsConfig struct {
		SegmentCapacity int
		CustomerId      int
	}
	ValidatedConfig struct {
		Capacity int
	}
)

func (c *ListTestConfig) ApplyDefault() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *ValidatedConfig) Validate() error {
	if c.Capacity <= 0 {
		return errors.New("capacity must be positive")
	}
	return nil
}

func TestLoad(t *testing.T) {
	t.Run("it should load from env vars", func(t *testing.T) {
		// GIVEN
		t.Setenv("TEST_CAPACITY", "4")
		t.Setenv("TEST_LOG_LEVEL", "debug")
		t.Setenv("TEST_STRESS_WORKERS", "8")
		t.Setenv("TEST_STRESS_OPERATIONS", "1000")

		// WHEN
		conf, err := Load[ListTestConfig](WithEnvPrefix("TEST"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 4, conf.Capacity)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, 8, conf.Stress.Workers)
		assert.Equal(t, 1000, conf.Stress.Operations)
	})

	t.Run("it should use tag defaults and apply default hook", func(t *testing.T) {
		// GIVEN

		// WHEN
		conf, err := Load[ListTestConfig](WithEnvPrefix("TEST"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 16, conf.Capacity)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, 0, conf.Stress.Workers)
	})

	t.Run("it should bind correctly multiple words variables", func(t *testing.T) {
		// GIVEN
		t.Setenv("TEST_SEGMENT_CAPACITY", "12")
		t.Setenv("TEST_CUSTOMER_ID", "66")

		// WHEN
		conf, err := Load[MultipleWordsConfig](WithEnvPrefix("TEST"))

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 12, conf.SegmentCapacity)
		assert.Equal(t, 66, conf.CustomerId)
	})

	t.Run("it should bind without prefix", func(t *testing.T) {
		// GIVEN
		t.Setenv("SEGMENT_CAPACITY", "3")

		// WHEN
		conf, err := Load[MultipleWordsConfig]()

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 3, conf.SegmentCapacity)
	})

	t.Run("it should fail when validation fails", func(t *testing.T) {
		// GIVEN
		t.Setenv("TEST_CAPACITY", "0")

		// WHEN
		conf, err := Load[ValidatedConfig](WithEnvPrefix("TEST"))

		// THEN
		require.Error(t, err)
		assert.Nil(t, conf)
		assert.Contains(t, err.Error(), "capacity must be positive")
	})

	t.Run("it should fail on unparsable values", func(t *testing.T) {
		// GIVEN
		t.Setenv("TEST_CAPACITY", "many")

		// WHEN
		_, err := Load[ValidatedConfig](WithEnvPrefix("TEST"))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to unmarshal config")
	})

	t.Run("it should reject non struct types", func(t *testing.T) {
		// WHEN
		_, err := Load[int]()

		// THEN
		require.Error(t, err)
	})
}

func TestToScreamingSnakeCase(t *testing.T) {
	t.Run("it should convert names", func(t *testing.T) {
		for in, expected := range map[string]string{
			"Capacity":        "CAPACITY",
			"SegmentCapacity": "SEGMENT_CAPACITY",
			"log_level":       "LOG_LEVEL",
			"stress-workers":  "STRESS_WORKERS",
			"CustomerId":      "CUSTOMER_ID",
			"":                "",
		} {
			assert.Equal(t, expected, toScreamingSnakeCase(in), "input %q", in)
		}
	})
}
