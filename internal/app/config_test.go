package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "DEFAULT_PAGE_SIZE", "MAX_PAGE_SIZE", "KAFKA_BROKERS", "PROMOTION_WINDOW_DAYS"} {
		unsetenv(t, key)
	}
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	require.False(t, cfg.KafkaEnabled())

	defaults := cfg.CatalogDefaults()
	require.Equal(t, 15, defaults.PromotionWindowDays)
	require.Equal(t, 30, defaults.LaunchWindowDays)
	require.Equal(t, 20, defaults.DefaultPageSize)
	require.Equal(t, 100, defaults.MaxPageSize)
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	unsetenv(t, "KAFKA_TOPIC")
	unsetenv(t, "KAFKA_BROKERS")
	t.Setenv("STORE_DRIVER", "Memory")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KAFKA_TOPIC=catalog.test\nKAFKA_BROKERS=k1:9092,k2:9092\nSTORE_DRIVER=postgres\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, StoreDriverMemory, cfg.StoreDriver, "process environment wins over the env file")
	require.True(t, cfg.KafkaEnabled())
	kc := cfg.KafkaConfig()
	require.Equal(t, "catalog.test", kc.Topic)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, kc.Brokers)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"driver":    {"STORE_DRIVER": "sqlite"},
		"page size": {"STORE_DRIVER": "memory", "DEFAULT_PAGE_SIZE": "200", "MAX_PAGE_SIZE": "100"},
		"launch":    {"STORE_DRIVER": "memory", "LAUNCH_WINDOW_DAYS": "400"},
		"promotion": {"STORE_DRIVER": "memory", "PROMOTION_WINDOW_DAYS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
		})
	}
}

func TestTestModeFlag(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	require.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	require.False(t, InTestMode())
}
