package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "TASK_STORE", "JWT_SECRET", "SESSION_TTL", "SESSION_SWEEP_INTERVAL", "BCRYPT_COST", "LOG_SQL", "GIN_MODE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8008", cfg.Addr())
	require.Equal(t, ":memory:", cfg.DatabasePath)
	require.Equal(t, BackendMemory, cfg.TaskStore)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, time.Minute, cfg.SweepInterval)
	require.Equal(t, 12, cfg.BcryptCost)
	require.False(t, cfg.LogSQL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("TASK_STORE", "SQLite")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_SQL", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr())
	require.Equal(t, BackendSQLite, cfg.TaskStore)
	require.Equal(t, 90*time.Minute, cfg.SessionTTL)
	require.Equal(t, 4, cfg.BcryptCost)
	require.True(t, cfg.LogSQL)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"TASK_STORE":             "redis",
		"SESSION_TTL":            "soon",
		"SESSION_SWEEP_INTERVAL": "-1s",
		"BCRYPT_COST":            "99",
		"LOG_SQL":                "maybe",
		"GIN_MODE":               "verbose",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
