package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"juicebox/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.OpTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 8, cfg.AssemblyConcurrency)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLITE")
	t.Setenv("DATABASE_DSN", "file:juicebox.db")
	t.Setenv("DB_OP_TIMEOUT", "250ms")
	t.Setenv("APP_ENV", "production")

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:juicebox.db", cfg.Database.DSN)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.OpTimeout)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "juicebox.yaml")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT: \":9090\"\nASSEMBLY_CONCURRENCY: 0\n"), 0o600))

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, 1, cfg.AssemblyConcurrency)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := config.Load(viper.New(), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DATABASE_DRIVER")
}
