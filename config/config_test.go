package config

import (
	"testing"
	"time"

	"github.com/prasetyowira/starter/domain/apperror"
	"github.com/prasetyowira/starter/domain/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Arrange
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "starter.db")
	t.Setenv("LOG_LEVEL", "INFO")
	t.Setenv("ASYNC_TIMEOUT", "60s")
	t.Setenv("POOL_CORE_SIZE", "10")
	t.Setenv("POOL_MAX_SIZE", "50")
	t.Setenv("EXPOSE_DEBUG_MSG", "false")

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "starter.db", cfg.DatabaseURL)
	assert.Equal(t, 60*time.Second, cfg.AsyncTimeout)
	assert.Equal(t, 10, cfg.Pool.CoreSize)
	assert.Equal(t, 50, cfg.Pool.MaxSize)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.ExposeDebugMsg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ASYNC_TIMEOUT", "5")
	t.Setenv("POOL_KEEP_ALIVE", "2m")
	t.Setenv("POOL_NAME_PREFIX", "worker-")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("EXPOSE_DEBUG_MSG", "true")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.AsyncTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Pool.KeepAlive)
	assert.Equal(t, "worker-", cfg.Pool.NamePrefix)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.ExposeDebugMsg)
}

func TestLoadConfig_UnparsableValues(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("ASYNC_TIMEOUT", "soon")

	cfg, err := LoadConfig()

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, apperror.HasStatus(err, status.ConfigValidate))
	assert.Contains(t, err.Error(), "PORT")
	assert.Equal(t, 8080, cfg.Port)
}

func TestConfig_Validate(t *testing.T) {
	// Arrange
	t.Setenv("POOL_CORE_SIZE", "20")
	t.Setenv("POOL_MAX_SIZE", "5")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	// Act
	err = cfg.Validate()

	// Assert
	require.Error(t, err)
	de, ok := apperror.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, 100012, de.Status().Code())
	assert.Equal(t, "invalid configuration parameter: POOL_MAX_SIZE", de.Message())
}
