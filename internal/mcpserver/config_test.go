package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearMCPEnv clears all RUNCONFIG_MCP_* env vars to isolate tests from the ambient environment.
func clearMCPEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RUNCONFIG_MCP_CACHE_ENABLED", "RUNCONFIG_MCP_CACHE_MAX_SIZE",
		"RUNCONFIG_MCP_CACHE_FILE_TTL", "RUNCONFIG_MCP_CACHE_CONTENT_TTL",
		"RUNCONFIG_MCP_CACHE_SWEEP_INTERVAL", "RUNCONFIG_MCP_MAX_INLINE_SIZE",
		"RUNCONFIG_MCP_MAX_SPECS", "RUNCONFIG_MCP_MAX_LIMIT", "RUNCONFIG_MCP_LIMIT",
		"RUNCONFIG_MCP_TIMEOUT", "RUNCONFIG_MCP_CONCURRENCY",
		"RUNCONFIG_MCP_VALIDATE", "RUNCONFIG_MCP_BLOCK_PRIVATE_IPS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearMCPEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 20, c.MaxSpecs)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, 100, c.DefaultLimit)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.Equal(t, 1, c.Concurrency)
	assert.False(t, c.Validate)
	assert.False(t, c.BlockPrivateIPs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearMCPEnv(t)
	t.Setenv("RUNCONFIG_MCP_CACHE_ENABLED", "false")
	t.Setenv("RUNCONFIG_MCP_CACHE_MAX_SIZE", "50")
	t.Setenv("RUNCONFIG_MCP_CACHE_FILE_TTL", "30m")
	t.Setenv("RUNCONFIG_MCP_MAX_SPECS", "5")
	t.Setenv("RUNCONFIG_MCP_TIMEOUT", "3s")
	t.Setenv("RUNCONFIG_MCP_CONCURRENCY", "4")
	t.Setenv("RUNCONFIG_MCP_VALIDATE", "true")
	t.Setenv("RUNCONFIG_MCP_BLOCK_PRIVATE_IPS", "1")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 5, c.MaxSpecs)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Equal(t, 4, c.Concurrency)
	assert.True(t, c.Validate)
	assert.True(t, c.BlockPrivateIPs)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearMCPEnv(t)
	t.Setenv("RUNCONFIG_MCP_CACHE_ENABLED", "nope")
	t.Setenv("RUNCONFIG_MCP_CACHE_MAX_SIZE", "-1")
	t.Setenv("RUNCONFIG_MCP_TIMEOUT", "later")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 30*time.Second, c.Timeout)
}
