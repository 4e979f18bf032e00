package mcpserver

import (
	"time"

	"github.com/erraggy/runconfig/fetch"
	"github.com/erraggy/runconfig/internal/config"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Spec cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Input limits.
	MaxInlineSize int64
	MaxSpecs      int
	MaxLimit      int
	DefaultLimit  int

	// Collection defaults.
	Timeout         time.Duration
	Concurrency     int
	Validate        bool
	BlockPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from RUNCONFIG_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       config.EnvBool("RUNCONFIG_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       config.EnvInt("RUNCONFIG_MCP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       config.EnvDuration("RUNCONFIG_MCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    config.EnvDuration("RUNCONFIG_MCP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: config.EnvDuration("RUNCONFIG_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:      int64(config.EnvInt("RUNCONFIG_MCP_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxSpecs:           config.EnvInt("RUNCONFIG_MCP_MAX_SPECS", 20),
		MaxLimit:           config.EnvInt("RUNCONFIG_MCP_MAX_LIMIT", 1000),
		DefaultLimit:       config.EnvInt("RUNCONFIG_MCP_LIMIT", 100),
		Timeout:            config.EnvDuration("RUNCONFIG_MCP_TIMEOUT", fetch.DefaultTimeout),
		Concurrency:        config.EnvInt("RUNCONFIG_MCP_CONCURRENCY", 1),
		Validate:           config.EnvBool("RUNCONFIG_MCP_VALIDATE", false),
		BlockPrivateIPs:    config.EnvBool("RUNCONFIG_MCP_BLOCK_PRIVATE_IPS", false),
	}
}
