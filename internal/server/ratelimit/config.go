package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// EndpointConfig sets a per-endpoint request budget. Path matches by prefix,
// Method matches exactly. PerMinute <= 0 means the endpoint is unlimited.
type EndpointConfig struct {
	Path      string
	Method    string
	PerMinute int
	Burst     int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled          bool
	DefaultPerMinute int
	DefaultBurst     int
	CleanupInterval  time.Duration
	Endpoints        []EndpointConfig
}

// LoadConfig reads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:          true,
		DefaultPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		DefaultBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		CleanupInterval:  getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Endpoints:        DefaultEndpoints(),
	}
}

// DefaultEndpoints returns the per-endpoint budgets. Search runs are
// expensive (LLM calls, page fetches), so they get the strictest limits.
func DefaultEndpoints() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/search/stream", Method: "POST", PerMinute: 6, Burst: 2},
		{Path: "/search", Method: "POST", PerMinute: 6, Burst: 2},
		{Path: "/health", Method: "GET", PerMinute: 0},
	}
}

// match finds the endpoint config for a request, if any. Longest prefix wins
// because /search/stream must shadow /search.
func (c *Config) match(path, method string) (EndpointConfig, bool) {
	best := EndpointConfig{}
	found := false
	for _, ep := range c.Endpoints {
		if ep.Method != method || len(ep.Path) > len(path) || path[:len(ep.Path)] != ep.Path {
			continue
		}
		if !found || len(ep.Path) > len(best.Path) {
			best = ep
			found = true
		}
	}
	return best, found
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
