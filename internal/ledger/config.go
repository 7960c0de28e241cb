package ledger

import (
	"fmt"
	"os"
	"time"
)

// Config holds ledger sync settings.
type Config struct {
	// CacheDuration bounds how long full-sheet reads are served from memory.
	CacheDuration string `toml:"cache_duration"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	CacheDuration string
}

// CacheTTL parses CacheDuration into a time.Duration.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.CacheDuration)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.CacheDuration != "" {
		c.CacheDuration = overlay.CacheDuration
	}
}

func (c *Config) loadDefaults() {
	if c.CacheDuration == "" {
		c.CacheDuration = "5m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.CacheDuration != "" {
		if v := os.Getenv(env.CacheDuration); v != "" {
			c.CacheDuration = v
		}
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.CacheDuration)
	if err != nil {
		return fmt.Errorf("invalid cache_duration: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("cache_duration must not be negative")
	}
	return nil
}
