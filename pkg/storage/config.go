package storage

import (
	"fmt"
	"os"
	"strconv"
)

// MaxListCap bounds the page size of a single List call.
const MaxListCap int32 = 5000

// Config holds Azure Blob Storage connection parameters. ConnectionString
// takes precedence; otherwise ServiceURL is used with the default Azure
// credential chain.
type Config struct {
	Enabled          bool   `toml:"enabled"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env names the variables that override each field. Empty names are skipped.
type Env struct {
	Enabled          string
	ContainerName    string
	ConnectionString string
	ServiceURL       string
	MaxListSize      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. An overlay cannot disable
// storage a lower layer enabled.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = c.Enabled || overlay.Enabled
	for dst, v := range map[*string]string{
		&c.ContainerName:    overlay.ContainerName,
		&c.ConnectionString: overlay.ConnectionString,
		&c.ServiceURL:       overlay.ServiceURL,
	} {
		if v != "" {
			*dst = v
		}
	}
	if overlay.MaxListSize != 0 {
		c.MaxListSize = overlay.MaxListSize
	}
}

// ParseMaxResults reads a page size from a query value, falling back when
// empty and clamping to MaxListCap.
func ParseMaxResults(s string, fallback int32) (int32, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid max results %q", s)
	}
	return int32(min(n, int(MaxListCap))), nil
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "exports"
	}
	if c.MaxListSize <= 0 {
		c.MaxListSize = 50
	}
	c.MaxListSize = min(c.MaxListSize, MaxListCap)
}

func (c *Config) loadEnv(env *Env) {
	for name, dst := range map[string]*string{
		env.ContainerName:    &c.ContainerName,
		env.ConnectionString: &c.ConnectionString,
		env.ServiceURL:       &c.ServiceURL,
	} {
		if v := lookup(name); v != "" {
			*dst = v
		}
	}
	if b, err := strconv.ParseBool(lookup(env.Enabled)); err == nil {
		c.Enabled = b
	}
	if n, err := ParseMaxResults(lookup(env.MaxListSize), c.MaxListSize); err == nil {
		c.MaxListSize = n
	}
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func (c *Config) validate() error {
	switch {
	case !c.Enabled:
		return nil
	case c.ContainerName == "":
		return fmt.Errorf("container_name required")
	case c.ConnectionString == "" && c.ServiceURL == "":
		return fmt.Errorf("connection_string or service_url required")
	}
	return nil
}
