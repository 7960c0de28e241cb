package sheets

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
)

var spreadsheetURL = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// Config holds the ledger spreadsheet location and credentials. Credentials
// is either a service account JSON document or a path to one; when empty the
// Google application default credentials are used.
type Config struct {
	Enabled        bool   `toml:"enabled"`
	SpreadsheetURL string `toml:"spreadsheet_url"`
	SpreadsheetID  string `toml:"spreadsheet_id"`
	SheetName      string `toml:"sheet_name"`
	Credentials    string `toml:"credentials"`
	Timeout        string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled        string
	SpreadsheetURL string
	SpreadsheetID  string
	SheetName      string
	Credentials    string
	Timeout        string
}

// TimeoutDuration parses Timeout into a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// ID returns SpreadsheetID, or the ID embedded in SpreadsheetURL.
func (c *Config) ID() string {
	if c.SpreadsheetID != "" {
		return c.SpreadsheetID
	}
	return SpreadsheetIDFromURL(c.SpreadsheetURL)
}

// SpreadsheetIDFromURL extracts the spreadsheet ID from a Google Sheets URL.
// It returns "" when url carries none.
func SpreadsheetIDFromURL(url string) string {
	m := spreadsheetURL.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
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
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.SpreadsheetURL != "" {
		c.SpreadsheetURL = overlay.SpreadsheetURL
	}
	if overlay.SpreadsheetID != "" {
		c.SpreadsheetID = overlay.SpreadsheetID
	}
	if overlay.SheetName != "" {
		c.SheetName = overlay.SheetName
	}
	if overlay.Credentials != "" {
		c.Credentials = overlay.Credentials
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Enabled = b
			}
		}
	}
	if env.SpreadsheetURL != "" {
		if v := os.Getenv(env.SpreadsheetURL); v != "" {
			c.SpreadsheetURL = v
		}
	}
	if env.SpreadsheetID != "" {
		if v := os.Getenv(env.SpreadsheetID); v != "" {
			c.SpreadsheetID = v
		}
	}
	if env.SheetName != "" {
		if v := os.Getenv(env.SheetName); v != "" {
			c.SheetName = v
		}
	}
	if env.Credentials != "" {
		if v := os.Getenv(env.Credentials); v != "" {
			c.Credentials = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if !c.Enabled {
		return nil
	}
	if c.ID() == "" {
		return fmt.Errorf("spreadsheet_id or spreadsheet_url required")
	}
	return nil
}
