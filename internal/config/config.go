package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/saksham0021/mira-astrology-review/internal/ledger"
	"github.com/saksham0021/mira-astrology-review/pkg/database"
	"github.com/saksham0021/mira-astrology-review/pkg/sheets"
	"github.com/saksham0021/mira-astrology-review/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvMiraEnv             = "MIRA_ENV"
	EnvMiraShutdownTimeout = "MIRA_SHUTDOWN_TIMEOUT"
	EnvMiraVersion         = "MIRA_VERSION"
	EnvMiraLogLevel        = "MIRA_LOG_LEVEL"
	EnvMiraLogFormat       = "MIRA_LOG_FORMAT"
)

var databaseEnv = &database.Env{
	Driver:          "MIRA_DB_DRIVER",
	Path:            "MIRA_DB_PATH",
	AutoMigrate:     "MIRA_DB_AUTO_MIGRATE",
	Host:            "MIRA_DB_HOST",
	Port:            "MIRA_DB_PORT",
	Name:            "MIRA_DB_NAME",
	User:            "MIRA_DB_USER",
	Password:        "MIRA_DB_PASSWORD",
	SSLMode:         "MIRA_DB_SSL_MODE",
	MaxOpenConns:    "MIRA_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "MIRA_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "MIRA_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "MIRA_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Enabled:          "MIRA_STORAGE_ENABLED",
	ContainerName:    "MIRA_STORAGE_CONTAINER_NAME",
	ConnectionString: "MIRA_STORAGE_CONNECTION_STRING",
	ServiceURL:       "MIRA_STORAGE_SERVICE_URL",
	MaxListSize:      "MIRA_STORAGE_MAX_LIST_SIZE",
}

var sheetsEnv = &sheets.Env{
	Enabled:        "MIRA_SHEETS_ENABLED",
	SpreadsheetURL: "MIRA_SHEETS_SPREADSHEET_URL",
	SpreadsheetID:  "MIRA_SHEETS_SPREADSHEET_ID",
	SheetName:      "MIRA_SHEETS_SHEET_NAME",
	Credentials:    "MIRA_SHEETS_CREDENTIALS",
	Timeout:        "MIRA_SHEETS_TIMEOUT",
}

var ledgerEnv = &ledger.Env{
	CacheDuration: "MIRA_LEDGER_CACHE_DURATION",
}

// Config is the root configuration shared by the server and the CLIs.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Sheets          sheets.Config   `toml:"sheets"`
	Ledger          ledger.Config   `toml:"ledger"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
	LogLevel        string          `toml:"log_level"`
	LogFormat       string          `toml:"log_format"`
}

// Env names the deployment overlay, "local" when MIRA_ENV is unset.
func (c *Config) Env() string {
	return cmp.Or(os.Getenv(EnvMiraEnv), "local")
}

func (c *Config) ShutdownTimeoutDuration() time.Duration { return duration(c.ShutdownTimeout) }

// Load resolves configuration from the working directory: .env entries fill
// unset variables, then config.toml, then config.<MIRA_ENV>.toml over it,
// then defaults and MIRA_* overrides. Missing files are skipped.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}
	for _, path := range []string{BaseConfigFile, fmt.Sprintf(OverlayConfigPattern, cfg.Env())} {
		layer, err := load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cfg.Merge(layer)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	mergeString(&c.LogLevel, overlay.LogLevel)
	mergeString(&c.LogFormat, overlay.LogFormat)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Sheets.Merge(&overlay.Sheets)
	c.Ledger.Merge(&overlay.Ledger)
	c.API.Merge(&overlay.API)
}

// Finalize completes the root fields, then every section in turn. Section
// errors are prefixed with the section's TOML table name.
func (c *Config) Finalize() error {
	defaultString(&c.ShutdownTimeout, "30s")
	defaultString(&c.Version, "0.1.0")
	defaultString(&c.LogLevel, "info")
	defaultString(&c.LogFormat, LogFormatText)

	for name, dst := range map[string]*string{
		EnvMiraShutdownTimeout: &c.ShutdownTimeout,
		EnvMiraVersion:         &c.Version,
		EnvMiraLogLevel:        &c.LogLevel,
		EnvMiraLogFormat:       &c.LogFormat,
	} {
		mergeString(dst, os.Getenv(name))
	}

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"sheets", func() error { return c.Sheets.Finalize(sheetsEnv) }},
		{"ledger", func() error { return c.Ledger.Finalize(ledgerEnv) }},
		{"api", c.API.Finalize},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}
