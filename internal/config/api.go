package config

import (
	"fmt"
	"os"

	"github.com/saksham0021/mira-astrology-review/pkg/formatting"
	"github.com/saksham0021/mira-astrology-review/pkg/middleware"
	"github.com/saksham0021/mira-astrology-review/pkg/openapi"
	"github.com/saksham0021/mira-astrology-review/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "MIRA_CORS_ENABLED",
	Origins:          "MIRA_CORS_ORIGINS",
	AllowedMethods:   "MIRA_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "MIRA_CORS_ALLOWED_HEADERS",
	AllowCredentials: "MIRA_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "MIRA_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "MIRA_OPENAPI_TITLE",
	Description: "MIRA_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "MIRA_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "MIRA_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, and pagination settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxBodySize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxBodySize); err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("MIRA_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("MIRA_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}
