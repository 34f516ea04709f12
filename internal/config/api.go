package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/certtrack/pkg/middleware"
	"github.com/JaimeStill/certtrack/pkg/openapi"
	"github.com/JaimeStill/certtrack/pkg/pagination"
	"github.com/dustin/go-humanize"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CERTTRACK_CORS_ENABLED",
	Origins:          "CERTTRACK_CORS_ORIGINS",
	AllowedMethods:   "CERTTRACK_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CERTTRACK_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CERTTRACK_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CERTTRACK_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CERTTRACK_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CERTTRACK_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "CERTTRACK_OPENAPI_TITLE",
	Description: "CERTTRACK_OPENAPI_DESCRIPTION",
}

const (
	EnvAPIBasePath      = "CERTTRACK_API_BASE_PATH"
	EnvAPIMaxUploadSize = "CERTTRACK_API_MAX_UPLOAD_SIZE"
)

// APIConfig holds API routing, upload limits, CORS, pagination, and OpenAPI
// document settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes. Finalize has already
// rejected values that do not parse.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := humanize.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 10 * humanize.MByte
	}
	return int64(size)
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
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
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	size, err := humanize.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size == 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
