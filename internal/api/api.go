// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/certtrack/internal/config"
	"github.com/JaimeStill/certtrack/pkg/middleware"
	"github.com/JaimeStill/certtrack/pkg/module"
)

// NewModule creates the API module serving domain's handlers and the
// generated OpenAPI document under cfg.API.BasePath.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	mux := http.NewServeMux()
	patterns, err := registerRoutes(mux, domain, cfg, runtime)
	if err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	runtime.Logger.Debug("routes registered", "base", cfg.API.BasePath, "patterns", patterns)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
