package api

import (
	"github.com/JaimeStill/certtrack/internal/config"
	"github.com/JaimeStill/certtrack/internal/infrastructure"
	"github.com/JaimeStill/certtrack/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Tracker    config.TrackerConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Tracker:    cfg.Tracker,
	}
}
