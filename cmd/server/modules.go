package main

import (
	"github.com/JaimeStill/certtrack/internal/api"
	"github.com/JaimeStill/certtrack/internal/config"
	"github.com/JaimeStill/certtrack/internal/infrastructure"
	"github.com/JaimeStill/certtrack/pkg/lifecycle"
	"github.com/JaimeStill/certtrack/pkg/module"
)

// Modules holds the mounted HTTP modules and the domain they serve.
type Modules struct {
	API    *module.Module
	Domain *api.Domain
}

// NewModules builds the API module from infrastructure and configuration.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime, nil)

	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:    apiModule,
		Domain: domain,
	}, nil
}

// Mount registers every module with router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(checker lifecycle.ReadinessChecker) *module.Router {
	router := module.NewRouter()
	router.HandleHealth(checker)
	return router
}
