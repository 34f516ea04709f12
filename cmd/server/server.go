package main

import (
	"fmt"
	"time"

	"github.com/JaimeStill/certtrack/internal/config"
	"github.com/JaimeStill/certtrack/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra.Lifecycle)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(cfg, router, infra.Logger),
	}, nil
}

// Start prepares storage, loads the tracker state, then begins serving.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}

	if err := s.modules.Domain.Bootstrap(s.infra.Lifecycle.Context()); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	s.infra.Logger.Info("all subsystems ready")
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
