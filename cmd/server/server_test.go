package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/certtrack/internal/config"
	"github.com/JaimeStill/certtrack/pkg/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.EnvCerttrackEnv, "")

	cfg := &config.Config{
		LogLevel: "error",
		Storage: storage.Config{
			Provider: storage.ProviderLocal,
			Root:     filepath.Join(t.TempDir(), "blobs"),
		},
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return cfg
}

func TestNewServerRoutes(t *testing.T) {
	srv, err := NewServer(testConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	handler := srv.http.http.Handler

	tests := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusServiceUnavailable},
		{"/api/certificates", http.StatusOK},
		{"/api/contacts/", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestServerBootstrapMarksReady(t *testing.T) {
	srv, err := NewServer(testConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	if err := srv.infra.Start(); err != nil {
		t.Fatalf("infra start: %v", err)
	}
	if err := srv.infra.Lifecycle.WaitForStartup(); err != nil {
		t.Fatalf("startup: %v", err)
	}
	if err := srv.modules.Domain.Bootstrap(srv.infra.Lifecycle.Context()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.http.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("readyz: got %d", rec.Code)
	}
}
