package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/certtrack/pkg/lifecycle"
	"github.com/JaimeStill/certtrack/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLocal(t *testing.T) (storage.System, string) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "store")
	sys, err := storage.New(&storage.Config{Provider: storage.ProviderLocal, Root: root}, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := sys.Start(lifecycle.New()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return sys, root
}

func TestNewAzureReturnsSystem(t *testing.T) {
	cfg := &storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "certtrack",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}
}

func TestNewAzureInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "certtrack",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := storage.New(cfg, discard()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := storage.New(&storage.Config{Provider: "ftp"}, discard()); err == nil {
		t.Fatal("expected error for unknown provider, got nil")
	}
}

func TestLocalStartCreatesRoot(t *testing.T) {
	_, root := newLocal(t)

	info, err := os.Stat(root)
	if err != nil {
		t.Fatalf("root not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("root should be a directory")
	}
}

func TestLocalRoundTrip(t *testing.T) {
	sys, root := newLocal(t)
	ctx := context.Background()
	key := "contacts/contact_log.xlsx"

	if err := storage.WriteAll(ctx, sys, key, []byte("first"), "text/plain"); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := storage.WriteAll(ctx, sys, key, []byte("second"), "text/plain"); err != nil {
		t.Fatalf("WriteAll() overwrite error = %v", err)
	}

	data, err := storage.ReadAll(ctx, sys, key)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("ReadAll() = %q, want second", data)
	}

	if _, err := os.Stat(filepath.Join(root, "contacts", "contact_log.xlsx")); err != nil {
		t.Errorf("blob not stored under root: %v", err)
	}

	exists, err := sys.Exists(ctx, key)
	if err != nil || !exists {
		t.Errorf("Exists() = %v, %v; want true, nil", exists, err)
	}

	if err := sys.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	exists, err = sys.Exists(ctx, key)
	if err != nil || exists {
		t.Errorf("Exists() after delete = %v, %v; want false, nil", exists, err)
	}
}

func TestLocalMissingBlob(t *testing.T) {
	sys, _ := newLocal(t)
	ctx := context.Background()

	if _, err := sys.Download(ctx, "missing.csv"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Download() error = %v, want ErrNotFound", err)
	}
	if err := sys.Delete(ctx, "missing.csv"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := storage.ReadAll(ctx, sys, "missing.csv"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("ReadAll() error = %v, want ErrNotFound", err)
	}
}

func TestKeyValidation(t *testing.T) {
	sys, _ := newLocal(t)

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{
			name:    "empty key",
			key:     "",
			wantErr: storage.ErrEmptyKey,
		},
		{
			name:    "path traversal",
			key:     "contacts/../secrets/key",
			wantErr: storage.ErrInvalidKey,
		},
		{
			name:    "absolute path",
			key:     "/etc/passwd",
			wantErr: storage.ErrInvalidKey,
		},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "text/csv")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}

			_, err = sys.Download(ctx, tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Download() error = %v, want %v", err, tt.wantErr)
			}

			err = sys.Delete(ctx, tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Delete() error = %v, want %v", err, tt.wantErr)
			}

			_, err = sys.Exists(ctx, tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Exists() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDottedNamesAllowed(t *testing.T) {
	sys, _ := newLocal(t)
	ctx := context.Background()

	if err := storage.WriteAll(ctx, sys, "certificates/..hidden.csv", []byte("x"), "text/csv"); err != nil {
		t.Errorf("WriteAll() error = %v, want nil", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ErrNotFound maps to 404", storage.ErrNotFound, http.StatusNotFound},
		{"ErrEmptyKey maps to 400", storage.ErrEmptyKey, http.StatusBadRequest},
		{"ErrInvalidKey maps to 400", storage.ErrInvalidKey, http.StatusBadRequest},
		{"wrapped ErrNotFound maps to 404", fmt.Errorf("operation failed: %w", storage.ErrNotFound), http.StatusNotFound},
		{"unknown error maps to 500", fmt.Errorf("unexpected failure"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderLocal {
		t.Errorf("provider: got %s, want local", cfg.Provider)
	}
	if cfg.Root != "data" {
		t.Errorf("root: got %s, want data", cfg.Root)
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "azure")
	t.Setenv("TEST_CONTAINER", "shared")
	t.Setenv("TEST_ACCOUNT_URL", "https://acct.blob.core.windows.net/")

	env := &storage.Env{
		Provider:      "TEST_PROVIDER",
		ContainerName: "TEST_CONTAINER",
		AccountURL:    "TEST_ACCOUNT_URL",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want azure", cfg.Provider)
	}
	if cfg.ContainerName != "shared" {
		t.Errorf("container_name: got %s, want shared", cfg.ContainerName)
	}
}

func TestConfigFinalizeValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"azure without credentials", storage.Config{Provider: storage.ProviderAzure}},
		{"unknown provider", storage.Config{Provider: "s3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := storage.Config{Provider: storage.ProviderLocal, Root: "data"}
	base.Merge(&storage.Config{Root: "/srv/shared"})

	if base.Provider != storage.ProviderLocal {
		t.Errorf("provider: got %s, want local", base.Provider)
	}
	if base.Root != "/srv/shared" {
		t.Errorf("root: got %s, want /srv/shared", base.Root)
	}
}
