package certificates_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/certtrack/internal/certificates"
	"github.com/JaimeStill/certtrack/pkg/lifecycle"
	"github.com/JaimeStill/certtrack/pkg/pagination"
	"github.com/JaimeStill/certtrack/pkg/sheet"
	"github.com/JaimeStill/certtrack/pkg/storage"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

const exampleCSV = `Supplier Name,Cert Body,Cert #,Exp. Date,Unnamed: 4
Acme Farms,GlobalGAP,GG-1,2024-05-04,
Beta Growers,BRC,B-2,2024-06-11,
Gamma Orchards,SQF,S-3,2025-01-01,
Delta Ranch,,D-4,not a date,
`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLoader() *certificates.Loader {
	return certificates.NewLoader(certificates.DefaultLoaderConfig(), nil, clock)
}

func newStore(t *testing.T) storage.System {
	t.Helper()

	store, err := storage.New(&storage.Config{
		Provider: storage.ProviderLocal,
		Root:     filepath.Join(t.TempDir(), "store"),
	}, discard())
	require.NoError(t, err)
	require.NoError(t, store.Start(lifecycle.New()))
	return store
}

func newSystem(t *testing.T) (certificates.System, storage.System) {
	t.Helper()

	store := newStore(t)
	sys := certificates.New(
		newLoader(),
		store,
		discard(),
		pagination.Config{DefaultPageSize: 2, MaxPageSize: 10},
		sheet.XLSX,
	)
	return sys, store
}

func ptr[T any](v T) *T { return &v }

func bySupplier(records []certificates.Certificate) map[string]certificates.Certificate {
	out := make(map[string]certificates.Certificate, len(records))
	for _, r := range records {
		out[r.Supplier] = r
	}
	return out
}

func suppliers(records []certificates.Certificate) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Supplier
	}
	return out
}
