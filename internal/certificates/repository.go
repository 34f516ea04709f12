package certificates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/certtrack/pkg/pagination"
	"github.com/JaimeStill/certtrack/pkg/query"
	"github.com/JaimeStill/certtrack/pkg/sheet"
	"github.com/JaimeStill/certtrack/pkg/storage"
)

type repo struct {
	loader     *Loader
	store      storage.System
	logger     *slog.Logger
	pagination pagination.Config
	format     sheet.Format

	mu    sync.RWMutex
	table *Table
	key   string
}

// New creates the certificate System backed by the given loader and storage.
// format is the export format used when a request does not name one.
func New(
	loader *Loader,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	format sheet.Format,
) System {
	return &repo{
		loader:     loader,
		store:      store,
		logger:     logger.With("system", "certificates"),
		pagination: pagination,
		format:     format,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize, r.format)
}

func (r *repo) Upload(ctx context.Context, data []byte, filename string) (*Table, error) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if len(data) == 0 || name == "." || name == ".." || name == "/" {
		return nil, ErrInvalidFile
	}

	t, err := r.loader.LoadBytes(data, name)
	if err != nil {
		return nil, err
	}

	key := storageKey(uuid.New(), name)
	format := sheet.DetectFormat(name, data)
	if err := storage.WriteAll(ctx, r.store, key, data, format.ContentType()); err != nil {
		return nil, fmt.Errorf("store certificate source: %w", err)
	}

	r.set(t, key)
	r.logger.Info(
		"certificate source uploaded",
		"key", key,
		"records", len(t.Records),
		"missing", t.Missing,
	)
	return t, nil
}

func (r *repo) Open(ctx context.Context, key string) (*Table, error) {
	data, err := storage.ReadAll(ctx, r.store, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoSource, key)
		}
		return nil, fmt.Errorf("read certificate source: %w", err)
	}

	t, err := r.loader.LoadBytes(data, storage.Base(key))
	if err != nil {
		return nil, err
	}

	r.set(t, key)
	r.logger.Info("certificate source loaded", "key", key, "records", len(t.Records))
	return t, nil
}

func (r *repo) Refresh(ctx context.Context) (*Table, error) {
	r.mu.RLock()
	key := r.key
	r.mu.RUnlock()

	if key == "" {
		return nil, ErrNoSource
	}
	return r.Open(ctx, key)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*View, error) {
	records, source := r.snapshot()
	filtered := filters.View(records, page.Sort)

	return &View{
		PageResult: pagination.Paginate(filtered, page),
		Summary:    Summarize(filtered),
		Source:     source,
	}, nil
}

func (r *repo) Summary(ctx context.Context, filters Filters) Summary {
	records, _ := r.snapshot()
	return Summarize(filters.Filter(records))
}

func (r *repo) Suppliers(ctx context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table.Suppliers()
}

func (r *repo) Export(ctx context.Context, filters Filters, sort []query.SortField, format sheet.Format) (*Export, error) {
	records, _ := r.snapshot()
	export, err := Serialize(filters.View(records, sort), filters.Supplier, format)
	if err != nil {
		return nil, fmt.Errorf("serialize certificates: %w", err)
	}
	return export, nil
}

func (r *repo) set(t *Table, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = t
	r.key = key
}

// snapshot returns the current records and source name. Records are never
// modified after a load, so the slice is safe to read without the lock.
func (r *repo) snapshot() ([]Certificate, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.table == nil {
		return nil, ""
	}
	return r.table.Records, r.table.Source
}

func storageKey(id uuid.UUID, filename string) string {
	return path.Join("certificates", id.String(), filename)
}
