package contacts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/certtrack/internal/schema"
	"github.com/JaimeStill/certtrack/pkg/sheet"
	"github.com/JaimeStill/certtrack/pkg/storage"
)

type repo struct {
	store  storage.System
	key    string
	format sheet.Format
	clock  func() time.Time
	logger *slog.Logger

	mu  sync.RWMutex
	log *Log
}

// New creates the contact log System. key is the shared log location used by
// Open and by Persist without an explicit key; format is the default export
// format. A nil clock uses time.Now.
func New(
	store storage.System,
	key string,
	format sheet.Format,
	clock func() time.Time,
	logger *slog.Logger,
) System {
	if clock == nil {
		clock = time.Now
	}
	return &repo{
		store:  store,
		key:    key,
		format: format,
		clock:  clock,
		logger: logger.With("system", "contacts"),
		log:    NewLog(),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize, r.format)
}

func (r *repo) Open(ctx context.Context) (int, error) {
	l, err := Open(ctx, r.store, r.key)
	if err != nil {
		return 0, err
	}

	r.replace(l)
	r.logger.Info("contact log opened", "key", r.key, "entries", l.Len())
	return l.Len(), nil
}

func (r *repo) Load(ctx context.Context, data []byte, filename string) (int, error) {
	l, err := ReadLog(data, filename)
	if err != nil {
		return 0, err
	}

	r.replace(l)
	r.logger.Info("contact log loaded", "source", filename, "entries", l.Len())
	return l.Len(), nil
}

func (r *repo) List(ctx context.Context, filters Filters) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filters.Filter(r.log.entries)
}

func (r *repo) Append(ctx context.Context, cmd AppendCommand) (*Entry, error) {
	e, err := r.entry(cmd)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.log.Append(*e)
	r.mu.Unlock()

	return e, nil
}

func (r *repo) Persist(ctx context.Context, key string) (*PersistResult, error) {
	if key == "" {
		key = r.key
	}

	r.mu.RLock()
	snapshot := &Log{entries: r.log.Entries()}
	r.mu.RUnlock()

	if err := snapshot.Persist(ctx, r.store, key); err != nil {
		r.logger.Error("contact log persist failed", "key", key, "error", err)
		return nil, err
	}

	r.logger.Info("contact log persisted", "key", key, "entries", snapshot.Len())
	return &PersistResult{Key: key, Entries: snapshot.Len()}, nil
}

func (r *repo) Export(ctx context.Context, filters Filters, format sheet.Format) (*Export, error) {
	entries := r.List(ctx, filters)

	data, err := Serialize(entries, format)
	if err != nil {
		return nil, fmt.Errorf("serialize contact log: %w", err)
	}

	return &Export{
		Name:        ExportName(filters.Supplier, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func (r *repo) replace(l *Log) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = l
}

// entry validates cmd. The supplier must name one supplier; the date
// defaults to today. The action is kept as written, blank included.
func (r *repo) entry(cmd AppendCommand) (*Entry, error) {
	supplier := schema.SelectSupplier(cmd.Supplier)
	if supplier == nil {
		return nil, ErrSupplierRequired
	}

	var date time.Time
	if raw := strings.TrimSpace(cmd.Date); raw != "" {
		d, ok := sheet.ParseDate(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unreadable date %q", ErrInvalidEntry, cmd.Date)
		}
		date = d
	} else {
		y, m, d := r.clock().Date()
		date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	return &Entry{
		Date:     &date,
		Supplier: *supplier,
		Action:   ParseAction(cmd.Action),
		Notes:    strings.TrimSpace(cmd.Notes),
	}, nil
}
