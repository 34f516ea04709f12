package certificates

import (
	"context"

	"github.com/JaimeStill/certtrack/pkg/pagination"
	"github.com/JaimeStill/certtrack/pkg/query"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

// System defines the public contract for certificate domain operations.
// It owns the current certificate table of the session.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Upload loads data as the new certificate source and stores it. A source
	// that cannot be read leaves the current table in place.
	Upload(ctx context.Context, data []byte, filename string) (*Table, error)
	// Open loads the source stored at key and makes it current.
	Open(ctx context.Context, key string) (*Table, error)
	// Refresh re-reads the current source and re-derives every record.
	Refresh(ctx context.Context) (*Table, error)

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*View, error)
	Summary(ctx context.Context, filters Filters) Summary
	Suppliers(ctx context.Context) []string
	Export(ctx context.Context, filters Filters, sort []query.SortField, format sheet.Format) (*Export, error)
}

// View is one page of a filtered certificate view with the summary of the
// whole filtered view.
type View struct {
	pagination.PageResult[Certificate]
	Summary Summary `json:"summary"`
	Source  string  `json:"source"`
}
