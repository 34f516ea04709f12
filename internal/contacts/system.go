package contacts

import (
	"context"

	"github.com/JaimeStill/certtrack/pkg/sheet"
)

// System defines the public contract for contact log operations. It owns
// the session's log; the shared copy in storage changes only on Persist.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Open replaces the session log with the one stored at the configured key.
	Open(ctx context.Context) (int, error)
	// Load replaces the session log with a parsed upload.
	Load(ctx context.Context, data []byte, filename string) (int, error)

	List(ctx context.Context, filters Filters) []Entry
	Append(ctx context.Context, cmd AppendCommand) (*Entry, error)
	// Persist writes the session log to key, or to the configured key when
	// key is empty.
	Persist(ctx context.Context, key string) (*PersistResult, error)
	Export(ctx context.Context, filters Filters, format sheet.Format) (*Export, error)
}

// Export is a serialized contact log view ready for download.
type Export struct {
	Name        string
	ContentType string
	Data        []byte
}
