package contacts

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/JaimeStill/certtrack/pkg/sheet"
	"github.com/JaimeStill/certtrack/pkg/storage"
)

// Contact log columns, in file order.
const (
	ColumnDate     = "Date"
	ColumnSupplier = "Supplier"
	ColumnAction   = "Action"
	ColumnNotes    = "Notes"
)

// Columns lists the contact log columns in file order.
var Columns = []string{ColumnDate, ColumnSupplier, ColumnAction, ColumnNotes}

// Log is an append-only sequence of entries in insertion order. It is owned
// by one caller and not safe for concurrent use.
type Log struct {
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{entries: []Entry{}}
}

// LoadLog builds a log from a parsed sheet. A nil table yields an empty log.
// Missing columns and cells read as "", and missing or unreadable dates as nil.
func LoadLog(t *sheet.Table) *Log {
	l := NewLog()
	if t == nil {
		return l
	}

	cols := resolveColumns(t.Headers)
	for i := range t.Rows {
		cell := func(name string) string {
			if h, ok := cols[name]; ok {
				return strings.TrimSpace(t.Get(i, h))
			}
			return ""
		}

		e := Entry{
			Supplier: cell(ColumnSupplier),
			Action:   Action(cell(ColumnAction)),
			Notes:    cell(ColumnNotes),
		}
		if d, ok := sheet.ParseDate(cell(ColumnDate)); ok {
			e.Date = &d
		}
		l.entries = append(l.entries, e)
	}
	return l
}

// ReadLog parses data as a contact log spreadsheet. The format comes from
// filename's extension, falling back to the content.
func ReadLog(data []byte, filename string) (*Log, error) {
	t, err := sheet.Read(data, sheet.ReadOptions{Format: sheet.DetectFormat(filename, data)})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return LoadLog(t), nil
}

// Open loads the log stored at key. A missing object yields an empty log.
func Open(ctx context.Context, store storage.System, key string) (*Log, error) {
	data, err := storage.ReadAll(ctx, store, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NewLog(), nil
		}
		return nil, fmt.Errorf("open contact log %s: %w", key, err)
	}
	return ReadLog(data, key)
}

// Append adds e to the end of the log. Nothing is written to storage.
func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in insertion order.
func (l *Log) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Export returns the entries for supplier, or all entries when supplier is
// nil, newest first. Undated entries come last and equal dates keep
// insertion order.
func (l *Log) Export(supplier *string) []Entry {
	return Filters{Supplier: supplier}.Filter(l.entries)
}

// Persist writes every entry, in insertion order, to key in dst. The format
// follows key's extension, defaulting to xlsx. Failures wrap ErrPersist and
// leave the log unchanged; there is no retry.
func (l *Log) Persist(ctx context.Context, dst storage.System, key string) error {
	format := FormatFor(key)

	data, err := Serialize(l.entries, format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := storage.WriteAll(ctx, dst, key, data, format.ContentType()); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// FormatFor picks the serialization for a storage key by its extension.
func FormatFor(key string) sheet.Format {
	if f, ok := sheet.ParseFormat(path.Ext(key)); ok {
		return f
	}
	return sheet.XLSX
}

// ToSheet renders entries in the contact log layout.
func ToSheet(entries []Entry) *sheet.Table {
	t := &sheet.Table{
		Headers: slices.Clone(Columns),
		Rows:    make([]sheet.Row, 0, len(entries)),
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, sheet.Row{
			ColumnDate:     sheet.FormatDate(e.Date),
			ColumnSupplier: e.Supplier,
			ColumnAction:   string(e.Action),
			ColumnNotes:    e.Notes,
		})
	}
	return t
}

// Serialize renders entries in format.
func Serialize(entries []Entry, format sheet.Format) ([]byte, error) {
	return sheet.Write(ToSheet(entries), format)
}

// ExportName names a contact log export after the supplier selection:
// "<supplier>_contact_log.<ext>", or "all_contact_log.<ext>" when supplier
// is nil.
func ExportName(supplier *string, format sheet.Format) string {
	prefix := ""
	if supplier != nil {
		prefix = *supplier
	}
	return sheet.Filename(prefix, "contact_log", format)
}

func resolveColumns(headers []string) map[string]string {
	cols := make(map[string]string, len(Columns))
	for _, h := range headers {
		for _, c := range Columns {
			if _, ok := cols[c]; !ok && strings.EqualFold(strings.TrimSpace(h), c) {
				cols[c] = h
			}
		}
	}
	return cols
}
