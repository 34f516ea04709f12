package certificates

import (
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/certtrack/internal/expiry"
	"github.com/JaimeStill/certtrack/internal/schema"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

// LoaderConfig holds the tunables of a load. HeaderFallbackRow is the
// zero-based row tried as the header when row 0 yields nothing usable;
// zero disables the retry.
type LoaderConfig struct {
	WarningDays       int
	MatchThreshold    float64
	HeaderFallbackRow int
}

// DefaultLoaderConfig returns the 60 day window, 0.5 match threshold and a
// header retry three rows down.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		WarningDays:       expiry.DefaultWarningDays,
		MatchThreshold:    schema.DefaultThreshold,
		HeaderFallbackRow: 2,
	}
}

// Loader turns raw sheets into classified certificate tables.
type Loader struct {
	cfg    LoaderConfig
	schema schema.Schema
	clock  func() time.Time
	policy expiry.Policy
}

// NewLoader creates a Loader. A nil schema uses schema.Canonical and a nil
// clock uses time.Now.
func NewLoader(cfg LoaderConfig, s schema.Schema, clock func() time.Time) *Loader {
	if s == nil {
		s = schema.Canonical()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Loader{
		cfg:    cfg,
		schema: s,
		clock:  clock,
		policy: expiry.Policy{WarningDays: cfg.WarningDays},
	}
}

// Load reconciles t's headers with the schema and classifies every row
// against a single reading of the clock. Every canonical field is present on
// every record; fields without a matching column are blank. Bad cells degrade
// the record (blank text, Unknown status) and never fail the load. t is not
// modified.
func (l *Loader) Load(t *sheet.Table, source string) (*Table, error) {
	if t == nil || len(t.Headers) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, sheet.ErrNoHeader)
	}

	now := l.clock()
	mapping := schema.Reconcile(t.Headers, l.schema, l.cfg.MatchThreshold)
	columns := l.columns(t.Headers, mapping)

	records := make([]Certificate, 0, len(t.Rows))
	for i := range t.Rows {
		cell := func(field string) string {
			col, ok := columns[field]
			if !ok {
				return ""
			}
			return strings.TrimSpace(t.Get(i, col))
		}

		res := l.policy.Evaluate(cell(schema.ExpiryDate), now)
		records = append(records, Certificate{
			Supplier:          cell(schema.Supplier),
			CertificationBody: cell(schema.CertificationBody),
			CertificateNumber: cell(schema.CertificateNumber),
			ExpiryDate:        res.Date,
			DaysUntilExpiry:   res.DaysUntil,
			Status:            res.Status,
		})
	}

	return &Table{
		Records:  records,
		Source:   source,
		Mapping:  mapping,
		Missing:  mapping.Missing(l.schema),
		LoadedAt: now,
	}, nil
}

// LoadBytes reads data as a spreadsheet and loads it. The format comes from
// filename's extension, falling back to the content. When the first read
// fails or matches no canonical field, the header is retried at
// HeaderFallbackRow. Input that cannot be read at all fails with
// ErrUnreadable; no partial table is returned.
func (l *Loader) LoadBytes(data []byte, filename string) (*Table, error) {
	format := sheet.DetectFormat(filename, data)

	first, err := l.read(data, format, 0, filename)
	if err == nil && len(first.Mapping) > 0 {
		return first, nil
	}

	if l.cfg.HeaderFallbackRow > 0 {
		retry, rerr := l.read(data, format, l.cfg.HeaderFallbackRow, filename)
		if rerr == nil && (len(retry.Mapping) > 0 || first == nil) {
			return retry, nil
		}
	}

	if first != nil {
		return first, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
}

func (l *Loader) read(data []byte, format sheet.Format, headerRow int, source string) (*Table, error) {
	t, err := sheet.Read(data, sheet.ReadOptions{Format: format, HeaderRow: headerRow})
	if err != nil {
		return nil, err
	}
	return l.Load(t, source)
}

// columns resolves each mapped canonical field to the column key used in
// the sheet's rows. Mapping keys are trimmed; row keys are not.
func (l *Loader) columns(headers []string, mapping schema.Mapping) map[string]string {
	raw := make(map[string]string, len(headers))
	for _, h := range headers {
		trimmed := strings.TrimSpace(h)
		if _, ok := raw[trimmed]; !ok {
			raw[trimmed] = h
		}
	}

	columns := make(map[string]string, len(mapping))
	for header, field := range mapping {
		columns[field] = raw[header]
	}
	return columns
}
