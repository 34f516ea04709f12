package certificates

import (
	"cmp"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/certtrack/internal/expiry"
	"github.com/JaimeStill/certtrack/internal/schema"
	"github.com/JaimeStill/certtrack/pkg/query"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

var severity = map[expiry.Status]int{
	expiry.Expired:      0,
	expiry.ExpiringSoon: 1,
	expiry.Valid:        2,
	expiry.Unknown:      3,
}

var projection = query.
	NewProjection[Certificate]().
	Project("supplier", func(c Certificate) string { return c.Supplier }).
	Project("certification_body", func(c Certificate) string { return c.CertificationBody }).
	Project("certificate_number", func(c Certificate) string { return c.CertificateNumber }).
	ProjectCompare(
		"expiry_date",
		func(c Certificate) string { return sheet.FormatDate(c.ExpiryDate) },
		func(a, b Certificate) int { return compareDates(a.ExpiryDate, b.ExpiryDate) },
	).
	ProjectCompare(
		"days_until_expiry",
		func(c Certificate) string { return formatDays(c.DaysUntilExpiry) },
		func(a, b Certificate) int { return compareDays(a.DaysUntilExpiry, b.DaysUntilExpiry) },
	).
	ProjectCompare(
		"status",
		func(c Certificate) string { return string(c.Status) },
		func(a, b Certificate) int { return cmp.Compare(severity[a.Status], severity[b.Status]) },
	)

var defaultSort = query.SortField{Field: "days_until_expiry"}

// Filters contains optional filtering criteria for certificate views.
// Nil and empty fields are ignored; the rest are AND-combined. Supplier is an
// exact match, Search a case-insensitive substring of the supplier name, and
// Status matches any of the listed statuses.
type Filters struct {
	Supplier *string         `json:"supplier,omitempty"`
	Search   *string         `json:"search,omitempty"`
	Status   []expiry.Status `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder[Certificate]) *query.Builder[Certificate] {
	statuses := make([]string, len(f.Status))
	for i, s := range f.Status {
		statuses[i] = string(s)
	}

	return b.
		WhereEquals("supplier", f.Supplier).
		WhereContains("supplier", f.Search).
		WhereIn("status", statuses)
}

// Filter returns the matching records ordered by days until expiry, soonest
// first, with undated records last. records is not modified.
func (f Filters) Filter(records []Certificate) []Certificate {
	return f.View(records, nil)
}

// View returns the matching records in the given order, or the default order
// when sort is empty.
func (f Filters) View(records []Certificate, sort []query.SortField) []Certificate {
	b := query.NewBuilder(projection, defaultSort)
	return f.Apply(b).OrderByFields(sort).Apply(records)
}

// FiltersFromQuery extracts filter values from URL query parameters. An
// unrecognized status fails with ErrInvalidFilter rather than widening the
// view.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	f.Supplier = schema.SelectSupplier(values.Get("supplier"))

	if s := values.Get("search"); s != "" {
		f.Search = &s
	}

	statuses, err := ParseStatuses(values["status"])
	if err != nil {
		return Filters{}, err
	}
	f.Status = statuses

	return f, nil
}

// ParseStatuses parses each raw status in wire or label form. Blank values
// are skipped.
func ParseStatuses(raw []string) ([]expiry.Status, error) {
	var out []expiry.Status
	for _, v := range raw {
		if strings.TrimSpace(v) == "" {
			continue
		}
		s, err := expiry.ParseStatus(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// SortFields lists the field names accepted in a sort expression.
func SortFields() []string {
	return projection.Fields()
}

func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

func compareDays(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}

func formatDays(d *int) string {
	if d == nil {
		return ""
	}
	return strconv.Itoa(*d)
}
