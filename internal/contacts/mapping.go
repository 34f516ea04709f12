package contacts

import (
	"net/url"
	"time"

	"github.com/JaimeStill/certtrack/internal/schema"
	"github.com/JaimeStill/certtrack/pkg/query"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

var projection = query.
	NewProjection[Entry]().
	Project("supplier", func(e Entry) string { return e.Supplier }).
	Project("action", func(e Entry) string { return string(e.Action) }).
	ProjectCompare(
		"date",
		func(e Entry) string { return sheet.FormatDate(e.Date) },
		func(a, b Entry) int { return compareDates(a.Date, b.Date) },
	)

var defaultSort = query.SortField{Field: "date", Descending: true}

// Filters contains optional filtering criteria for contact log views.
type Filters struct {
	Supplier *string `json:"supplier,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder[Entry]) *query.Builder[Entry] {
	return b.WhereEquals("supplier", f.Supplier)
}

// Filter returns the matching entries newest first, undated last, with
// insertion order kept among equal dates. entries is not modified.
func (f Filters) Filter(entries []Entry) []Entry {
	return f.Apply(query.NewBuilder(projection, defaultSort)).Apply(entries)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{Supplier: schema.SelectSupplier(values.Get("supplier"))}
}

// compareDates orders nil before any date, so a descending sort puts
// undated entries last.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
