package query

import (
	"slices"
	"strings"
)

// SortField represents a single sort key.
// Field is the logical field name (mapped via Projection).
// Descending controls sort direction (false = ASC, true = DESC).
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses a comma-separated sort string into a SortField slice.
// Fields prefixed with "-" are descending. Example: "supplier,-expiryDate".
// Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if after, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{Field: after, Descending: true})
		} else {
			fields = append(fields, SortField{Field: part})
		}
	}

	return fields
}

// Builder accumulates AND-combined conditions and an ordering, then applies
// them to a slice with Apply.
type Builder[T any] struct {
	projection        *Projection[T]
	conditions        []func(T) bool
	orderByFields     []SortField
	defaultSortFields []SortField
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder[T any](projection *Projection[T], defaultSort ...SortField) *Builder[T] {
	return &Builder[T]{
		projection:        projection,
		defaultSortFields: defaultSort,
	}
}

// Where adds an arbitrary predicate.
func (b *Builder[T]) Where(pred func(T) bool) *Builder[T] {
	b.conditions = append(b.conditions, pred)
	return b
}

// WhereEquals adds an exact match condition. No-op for nil values.
func (b *Builder[T]) WhereEquals(field string, value *string) *Builder[T] {
	if value == nil {
		return b
	}
	want := *value
	return b.Where(func(item T) bool {
		return b.projection.Value(field, item) == want
	})
}

// WhereContains adds a case-insensitive substring condition. No-op for nil or empty values.
func (b *Builder[T]) WhereContains(field string, value *string) *Builder[T] {
	if value == nil || *value == "" {
		return b
	}
	needle := strings.ToLower(*value)
	return b.Where(func(item T) bool {
		return strings.Contains(strings.ToLower(b.projection.Value(field, item)), needle)
	})
}

// WhereIn adds a condition matching any of values exactly. No-op for empty slices.
func (b *Builder[T]) WhereIn(field string, values []string) *Builder[T] {
	if len(values) == 0 {
		return b
	}
	set := slices.Clone(values)
	return b.Where(func(item T) bool {
		return slices.Contains(set, b.projection.Value(field, item))
	})
}

// OrderByFields sets the sort order, overriding default sort fields.
// Fields the projection does not know are ignored.
func (b *Builder[T]) OrderByFields(fields []SortField) *Builder[T] {
	b.orderByFields = fields
	return b
}

// Apply returns the items satisfying every condition, ordered by the sort
// fields. The sort is stable, so equal items keep their input order. items is
// never modified.
func (b *Builder[T]) Apply(items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if b.matches(item) {
			out = append(out, item)
		}
	}

	if order := b.ordering(); len(order) > 0 {
		slices.SortStableFunc(out, func(x, y T) int {
			for _, sf := range order {
				c := b.projection.fields[sf.Field].compare(x, y)
				if sf.Descending {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}

	return out
}

func (b *Builder[T]) matches(item T) bool {
	for _, cond := range b.conditions {
		if !cond(item) {
			return false
		}
	}
	return true
}

func (b *Builder[T]) ordering() []SortField {
	fields := b.orderByFields
	if len(fields) == 0 {
		fields = b.defaultSortFields
	}

	known := make([]SortField, 0, len(fields))
	for _, f := range fields {
		if b.projection.Has(f.Field) {
			known = append(known, f)
		}
	}
	return known
}
