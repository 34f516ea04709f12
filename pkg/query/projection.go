// Package query provides an in-memory filter and sort builder over typed
// records, addressed by logical field names through a projection.
package query

import "strings"

type field[T any] struct {
	value   func(T) string
	compare func(a, b T) int
}

// Projection maps logical field names to accessors on T.
type Projection[T any] struct {
	fields map[string]field[T]
	order  []string
}

// NewProjection creates an empty Projection.
func NewProjection[T any]() *Projection[T] {
	return &Projection[T]{fields: make(map[string]field[T])}
}

// Project registers a field whose filter and sort value is value(item).
func (p *Projection[T]) Project(name string, value func(T) string) *Projection[T] {
	return p.ProjectCompare(name, value, func(a, b T) int {
		return strings.Compare(value(a), value(b))
	})
}

// ProjectCompare registers a field with a custom sort order, for values such as
// numbers or dates whose text form does not sort naturally.
func (p *Projection[T]) ProjectCompare(name string, value func(T) string, compare func(a, b T) int) *Projection[T] {
	if _, ok := p.fields[name]; !ok {
		p.order = append(p.order, name)
	}
	p.fields[name] = field[T]{value: value, compare: compare}
	return p
}

// Has reports whether name is a projected field.
func (p *Projection[T]) Has(name string) bool {
	_, ok := p.fields[name]
	return ok
}

// Fields returns the projected field names in registration order.
func (p *Projection[T]) Fields() []string {
	return append([]string(nil), p.order...)
}

// Value returns the field value of item, or "" for unknown fields.
func (p *Projection[T]) Value(name string, item T) string {
	if f, ok := p.fields[name]; ok {
		return f.value(item)
	}
	return ""
}
