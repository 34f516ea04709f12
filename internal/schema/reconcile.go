package schema

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const placeholderPrefix = "unnamed"

// Mapping binds raw headers to canonical field names.
type Mapping map[string]string

// Source returns the raw header bound to field, if any.
func (m Mapping) Source(field string) (string, bool) {
	for raw, name := range m {
		if name == field {
			return raw, true
		}
	}
	return "", false
}

// Missing lists the fields of s that no header was bound to, in schema order.
func (m Mapping) Missing(s Schema) []string {
	var out []string
	for _, f := range s {
		if _, ok := m.Source(f.Name); !ok {
			out = append(out, f.Name)
		}
	}
	return out
}

// Normalize trims headers and drops blanks and auto-generated "Unnamed"
// placeholders. Order is preserved.
func Normalize(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" || strings.HasPrefix(strings.ToLower(h), placeholderPrefix) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Reconcile maps normalized headers onto the fields of s. Every (field,
// header) pair reaching threshold is scored by its best Similarity to any of
// the field's spellings, and pairs bind highest score first. Equal scores go
// to the earlier field, then the leftmost header. A header binds to at most
// one field and a field to at most one header. Fields without an acceptable
// header are left out of the mapping.
func Reconcile(headers []string, s Schema, threshold float64) Mapping {
	headers = Normalize(headers)

	type candidate struct {
		field, header int
		score         float64
	}

	var pairs []candidate
	for fi, f := range s {
		for hi, h := range headers {
			if score := f.score(h); score >= threshold && score > 0 {
				pairs = append(pairs, candidate{field: fi, header: hi, score: score})
			}
		}
	}

	slices.SortStableFunc(pairs, func(a, b candidate) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.field, b.field); c != 0 {
			return c
		}
		return cmp.Compare(a.header, b.header)
	})

	m := make(Mapping, len(s))
	fieldBound := make([]bool, len(s))
	headerBound := make([]bool, len(headers))
	for _, p := range pairs {
		if fieldBound[p.field] || headerBound[p.header] {
			continue
		}
		fieldBound[p.field] = true
		headerBound[p.header] = true
		m[headers[p.header]] = s[p.field].Name
	}

	return m
}

func (f Field) score(header string) float64 {
	best := 0.0
	for _, c := range f.candidates() {
		if r := Similarity(header, c); r > best {
			best = r
		}
	}
	return best
}

// Similarity is the case-insensitive difflib ratio of a and b: twice the number
// of matched characters over the combined length, in [0, 1].
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}
