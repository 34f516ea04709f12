package schema

import "strings"

// AllSuppliers is the selector value meaning "no particular supplier".
const AllSuppliers = "(All growers)"

// SelectSupplier interprets a supplier selector. Blank input, "all", and
// AllSuppliers select every supplier and return nil; anything else is
// returned trimmed.
func SelectSupplier(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" || v == AllSuppliers || strings.EqualFold(v, "all") {
		return nil
	}
	return &v
}
