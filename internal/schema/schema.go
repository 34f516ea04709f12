// Package schema reconciles arbitrary spreadsheet headers with the fixed set of
// canonical certificate fields. Reconciliation is the one boundary where
// stringly-typed headers turn into known fields.
package schema

// Canonical field names.
const (
	Supplier          = "Supplier"
	CertificationBody = "Certification Body"
	CertificateNumber = "Certificate Number"
	ExpiryDate        = "Expiry Date"
)

// DefaultThreshold is the minimum similarity a header needs to bind to a field.
const DefaultThreshold = 0.5

// Field is a canonical field and the header spellings it accepts.
// Name is always implicitly accepted.
type Field struct {
	Name      string
	Spellings []string
}

// Schema is an ordered list of fields. Order breaks ties between equally
// scored bindings.
type Schema []Field

var canonical = Schema{
	{
		Name:      Supplier,
		Spellings: []string{"Supplier Name", "Grower", "Grower Name", "Vendor"},
	},
	{
		Name:      CertificationBody,
		Spellings: []string{"Cert Body", "Certifier", "Certifying Body"},
	},
	{
		Name:      CertificateNumber,
		Spellings: []string{"Certificate No", "Certificate", "Cert No", "Cert #", "Certificate #"},
	},
	{
		Name:      ExpiryDate,
		Spellings: []string{"Expiration Date", "Expiry", "Exp Date", "Valid Until"},
	},
}

// Canonical returns a copy of the certificate schema.
func Canonical() Schema {
	out := make(Schema, len(canonical))
	for i, f := range canonical {
		out[i] = Field{
			Name:      f.Name,
			Spellings: append([]string(nil), f.Spellings...),
		}
	}
	return out
}

// Names lists the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

func (f Field) candidates() []string {
	return append([]string{f.Name}, f.Spellings...)
}
