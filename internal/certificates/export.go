package certificates

import (
	"strconv"

	"github.com/JaimeStill/certtrack/internal/schema"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

// Export column headers.
const (
	ColumnDaysUntilExpiry = "Days Until Expiry"
	ColumnStatus          = "Status"
)

var exportHeaders = []string{
	schema.Supplier,
	schema.CertificationBody,
	schema.CertificateNumber,
	schema.ExpiryDate,
	ColumnDaysUntilExpiry,
	ColumnStatus,
}

// Export is a serialized certificate view ready for download.
type Export struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportName names a certificate export after the supplier selection:
// "<supplier>_certs.<ext>", or "all_certs.<ext>" when supplier is nil.
func ExportName(supplier *string, format sheet.Format) string {
	prefix := ""
	if supplier != nil {
		prefix = *supplier
	}
	return sheet.Filename(prefix, "certs", format)
}

// ToSheet renders records in the canonical export layout, dates as
// YYYY-MM-DD and status by label.
func ToSheet(records []Certificate) *sheet.Table {
	t := &sheet.Table{
		Headers: append([]string(nil), exportHeaders...),
		Rows:    make([]sheet.Row, 0, len(records)),
	}

	for _, c := range records {
		days := ""
		if c.DaysUntilExpiry != nil {
			days = strconv.Itoa(*c.DaysUntilExpiry)
		}
		t.Rows = append(t.Rows, sheet.Row{
			schema.Supplier:          c.Supplier,
			schema.CertificationBody: c.CertificationBody,
			schema.CertificateNumber: c.CertificateNumber,
			schema.ExpiryDate:        sheet.FormatDate(c.ExpiryDate),
			ColumnDaysUntilExpiry:    days,
			ColumnStatus:             c.Status.Label(),
		})
	}

	return t
}

// Serialize renders records in format.
func Serialize(records []Certificate, supplier *string, format sheet.Format) (*Export, error) {
	data, err := sheet.Write(ToSheet(records), format)
	if err != nil {
		return nil, err
	}
	return &Export{
		Name:        ExportName(supplier, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}
