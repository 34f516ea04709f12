package certificates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/certtrack/internal/certificates"
	"github.com/JaimeStill/certtrack/internal/expiry"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

func TestExportName(t *testing.T) {
	assert.Equal(t, "Acme Farms_certs.xlsx", certificates.ExportName(ptr("Acme Farms"), sheet.XLSX))
	assert.Equal(t, "all_certs.xlsx", certificates.ExportName(nil, sheet.XLSX))
	assert.Equal(t, "all_certs.csv", certificates.ExportName(nil, sheet.CSV))
}

func TestToSheet(t *testing.T) {
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	records := []certificates.Certificate{
		{
			Supplier:          "Acme",
			CertificationBody: "BRC",
			CertificateNumber: "C-1",
			ExpiryDate:        &date,
			DaysUntilExpiry:   ptr(30),
			Status:            expiry.ExpiringSoon,
		},
		{Supplier: "Beta", Status: expiry.Unknown},
	}

	tbl := certificates.ToSheet(records)

	assert.Equal(t, []string{
		"Supplier", "Certification Body", "Certificate Number",
		"Expiry Date", "Days Until Expiry", "Status",
	}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "2024-07-01", tbl.Get(0, "Expiry Date"))
	assert.Equal(t, "30", tbl.Get(0, "Days Until Expiry"))
	assert.Equal(t, "Expiring Soon", tbl.Get(0, "Status"))
	assert.Equal(t, "", tbl.Get(1, "Expiry Date"))
	assert.Equal(t, "Unknown", tbl.Get(1, "Status"))
}

func TestSerializeReloads(t *testing.T) {
	table, err := newLoader().LoadBytes([]byte(exampleCSV), "certs.csv")
	require.NoError(t, err)

	for _, format := range []sheet.Format{sheet.CSV, sheet.XLSX} {
		t.Run(string(format), func(t *testing.T) {
			export, err := certificates.Serialize(table.Records, nil, format)
			require.NoError(t, err)
			assert.Equal(t, "all_certs."+format.Ext(), export.Name)
			assert.Equal(t, format.ContentType(), export.ContentType)

			reloaded, err := newLoader().LoadBytes(export.Data, export.Name)
			require.NoError(t, err)
			assert.Empty(t, reloaded.Missing)
			assert.Equal(t, table.Records, reloaded.Records)
		})
	}
}
