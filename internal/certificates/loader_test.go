package certificates_test

import (
	"testing"
	"time"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/certtrack/internal/certificates"
	"github.com/JaimeStill/certtrack/internal/expiry"
	"github.com/JaimeStill/certtrack/internal/schema"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

func TestLoadBytesExportHeaders(t *testing.T) {
	table, err := newLoader().LoadBytes([]byte(exampleCSV), "certs.csv")
	require.NoError(t, err)

	assert.Equal(t, "certs.csv", table.Source)
	assert.Equal(t, now, table.LoadedAt)
	assert.Empty(t, table.Missing)
	assert.Equal(t, schema.Mapping{
		"Supplier Name": schema.Supplier,
		"Cert Body":     schema.CertificationBody,
		"Cert #":        schema.CertificateNumber,
		"Exp. Date":     schema.ExpiryDate,
	}, table.Mapping)

	require.Len(t, table.Records, 4)
	got := bySupplier(table.Records)

	tests := []struct {
		supplier string
		days     *int
		status   expiry.Status
	}{
		{"Acme Farms", ptr(-28), expiry.Expired},
		{"Beta Growers", ptr(10), expiry.ExpiringSoon},
		{"Gamma Orchards", ptr(214), expiry.Valid},
		{"Delta Ranch", nil, expiry.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.supplier, func(t *testing.T) {
			c, ok := got[tt.supplier]
			require.True(t, ok)
			assert.Equal(t, tt.status, c.Status)
			assert.Equal(t, tt.days, c.DaysUntilExpiry)
			assert.Equal(t, tt.days == nil, c.ExpiryDate == nil)
		})
	}

	assert.Equal(t, "GG-1", got["Acme Farms"].CertificateNumber)
	assert.Equal(t, "GlobalGAP", got["Acme Farms"].CertificationBody)
	assert.Equal(t, "", got["Delta Ranch"].CertificationBody)
}

func TestLoadSynthesizesMissingFields(t *testing.T) {
	src := &sheet.Table{
		Headers: []string{"Vendor", "Notes"},
		Rows: []sheet.Row{
			{"Vendor": " Acme ", "Notes": "call back"},
			{"Vendor": "Beta", "Notes": ""},
		},
	}

	table, err := newLoader().Load(src, "partial.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{schema.CertificationBody, schema.CertificateNumber, schema.ExpiryDate}, table.Missing)
	require.Len(t, table.Records, 2)
	for _, c := range table.Records {
		assert.Empty(t, c.CertificationBody)
		assert.Empty(t, c.CertificateNumber)
		assert.Nil(t, c.ExpiryDate)
		assert.Nil(t, c.DaysUntilExpiry)
		assert.Equal(t, expiry.Unknown, c.Status)
	}
	assert.Equal(t, "Acme", table.Records[0].Supplier)
}

func TestLoadHeadersOnly(t *testing.T) {
	table, err := newLoader().LoadBytes([]byte("Supplier,Expiry Date\n"), "empty.csv")
	require.NoError(t, err)

	assert.Empty(t, table.Records)
	assert.Len(t, table.Mapping, 2)
}

func TestLoadDoesNotModifySource(t *testing.T) {
	src := &sheet.Table{
		Headers: []string{" Grower ", "Valid Until"},
		Rows: []sheet.Row{
			{" Grower ": "Acme", "Valid Until": "2024-07-01"},
		},
	}
	before := &sheet.Table{
		Headers: append([]string(nil), src.Headers...),
		Rows:    []sheet.Row{{" Grower ": "Acme", "Valid Until": "2024-07-01"}},
	}

	table, err := newLoader().Load(src, "src")
	require.NoError(t, err)

	assert.Equal(t, "Acme", table.Records[0].Supplier)
	assert.Equal(t, expiry.ExpiringSoon, table.Records[0].Status)
	if diff := gocmp.Diff(before, src); diff != "" {
		t.Errorf("source modified (-before +after):\n%s", diff)
	}
}

func TestLoadUnreadable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		file string
	}{
		{"empty", nil, "certs.csv"},
		{"binary", []byte{0x00, 0x01, 0x02, 0xff}, "certs.csv"},
		{"corrupt workbook", []byte("PK\x03\x04 not really a zip"), "certs.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := newLoader().LoadBytes(tt.data, tt.file)
			assert.ErrorIs(t, err, certificates.ErrUnreadable)
			assert.Nil(t, table)
		})
	}

	_, err := newLoader().Load(nil, "none")
	assert.ErrorIs(t, err, certificates.ErrUnreadable)
}

func TestLoadBytesHeaderFallback(t *testing.T) {
	data := "#,,,\n#,,,\nGrower,Certifier,Certificate No,Valid Until\nAcme,BRC,C-1,2024-07-01\n"

	table, err := newLoader().LoadBytes([]byte(data), "report.csv")
	require.NoError(t, err)

	assert.Len(t, table.Mapping, 4)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Acme", table.Records[0].Supplier)
	assert.Equal(t, "C-1", table.Records[0].CertificateNumber)
}

func TestLoadBytesFallbackDisabled(t *testing.T) {
	data := "#,,,\n#,,,\nGrower,Certifier,Certificate No,Valid Until\nAcme,BRC,C-1,2024-07-01\n"

	cfg := certificates.DefaultLoaderConfig()
	cfg.HeaderFallbackRow = 0

	table, err := certificates.NewLoader(cfg, nil, clock).LoadBytes([]byte(data), "report.csv")
	require.NoError(t, err)

	assert.Empty(t, table.Mapping)
	assert.Len(t, table.Missing, 4)
}

func TestLoadBytesWorkbook(t *testing.T) {
	src := &sheet.Table{
		Headers: []string{"Supplier", "Certification Body", "Certificate", "Expiry"},
		Rows: []sheet.Row{
			{"Supplier": "Acme", "Certification Body": "BRC", "Certificate": "C-1", "Expiry": "2026-01-01"},
		},
	}
	data, err := sheet.Write(src, sheet.XLSX)
	require.NoError(t, err)

	table, err := newLoader().LoadBytes(data, "upload")
	require.NoError(t, err)

	require.Len(t, table.Records, 1)
	c := table.Records[0]
	assert.Equal(t, "C-1", c.CertificateNumber)
	assert.Equal(t, expiry.Valid, c.Status)
	require.NotNil(t, c.ExpiryDate)
	assert.True(t, c.ExpiryDate.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLoadWarningWindow(t *testing.T) {
	cfg := certificates.DefaultLoaderConfig()
	cfg.WarningDays = 5

	table, err := certificates.NewLoader(cfg, nil, clock).LoadBytes([]byte(exampleCSV), "certs.csv")
	require.NoError(t, err)

	assert.Equal(t, expiry.Valid, bySupplier(table.Records)["Beta Growers"].Status)
}

func TestSuppliers(t *testing.T) {
	table := &certificates.Table{Records: []certificates.Certificate{
		{Supplier: "Gamma"}, {Supplier: ""}, {Supplier: "Acme"}, {Supplier: "Gamma"},
	}}
	assert.Equal(t, []string{"Acme", "Gamma"}, table.Suppliers())

	var empty *certificates.Table
	assert.Empty(t, empty.Suppliers())
}
