// Package certificates loads supplier certification spreadsheets into
// classified records and serves filtered views and exports of them.
package certificates

import (
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/certtrack/internal/expiry"
	"github.com/JaimeStill/certtrack/internal/schema"
)

// Certificate is one canonical certification record. ExpiryDate and
// DaysUntilExpiry are nil together when the source cell was not a date.
type Certificate struct {
	Supplier          string        `json:"supplier"`
	CertificationBody string        `json:"certification_body"`
	CertificateNumber string        `json:"certificate_number"`
	ExpiryDate        *time.Time    `json:"expiry_date"`
	DaysUntilExpiry   *int          `json:"days_until_expiry"`
	Status            expiry.Status `json:"status"`
}

// Table is the result of one load cycle. Records are derived in full on every
// load and carry no identity between loads.
type Table struct {
	Records  []Certificate  `json:"records"`
	Source   string         `json:"source"`
	Mapping  schema.Mapping `json:"mapping"`
	Missing  []string       `json:"missing"`
	LoadedAt time.Time      `json:"loaded_at"`
}

// Suppliers returns the distinct non-empty supplier names, sorted.
func (t *Table) Suppliers() []string {
	if t == nil {
		return []string{}
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, c := range t.Records {
		s := strings.TrimSpace(c.Supplier)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// LoadReport summarizes a load for callers that do not need the records.
type LoadReport struct {
	Source   string         `json:"source"`
	Records  int            `json:"records"`
	Mapping  schema.Mapping `json:"mapping"`
	Missing  []string       `json:"missing"`
	LoadedAt time.Time      `json:"loaded_at"`
	Summary  Summary        `json:"summary"`
}

// Report builds the LoadReport for t.
func (t *Table) Report() LoadReport {
	return LoadReport{
		Source:   t.Source,
		Records:  len(t.Records),
		Mapping:  t.Mapping,
		Missing:  t.Missing,
		LoadedAt: t.LoadedAt,
		Summary:  Summarize(t.Records),
	}
}
