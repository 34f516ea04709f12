package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/certtrack/internal/certificates"
	"github.com/JaimeStill/certtrack/internal/schema"
	"github.com/JaimeStill/certtrack/pkg/query"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

type certOptions struct {
	supplier    string
	search      string
	status      []string
	sort        string
	warningDays int
	threshold   float64
}

func (o *certOptions) register(cmd *cobra.Command) {
	defaults := certificates.DefaultLoaderConfig()

	cmd.Flags().StringVar(&o.supplier, "supplier", "", "Show a single supplier (\"all\" or empty for every supplier)")
	cmd.Flags().StringVar(&o.search, "search", "", "Case-insensitive substring of the supplier name")
	cmd.Flags().StringSliceVar(&o.status, "status", nil, "Statuses to include: valid, expiring_soon, expired, unknown")
	cmd.Flags().StringVar(&o.sort, "sort", "", "Sort fields, comma separated, \"-\" prefix for descending: "+strings.Join(certificates.SortFields(), ", "))
	cmd.Flags().IntVar(&o.warningDays, "warning-days", defaults.WarningDays, "Days before expiry a certificate counts as expiring soon")
	cmd.Flags().Float64Var(&o.threshold, "threshold", defaults.MatchThreshold, "Minimum header similarity for column matching")
}

func (o *certOptions) filters() (certificates.Filters, error) {
	f := certificates.Filters{Supplier: schema.SelectSupplier(o.supplier)}
	if o.search != "" {
		f.Search = &o.search
	}
	statuses, err := certificates.ParseStatuses(o.status)
	if err != nil {
		return f, err
	}
	f.Status = statuses
	return f, nil
}

func (o *certOptions) validate() error {
	if o.warningDays < 0 {
		return fmt.Errorf("--warning-days must be non-negative, got %d", o.warningDays)
	}
	if o.threshold <= 0 || o.threshold > 1 {
		return fmt.Errorf("--threshold must be in (0, 1], got %g", o.threshold)
	}
	return nil
}

func (a *app) loadCertificates(path string, o *certOptions) (*certificates.Table, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := certificates.DefaultLoaderConfig()
	cfg.WarningDays = o.warningDays
	cfg.MatchThreshold = o.threshold

	t, err := certificates.NewLoader(cfg, nil, a.clock).LoadBytes(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	if len(t.Missing) > 0 {
		a.logger.Warn("columns not found in source", "missing", t.Missing, "source", t.Source)
	}
	a.logger.Debug("certificate source loaded", "source", t.Source, "records", len(t.Records), "mapping", t.Mapping)
	return t, nil
}

type certsResult struct {
	Source  string                     `json:"source"`
	Missing []string                   `json:"missing"`
	Summary certificates.Summary       `json:"summary"`
	Records []certificates.Certificate `json:"records"`
}

func (a *app) certsCmd() *cobra.Command {
	opts := &certOptions{}

	cmd := &cobra.Command{
		Use:   "certs <file>",
		Short: "Classify and list the certificates in a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := opts.filters()
			if err != nil {
				return err
			}

			t, err := a.loadCertificates(args[0], opts)
			if err != nil {
				return err
			}

			records := filters.View(t.Records, query.ParseSortFields(opts.sort))
			result := certsResult{
				Source:  t.Source,
				Missing: t.Missing,
				Summary: certificates.Summarize(records),
				Records: records,
			}

			if a.output != "table" {
				return printOutput(cmd.OutOrStdout(), a.output, result)
			}

			rows := make([][]string, len(records))
			for i, c := range records {
				days := ""
				if c.DaysUntilExpiry != nil {
					days = strconv.Itoa(*c.DaysUntilExpiry)
				}
				rows[i] = []string{
					c.Supplier,
					c.CertificationBody,
					c.CertificateNumber,
					sheet.FormatDate(c.ExpiryDate),
					days,
					c.Status.Label(),
				}
			}

			out := cmd.OutOrStdout()
			printTable(out, []string{"Supplier", "Body", "Number", "Expiry", "Days", "Status"}, rows)
			fmt.Fprintln(out)
			fmt.Fprintln(out, summaryLine(result.Summary))
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

func summaryLine(s certificates.Summary) string {
	return fmt.Sprintf(
		"%d certificates: %d valid (%.1f%%), %d expiring soon, %d expired, %d unknown",
		s.Total, s.Valid, s.ValidPercent, s.ExpiringSoon, s.Expired, s.Unknown,
	)
}
