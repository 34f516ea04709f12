package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/certtrack/internal/certificates"
	"github.com/JaimeStill/certtrack/pkg/lifecycle"
	"github.com/JaimeStill/certtrack/pkg/query"
	"github.com/JaimeStill/certtrack/pkg/sheet"
	"github.com/JaimeStill/certtrack/pkg/storage"
)

func (a *app) exportCmd() *cobra.Command {
	opts := &certOptions{}
	var (
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the filtered certificate view to a spreadsheet",
		Long: `Writes the filtered certificate view to <supplier>_certs.<ext>, or
all_certs.<ext> when no supplier is selected, inside the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := sheet.ParseFormat(format)
			if !ok {
				return fmt.Errorf("unsupported format %q", format)
			}

			filters, err := opts.filters()
			if err != nil {
				return err
			}

			t, err := a.loadCertificates(args[0], opts)
			if err != nil {
				return err
			}

			records := filters.View(t.Records, query.ParseSortFields(opts.sort))
			export, err := certificates.Serialize(records, filters.Supplier, f)
			if err != nil {
				return err
			}

			store, err := a.localStore(outDir)
			if err != nil {
				return err
			}
			if err := storage.WriteAll(cmd.Context(), store, export.Name, export.Data, export.ContentType); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d certificates to %s\n", len(records), filepath.Join(outDir, export.Name))
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(sheet.XLSX), "Export format: xlsx or csv")
	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")

	return cmd
}

// localStore opens a filesystem store rooted at dir, creating dir if needed.
func (a *app) localStore(dir string) (storage.System, error) {
	store, err := storage.New(&storage.Config{
		Provider: storage.ProviderLocal,
		Root:     dir,
	}, a.logger)
	if err != nil {
		return nil, err
	}

	lc := lifecycle.New()
	if err := store.Start(lc); err != nil {
		return nil, err
	}
	if err := lc.WaitForStartup(); err != nil {
		return nil, err
	}
	return store, nil
}

