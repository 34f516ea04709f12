package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand.
type app struct {
	output  string
	verbose bool
	clock   func() time.Time
	logger  *slog.Logger
}

func newRootCmd(clock func() time.Time) *cobra.Command {
	a := &app{clock: clock}

	cmd := &cobra.Command{
		Use:   "certtrack",
		Short: "Track supplier certification expiry and supplier contacts",
		Long: `certtrack reads supplier certificate spreadsheets with loosely named
columns, classifies each certificate as valid, expiring soon, expired or
unknown, and maintains a shared log of supplier contacts.

Spreadsheets may be xlsx or csv.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "Output format: table, json, yaml")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log at debug level")

	cmd.AddCommand(a.certsCmd())
	cmd.AddCommand(a.exportCmd())
	cmd.AddCommand(a.contactsCmd())

	return cmd
}
