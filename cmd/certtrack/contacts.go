package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/certtrack/internal/contacts"
	"github.com/JaimeStill/certtrack/internal/schema"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

func (a *app) contactsCmd() *cobra.Command {
	var logPath string

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Read and append to the shared supplier contact log",
	}
	cmd.PersistentFlags().StringVar(&logPath, "log", "", "Contact log spreadsheet (xlsx or csv)")
	cmd.MarkPersistentFlagRequired("log")

	cmd.AddCommand(a.contactsListCmd(&logPath))
	cmd.AddCommand(a.contactsAddCmd(&logPath))

	return cmd
}

// openContacts opens the log at path through a store rooted at its
// directory. A missing file yields an empty log.
func (a *app) openContacts(cmd *cobra.Command, path string) (contacts.System, error) {
	store, err := a.localStore(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	key := filepath.Base(path)
	sys := contacts.New(store, key, contacts.FormatFor(key), a.clock, a.logger)
	if _, err := sys.Open(cmd.Context()); err != nil {
		return nil, err
	}
	return sys, nil
}

func (a *app) contactsListCmd(logPath *string) *cobra.Command {
	var supplier string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contact log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := a.openContacts(cmd, *logPath)
			if err != nil {
				return err
			}

			entries := sys.List(cmd.Context(), contacts.Filters{Supplier: schema.SelectSupplier(supplier)})

			if a.output != "table" {
				return printOutput(cmd.OutOrStdout(), a.output, entries)
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{sheet.FormatDate(e.Date), e.Supplier, string(e.Action), e.Notes}
			}
			printTable(cmd.OutOrStdout(), []string{"Date", "Supplier", "Action", "Notes"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&supplier, "supplier", "", "Show a single supplier (\"all\" or empty for every supplier)")
	return cmd
}

func (a *app) contactsAddCmd(logPath *string) *cobra.Command {
	var entry contacts.AppendCommand

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an entry and write the log back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := a.openContacts(cmd, *logPath)
			if err != nil {
				return err
			}

			added, err := sys.Append(cmd.Context(), entry)
			if err != nil {
				return err
			}

			result, err := sys.Persist(cmd.Context(), "")
			if err != nil {
				return err
			}

			if a.output != "table" {
				return printOutput(cmd.OutOrStdout(), a.output, added)
			}

			fmt.Fprintf(
				cmd.OutOrStdout(),
				"logged %s with %s on %s (%d entries)\n",
				added.Action, added.Supplier, sheet.FormatDate(added.Date), result.Entries,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&entry.Supplier, "supplier", "", "Supplier contacted")
	cmd.Flags().StringVar(&entry.Action, "action", string(contacts.Email), "Contact action: Email, Call, Meeting, Other")
	cmd.Flags().StringVar(&entry.Notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&entry.Date, "date", "", "Contact date (defaults to today)")
	cmd.MarkFlagRequired("supplier")

	return cmd
}
