package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"user-sync/cmd/usersync/app"
)

var (
	journalPage  int64
	journalLimit int64
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recorded remote calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if a.Container.Journal == nil {
				return errors.New("journal is disabled (JOURNAL_ENABLED=false)")
			}

			entries, pagination, err := a.Container.Journal.List(ctx, journalPage, journalLimit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tOP\tMETHOD\tPATH\tOUTCOME\tMS\tREQUEST ID")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.1f\t%s\n",
					e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Op, e.Method, e.Path, e.Outcome, e.DurationMS, e.RequestID)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d entries)\n", pagination.Page, pagination.TotalPages, pagination.Total)
			return nil
		})
	},
}

func init() {
	journalCmd.Flags().Int64Var(&journalPage, "page", 1, "page number (1-based)")
	journalCmd.Flags().Int64Var(&journalLimit, "limit", 20, "entries per page")

	rootCmd.AddCommand(journalCmd)
}
