package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"download_planner/internal/state"
)

func newJournalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "journal",
		Short: "List jobs recorded with --journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := state.LoadRecords()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "Journal is empty.")
				return nil
			}
			for _, r := range records {
				source := r.MetadataURI
				if source == "" {
					source = r.Path
				}
				fmt.Fprintf(out, "%s  %-8s x%-3d %s  %s\n",
					shortID(r.GID), r.Kind, r.Concurrency, source, humanize.Time(r.CreatedAt))
			}
			return nil
		},
	}
}
