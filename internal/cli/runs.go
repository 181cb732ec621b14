package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRunsCommand(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recently stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			runs, err := root.application(cmd, cfg).RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				cmd.Println("No runs stored.")
				return nil
			}
			for _, r := range runs {
				cmd.Println(fmt.Sprintf("%s  %s  %-8s kept %d/%d (perfect %d, excellent %d, fair %d)  %s",
					r.CreatedAt.Format(time.DateTime), shortID(r.ID), r.Mode, r.Summary.Kept, r.InputCount,
					r.Summary.Perfect, r.Summary.Excellent, r.Summary.Fair, r.SourceName))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of runs")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
