package cli

import (
	"github.com/spf13/cobra"
)

func newWatchCommand(root *rootOptions) *cobra.Command {
	flags := &scoringFlags{}
	var interval string

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Periodically score the newest report in a directory",
		Long: `Re-scores the newest <dir>/<date>/txt/*.txt report on every interval until
interrupted. With --save, headlines already stored are not scored again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("every") {
				if err := cfg.SetInterval(interval); err != nil {
					return err
				}
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}

			dir := cfg.Source.ReportDir
			if len(args) == 1 {
				dir = args[0]
			}
			return root.application(cmd, cfg).Watch(cmd.Context(), dir, flags.options())
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&interval, "every", "", "interval between runs, e.g. 15m")
	return cmd
}
