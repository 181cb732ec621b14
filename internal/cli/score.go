package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"HeadlineScorer/internal/app"
	"HeadlineScorer/internal/config"
	"HeadlineScorer/internal/infrastructure/parser"
)

// scoringFlags are the overrides shared by score and watch.
type scoringFlags struct {
	mode     string
	minScore int
	json     bool
	format   string
	save     bool
	notify   bool
}

func (f *scoringFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "scoring mode: lexical, semantic or hybrid (aliases: keyword, ai)")
	cmd.Flags().IntVarP(&f.minScore, "score", "s", 0, "minimum total score to keep (0-30)")
	cmd.Flags().BoolVar(&f.json, "json", false, "also write <report>_scored.json next to the input")
	cmd.Flags().StringVar(&f.format, "format", "", "report format: auto, txt or html")
	cmd.Flags().BoolVar(&f.save, "save", false, "store the run in the configured database")
	cmd.Flags().BoolVar(&f.notify, "notify", false, "send a Telegram digest of the top results")
}

// apply overlays explicitly set flags onto cfg and validates the result.
func (f *scoringFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("mode") {
		cfg.Scoring.Mode = f.mode
	}
	if cmd.Flags().Changed("score") {
		cfg.Scoring.MinScore = f.minScore
	}
	if f.json {
		cfg.Output.JSON = true
	}
	if cmd.Flags().Changed("format") {
		cfg.Source.Format = f.format
	}
	return cfg.Validate()
}

func (f *scoringFlags) options() app.Options {
	return app.Options{Save: f.save, Notify: f.notify}
}

func newScoreCommand(root *rootOptions) *cobra.Command {
	flags := &scoringFlags{}
	cmd := &cobra.Command{
		Use:   "score [report]",
		Short: "Score the headlines of one report",
		Long: `Reads a TrendRadar report (text or HTML), scores every headline and prints
the ones reaching the minimum score, best first. Without an argument the newest
report under source.reportDir is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &cfg); err != nil {
				return err
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				path, err = parser.FindLatestReport(cfg.Source.ReportDir)
				if err != nil {
					return fmt.Errorf("no report given and none found: %w", err)
				}
				cmd.PrintErrf("using newest report %s\n", path)
			}

			_, err = root.application(cmd, cfg).Score(cmd.Context(), path, flags.options())
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
