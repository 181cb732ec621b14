// Package cli exposes the scorer as a cobra command tree.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"HeadlineScorer/internal/app"
	"HeadlineScorer/internal/config"
	"HeadlineScorer/internal/logging"
)

// rootOptions carries persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	stderr     io.Writer
}

// NewRootCommand builds the command tree. Log output goes to stderr; reports
// go to the command's standard output.
func NewRootCommand(stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stderr: stderr}

	root := &cobra.Command{
		Use:   "headlinescorer",
		Short: "Rank news headlines by their value as advertising hooks",
		Long: `Scores trending headlines on audience breadth, personal stakes and
ease of understanding (0-10 each, 30 total) using keyword rules, a language
model, or a weighted blend of both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default $HEADLINE_SCORER_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newScoreCommand(opts),
		newWatchCommand(opts),
		newRulesCommand(opts),
		newRunsCommand(opts),
	)
	return root
}

// loadConfig resolves file, env and persistent flag settings.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.LoadPath(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

func (o *rootOptions) logger(cfg config.Config) *slog.Logger {
	return logging.NewWithWriter(o.stderr, cfg.Logging.Level)
}

func (o *rootOptions) application(cmd *cobra.Command, cfg config.Config) *app.Application {
	return app.New(cfg, o.logger(cfg), cmd.OutOrStdout())
}
