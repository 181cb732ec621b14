package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRulesCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective keyword rule tables as YAML",
		Long: `Dumps the blacklist and the tiered keyword tables in the format accepted by
scoring.rulesPath, so the defaults can be copied and edited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			rules, err := root.application(cmd, cfg).Rules()
			if err != nil {
				return err
			}
			if err := rules.Validate(); err != nil {
				return err
			}
			raw, err := rules.YAML()
			if err != nil {
				return fmt.Errorf("encode rules: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}
