package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration without running anything",
		Long: "Load the configuration, build the task graph and report duplicate " +
			"targets or dependency cycles before any command runs.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.app.Validate()
		},
	}
}
