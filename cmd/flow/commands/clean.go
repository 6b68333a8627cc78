package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Delete the resources created by the workflow",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			return c.app.Clean(cmd.Context(), args, force)
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Delete without asking for confirmation")

	return cmd
}
