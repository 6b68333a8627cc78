package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/flow/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run the tasks that are out of sync",
		Long: "Run the out-of-sync subset of the workflow in dependency order. " +
			"With targets, only the named tasks and their dependencies are considered.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return err
			}
			jobs, err := cmd.Flags().GetInt("jobs")
			if err != nil {
				return err
			}
			return c.app.Run(cmd.Context(), args, app.RunOptions{
				Force:  force,
				DryRun: dryRun,
				Jobs:   jobs,
			})
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Rerun the selected tasks regardless of state")
	cmd.Flags().BoolP("dry-run", "d", false, "Report which tasks would run without running them")
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of tasks to run in parallel (0 = one per CPU)")

	return cmd
}
