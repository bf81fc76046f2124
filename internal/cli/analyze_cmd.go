package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <node-id>",
		Short: "Explain the pressure score of a production node or supply route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, _, err := app.Integrators()
			if err != nil {
				return err
			}

			taskID, ok := graphs.TaskIDForNode(args[0])
			if !ok {
				return fmt.Errorf("no task mapped to node %q", args[0])
			}

			fmt.Print(graphs.Calculator().DescribeAnalysis(taskID))
			return nil
		},
	}
}
