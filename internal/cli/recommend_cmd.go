package cli

import (
	"fmt"

	"github.com/alexanderramin/quartermaster/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRecommendCmd(app *App) *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank tasks by pressure score",
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, _, err := app.Integrators()
			if err != nil {
				return err
			}

			recs := graphs.PriorityRecommendations(topN)
			if !app.Interactive {
				// Tab-separated for scripts and pipes.
				for _, rec := range recs {
					fmt.Printf("%s\t%s\t%.2f\n", rec.NodeID, rec.TaskName, rec.Score)
				}
				return nil
			}

			fmt.Print(formatter.FormatRecommendations(recs))
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", 5, "Number of recommendations to show")

	return cmd
}
