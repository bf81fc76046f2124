package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the full supply chain priority report",
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, _, err := app.Integrators()
			if err != nil {
				return err
			}
			fmt.Print(graphs.GenerateReport())
			return nil
		},
	}
}
