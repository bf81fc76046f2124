package cli

import (
	"fmt"

	"github.com/alexanderramin/quartermaster/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show order and task binding state",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, orders, err := app.Integrators()
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatIntegrationSummary(orders.IntegrationSummary()))
			return nil
		},
	}
}
