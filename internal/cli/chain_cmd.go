package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newChainCmd(app *App) *cobra.Command {
	var recipeIndex int

	cmd := &cobra.Command{
		Use:   "chain <item> <amount>",
		Short: "Print the full production chain for an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive number, got %q", args[1])
			}

			net, err := app.Network()
			if err != nil {
				return err
			}

			fmt.Print(net.Recipes.DescribeProductionChain(args[0], amount, recipeIndex))
			return nil
		},
	}

	cmd.Flags().IntVar(&recipeIndex, "recipe", 0, "Recipe index to use at the top level")

	return cmd
}
