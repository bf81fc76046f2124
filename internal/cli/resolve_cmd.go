package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/quartermaster/internal/cli/formatter"
	"github.com/alexanderramin/quartermaster/internal/repository"
	"github.com/spf13/cobra"
)

func newResolveCmd(app *App) *cobra.Command {
	var recipeIndex int
	var cached bool

	cmd := &cobra.Command{
		Use:   "resolve <item> <amount>",
		Short: "Resolve an item into total base-material requirements",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := args[0]
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive number, got %q", args[1])
			}

			net, err := app.Network()
			if err != nil {
				return err
			}

			ctx := context.Background()
			if cached && app.Cache != nil {
				if res, err := app.Cache.Get(ctx, item, amount, recipeIndex); err == nil {
					fmt.Print(formatter.FormatResolution(item, amount, *res))
					fmt.Println(formatter.Dim("(cached)"))
					return nil
				} else if !errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("reading resolution cache: %w", err)
				}
			}

			res := net.Recipes.ResolveBaseMaterials(item, amount, recipeIndex)
			fmt.Print(formatter.FormatResolution(item, amount, *res))

			if cached && app.Cache != nil && len(res.Truncated) == 0 {
				if err := app.Cache.Put(ctx, item, amount, recipeIndex, res); err != nil {
					return fmt.Errorf("writing resolution cache: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&recipeIndex, "recipe", 0, "Recipe index to use at the top level")
	cmd.Flags().BoolVar(&cached, "cached", false, "Read and write the durable resolution cache")

	return cmd
}
