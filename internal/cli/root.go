package cli

import (
	"github.com/alexanderramin/quartermaster/internal/importer"
	"github.com/alexanderramin/quartermaster/internal/repository"
	"github.com/alexanderramin/quartermaster/internal/service"
	"github.com/spf13/cobra"
)

// App holds the configuration and lazily built services used by CLI
// commands. The network file is loaded on first use so commands that
// fail flag parsing never touch the filesystem.
type App struct {
	NetworkPath string
	Cache       *repository.SQLiteResolutionCache
	Interactive bool

	net    *importer.Network
	graphs *service.GraphTaskIntegrator
	orders *service.TaskOrderIntegrator
}

// Network loads, validates, and converts the network file, memoizing the
// result for the lifetime of the App.
func (a *App) Network() (*importer.Network, error) {
	if a.net != nil {
		return a.net, nil
	}
	net, err := importer.LoadNetwork(a.NetworkPath)
	if err != nil {
		return nil, err
	}
	a.net = net
	return net, nil
}

// Integrators builds the graph and order integrators over a shared
// calculator, seeding tasks from the production graph, supply routes,
// and open inventory orders.
func (a *App) Integrators() (*service.GraphTaskIntegrator, *service.TaskOrderIntegrator, error) {
	if a.graphs != nil {
		return a.graphs, a.orders, nil
	}
	net, err := a.Network()
	if err != nil {
		return nil, nil, err
	}

	graphs := service.NewGraphTaskIntegrator(nil)
	if net.Production != nil {
		graphs.TasksFromProductionGraph(net.Production, net.Priorities)
	}
	if net.Inventory != nil {
		graphs.TasksFromInventoryGraph(net.Inventory, net.Priorities)
	}

	orders := service.NewTaskOrderIntegrator(graphs.Calculator(), service.NewOrderManager())
	if net.Inventory != nil {
		orders.ProcessGraphOrders(net.Inventory)
	}

	a.graphs, a.orders = graphs, orders
	return graphs, orders, nil
}

// NewRootCmd creates the top-level "quartermaster" command and registers
// all subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "quartermaster",
		Short: "Supply-chain task prioritizer and recipe resolver",
	}

	root.AddCommand(
		newResolveCmd(app),
		newChainCmd(app),
		newRecommendCmd(app),
		newReportCmd(app),
		newSummaryCmd(app),
		newAnalyzeCmd(app),
	)

	return root
}
