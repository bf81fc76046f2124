package importer

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/quartermaster/internal/domain"
	"github.com/alexanderramin/quartermaster/internal/network"
	"github.com/alexanderramin/quartermaster/internal/recipe"
)

// Network bundles everything a network definition file yields: the recipe
// graph, both external graphs, and the caller priority table.
type Network struct {
	Recipes    *recipe.Graph
	Production *network.ProductionGraph
	Inventory  *network.InventoryGraph
	Priorities map[string]float64
}

// Convert transforms a validated NetworkSchema into graph objects. Call
// ValidateNetworkSchema first; Convert assumes the schema is valid.
func Convert(schema *NetworkSchema) (*Network, error) {
	out := &Network{
		Recipes:    recipe.NewGraph(),
		Production: network.NewProductionGraph(),
		Inventory:  network.NewInventoryGraph(),
		Priorities: schema.Priorities,
	}
	if out.Priorities == nil {
		out.Priorities = make(map[string]float64)
	}

	for _, n := range schema.Recipes {
		recipes := make([]recipe.Recipe, 0, len(n.Recipes))
		for _, r := range n.Recipes {
			recipes = append(recipes, recipe.Recipe{
				Inputs:    r.Inputs,
				Outputs:   r.Outputs,
				Using:     r.Using,
				CycleTime: r.CycleTime,
				Tier:      r.Tier,
			})
		}
		if err := out.Recipes.AddNode(n.Name, domain.NodeCategory(n.Category), recipes...); err != nil {
			return nil, fmt.Errorf("recipe node %q: %w", n.Name, err)
		}
	}

	if schema.Production != nil {
		for _, n := range schema.Production.Nodes {
			name := n.Name
			if name == "" {
				name = n.ID
			}
			out.Production.AddNode(network.ProductionNode{
				ID:       n.ID,
				Name:     name,
				Category: domain.NodeCategory(n.Category),
			})
		}
		for _, e := range schema.Production.Edges {
			if !out.Production.AddEdge(e.Source, e.Target) {
				return nil, fmt.Errorf("production edge %s->%s: unknown endpoint", e.Source, e.Target)
			}
		}
	}

	if schema.Inventory != nil {
		for _, n := range schema.Inventory.Nodes {
			name := n.Name
			if name == "" {
				name = n.ID
			}
			node := network.NewInventoryNode(n.ID, name)
			if n.Status != "" {
				node.Status = domain.NodeStatus(n.Status)
			}
			node.UpdateInventory(n.Inventory)
			if n.Delta != nil {
				node.SetDelta(n.Delta)
			}
			out.Inventory.AddNode(node)
		}
		for _, r := range schema.Inventory.Routes {
			if !out.Inventory.AddEdge(r.Source, r.Target, r.AllowedItems) {
				return nil, fmt.Errorf("inventory route %s->%s: unknown endpoint", r.Source, r.Target)
			}
		}
	}

	return out, nil
}

// LoadNetwork loads, validates, and converts a network file in one step.
// Validation failures are joined into a single error.
func LoadNetwork(path string) (*Network, error) {
	schema, err := LoadNetworkSchema(path)
	if err != nil {
		return nil, err
	}
	if errs := ValidateNetworkSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("invalid network file %s: %w", path, errors.Join(errs...))
	}
	return Convert(schema)
}
