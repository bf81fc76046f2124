package importer

import (
	"fmt"

	"github.com/alexanderramin/quartermaster/internal/domain"
)

var validNodeStatuses = map[string]bool{
	string(domain.NodeOK):       true,
	string(domain.NodeLow):      true,
	string(domain.NodeCritical): true,
	string(domain.NodeBlocked):  true,
	string(domain.NodeUnknown):  true,
}

// ValidateNetworkSchema checks the schema for errors before conversion.
// Returns every validation error found, not just the first.
func ValidateNetworkSchema(schema *NetworkSchema) []error {
	var errs []error

	recipeNames := make(map[string]bool)
	errs = append(errs, validateRecipes(schema.Recipes, recipeNames)...)

	prodIDs := make(map[string]bool)
	if schema.Production != nil {
		errs = append(errs, validateProduction(schema.Production, prodIDs)...)
	}

	if schema.Inventory != nil {
		errs = append(errs, validateInventory(schema.Inventory)...)
	}

	for id := range schema.Priorities {
		if !prodIDs[id] {
			errs = append(errs, fmt.Errorf("priorities: node id %q not found in production nodes", id))
		}
	}

	return errs
}

func validateRecipes(nodes []RecipeNodeImport, names map[string]bool) []error {
	var errs []error

	for i, n := range nodes {
		prefix := fmt.Sprintf("recipes[%d]", i)

		if n.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if names[n.Name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate node %q", prefix, n.Name))
		} else {
			names[n.Name] = true
		}

		if n.Category == "" {
			errs = append(errs, fmt.Errorf("%s.category is required", prefix))
		} else if !domain.ValidNodeCategories[domain.NodeCategory(n.Category)] {
			errs = append(errs, fmt.Errorf("%s.category: invalid value %q", prefix, n.Category))
		}

		if n.Category == string(domain.CategoryResource) && len(n.Recipes) > 0 {
			errs = append(errs, fmt.Errorf("%s: resource node %q must not carry recipes", prefix, n.Name))
		}

		for j, r := range n.Recipes {
			rp := fmt.Sprintf("%s.recipes[%d]", prefix, j)
			if len(r.Inputs) == 0 {
				errs = append(errs, fmt.Errorf("%s.inputs is required", rp))
			}
			if r.CycleTime <= 0 {
				errs = append(errs, fmt.Errorf("%s.cycle_time must be positive", rp))
			}
			for item, qty := range r.Inputs {
				if qty <= 0 {
					errs = append(errs, fmt.Errorf("%s.inputs[%s] must be positive", rp, item))
				}
			}
			for item, qty := range r.Outputs {
				if qty <= 0 {
					errs = append(errs, fmt.Errorf("%s.outputs[%s] must be positive", rp, item))
				}
			}
		}
	}

	return errs
}

func validateProduction(p *ProductionImport, ids map[string]bool) []error {
	var errs []error

	for i, n := range p.Nodes {
		prefix := fmt.Sprintf("production.nodes[%d]", i)

		if n.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if ids[n.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate node %q", prefix, n.ID))
		} else {
			ids[n.ID] = true
		}

		if n.Category != "" && !domain.ValidNodeCategories[domain.NodeCategory(n.Category)] {
			errs = append(errs, fmt.Errorf("%s.category: invalid value %q", prefix, n.Category))
		}
	}

	for i, e := range p.Edges {
		prefix := fmt.Sprintf("production.edges[%d]", i)
		errs = append(errs, validateEdge(prefix, e.Source, e.Target, ids)...)
	}

	return errs
}

func validateInventory(inv *InventoryImport) []error {
	var errs []error

	ids := make(map[string]bool)
	for i, n := range inv.Nodes {
		prefix := fmt.Sprintf("inventory.nodes[%d]", i)

		if n.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if ids[n.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate node %q", prefix, n.ID))
		} else {
			ids[n.ID] = true
		}

		if n.Status != "" && !validNodeStatuses[n.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, n.Status))
		}
	}

	for i, r := range inv.Routes {
		prefix := fmt.Sprintf("inventory.routes[%d]", i)
		errs = append(errs, validateEdge(prefix, r.Source, r.Target, ids)...)
	}

	return errs
}

func validateEdge(prefix, source, target string, ids map[string]bool) []error {
	var errs []error

	if source == "" {
		errs = append(errs, fmt.Errorf("%s.source is required", prefix))
	} else if !ids[source] {
		errs = append(errs, fmt.Errorf("%s.source: node %q not found", prefix, source))
	}
	if target == "" {
		errs = append(errs, fmt.Errorf("%s.target is required", prefix))
	} else if !ids[target] {
		errs = append(errs, fmt.Errorf("%s.target: node %q not found", prefix, target))
	}
	if source != "" && source == target {
		errs = append(errs, fmt.Errorf("%s: self-edge on node %q", prefix, source))
	}

	return errs
}
