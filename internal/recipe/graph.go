// Package recipe models the production recipe graph and resolves how much
// base material a requested output ultimately requires, following recipe
// chains that may branch, cycle, and emit byproducts.
package recipe

import (
	"fmt"

	"github.com/alexanderramin/quartermaster/internal/domain"
)

// Recipe converts input quantities into output quantities over one
// production cycle. Outputs may include byproducts beyond the node's own
// item.
type Recipe struct {
	Inputs  map[string]float64
	Outputs map[string]float64

	// Using names the facility the recipe runs in, e.g. "Smelter".
	Using string

	// CycleTime is the duration of one cycle in seconds.
	CycleTime float64

	// Tier is an optional technology gate. Empty means always unlocked.
	Tier string
}

// Node is a named item in the recipe graph with zero or more recipes that
// produce it. A resource node is a graph leaf and has no recipes.
type Node struct {
	Name     string
	Category domain.NodeCategory
	Recipes  []Recipe
}

// Graph is a directed graph of production nodes keyed by item name.
type Graph struct {
	nodes map[string]*Node
	order []string
}

// NewGraph creates an empty recipe graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode registers a node. The category must be valid, and a resource node
// must not carry recipes.
func (g *Graph) AddNode(name string, category domain.NodeCategory, recipes ...Recipe) error {
	if !domain.ValidNodeCategories[category] {
		return fmt.Errorf("recipe node %q: invalid category %q", name, category)
	}
	if category == domain.CategoryResource && len(recipes) > 0 {
		return fmt.Errorf("recipe node %q: resource nodes cannot have recipes", name)
	}
	if _, exists := g.nodes[name]; !exists {
		g.order = append(g.order, name)
	}
	g.nodes[name] = &Node{Name: name, Category: category, Recipes: recipes}
	return nil
}

// Node returns the node with the given name, or nil.
func (g *Graph) Node(name string) *Node {
	return g.nodes[name]
}

// Nodes returns all node names in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// NodesByCategory returns the names of all nodes in the given category, in
// insertion order.
func (g *Graph) NodesByCategory(category domain.NodeCategory) []string {
	var out []string
	for _, name := range g.order {
		if g.nodes[name].Category == category {
			out = append(out, name)
		}
	}
	return out
}

// IsResourceLeaf reports whether the node exists and is a resource leaf.
func (g *Graph) IsResourceLeaf(name string) bool {
	n := g.nodes[name]
	return n != nil && n.Category == domain.CategoryResource
}

// UnlockedRecipeIndices returns the indices of the node's recipes whose tier
// gate is satisfied. A recipe without a tier is always unlocked. Unknown
// nodes yield nil.
func (g *Graph) UnlockedRecipeIndices(name string, unlockedTiers []string) []int {
	n := g.nodes[name]
	if n == nil {
		return nil
	}
	tiers := make(map[string]bool, len(unlockedTiers))
	for _, t := range unlockedTiers {
		tiers[t] = true
	}
	var out []int
	for i, r := range n.Recipes {
		if r.Tier == "" || tiers[r.Tier] {
			out = append(out, i)
		}
	}
	return out
}

// CheckAllNodesReachResource returns the names of nodes that cannot be
// traced back to any resource leaf through recipe inputs. A healthy graph
// returns an empty slice.
func (g *Graph) CheckAllNodesReachResource() []string {
	var unreachable []string
	for _, name := range g.order {
		if g.nodes[name].Category == domain.CategoryResource {
			continue
		}
		if !g.reachesResource(name, make(map[string]bool)) {
			unreachable = append(unreachable, name)
		}
	}
	return unreachable
}

func (g *Graph) reachesResource(name string, visited map[string]bool) bool {
	if visited[name] {
		return false
	}
	visited[name] = true

	node := g.nodes[name]
	if node == nil {
		// Inputs with no registered node are treated as raw materials.
		return true
	}
	if node.Category == domain.CategoryResource {
		return true
	}
	for _, r := range node.Recipes {
		for input := range r.Inputs {
			if g.reachesResource(input, visited) {
				return true
			}
		}
	}
	return false
}
