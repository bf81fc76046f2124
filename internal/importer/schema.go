package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NetworkSchema is the top-level YAML structure for a network definition
// file: recipe data plus the production and inventory graphs the task
// engine integrates.
type NetworkSchema struct {
	Recipes    []RecipeNodeImport `yaml:"recipes,omitempty"`
	Production *ProductionImport  `yaml:"production,omitempty"`
	Inventory  *InventoryImport   `yaml:"inventory,omitempty"`

	// Priorities overrides base priorities per production node id.
	Priorities map[string]float64 `yaml:"priorities,omitempty"`
}

// RecipeNodeImport defines one recipe graph node and its recipes.
type RecipeNodeImport struct {
	Name     string         `yaml:"name"`
	Category string         `yaml:"category"`
	Recipes  []RecipeImport `yaml:"recipes,omitempty"`
}

// RecipeImport defines a single recipe of a node.
type RecipeImport struct {
	Inputs    map[string]float64 `yaml:"inputs"`
	Outputs   map[string]float64 `yaml:"outputs,omitempty"`
	Using     string             `yaml:"using,omitempty"`
	CycleTime float64            `yaml:"cycle_time"`
	Tier      string             `yaml:"tier,omitempty"`
}

// ProductionImport defines the production dependency graph.
type ProductionImport struct {
	Nodes []ProductionNodeImport `yaml:"nodes"`
	Edges []EdgeImport           `yaml:"edges,omitempty"`
}

// ProductionNodeImport defines one production step.
type ProductionNodeImport struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name,omitempty"`
	Category string `yaml:"category,omitempty"`
}

// EdgeImport defines a directed edge: source feeds target.
type EdgeImport struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// InventoryImport defines the inventory network.
type InventoryImport struct {
	Nodes  []InventoryNodeImport `yaml:"nodes"`
	Routes []RouteImport         `yaml:"routes,omitempty"`
}

// InventoryNodeImport defines one stockpile location.
type InventoryNodeImport struct {
	ID        string             `yaml:"id"`
	Name      string             `yaml:"name,omitempty"`
	Status    string             `yaml:"status,omitempty"`
	Inventory map[string]float64 `yaml:"inventory,omitempty"`
	Delta     map[string]float64 `yaml:"delta,omitempty"`
}

// RouteImport defines a supply route with an optional allowed-item filter.
type RouteImport struct {
	Source       string   `yaml:"source"`
	Target       string   `yaml:"target"`
	AllowedItems []string `yaml:"allowed_items,omitempty"`
}

// LoadNetworkSchema reads and parses a network definition YAML file.
func LoadNetworkSchema(path string) (*NetworkSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseNetworkSchema(data)
}

// ParseNetworkSchema parses network definition YAML.
func ParseNetworkSchema(data []byte) (*NetworkSchema, error) {
	var schema NetworkSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing network file: %w", err)
	}
	return &schema, nil
}
