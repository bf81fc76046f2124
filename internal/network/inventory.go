package network

import "github.com/alexanderramin/quartermaster/internal/domain"

// InventoryNode is a stockpile location: current inventory plus a signed
// delta per item. A positive delta is unmet demand, a negative one surplus.
type InventoryNode struct {
	ID        string
	Name      string
	Status    domain.NodeStatus
	Inventory map[string]float64
	Delta     map[string]float64
	Metadata  map[string]any
}

// NewInventoryNode creates an inventory node with empty stock and unknown
// status.
func NewInventoryNode(id, name string) *InventoryNode {
	return &InventoryNode{
		ID:        id,
		Name:      name,
		Status:    domain.NodeUnknown,
		Inventory: make(map[string]float64),
		Delta:     make(map[string]float64),
		Metadata:  make(map[string]any),
	}
}

// UpdateInventory merges an inventory reading into the node.
func (n *InventoryNode) UpdateInventory(update map[string]float64) {
	for item, qty := range update {
		n.Inventory[item] = qty
	}
}

// SetDelta replaces the node's demand delta.
func (n *InventoryNode) SetDelta(delta map[string]float64) {
	n.Delta = delta
}

// TotalDeficit sums the node's positive (unmet-demand) delta entries.
func (n *InventoryNode) TotalDeficit() float64 {
	var total float64
	for _, qty := range n.Delta {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// InventoryEdge is an allowed supply route from source to target. An empty
// AllowedItems list means any item may travel the route.
type InventoryEdge struct {
	SourceID     string
	TargetID     string
	AllowedItems []string
}

// Allows reports whether the route may carry the given item.
func (e InventoryEdge) Allows(item string) bool {
	if len(e.AllowedItems) == 0 {
		return true
	}
	for _, allowed := range e.AllowedItems {
		if allowed == item {
			return true
		}
	}
	return false
}

// InventoryGraph is a supply network of stockpile locations and routes.
type InventoryGraph struct {
	nodes map[string]*InventoryNode
	order []string
	edges []InventoryEdge
}

// NewInventoryGraph creates an empty inventory graph.
func NewInventoryGraph() *InventoryGraph {
	return &InventoryGraph{nodes: make(map[string]*InventoryNode)}
}

// AddNode registers a stockpile location.
func (g *InventoryGraph) AddNode(n *InventoryNode) {
	if _, exists := g.nodes[n.ID]; !exists {
		g.order = append(g.order, n.ID)
	}
	g.nodes[n.ID] = n
}

// AddEdge records a supply route. Both endpoints must exist; returns false
// otherwise.
func (g *InventoryGraph) AddEdge(sourceID, targetID string, allowedItems []string) bool {
	if g.nodes[sourceID] == nil || g.nodes[targetID] == nil {
		return false
	}
	g.edges = append(g.edges, InventoryEdge{
		SourceID:     sourceID,
		TargetID:     targetID,
		AllowedItems: allowedItems,
	})
	return true
}

// Node returns the node with the given ID, or nil.
func (g *InventoryGraph) Node(id string) *InventoryNode {
	return g.nodes[id]
}

// InventoryNodes returns all nodes in insertion order.
func (g *InventoryGraph) InventoryNodes() []*InventoryNode {
	out := make([]*InventoryNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// SupplyRoutes returns all edges in insertion order.
func (g *InventoryGraph) SupplyRoutes() []InventoryEdge {
	out := make([]InventoryEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

// OutgoingRoutes returns the routes leaving the given node.
func (g *InventoryGraph) OutgoingRoutes(nodeID string) []InventoryEdge {
	var out []InventoryEdge
	for _, e := range g.edges {
		if e.SourceID == nodeID {
			out = append(out, e)
		}
	}
	return out
}
