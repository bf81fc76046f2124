package service

import (
	"github.com/alexanderramin/quartermaster/internal/network"
)

// ProductionView is the read-only surface the integrators need from a
// production graph: nodes are production steps, edges mean "source feeds
// target".
type ProductionView interface {
	ProductionNodes() []network.ProductionNode
	ProductionEdges() []network.ProductionEdge
}

// InventoryView is the read-only surface for an inventory network: nodes
// carry stock levels, demand deltas, and a health status; routes are the
// allowed supply movements between them.
type InventoryView interface {
	Node(id string) *network.InventoryNode
	InventoryNodes() []*network.InventoryNode
	SupplyRoutes() []network.InventoryEdge
}
