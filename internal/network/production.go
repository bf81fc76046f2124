// Package network holds the externally-owned graph structures the engine
// reads: production dependency graphs and inventory/supply networks. The
// task engine only ever reads these; mutation belongs to whatever collector
// populated them.
package network

import "github.com/alexanderramin/quartermaster/internal/domain"

// ProductionNode is one production step in a production graph.
type ProductionNode struct {
	ID       string
	Name     string
	Category domain.NodeCategory
}

// ProductionEdge means the source node provides input to the target node.
type ProductionEdge struct {
	SourceID string
	TargetID string
}

// ProductionGraph is a directed graph of production steps.
type ProductionGraph struct {
	nodes map[string]ProductionNode
	order []string
	edges []ProductionEdge
}

// NewProductionGraph creates an empty production graph.
func NewProductionGraph() *ProductionGraph {
	return &ProductionGraph{nodes: make(map[string]ProductionNode)}
}

// AddNode registers a production step. Re-adding an ID replaces the node.
func (g *ProductionGraph) AddNode(n ProductionNode) {
	if _, exists := g.nodes[n.ID]; !exists {
		g.order = append(g.order, n.ID)
	}
	g.nodes[n.ID] = n
}

// AddEdge records that source provides input to target. Both endpoints must
// exist; returns false otherwise.
func (g *ProductionGraph) AddEdge(sourceID, targetID string) bool {
	if _, ok := g.nodes[sourceID]; !ok {
		return false
	}
	if _, ok := g.nodes[targetID]; !ok {
		return false
	}
	g.edges = append(g.edges, ProductionEdge{SourceID: sourceID, TargetID: targetID})
	return true
}

// Node returns the node and whether it exists.
func (g *ProductionGraph) Node(id string) (ProductionNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// ProductionNodes returns all nodes in insertion order.
func (g *ProductionGraph) ProductionNodes() []ProductionNode {
	out := make([]ProductionNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// ProductionEdges returns all edges in insertion order.
func (g *ProductionGraph) ProductionEdges() []ProductionEdge {
	out := make([]ProductionEdge, len(g.edges))
	copy(out, g.edges)
	return out
}
