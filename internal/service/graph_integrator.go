package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/quartermaster/internal/domain"
	"github.com/alexanderramin/quartermaster/internal/network"
	"github.com/alexanderramin/quartermaster/internal/scheduler"
)

// Default base priorities per task type, used when the caller supplies no
// priority table entry. Categories closer to the finished product rank
// higher because a stall there idles more of the chain.
var defaultTypePriorities = map[string]float64{
	"resource_production": 1.0,
	"refined_production":  2.0,
	"material_production": 3.0,
	"product_production":  4.0,
	"transport":           3.0,
	"supply":              2.5,
}

// Status multipliers over the 2.0 base priority for supply tasks derived
// from inventory routes.
var statusPriorityMultipliers = map[domain.NodeStatus]float64{
	domain.NodeCritical: 3.0,
	domain.NodeBlocked:  2.5,
	domain.NodeLow:      2.0,
	domain.NodeOK:       1.0,
}

// Recommendation is one entry of a priority recommendation list, keyed by
// the caller's own node or route identifier rather than the internal task id.
type Recommendation struct {
	NodeID   string
	TaskName string
	Status   domain.TaskStatus
	Score    float64
	Details  scheduler.Details
}

// GraphTaskIntegrator synthesizes tasks from externally supplied production
// and inventory graphs and keeps a bidirectional mapping between graph
// identifiers and task ids, so callers can drive blocking state and read
// recommendations using their own ids.
type GraphTaskIntegrator struct {
	calc       *scheduler.Calculator
	nodeToTask map[string]string
	taskToNode map[string]string
}

// NewGraphTaskIntegrator wraps the given calculator. A nil calculator gets
// a default one, so each integrator can own an isolated task registry.
func NewGraphTaskIntegrator(calc *scheduler.Calculator) *GraphTaskIntegrator {
	if calc == nil {
		calc = scheduler.NewCalculator()
	}
	return &GraphTaskIntegrator{
		calc:       calc,
		nodeToTask: make(map[string]string),
		taskToNode: make(map[string]string),
	}
}

// Calculator exposes the underlying priority calculator.
func (g *GraphTaskIntegrator) Calculator() *scheduler.Calculator {
	return g.calc
}

// TasksFromProductionGraph creates one task per production node and wires
// task dependencies from the graph edges (source feeds target, so the
// target task depends upstream on the source task). Base priorities come
// from the caller's table keyed by node id, falling back to category
// defaults.
func (g *GraphTaskIntegrator) TasksFromProductionGraph(graph ProductionView, basePriorities map[string]float64) []*domain.Task {
	var created []*domain.Task

	for _, node := range graph.ProductionNodes() {
		taskID := "prod_" + node.ID
		name := node.Name
		if name == "" {
			name = node.ID
		}
		taskType := "production"
		if node.Category != "" {
			taskType = string(node.Category) + "_production"
		}

		priority, ok := basePriorities[node.ID]
		if !ok {
			priority = defaultTypePriority(taskType)
		}

		task := domain.NewTask(taskID, name, taskType, priority)
		g.nodeToTask[node.ID] = taskID
		g.taskToNode[taskID] = node.ID
		g.calc.AddTask(task)
		created = append(created, task)
	}

	for _, edge := range graph.ProductionEdges() {
		sourceTask, okS := g.nodeToTask[edge.SourceID]
		targetTask, okT := g.nodeToTask[edge.TargetID]
		if okS && okT {
			g.calc.Link(sourceTask, targetTask)
		}
	}

	return created
}

// TasksFromInventoryGraph creates one supply task per supply route. The
// task is blocked immediately when either endpoint reports critical or
// blocked status; its base priority derives from the source node's status
// and unmet demand unless the caller's table carries an entry for the
// route id.
func (g *GraphTaskIntegrator) TasksFromInventoryGraph(graph InventoryView, basePriorities map[string]float64) []*domain.Task {
	var created []*domain.Task

	for _, route := range graph.SupplyRoutes() {
		routeID := RouteID(route.SourceID, route.TargetID)
		source := graph.Node(route.SourceID)
		target := graph.Node(route.TargetID)

		name := fmt.Sprintf("Supply from %s to %s", nodeDisplayName(source, route.SourceID), nodeDisplayName(target, route.TargetID))

		priority, ok := basePriorities[routeID]
		if !ok {
			priority = inventoryStatusPriority(source)
		}

		task := domain.NewTask(routeID, name, "supply", priority)
		if endpointBlocked(source) || endpointBlocked(target) {
			task.MarkBlocked()
			task.Metadata["block_reason"] = blockReason(source, target)
		}

		g.nodeToTask[routeID] = task.ID
		g.taskToNode[task.ID] = routeID
		g.calc.AddTask(task)
		created = append(created, task)
	}

	// A route feeding a node is upstream of every route leaving that node.
	routes := graph.SupplyRoutes()
	for _, upstream := range routes {
		for _, downstream := range routes {
			if upstream.TargetID == downstream.SourceID {
				g.calc.Link(RouteID(upstream.SourceID, upstream.TargetID), RouteID(downstream.SourceID, downstream.TargetID))
			}
		}
	}

	return created
}

// RouteID is the stable identifier of a supply route, usable as a caller
// key for MarkProductionBlocked and recommendations.
func RouteID(sourceID, targetID string) string {
	return fmt.Sprintf("supply_%s->%s", sourceID, targetID)
}

// MarkProductionBlocked flags the task mapped to the given graph node as
// blocked, recording the reason in task metadata. Returns false when the
// node id was never mapped; callers probe optimistically.
func (g *GraphTaskIntegrator) MarkProductionBlocked(nodeID, reason string) bool {
	task := g.taskForNode(nodeID)
	if task == nil {
		return false
	}
	task.MarkBlocked()
	if reason != "" {
		task.Metadata["block_reason"] = reason
	}
	return true
}

// MarkProductionUnblocked clears the blocked state of the task mapped to
// the given graph node. Returns false when the node id was never mapped.
func (g *GraphTaskIntegrator) MarkProductionUnblocked(nodeID string) bool {
	task := g.taskForNode(nodeID)
	if task == nil {
		return false
	}
	task.MarkUnblocked()
	delete(task.Metadata, "block_reason")
	return true
}

// TaskIDForNode translates a graph node or route id into the id of the
// task synthesized for it. The second return is false when the node id
// was never mapped.
func (g *GraphTaskIntegrator) TaskIDForNode(nodeID string) (string, bool) {
	taskID, ok := g.nodeToTask[nodeID]
	return taskID, ok
}

func (g *GraphTaskIntegrator) taskForNode(nodeID string) *domain.Task {
	taskID, ok := g.nodeToTask[nodeID]
	if !ok {
		return nil
	}
	return g.calc.GetTask(taskID)
}

// PriorityRecommendations returns the topN highest-pressure tasks with the
// task ids translated back into the caller's node/route identifiers.
func (g *GraphTaskIntegrator) PriorityRecommendations(topN int) []Recommendation {
	rankings := g.calc.Rankings(nil)
	if topN > 0 && len(rankings) > topN {
		rankings = rankings[:topN]
	}

	recs := make([]Recommendation, 0, len(rankings))
	for _, r := range rankings {
		nodeID, ok := g.taskToNode[r.TaskID]
		if !ok {
			nodeID = "unknown"
		}
		name := r.TaskID
		status := domain.TaskStatus("unknown")
		if task := g.calc.GetTask(r.TaskID); task != nil {
			name = task.Name
			status = task.Status
		}
		recs = append(recs, Recommendation{
			NodeID:   nodeID,
			TaskName: name,
			Status:   status,
			Score:    r.Score,
			Details:  r.Details,
		})
	}
	return recs
}

// GenerateReport renders a deterministic plain-text summary: headline
// counts, the top priority recommendations, and the critical bottlenecks
// (blocked tasks ordered by how much downstream work they hold up).
func (g *GraphTaskIntegrator) GenerateReport() string {
	recs := g.PriorityRecommendations(15)
	now := g.calc.Now()

	var b strings.Builder
	b.WriteString("SUPPLY CHAIN PRIORITY REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Generated at: %s UTC\n", now.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total tasks analyzed: %d\n", g.calc.TaskCount())
	fmt.Fprintf(&b, "Currently blocked tasks: %d\n\n", len(g.calc.BlockedTasks()))

	b.WriteString("TOP PRIORITY RECOMMENDATIONS:\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	fmt.Fprintf(&b, "%-5s %-28s %-10s %-14s %s\n", "Rank", "Node", "Priority", "Blocked Tasks", "Status")
	b.WriteString(strings.Repeat("-", 70) + "\n")
	for i, rec := range recs {
		fmt.Fprintf(&b, "%-5d %-28s %-10.2f %-14d %s\n", i+1, rec.NodeID, rec.Score, rec.Details.BlockedCount, rec.Status)
	}

	b.WriteString("\nCRITICAL BOTTLENECKS:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")

	bottlenecks := g.criticalBottlenecks()
	if len(bottlenecks) > 5 {
		bottlenecks = bottlenecks[:5]
	}
	for _, bn := range bottlenecks {
		fmt.Fprintf(&b, "- %s: %s\n", bn.nodeID, bn.name)
		fmt.Fprintf(&b, "  Blocking %d downstream tasks for %.1f hours\n", bn.dependents, bn.blockedHours)
	}
	if len(bottlenecks) == 0 {
		b.WriteString("No critical bottlenecks detected.\n")
	}

	return b.String()
}

type bottleneck struct {
	nodeID       string
	name         string
	dependents   int
	blockedHours float64
}

// criticalBottlenecks lists blocked tasks with downstream dependents,
// widest blast radius first; ties go to the longer-blocked task.
func (g *GraphTaskIntegrator) criticalBottlenecks() []bottleneck {
	now := g.calc.Now()
	var out []bottleneck
	for _, id := range g.calc.TaskIDs() {
		task := g.calc.GetTask(id)
		if task == nil || task.Status != domain.TaskBlocked || len(task.DownstreamDependents) == 0 {
			continue
		}
		nodeID, ok := g.taskToNode[id]
		if !ok {
			nodeID = id
		}
		out = append(out, bottleneck{
			nodeID:       nodeID,
			name:         task.Name,
			dependents:   len(task.DownstreamDependents),
			blockedHours: task.BlockedDurationHours(now),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].dependents != out[j].dependents {
			return out[i].dependents > out[j].dependents
		}
		return out[i].blockedHours > out[j].blockedHours
	})
	return out
}

func defaultTypePriority(taskType string) float64 {
	if p, ok := defaultTypePriorities[taskType]; ok {
		return p
	}
	return 1.0
}

// inventoryStatusPriority scores a supply task from its source node: a 2.0
// base scaled by the node's status, plus a demand bonus of 0.1 per unit of
// unmet demand capped at +2.0.
func inventoryStatusPriority(node *network.InventoryNode) float64 {
	const base = 2.0
	if node == nil {
		return base
	}
	multiplier, ok := statusPriorityMultipliers[node.Status]
	if !ok {
		multiplier = 1.0
	}
	demandBonus := node.TotalDeficit() * 0.1
	if demandBonus > 2.0 {
		demandBonus = 2.0
	}
	return base*multiplier + demandBonus
}

func endpointBlocked(node *network.InventoryNode) bool {
	return node != nil && (node.Status == domain.NodeCritical || node.Status == domain.NodeBlocked)
}

func blockReason(source, target *network.InventoryNode) string {
	if endpointBlocked(source) {
		return fmt.Sprintf("source %s is %s", source.ID, source.Status)
	}
	return fmt.Sprintf("target %s is %s", target.ID, target.Status)
}

func nodeDisplayName(node *network.InventoryNode, fallback string) string {
	if node != nil && node.Name != "" {
		return node.Name
	}
	return fallback
}
