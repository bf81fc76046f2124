package service

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/quartermaster/internal/domain"
	"github.com/alexanderramin/quartermaster/internal/scheduler"
)

// MaxOrdersPerTask bounds fan-in: a task never carries more than this many
// bound orders; further demand spills into a new task.
const MaxOrdersPerTask = 5

// orderTaskCompatibility maps an order type to the task types that may
// absorb it. Supply and transport cover for each other; production work is
// never mixed with movement.
var orderTaskCompatibility = map[domain.OrderType][]string{
	domain.OrderSupply:     {"supply", "transport"},
	domain.OrderProduction: {"production"},
	domain.OrderTransport:  {"transport", "supply"},
	domain.OrderRefill:     {"supply", "refill"},
}

// orderTaskTypes maps an order type to the task type created for it when
// no compatible task exists.
var orderTaskTypes = map[domain.OrderType]string{
	domain.OrderSupply:     "supply",
	domain.OrderProduction: "production",
	domain.OrderTransport:  "transport",
	domain.OrderRefill:     "supply",
}

// BoundOrderDetail is the per-order breakdown of an order urgency bonus.
type BoundOrderDetail struct {
	OrderID       string
	ItemType      string
	Urgency       float64
	AgeMultiplier float64
	Contribution  float64
}

// OrderDetails extends the pressure details with the order urgency term,
// reported separately so callers can see how much of a score is demand
// driven.
type OrderDetails struct {
	scheduler.Details

	OrderUrgencyBonus float64
	BoundOrders       []BoundOrderDetail
}

// OrderRanking pairs a task with its order-adjusted pressure score.
type OrderRanking struct {
	TaskID  string
	Score   float64
	Details OrderDetails
}

// IntegrationSummary is a point-in-time view of the task/order binding
// state. Purely derived; computing it has no side effects.
type IntegrationSummary struct {
	TotalTasks          int
	OrderDrivenTasks    int
	TotalOrders         int
	AssignedOrders      int
	UnassignedOrders    int
	TaskStatusBreakdown map[domain.TaskStatus]int
	Orders              OrderSummary

	// AssignmentEfficiency is assigned/total, 0 when there are no orders.
	AssignmentEfficiency float64
}

// TaskOrderIntegrator binds orders to tasks. It scans inventory graphs for
// unmet demand, routes each resulting order to a compatible task (creating
// one when none fits), and folds order urgency into priority queries.
type TaskOrderIntegrator struct {
	calc         *scheduler.Calculator
	orders       *OrderManager
	orderToTask  map[string]string
	taskToOrders map[string]map[string]bool
	nextTaskID   int
}

// NewTaskOrderIntegrator wraps the given calculator and order book; nil
// arguments get fresh defaults.
func NewTaskOrderIntegrator(calc *scheduler.Calculator, orders *OrderManager) *TaskOrderIntegrator {
	if calc == nil {
		calc = scheduler.NewCalculator()
	}
	if orders == nil {
		orders = NewOrderManager()
	}
	return &TaskOrderIntegrator{
		calc:         calc,
		orders:       orders,
		orderToTask:  make(map[string]string),
		taskToOrders: make(map[string]map[string]bool),
		nextTaskID:   1,
	}
}

// Calculator exposes the underlying priority calculator.
func (ti *TaskOrderIntegrator) Calculator() *scheduler.Calculator {
	return ti.calc
}

// Orders exposes the underlying order book.
func (ti *TaskOrderIntegrator) Orders() *OrderManager {
	return ti.orders
}

// GenerateTaskID issues the next sequential task id.
func (ti *TaskOrderIntegrator) GenerateTaskID() string {
	id := fmt.Sprintf("task_%06d", ti.nextTaskID)
	ti.nextTaskID++
	return id
}

// ProcessGraphOrders collects new orders from the inventory graph's unmet
// demand and assigns each to a compatible task, creating tasks on demand.
// Returns the tasks that received at least one new order.
func (ti *TaskOrderIntegrator) ProcessGraphOrders(graph InventoryView) []*domain.Task {
	newOrders := ti.orders.CollectFromInventoryGraph(graph)

	var updated []*domain.Task
	seen := make(map[string]bool)
	for _, order := range newOrders {
		task := ti.assignOrderToTask(order)
		if task != nil && !seen[task.ID] {
			seen[task.ID] = true
			updated = append(updated, task)
		}
	}
	return updated
}

// assignOrderToTask routes an order to an existing compatible task or a
// freshly created one. Returns nil when the binding failed.
func (ti *TaskOrderIntegrator) assignOrderToTask(order *domain.Order) *domain.Task {
	if task := ti.findCompatibleTask(order); task != nil {
		if ti.linkOrderToTask(order, task) {
			return task
		}
		return nil
	}

	task := ti.createTaskFromOrder(order)
	ti.calc.AddTask(task)
	if !ti.linkOrderToTask(order, task) {
		return nil
	}
	return task
}

// findCompatibleTask returns the first registered task that matches the
// order's type family and source node and still has binding capacity.
// Registration order makes the choice deterministic.
func (ti *TaskOrderIntegrator) findCompatibleTask(order *domain.Order) *domain.Task {
	for _, id := range ti.calc.TaskIDs() {
		task := ti.calc.GetTask(id)
		if task == nil || task.Status.Terminal() {
			continue
		}
		if !taskTypeCompatible(task.Type, order.Type) {
			continue
		}
		if node, _ := task.Metadata["source_node_id"].(string); node != order.SourceNodeID {
			continue
		}
		if task.OrderCount() >= MaxOrdersPerTask {
			continue
		}
		return task
	}
	return nil
}

func taskTypeCompatible(taskType string, orderType domain.OrderType) bool {
	for _, t := range orderTaskCompatibility[orderType] {
		if t == taskType {
			return true
		}
	}
	return false
}

// createTaskFromOrder builds a task sized to carry the order, with the
// order's urgency folded into the base priority.
func (ti *TaskOrderIntegrator) createTaskFromOrder(order *domain.Order) *domain.Task {
	taskType, ok := orderTaskTypes[order.Type]
	if !ok {
		taskType = "supply"
	}

	location := order.SourceNodeID
	if loc, ok := order.Metadata["source_location"].(string); ok && loc != "" {
		location = loc
	}
	name := fmt.Sprintf("%s %s for %s", titleCase(taskType), order.ItemType, location)

	basePriority := order.Urgency * 0.5
	if basePriority < 1.0 {
		basePriority = 1.0
	}

	task := domain.NewTask(ti.GenerateTaskID(), name, taskType, basePriority)
	task.Metadata["source_node_id"] = order.SourceNodeID
	task.Metadata["primary_item_type"] = order.ItemType
	task.Metadata["created_from_order"] = order.ID
	task.Metadata["order_driven"] = true
	return task
}

// linkOrderToTask binds an order to a task in both directions. The binding
// is transactional: on any failure neither side is left partially linked.
func (ti *TaskOrderIntegrator) linkOrderToTask(order *domain.Order, task *domain.Task) bool {
	if task.OrderCount() >= MaxOrdersPerTask || task.Status.Terminal() {
		return false
	}
	if !order.AssignToTask(task.ID) {
		return false
	}
	task.BindOrder(order.ID)

	ti.orderToTask[order.ID] = task.ID
	if ti.taskToOrders[task.ID] == nil {
		ti.taskToOrders[task.ID] = make(map[string]bool)
	}
	ti.taskToOrders[task.ID][order.ID] = true
	return true
}

// CompleteOrder marks an order completed and detaches it from its task;
// when that leaves the task with no bound orders the task is completed
// too. Returns false for an unknown order id.
func (ti *TaskOrderIntegrator) CompleteOrder(orderID string) bool {
	order := ti.orders.Get(orderID)
	if order == nil {
		return false
	}
	order.MarkCompleted()
	ti.detachOrder(orderID, func(task *domain.Task) {
		task.MarkCompleted()
	})
	return true
}

// CancelOrder cancels an order and detaches it from its task; when that
// leaves the task with no bound orders the task is cancelled with the
// reason recorded. Returns false for an unknown order id.
func (ti *TaskOrderIntegrator) CancelOrder(orderID, reason string) bool {
	order := ti.orders.Get(orderID)
	if order == nil {
		return false
	}
	order.MarkCancelled(reason)
	ti.detachOrder(orderID, func(task *domain.Task) {
		task.MarkCancelled("All orders cancelled: " + reason)
	})
	return true
}

func (ti *TaskOrderIntegrator) detachOrder(orderID string, foldDown func(*domain.Task)) {
	taskID, ok := ti.orderToTask[orderID]
	if !ok {
		return
	}
	delete(ti.orderToTask, orderID)
	if bound := ti.taskToOrders[taskID]; bound != nil {
		delete(bound, orderID)
		if len(bound) == 0 {
			delete(ti.taskToOrders, taskID)
		}
	}

	task := ti.calc.GetTask(taskID)
	if task == nil {
		return
	}
	task.UnbindOrder(orderID)
	if task.OrderCount() == 0 {
		foldDown(task)
	}
}

// PriorityWithOrders computes the pressure score of a task plus an order
// urgency bonus: the sum over bound active orders of urgency scaled by
// order age. The bonus is reported separately in the details.
func (ti *TaskOrderIntegrator) PriorityWithOrders(taskID string) (float64, OrderDetails) {
	score, details := ti.calc.CalculatePressure(taskID)
	od := OrderDetails{Details: details}
	if details.Err != "" {
		return score, od
	}

	now := ti.calc.Now()
	task := ti.calc.GetTask(taskID)
	if task == nil {
		return score, od
	}

	boundIDs := make([]string, 0, len(task.BoundOrders))
	for id := range task.BoundOrders {
		boundIDs = append(boundIDs, id)
	}
	sort.Strings(boundIDs)

	for _, orderID := range boundIDs {
		order := ti.orders.Get(orderID)
		if order == nil || order.Status.Terminal() {
			continue
		}
		age := order.AgeMultiplier(now)
		contribution := order.Urgency * age
		od.OrderUrgencyBonus += contribution
		od.BoundOrders = append(od.BoundOrders, BoundOrderDetail{
			OrderID:       order.ID,
			ItemType:      order.ItemType,
			Urgency:       order.Urgency,
			AgeMultiplier: age,
			Contribution:  contribution,
		})
	}

	return score + od.OrderUrgencyBonus, od
}

// RankingsWithOrders ranks every registered task by its order-adjusted
// pressure score, highest first. A positive topN truncates the list.
func (ti *TaskOrderIntegrator) RankingsWithOrders(topN int) []OrderRanking {
	ids := ti.calc.TaskIDs()
	rankings := make([]OrderRanking, 0, len(ids))
	for _, id := range ids {
		score, details := ti.PriorityWithOrders(id)
		rankings = append(rankings, OrderRanking{TaskID: id, Score: score, Details: details})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})
	if topN > 0 && len(rankings) > topN {
		rankings = rankings[:topN]
	}
	return rankings
}

// IntegrationSummary derives headline counts for the current binding state.
func (ti *TaskOrderIntegrator) IntegrationSummary() IntegrationSummary {
	s := IntegrationSummary{
		TotalTasks:          ti.calc.TaskCount(),
		TotalOrders:         ti.orders.OrderCount(),
		AssignedOrders:      len(ti.orderToTask),
		TaskStatusBreakdown: make(map[domain.TaskStatus]int),
		Orders:              ti.orders.Summary(),
	}
	s.UnassignedOrders = s.TotalOrders - s.AssignedOrders

	for _, id := range ti.calc.TaskIDs() {
		task := ti.calc.GetTask(id)
		if task == nil {
			continue
		}
		s.TaskStatusBreakdown[task.Status]++
		if driven, _ := task.Metadata["order_driven"].(bool); driven {
			s.OrderDrivenTasks++
		}
	}

	if s.TotalOrders > 0 {
		s.AssignmentEfficiency = float64(s.AssignedOrders) / float64(s.TotalOrders)
	}
	return s
}

// titleCase upper-cases the first byte of an ASCII word, which is all the
// task type tags need.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-('a'-'A')) + s[1:]
	}
	return s
}
