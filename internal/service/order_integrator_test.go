package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/quartermaster/internal/domain"
	"github.com/alexanderramin/quartermaster/internal/network"
	"github.com/alexanderramin/quartermaster/internal/scheduler"
	"github.com/alexanderramin/quartermaster/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTaskID(t *testing.T) {
	ti := NewTaskOrderIntegrator(nil, nil)

	assert.Equal(t, "task_000001", ti.GenerateTaskID())
	assert.Equal(t, "task_000002", ti.GenerateTaskID())
}

func TestProcessGraphOrders(t *testing.T) {
	ti := NewTaskOrderIntegrator(nil, nil)

	g := network.NewInventoryGraph()
	depot := network.NewInventoryNode("depot_1", "Front Depot")
	depot.Status = domain.NodeCritical
	depot.UpdateInventory(map[string]float64{"rifle": 5})
	depot.SetDelta(map[string]float64{"rifle": 45})
	g.AddNode(depot)

	tasks := ti.ProcessGraphOrders(g)
	require.Len(t, tasks, 1)

	task := tasks[0]
	assert.Equal(t, "task_000001", task.ID)
	assert.Equal(t, "supply", task.Type)
	assert.Equal(t, "Supply rifle for Front Depot", task.Name)
	assert.Equal(t, "depot_1", task.Metadata["source_node_id"])
	assert.Equal(t, true, task.Metadata["order_driven"])

	order := ti.Orders().Get("order_000001")
	require.NotNil(t, order)
	assert.Equal(t, 45.0, order.Quantity)
	assert.InDelta(t, 2.8, order.Urgency, 1e-9, "45 short against 5 in stock")
	assert.Equal(t, domain.OrderAssigned, order.Status)
	assert.Equal(t, task.ID, order.AssignedTaskID)
	assert.True(t, task.BoundOrders[order.ID])

	// Order urgency carries into the task's base priority.
	assert.InDelta(t, 1.4, task.BasePriority, 1e-9)

	// Re-scanning the same graph creates nothing new.
	assert.Empty(t, ti.ProcessGraphOrders(g))
}

func TestOrderBindingCap(t *testing.T) {
	ti := NewTaskOrderIntegrator(nil, nil)

	var tasks []*domain.Task
	for i := 1; i <= 6; i++ {
		order := domain.NewOrder(fmt.Sprintf("order_%06d", i), domain.OrderSupply, "shells", 10, "depot_1", 1.0)
		ti.Orders().Add(order)
		task := ti.assignOrderToTask(order)
		require.NotNil(t, task)
		tasks = append(tasks, task)
	}

	// The first five share one task; the sixth spills into a new one.
	first := tasks[0]
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.ID, tasks[i].ID)
	}
	assert.NotEqual(t, first.ID, tasks[5].ID)
	assert.Equal(t, MaxOrdersPerTask, first.OrderCount())
	assert.Equal(t, 1, tasks[5].OrderCount())

	// A direct bind against the full task is rejected without side effects.
	extra := domain.NewOrder("order_000099", domain.OrderSupply, "shells", 10, "depot_1", 1.0)
	assert.False(t, ti.linkOrderToTask(extra, first))
	assert.Equal(t, domain.OrderPending, extra.Status)
	assert.Equal(t, MaxOrdersPerTask, first.OrderCount())
}

func TestOrderTaskCompatibility(t *testing.T) {
	ti := NewTaskOrderIntegrator(nil, nil)

	supplyTask := testutil.NewTestTask("Manual Supply Run",
		testutil.WithTaskType("supply"),
		testutil.WithTaskMetadata("source_node_id", "factory_1"),
	)
	ti.Calculator().AddTask(supplyTask)

	// Production orders never ride a supply task; they get their own.
	prodOrder := testutil.NewTestOrder("shirt", 10, "factory_1",
		testutil.WithOrderType(domain.OrderProduction),
	)
	ti.Orders().Add(prodOrder)
	prodTask := ti.assignOrderToTask(prodOrder)
	require.NotNil(t, prodTask)
	assert.NotEqual(t, supplyTask.ID, prodTask.ID)
	assert.Equal(t, "production", prodTask.Type)

	// Transport orders may.
	transportOrder := testutil.NewTestOrder("shirt", 10, "factory_1",
		testutil.WithOrderType(domain.OrderTransport),
	)
	ti.Orders().Add(transportOrder)
	bound := ti.assignOrderToTask(transportOrder)
	require.NotNil(t, bound)
	assert.Equal(t, supplyTask.ID, bound.ID)

	// Refill orders ride supply tasks too.
	refillOrder := testutil.NewTestOrder("shirt", 5, "factory_1",
		testutil.WithOrderType(domain.OrderRefill),
	)
	ti.Orders().Add(refillOrder)
	bound = ti.assignOrderToTask(refillOrder)
	require.NotNil(t, bound)
	assert.Equal(t, supplyTask.ID, bound.ID)
}

func TestCompleteOrderFoldsDownTask(t *testing.T) {
	ti := NewTaskOrderIntegrator(nil, nil)

	order := domain.NewOrder("order_000001", domain.OrderSupply, "rifle", 50, "depot_1", 1.0)
	ti.Orders().Add(order)
	task := ti.assignOrderToTask(order)
	require.NotNil(t, task)

	assert.False(t, ti.CompleteOrder("ghost"))

	require.True(t, ti.CompleteOrder("order_000001"))
	assert.Equal(t, domain.OrderCompleted, order.Status)
	assert.Equal(t, 0, task.OrderCount())
	assert.Equal(t, domain.TaskCompleted, task.Status, "a task with no remaining orders completes")
}

func TestCompleteOrderKeepsTaskWithRemainingOrders(t *testing.T) {
	ti := NewTaskOrderIntegrator(nil, nil)

	o1 := domain.NewOrder("order_000001", domain.OrderSupply, "rifle", 50, "depot_1", 1.0)
	o2 := domain.NewOrder("order_000002", domain.OrderSupply, "ammo", 100, "depot_1", 1.0)
	ti.Orders().Add(o1)
	ti.Orders().Add(o2)
	task := ti.assignOrderToTask(o1)
	require.Equal(t, task, ti.assignOrderToTask(o2))

	require.True(t, ti.CompleteOrder("order_000001"))
	assert.Equal(t, 1, task.OrderCount())
	assert.Equal(t, domain.TaskPending, task.Status)
}

func TestCancelOrder(t *testing.T) {
	ti := NewTaskOrderIntegrator(nil, nil)

	order := domain.NewOrder("order_000001", domain.OrderSupply, "rifle", 50, "depot_1", 1.0)
	ti.Orders().Add(order)
	task := ti.assignOrderToTask(order)
	require.NotNil(t, task)

	require.True(t, ti.CancelOrder("order_000001", "front line moved"))
	assert.Equal(t, domain.OrderCancelled, order.Status)
	assert.Equal(t, "front line moved", order.Metadata["cancellation_reason"])
	assert.Equal(t, domain.TaskCancelled, task.Status)
	assert.Equal(t, "All orders cancelled: front line moved", task.Metadata["cancellation_reason"])
}

func TestPriorityWithOrders(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ti := NewTaskOrderIntegrator(scheduler.NewCalculator(scheduler.WithClock(fixedClock(now))), nil)

	task := testutil.NewTestTask("Supply Rifles",
		testutil.WithTaskType("supply"),
		testutil.WithBasePriority(2.0),
	)
	ti.Calculator().AddTask(task)

	order := testutil.NewTestOrder("rifle", 50, "depot_1",
		testutil.WithUrgency(5.0),
		testutil.WithCreatedAt(now),
	)
	ti.Orders().Add(order)
	require.True(t, ti.linkOrderToTask(order, task))

	score, details := ti.PriorityWithOrders(task.ID)
	assert.InDelta(t, 7.0, score, 1e-9, "base 2.0 plus urgency 5.0 at age multiplier 1.0")
	assert.InDelta(t, 5.0, details.OrderUrgencyBonus, 1e-9)
	require.Len(t, details.BoundOrders, 1)
	assert.Equal(t, order.ID, details.BoundOrders[0].OrderID)
	assert.InDelta(t, 1.0, details.BoundOrders[0].AgeMultiplier, 1e-9)

	// An aged order contributes more.
	order.CreatedAt = now.Add(-10 * time.Hour)
	score, details = ti.PriorityWithOrders(task.ID)
	assert.InDelta(t, 9.5, score, 1e-9, "age multiplier 1.5 after ten hours")
	assert.InDelta(t, 7.5, details.OrderUrgencyBonus, 1e-9)
}

func TestPriorityWithOrders_UnknownTask(t *testing.T) {
	ti := NewTaskOrderIntegrator(nil, nil)

	score, details := ti.PriorityWithOrders("ghost")
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "task not found", details.Err)
	assert.Zero(t, details.OrderUrgencyBonus)
}

func TestRankingsWithOrders(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ti := NewTaskOrderIntegrator(scheduler.NewCalculator(scheduler.WithClock(fixedClock(now))), nil)

	urgent := domain.NewTask("task_a", "Urgent Supply", "supply", 1.0)
	quiet := domain.NewTask("task_b", "Quiet Production", "production", 3.0)
	ti.Calculator().AddTask(urgent)
	ti.Calculator().AddTask(quiet)

	order := domain.NewOrder("order_000001", domain.OrderSupply, "rifle", 50, "depot_1", 5.0)
	order.CreatedAt = now
	ti.Orders().Add(order)
	require.True(t, ti.linkOrderToTask(order, urgent))

	rankings := ti.RankingsWithOrders(0)
	require.Len(t, rankings, 2)
	assert.Equal(t, "task_a", rankings[0].TaskID, "demand outranks a higher base priority")
	assert.InDelta(t, 6.0, rankings[0].Score, 1e-9)
	assert.InDelta(t, 3.0, rankings[1].Score, 1e-9)

	top := ti.RankingsWithOrders(1)
	require.Len(t, top, 1)
	assert.Equal(t, "task_a", top[0].TaskID)
}

func TestIntegrationSummary(t *testing.T) {
	ti := NewTaskOrderIntegrator(nil, nil)

	g := network.NewInventoryGraph()
	depot := network.NewInventoryNode("depot_1", "Front Depot")
	depot.SetDelta(map[string]float64{"rifle": 45})
	g.AddNode(depot)
	ti.ProcessGraphOrders(g)

	s := ti.IntegrationSummary()
	assert.Equal(t, 1, s.TotalTasks)
	assert.Equal(t, 1, s.OrderDrivenTasks)
	assert.Equal(t, 1, s.TotalOrders)
	assert.Equal(t, 1, s.AssignedOrders)
	assert.Equal(t, 0, s.UnassignedOrders)
	assert.Equal(t, 1.0, s.AssignmentEfficiency)
	assert.Equal(t, 1, s.TaskStatusBreakdown[domain.TaskPending])
	assert.Equal(t, 1, s.Orders.StatusBreakdown[domain.OrderAssigned])
}
