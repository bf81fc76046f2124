package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work in the logistics network: a production step, a
// transport run, or a supply action. Tasks reference each other by ID through
// the owning calculator's registry, never by pointer, which keeps cyclic
// dependency graphs safe to represent.
type Task struct {
	ID           string
	Name         string
	Type         string // free-form tag, e.g. "production", "transport", "supply"
	Status       TaskStatus
	BasePriority float64
	CreatedAt    time.Time
	BlockedSince *time.Time

	// Dependency references by task ID. Upstream tasks feed this task;
	// downstream tasks depend on it.
	UpstreamDependencies map[string]bool
	DownstreamDependents map[string]bool

	// Orders currently bound to this task, by order ID.
	BoundOrders map[string]bool

	Metadata map[string]any
}

// NewTask creates a pending task. If id is empty a random one is generated.
func NewTask(id, name, taskType string, basePriority float64) *Task {
	if id == "" {
		id = uuid.New().String()
	}
	return &Task{
		ID:                   id,
		Name:                 name,
		Type:                 taskType,
		Status:               TaskPending,
		BasePriority:         basePriority,
		CreatedAt:            time.Now().UTC(),
		UpstreamDependencies: make(map[string]bool),
		DownstreamDependents: make(map[string]bool),
		BoundOrders:          make(map[string]bool),
		Metadata:             make(map[string]any),
	}
}

// MarkBlocked transitions the task to blocked and records when. Idempotent:
// a repeated call does not reset the timestamp.
func (t *Task) MarkBlocked() {
	if t.Status == TaskBlocked || t.Status.Terminal() {
		return
	}
	t.Status = TaskBlocked
	now := time.Now().UTC()
	t.BlockedSince = &now
}

// MarkUnblocked returns a blocked task to pending and clears the timestamp.
func (t *Task) MarkUnblocked() {
	if t.Status != TaskBlocked {
		return
	}
	t.Status = TaskPending
	t.BlockedSince = nil
}

// MarkCompleted moves an active task to the terminal completed state.
// Returns false if the task is already terminal.
func (t *Task) MarkCompleted() bool {
	if t.Status.Terminal() {
		return false
	}
	t.Status = TaskCompleted
	t.BlockedSince = nil
	return true
}

// MarkCancelled moves an active task to the terminal cancelled state,
// recording the reason in metadata when given.
func (t *Task) MarkCancelled(reason string) bool {
	if t.Status.Terminal() {
		return false
	}
	t.Status = TaskCancelled
	t.BlockedSince = nil
	if reason != "" {
		t.Metadata["cancellation_reason"] = reason
	}
	return true
}

// BlockedDurationHours returns how long the task has been blocked as of now,
// in hours. Zero if the task is not blocked.
func (t *Task) BlockedDurationHours(now time.Time) float64 {
	if t.BlockedSince == nil {
		return 0
	}
	return now.Sub(*t.BlockedSince).Hours()
}

// BindOrder records an order as bound to this task.
func (t *Task) BindOrder(orderID string) {
	t.BoundOrders[orderID] = true
}

// UnbindOrder removes an order binding.
func (t *Task) UnbindOrder(orderID string) {
	delete(t.BoundOrders, orderID)
}

// OrderCount returns the number of orders currently bound.
func (t *Task) OrderCount() int {
	return len(t.BoundOrders)
}
