package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/quartermaster/internal/domain"
)

var testIDCounter atomic.Int64

// Task options
type TaskOption func(*domain.Task)

func WithTaskType(t string) TaskOption {
	return func(task *domain.Task) {
		task.Type = t
	}
}

func WithBasePriority(p float64) TaskOption {
	return func(task *domain.Task) {
		task.BasePriority = p
	}
}

// BlockedSince marks the task blocked as of the given time.
func BlockedSince(since time.Time) TaskOption {
	return func(task *domain.Task) {
		task.Status = domain.TaskBlocked
		task.BlockedSince = &since
	}
}

func WithTaskMetadata(key string, value any) TaskOption {
	return func(task *domain.Task) {
		task.Metadata[key] = value
	}
}

// NewTestTask creates a pending production task with a unique id.
func NewTestTask(name string, opts ...TaskOption) *domain.Task {
	id := fmt.Sprintf("test_task_%03d", testIDCounter.Add(1))
	task := domain.NewTask(id, name, "production", 1.0)
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// Order options
type OrderOption func(*domain.Order)

func WithOrderType(t domain.OrderType) OrderOption {
	return func(o *domain.Order) {
		o.Type = t
	}
}

func WithUrgency(u float64) OrderOption {
	return func(o *domain.Order) {
		o.Urgency = u
	}
}

func WithCreatedAt(ts time.Time) OrderOption {
	return func(o *domain.Order) {
		o.CreatedAt = ts
		o.UpdatedAt = ts
	}
}

// NewTestOrder creates a pending supply order with a unique id.
func NewTestOrder(item string, quantity float64, sourceNodeID string, opts ...OrderOption) *domain.Order {
	id := fmt.Sprintf("test_order_%03d", testIDCounter.Add(1))
	order := domain.NewOrder(id, domain.OrderSupply, item, quantity, sourceNodeID, 1.0)
	for _, opt := range opts {
		opt(order)
	}
	return order
}
