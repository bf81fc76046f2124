package domain

import "time"

// Order is a demand record observed from an inventory deficit: some node
// needs a quantity of an item. An order is bound to at most one task at a
// time; AssignedTaskID is empty while unbound.
type Order struct {
	ID             string
	Type           OrderType
	ItemType       string
	Quantity       float64
	SourceNodeID   string
	Status         OrderStatus
	Urgency        float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AssignedTaskID string
	Metadata       map[string]any
}

// NewOrder creates a pending order with the given urgency.
func NewOrder(id string, orderType OrderType, itemType string, quantity float64, sourceNodeID string, urgency float64) *Order {
	now := time.Now().UTC()
	if urgency <= 0 {
		urgency = 1.0
	}
	return &Order{
		ID:           id,
		Type:         orderType,
		ItemType:     itemType,
		Quantity:     quantity,
		SourceNodeID: sourceNodeID,
		Status:       OrderPending,
		Urgency:      urgency,
		CreatedAt:    now,
		UpdatedAt:    now,
		Metadata:     make(map[string]any),
	}
}

// AssignToTask binds the order to a task. Returns false if the order is
// terminal or already assigned elsewhere.
func (o *Order) AssignToTask(taskID string) bool {
	if o.Status.Terminal() || o.AssignedTaskID != "" {
		return false
	}
	o.AssignedTaskID = taskID
	o.Status = OrderAssigned
	o.UpdatedAt = time.Now().UTC()
	return true
}

// MarkInProgress transitions an assigned order to in-progress.
func (o *Order) MarkInProgress() bool {
	if o.Status != OrderAssigned {
		return false
	}
	o.Status = OrderInProgress
	o.UpdatedAt = time.Now().UTC()
	return true
}

// MarkCompleted moves the order to the terminal completed state and detaches
// it from its task.
func (o *Order) MarkCompleted() bool {
	if o.Status.Terminal() {
		return false
	}
	o.Status = OrderCompleted
	o.AssignedTaskID = ""
	o.UpdatedAt = time.Now().UTC()
	return true
}

// MarkCancelled moves the order to the terminal cancelled state, recording
// the reason in metadata when given.
func (o *Order) MarkCancelled(reason string) bool {
	if o.Status.Terminal() {
		return false
	}
	o.Status = OrderCancelled
	o.AssignedTaskID = ""
	o.UpdatedAt = time.Now().UTC()
	if reason != "" {
		o.Metadata["cancellation_reason"] = reason
	}
	return true
}

// Detach unbinds the order from its task without changing terminal status.
// An active order returns to pending.
func (o *Order) Detach() {
	o.AssignedTaskID = ""
	if !o.Status.Terminal() {
		o.Status = OrderPending
		o.UpdatedAt = time.Now().UTC()
	}
}

// AgeMultiplier returns the time-based urgency multiplier for the order:
// urgency grows linearly with age and is capped at 2x.
func (o *Order) AgeMultiplier(now time.Time) float64 {
	ageHours := now.Sub(o.CreatedAt).Hours()
	if ageHours <= 0 {
		return 1.0
	}
	m := 1.0 + ageHours*0.05
	if m > 2.0 {
		return 2.0
	}
	return m
}

// UrgencyFromShortfall computes order urgency from the severity of an
// inventory deficit. A deficit with near-zero current stock approaches the
// maximum; no deficit yields the baseline 1.0.
func UrgencyFromShortfall(currentInventory, deficit float64) float64 {
	if deficit <= 0 {
		return 1.0
	}
	if currentInventory < 0 {
		currentInventory = 0
	}
	severity := deficit / (currentInventory + deficit)
	return 1.0 + 2.0*severity
}
