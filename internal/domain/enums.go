package domain

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskBlocked    TaskStatus = "blocked"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskCancelled  TaskStatus = "cancelled"
	TaskQueued     TaskStatus = "queued"
)

// Terminal reports whether the status permits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskCancelled || s == TaskFailed
}

// Active reports whether a task in this status is still workable.
func (s TaskStatus) Active() bool {
	return !s.Terminal()
}

type OrderType string

const (
	OrderSupply     OrderType = "supply"
	OrderProduction OrderType = "production"
	OrderTransport  OrderType = "transport"
	OrderRefill     OrderType = "refill"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderAssigned   OrderStatus = "assigned"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// Terminal reports whether the order has reached a final state.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

type NodeCategory string

const (
	CategoryResource NodeCategory = "resource"
	CategoryRefined  NodeCategory = "refined"
	CategoryMaterial NodeCategory = "material"
	CategoryProduct  NodeCategory = "product"
)

// ValidNodeCategories is the canonical set of accepted recipe node categories.
var ValidNodeCategories = map[NodeCategory]bool{
	CategoryResource: true,
	CategoryRefined:  true,
	CategoryMaterial: true,
	CategoryProduct:  true,
}

// NodeStatus is the health tag reported by external inventory graph nodes.
type NodeStatus string

const (
	NodeOK       NodeStatus = "ok"
	NodeLow      NodeStatus = "low"
	NodeCritical NodeStatus = "critical"
	NodeBlocked  NodeStatus = "blocked"
	NodeUnknown  NodeStatus = "unknown"
)
