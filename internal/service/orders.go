package service

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/quartermaster/internal/domain"
)

// OrderSummary aggregates the current order book by status and type.
type OrderSummary struct {
	TotalOrders     int
	PendingOrders   int
	StatusBreakdown map[domain.OrderStatus]int
	TypeBreakdown   map[domain.OrderType]int
}

// OrderManager is the in-memory order book: it collects orders from
// inventory deficits and answers queries by type, item, and node. Orders
// are kept in creation order.
type OrderManager struct {
	orders      map[string]*domain.Order
	insertion   []string
	nextOrderID int
}

// NewOrderManager creates an empty order book.
func NewOrderManager() *OrderManager {
	return &OrderManager{
		orders:      make(map[string]*domain.Order),
		nextOrderID: 1,
	}
}

// GenerateOrderID issues the next sequential order id.
func (m *OrderManager) GenerateOrderID() string {
	id := fmt.Sprintf("order_%06d", m.nextOrderID)
	m.nextOrderID++
	return id
}

// Add registers an order under its id.
func (m *OrderManager) Add(o *domain.Order) {
	if _, exists := m.orders[o.ID]; !exists {
		m.insertion = append(m.insertion, o.ID)
	}
	m.orders[o.ID] = o
}

// Get returns the order with the given id, or nil.
func (m *OrderManager) Get(id string) *domain.Order {
	return m.orders[id]
}

// OrderCount returns the number of registered orders.
func (m *OrderManager) OrderCount() int {
	return len(m.orders)
}

// CollectFromInventoryGraph creates one supply order per (node, item) with
// a positive delta, skipping pairs that already have an open order. Urgency
// reflects how close the node's stock is to exhaustion relative to the
// shortfall.
func (m *OrderManager) CollectFromInventoryGraph(graph InventoryView) []*domain.Order {
	var created []*domain.Order

	for _, node := range graph.InventoryNodes() {
		for _, item := range sortedItemKeys(node.Delta) {
			deficit := node.Delta[item]
			if deficit <= 0 {
				continue
			}
			if m.hasOpenOrder(node.ID, item) {
				continue
			}

			order := domain.NewOrder(
				m.GenerateOrderID(),
				domain.OrderSupply,
				item,
				deficit,
				node.ID,
				domain.UrgencyFromShortfall(node.Inventory[item], deficit),
			)
			order.Metadata["source_location"] = node.Name
			m.Add(order)
			created = append(created, order)
		}
	}

	return created
}

// hasOpenOrder reports whether a non-terminal order already exists for the
// given node and item, so repeated graph scans do not duplicate demand.
func (m *OrderManager) hasOpenOrder(nodeID, item string) bool {
	for _, id := range m.insertion {
		o := m.orders[id]
		if o.SourceNodeID == nodeID && o.ItemType == item && !o.Status.Terminal() {
			return true
		}
	}
	return false
}

// OrdersByType returns all orders of the given type, in creation order.
func (m *OrderManager) OrdersByType(orderType domain.OrderType) []*domain.Order {
	return m.filter(func(o *domain.Order) bool { return o.Type == orderType })
}

// OrdersByItem returns all orders for the given item, in creation order.
func (m *OrderManager) OrdersByItem(item string) []*domain.Order {
	return m.filter(func(o *domain.Order) bool { return o.ItemType == item })
}

// OrdersByNode returns all orders sourced at the given node, in creation
// order.
func (m *OrderManager) OrdersByNode(nodeID string) []*domain.Order {
	return m.filter(func(o *domain.Order) bool { return o.SourceNodeID == nodeID })
}

// PendingOrders returns all orders still awaiting assignment.
func (m *OrderManager) PendingOrders() []*domain.Order {
	return m.filter(func(o *domain.Order) bool { return o.Status == domain.OrderPending })
}

func (m *OrderManager) filter(keep func(*domain.Order) bool) []*domain.Order {
	var out []*domain.Order
	for _, id := range m.insertion {
		if o := m.orders[id]; keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// sortedItemKeys returns map keys in lexicographic order so graph scans
// produce orders deterministically.
func sortedItemKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summary aggregates the order book by status and type.
func (m *OrderManager) Summary() OrderSummary {
	s := OrderSummary{
		TotalOrders:     len(m.orders),
		StatusBreakdown: make(map[domain.OrderStatus]int),
		TypeBreakdown:   make(map[domain.OrderType]int),
	}
	for _, o := range m.orders {
		s.StatusBreakdown[o.Status]++
		s.TypeBreakdown[o.Type]++
		if o.Status == domain.OrderPending {
			s.PendingOrders++
		}
	}
	return s
}
