// Package scheduler implements the pressure-based priority engine for
// logistics tasks. The model borrows a fluid-dynamics analogy: blocked
// upstream tasks build "pressure" behind a bottleneck, and the longer the
// blockage holds the higher the pressure climbs, up to a cap.
package scheduler

import (
	"time"

	"github.com/alexanderramin/quartermaster/internal/domain"
)

const (
	// DefaultTimePressureFactor is the per-hour exponent applied to blocked
	// duration; at this rate the multiplier saturates after roughly five days.
	DefaultTimePressureFactor = 0.035

	// DefaultMaxTimeMultiplier caps time-driven pressure growth.
	DefaultMaxTimeMultiplier = 5.0
)

// AuxAlgorithm is a caller-supplied scoring function blended into the final
// pressure score as a weighted average. This is an extension point; the core
// formula does not depend on it.
type AuxAlgorithm struct {
	Name   string
	Weight float64
	Score  func(taskID string) float64
}

// Calculator owns a registry of tasks and computes pressure scores over
// their dependency graph. It is not safe for concurrent use; a concurrent
// host must serialize access.
type Calculator struct {
	timePressureFactor float64
	maxTimeMultiplier  float64
	basePriorityWeight float64
	aux                []AuxAlgorithm

	tasks     map[string]*domain.Task
	insertion []string // task IDs in registration order, for stable rankings

	now func() time.Time
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithTimePressureFactor sets the per-hour decay-rate constant.
func WithTimePressureFactor(f float64) Option {
	return func(c *Calculator) { c.timePressureFactor = f }
}

// WithMaxTimeMultiplier sets the cap on the time pressure multiplier.
func WithMaxTimeMultiplier(m float64) Option {
	return func(c *Calculator) { c.maxTimeMultiplier = m }
}

// WithBasePriorityWeight sets the default weight for task base priorities.
func WithBasePriorityWeight(w float64) Option {
	return func(c *Calculator) { c.basePriorityWeight = w }
}

// WithAuxAlgorithm registers an auxiliary scoring algorithm.
func WithAuxAlgorithm(a AuxAlgorithm) Option {
	return func(c *Calculator) { c.aux = append(c.aux, a) }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// NewCalculator creates a calculator with an empty task registry.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		timePressureFactor: DefaultTimePressureFactor,
		maxTimeMultiplier:  DefaultMaxTimeMultiplier,
		basePriorityWeight: 1.0,
		tasks:              make(map[string]*domain.Task),
		now:                func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddTask registers a task. Re-adding an ID replaces the task but keeps its
// original position in the insertion order.
func (c *Calculator) AddTask(t *domain.Task) {
	if _, exists := c.tasks[t.ID]; !exists {
		c.insertion = append(c.insertion, t.ID)
	}
	c.tasks[t.ID] = t
}

// RemoveTask drops a task from the registry. Dependency references held by
// other tasks simply stop resolving; they are IDs, not pointers.
func (c *Calculator) RemoveTask(id string) {
	if _, exists := c.tasks[id]; !exists {
		return
	}
	delete(c.tasks, id)
	for i, tid := range c.insertion {
		if tid == id {
			c.insertion = append(c.insertion[:i], c.insertion[i+1:]...)
			break
		}
	}
}

// GetTask returns the registered task, or nil if the ID is unknown.
func (c *Calculator) GetTask(id string) *domain.Task {
	return c.tasks[id]
}

// Link wires a dependency edge: upstream feeds downstream. Both IDs must be
// registered; returns false otherwise.
func (c *Calculator) Link(upstreamID, downstreamID string) bool {
	up := c.tasks[upstreamID]
	down := c.tasks[downstreamID]
	if up == nil || down == nil {
		return false
	}
	down.UpstreamDependencies[upstreamID] = true
	up.DownstreamDependents[downstreamID] = true
	return true
}

// TaskIDs returns all registered task IDs in insertion order.
func (c *Calculator) TaskIDs() []string {
	ids := make([]string, len(c.insertion))
	copy(ids, c.insertion)
	return ids
}

// TaskCount returns the number of registered tasks.
func (c *Calculator) TaskCount() int {
	return len(c.tasks)
}

// BlockedTasks returns all currently blocked tasks in insertion order.
func (c *Calculator) BlockedTasks() []*domain.Task {
	var blocked []*domain.Task
	for _, id := range c.insertion {
		if t := c.tasks[id]; t != nil && t.Status == domain.TaskBlocked {
			blocked = append(blocked, t)
		}
	}
	return blocked
}

// Now returns the calculator's current time.
func (c *Calculator) Now() time.Time {
	return c.now()
}
