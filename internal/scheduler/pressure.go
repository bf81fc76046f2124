package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alexanderramin/quartermaster/internal/domain"
)

// BlockedTaskDetail is the per-task breakdown of a pressure calculation.
type BlockedTaskDetail struct {
	TaskID       string
	Name         string
	Weight       float64
	BlockedHours float64
}

// Details explains how a pressure score was derived. Every field a report
// needs is carried here so presentation layers never re-run the algorithm.
type Details struct {
	// Err is a non-empty marker when the task could not be scored, e.g.
	// "task not found". Lookups never panic; callers probe optimistically.
	Err string

	BlockedCount    int
	TotalWeight     float64
	TimeMultiplier  float64
	MaxBlockedHours float64
	BasePriority    float64
	BlockedTasks    []BlockedTaskDetail
	Formula         string
}

// Ranking pairs a task with its computed pressure score.
type Ranking struct {
	TaskID  string
	Score   float64
	Details Details
}

// FindUpstreamBlocked walks the upstream dependency graph depth-first and
// returns every reachable task that is currently blocked, including the
// starting task itself. The shared visited set guarantees termination on
// cyclic graphs: no task is entered twice, so each blocked task contributes
// exactly once even through diamond-shaped dependencies.
func (c *Calculator) FindUpstreamBlocked(taskID string) []*domain.Task {
	visited := make(map[string]bool)
	return c.findUpstreamBlocked(taskID, visited)
}

func (c *Calculator) findUpstreamBlocked(taskID string, visited map[string]bool) []*domain.Task {
	if visited[taskID] {
		return nil
	}
	task := c.tasks[taskID]
	if task == nil {
		return nil
	}
	visited[taskID] = true

	var blocked []*domain.Task
	if task.Status == domain.TaskBlocked {
		blocked = append(blocked, task)
	}

	// Dependency iteration is sorted so score breakdowns are deterministic.
	deps := make([]string, 0, len(task.UpstreamDependencies))
	for dep := range task.UpstreamDependencies {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	for _, dep := range deps {
		blocked = append(blocked, c.findUpstreamBlocked(dep, visited)...)
	}
	return blocked
}

// TimePressureMultiplier converts a blocked duration in hours into a
// pressure multiplier: 1.0 at or below zero, exponential growth above,
// capped at the configured maximum.
func (c *Calculator) TimePressureMultiplier(blockedHours float64) float64 {
	if blockedHours <= 0 {
		return 1.0
	}
	m := 1.0 + (math.Exp(blockedHours*c.timePressureFactor) - 1.0)
	return math.Min(m, c.maxTimeMultiplier)
}

// CalculatePressure computes the pressure score for a task.
//
// With no blocked upstream tasks the score is the task's own base priority.
// Otherwise the blocked tasks' base priorities are summed (the "volume"),
// multiplied by the time pressure of the longest-standing blockage, and
// added to the task's base priority:
//
//	score = sum(blocked weights) * timeMultiplier + basePriority
//
// Auxiliary algorithms, when configured, fold the raw score into a weighted
// average. An unknown task ID yields a zero score with Details.Err set.
func (c *Calculator) CalculatePressure(taskID string) (float64, Details) {
	task := c.tasks[taskID]
	if task == nil {
		return 0, Details{Err: "task not found", TimeMultiplier: 1.0}
	}

	blocked := c.FindUpstreamBlocked(taskID)
	now := c.now()

	if len(blocked) == 0 {
		score := c.blendAux(task.BasePriority, taskID)
		return score, Details{
			BlockedCount:   0,
			TotalWeight:    task.BasePriority,
			TimeMultiplier: 1.0,
			BasePriority:   task.BasePriority,
		}
	}

	var totalWeight, maxBlockedHours float64
	breakdown := make([]BlockedTaskDetail, 0, len(blocked))
	for _, bt := range blocked {
		hours := bt.BlockedDurationHours(now)
		totalWeight += bt.BasePriority
		if hours > maxBlockedHours {
			maxBlockedHours = hours
		}
		breakdown = append(breakdown, BlockedTaskDetail{
			TaskID:       bt.ID,
			Name:         bt.Name,
			Weight:       bt.BasePriority,
			BlockedHours: hours,
		})
	}

	timeMultiplier := c.TimePressureMultiplier(maxBlockedHours)
	score := totalWeight*timeMultiplier + task.BasePriority
	score = c.blendAux(score, taskID)

	return score, Details{
		BlockedCount:    len(blocked),
		TotalWeight:     totalWeight,
		TimeMultiplier:  timeMultiplier,
		MaxBlockedHours: maxBlockedHours,
		BasePriority:    task.BasePriority,
		BlockedTasks:    breakdown,
		Formula:         fmt.Sprintf("(%.2f * %.2f) + %.2f", totalWeight, timeMultiplier, task.BasePriority),
	}
}

// blendAux folds auxiliary algorithm scores into a weighted average with the
// raw score. With no algorithms configured it returns the raw score.
func (c *Calculator) blendAux(raw float64, taskID string) float64 {
	if len(c.aux) == 0 {
		return raw
	}
	weightedSum := raw
	totalWeight := 1.0
	for _, a := range c.aux {
		weightedSum += a.Score(taskID) * a.Weight
		totalWeight += a.Weight
	}
	return weightedSum / totalWeight
}

// Rankings computes pressure for the requested task IDs (all registered
// tasks when ids is nil) and sorts descending by score. The sort is stable:
// ties keep their request or registration order, which is the documented
// tie-break.
func (c *Calculator) Rankings(ids []string) []Ranking {
	if ids == nil {
		ids = c.insertion
	}
	rankings := make([]Ranking, 0, len(ids))
	for _, id := range ids {
		score, details := c.CalculatePressure(id)
		rankings = append(rankings, Ranking{TaskID: id, Score: score, Details: details})
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})
	return rankings
}

// DescribeAnalysis renders a plain-text breakdown of a task's pressure
// calculation, suitable for any presentation sink.
func (c *Calculator) DescribeAnalysis(taskID string) string {
	score, details := c.CalculatePressure(taskID)
	task := c.tasks[taskID]

	var b strings.Builder
	b.WriteString("=== Pressure Priority Analysis ===\n")
	if task == nil {
		fmt.Fprintf(&b, "Task %s not found\n", taskID)
		return b.String()
	}

	fmt.Fprintf(&b, "Task: %s (%s)\n", task.Name, task.ID)
	fmt.Fprintf(&b, "Status: %s\n", task.Status)
	fmt.Fprintf(&b, "Final Priority Score: %.2f\n\n", score)
	b.WriteString("Calculation Details:\n")
	fmt.Fprintf(&b, "  Base Priority: %.2f\n", details.BasePriority)
	fmt.Fprintf(&b, "  Blocked Tasks Count: %d\n", details.BlockedCount)
	fmt.Fprintf(&b, "  Total Blocked Weight: %.2f\n", details.TotalWeight)
	fmt.Fprintf(&b, "  Time Multiplier: %.2f\n", details.TimeMultiplier)
	fmt.Fprintf(&b, "  Max Blocked Duration: %.1f hours\n", details.MaxBlockedHours)
	if details.Formula != "" {
		fmt.Fprintf(&b, "  Formula: %s\n", details.Formula)
	}

	if len(details.BlockedTasks) > 0 {
		b.WriteString("\nBlocked Upstream Tasks:\n")
		for _, bt := range details.BlockedTasks {
			fmt.Fprintf(&b, "  - %s (%s): weight=%.2f, blocked=%.1fh\n", bt.Name, bt.TaskID, bt.Weight, bt.BlockedHours)
		}
	}
	b.WriteString(strings.Repeat("=", 40) + "\n")
	return b.String()
}
