package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/quartermaster/internal/domain"
	"github.com/alexanderramin/quartermaster/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTimePressureMultiplier(t *testing.T) {
	calc := NewCalculator(WithTimePressureFactor(0.1), WithMaxTimeMultiplier(5.0))

	assert.Equal(t, 1.0, calc.TimePressureMultiplier(0))
	assert.Equal(t, 1.0, calc.TimePressureMultiplier(-3))

	m1 := calc.TimePressureMultiplier(1)
	m5 := calc.TimePressureMultiplier(5)
	assert.Greater(t, m1, 1.0)
	assert.Greater(t, m5, m1)

	assert.Equal(t, 5.0, calc.TimePressureMultiplier(100), "long blockages saturate at the cap")
}

func TestTimePressureMultiplier_Monotonic(t *testing.T) {
	calc := NewCalculator()
	prev := 0.0
	for h := 0.0; h <= 200; h += 2.5 {
		m := calc.TimePressureMultiplier(h)
		assert.GreaterOrEqual(t, m, prev, "multiplier must be monotonic in hours")
		assert.LessOrEqual(t, m, DefaultMaxTimeMultiplier)
		prev = m
	}
}

func TestCalculatePressure_UnknownTask(t *testing.T) {
	calc := NewCalculator()

	score, details := calc.CalculatePressure("ghost")
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "task not found", details.Err)
}

func TestCalculatePressure_NoBlockedBaseline(t *testing.T) {
	calc := NewCalculator()
	calc.AddTask(domain.NewTask("t1", "Task", "production", 3.0))

	score, details := calc.CalculatePressure("t1")

	assert.Equal(t, 3.0, score, "with nothing blocked, score equals base priority")
	assert.Equal(t, 0, details.BlockedCount)
	assert.Equal(t, 3.0, details.TotalWeight)
	assert.Equal(t, 1.0, details.TimeMultiplier)
	assert.Empty(t, details.BlockedTasks)
}

func TestCalculatePressure_SingleBlockedDependency(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(WithClock(fixedClock(now)))

	blocked := testutil.NewTestTask("Blocked Task",
		testutil.WithBasePriority(2.0),
		testutil.BlockedSince(now),
	)
	target := testutil.NewTestTask("Target")
	calc.AddTask(blocked)
	calc.AddTask(target)
	require.True(t, calc.Link(blocked.ID, target.ID))

	score, details := calc.CalculatePressure(target.ID)

	// weight * multiplier + base = 2.0 * 1.0 + 1.0
	assert.InDelta(t, 3.0, score, 0.0001)
	assert.Equal(t, 1, details.BlockedCount)
	assert.Equal(t, 2.0, details.TotalWeight)
	assert.Equal(t, 1.0, details.BasePriority)
	require.Len(t, details.BlockedTasks, 1)
	assert.Equal(t, blocked.ID, details.BlockedTasks[0].TaskID)
	assert.Equal(t, "(2.00 * 1.00) + 1.00", details.Formula)
}

func TestCalculatePressure_AdditiveBlockedWeight(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(WithClock(fixedClock(now)))

	b1 := testutil.NewTestTask("Blocked 1", testutil.WithBasePriority(2.0), testutil.BlockedSince(now))
	target := testutil.NewTestTask("Target")
	calc.AddTask(b1)
	calc.AddTask(target)
	calc.Link(b1.ID, target.ID)

	single, _ := calc.CalculatePressure(target.ID)

	b2 := testutil.NewTestTask("Blocked 2", testutil.WithBasePriority(3.0), testutil.BlockedSince(now))
	calc.AddTask(b2)
	calc.Link(b2.ID, target.ID)

	double, details := calc.CalculatePressure(target.ID)

	assert.Greater(t, double, single, "a second blocked upstream strictly increases pressure")
	assert.Equal(t, 2, details.BlockedCount)
	assert.Equal(t, 5.0, details.TotalWeight)
}

func TestCalculatePressure_DeepChain(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(WithClock(fixedClock(now)))

	// blocked -> intermediate -> target
	blocked := testutil.NewTestTask("Blocked",
		testutil.WithBasePriority(2.0),
		testutil.BlockedSince(now.Add(-4*time.Hour)),
	)
	mid := testutil.NewTestTask("Intermediate", testutil.WithBasePriority(1.5))
	target := testutil.NewTestTask("Target")
	calc.AddTask(blocked)
	calc.AddTask(mid)
	calc.AddTask(target)
	calc.Link(blocked.ID, mid.ID)
	calc.Link(mid.ID, target.ID)

	score, details := calc.CalculatePressure(target.ID)

	assert.Equal(t, 1, details.BlockedCount, "blockage is felt through the chain")
	assert.InDelta(t, 4.0, details.MaxBlockedHours, 0.001)
	assert.Greater(t, score, 1.0)
}

func TestCalculatePressure_TimePressureGrowsScore(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	scoreAt := func(hours float64) float64 {
		calc := NewCalculator(WithClock(fixedClock(now)))
		blocked := testutil.NewTestTask("Blocked",
			testutil.WithBasePriority(2.0),
			testutil.BlockedSince(now.Add(-time.Duration(hours*float64(time.Hour)))),
		)
		target := testutil.NewTestTask("Target")
		calc.AddTask(blocked)
		calc.AddTask(target)
		calc.Link(blocked.ID, target.ID)
		score, _ := calc.CalculatePressure(target.ID)
		return score
	}

	assert.Greater(t, scoreAt(24), scoreAt(1), "older blockages exert more pressure")
}

func TestCalculatePressure_SelfCycle(t *testing.T) {
	calc := NewCalculator()
	task := domain.NewTask("loop", "Self Loop", "production", 2.0)
	task.UpstreamDependencies["loop"] = true
	task.MarkBlocked()
	calc.AddTask(task)

	score, details := calc.CalculatePressure("loop")

	assert.Equal(t, 1, details.BlockedCount, "the task itself counts once")
	assert.False(t, float64IsInfOrNaN(score))
}

func TestCalculatePressure_MutualCycle(t *testing.T) {
	calc := NewCalculator()
	a := domain.NewTask("a", "A", "production", 2.0)
	b := domain.NewTask("b", "B", "production", 3.0)
	a.MarkBlocked()
	b.MarkBlocked()
	calc.AddTask(a)
	calc.AddTask(b)
	calc.Link("a", "b")
	calc.Link("b", "a")

	scoreA, detailsA := calc.CalculatePressure("a")
	scoreB, detailsB := calc.CalculatePressure("b")

	assert.Equal(t, 2, detailsA.BlockedCount)
	assert.Equal(t, 2, detailsB.BlockedCount)
	assert.False(t, float64IsInfOrNaN(scoreA))
	assert.False(t, float64IsInfOrNaN(scoreB))
}

func TestFindUpstreamBlocked_DiamondCountsOnce(t *testing.T) {
	calc := NewCalculator()
	// root is blocked and reachable through both arms of a diamond.
	root := domain.NewTask("root", "Root", "production", 2.0)
	root.MarkBlocked()
	left := domain.NewTask("left", "Left", "production", 1.0)
	right := domain.NewTask("right", "Right", "production", 1.0)
	tip := domain.NewTask("tip", "Tip", "production", 1.0)
	for _, task := range []*domain.Task{root, left, right, tip} {
		calc.AddTask(task)
	}
	calc.Link("root", "left")
	calc.Link("root", "right")
	calc.Link("left", "tip")
	calc.Link("right", "tip")

	blocked := calc.FindUpstreamBlocked("tip")
	require.Len(t, blocked, 1)
	assert.Equal(t, "root", blocked[0].ID)
}

func TestRankings_SortedDescendingStable(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(WithClock(fixedClock(now)))

	low := domain.NewTask("low", "Low", "production", 1.0)
	tieA := domain.NewTask("tie_a", "Tie A", "production", 2.0)
	tieB := domain.NewTask("tie_b", "Tie B", "production", 2.0)
	high := domain.NewTask("high", "High", "production", 5.0)
	for _, task := range []*domain.Task{low, tieA, tieB, high} {
		calc.AddTask(task)
	}

	rankings := calc.Rankings(nil)

	require.Len(t, rankings, 4)
	assert.Equal(t, "high", rankings[0].TaskID)
	assert.Equal(t, "tie_a", rankings[1].TaskID, "ties keep registration order")
	assert.Equal(t, "tie_b", rankings[2].TaskID)
	assert.Equal(t, "low", rankings[3].TaskID)
}

func TestRankings_SubsetAndUnknown(t *testing.T) {
	calc := NewCalculator()
	calc.AddTask(domain.NewTask("t1", "T1", "production", 3.0))

	rankings := calc.Rankings([]string{"t1", "ghost"})

	require.Len(t, rankings, 2)
	assert.Equal(t, "t1", rankings[0].TaskID)
	assert.Equal(t, "ghost", rankings[1].TaskID)
	assert.Equal(t, 0.0, rankings[1].Score)
	assert.NotEmpty(t, rankings[1].Details.Err, "unknown tasks rank with an error marker, never abort the batch")
}

func TestCalculatePressure_AuxAlgorithms(t *testing.T) {
	aux := AuxAlgorithm{
		Name:   "distance",
		Weight: 1.0,
		Score:  func(string) float64 { return 6.0 },
	}
	calc := NewCalculator(WithAuxAlgorithm(aux))
	calc.AddTask(domain.NewTask("t1", "Task", "transport", 2.0))

	score, _ := calc.CalculatePressure("t1")

	// Weighted average: (2.0 + 6.0*1.0) / (1.0 + 1.0)
	assert.InDelta(t, 4.0, score, 0.0001)
}

func TestDescribeAnalysis(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(WithClock(fixedClock(now)))

	blocked := testutil.NewTestTask("Scrap Field",
		testutil.WithBasePriority(2.0),
		testutil.BlockedSince(now.Add(-2*time.Hour)),
	)
	target := testutil.NewTestTask("Refinery")
	calc.AddTask(blocked)
	calc.AddTask(target)
	calc.Link(blocked.ID, target.ID)

	out := calc.DescribeAnalysis(target.ID)
	assert.Contains(t, out, "Refinery")
	assert.Contains(t, out, "Blocked Tasks Count: 1")
	assert.Contains(t, out, "Scrap Field")

	missing := calc.DescribeAnalysis("ghost")
	assert.Contains(t, missing, "not found")
}

func float64IsInfOrNaN(f float64) bool {
	return f != f || f > 1e308 || f < -1e308
}
