package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/quartermaster/internal/domain"
	"github.com/alexanderramin/quartermaster/internal/recipe"
	"github.com/alexanderramin/quartermaster/internal/service"
)

// FormatResolution renders a base-material resolution for a terminal.
func FormatResolution(item string, amount float64, res recipe.Resolution) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s x%g", item, amount)))
	b.WriteString("\n\n")

	if res.Using != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Recipe:"), res.Using))
		b.WriteString(fmt.Sprintf("%s %d x %.1fs (%.0f/cycle)\n",
			Dim("Cycles:"), res.Cycles, res.CycleTime, res.OutputPerCycle))
		b.WriteString(fmt.Sprintf("%s %.1fs\n", Dim("Total time:"), res.TotalTime))
	}

	if len(res.Materials) > 0 {
		b.WriteString("\n")
		b.WriteString(Bold("Base materials"))
		b.WriteString("\n")
		for _, name := range sortedKeys(res.Materials) {
			b.WriteString(fmt.Sprintf("  %-24s %s\n", name, StyleGreen.Render(fmt.Sprintf("%.0f", res.Materials[name]))))
		}
	}

	if len(res.Byproducts) > 0 {
		b.WriteString("\n")
		b.WriteString(Bold("Surplus byproducts"))
		b.WriteString("\n")
		for _, name := range sortedKeys(res.Byproducts) {
			b.WriteString(fmt.Sprintf("  %-24s %s\n", name, StyleBlue.Render(fmt.Sprintf("%.0f", res.Byproducts[name]))))
		}
	}

	if len(res.Truncated) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleYellow.Render(fmt.Sprintf("⚠ dependency cycle cut short at: %s", strings.Join(res.Truncated, ", "))))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRecommendations renders ranked task recommendations as a table.
func FormatRecommendations(recs []service.Recommendation) string {
	if len(recs) == 0 {
		return Dim("No tasks to recommend.") + "\n"
	}
	headers := []string{"#", "NODE", "TASK", "STATUS", "SCORE", "BLOCKING", "MAX WAIT"}
	rows := make([][]string, 0, len(recs))
	for i, rec := range recs {
		score := StyleGreen.Render(fmt.Sprintf("%.2f", rec.Score))
		if rec.Details.BlockedCount > 0 {
			score = StyleRed.Render(fmt.Sprintf("%.2f", rec.Score))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			rec.NodeID,
			rec.TaskName,
			TaskStatusColor(rec.Status).Render(string(rec.Status)),
			score,
			fmt.Sprintf("%d", rec.Details.BlockedCount),
			fmt.Sprintf("%.1fh", rec.Details.MaxBlockedHours),
		})
	}
	return Header("Priority recommendations") + "\n\n" + RenderTable(headers, rows)
}

// FormatIntegrationSummary renders the task/order binding summary.
func FormatIntegrationSummary(s service.IntegrationSummary) string {
	var b strings.Builder
	b.WriteString(Header("Order integration"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %d (%d order-driven)\n", Dim("Tasks:"), s.TotalTasks, s.OrderDrivenTasks))
	b.WriteString(fmt.Sprintf("%s %d total, %d assigned, %d unassigned\n",
		Dim("Orders:"), s.TotalOrders, s.AssignedOrders, s.UnassignedOrders))
	b.WriteString(fmt.Sprintf("%s %.0f%%\n", Dim("Assignment:"), s.AssignmentEfficiency*100))

	if len(s.TaskStatusBreakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(Bold("Tasks by status"))
		b.WriteString("\n")
		statuses := make([]string, 0, len(s.TaskStatusBreakdown))
		for st := range s.TaskStatusBreakdown {
			statuses = append(statuses, string(st))
		}
		sort.Strings(statuses)
		for _, st := range statuses {
			count := s.TaskStatusBreakdown[domain.TaskStatus(st)]
			b.WriteString(fmt.Sprintf("  %-14s %d\n", st, count))
		}
	}
	if len(s.Orders.TypeBreakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(Bold("Orders by type"))
		b.WriteString("\n")
		types := make([]string, 0, len(s.Orders.TypeBreakdown))
		for ot := range s.Orders.TypeBreakdown {
			types = append(types, string(ot))
		}
		sort.Strings(types)
		for _, ot := range types {
			b.WriteString(fmt.Sprintf("  %-14s %d\n", ot, s.Orders.TypeBreakdown[domain.OrderType(ot)]))
		}
	}
	return b.String()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
