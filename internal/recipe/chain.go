package recipe

import (
	"fmt"
	"math"
	"strings"
)

// DescribeProductionChain renders the full production chain for the
// requested quantity as indented plain text, one node per line, with cycle
// counts, timings, byproducts, and a closing total of base materials. It
// follows the same byproduct-ledger and cycle-guard semantics as
// ResolveBaseMaterials.
func (g *Graph) DescribeProductionChain(name string, amount float64, recipeIndex int) string {
	var b strings.Builder
	p := &chainPrinter{graph: g, out: &b, onPath: make(map[string]bool), ledger: make(map[string]float64), totals: make(map[string]float64)}
	p.describe(name, amount, recipeIndex, 0)

	if len(p.totals) > 0 {
		b.WriteString("\nTotal base materials:\n")
		for _, mat := range sortedKeys(p.totals) {
			fmt.Fprintf(&b, "  %s: %g\n", mat, p.totals[mat])
		}
	}
	leftover := false
	for _, qty := range p.ledger {
		if qty > 0 {
			leftover = true
			break
		}
	}
	if leftover {
		b.WriteString("\nByproducts:\n")
		for _, item := range sortedKeys(p.ledger) {
			if p.ledger[item] > 0 {
				fmt.Fprintf(&b, "  %s: %g\n", item, p.ledger[item])
			}
		}
	}
	return b.String()
}

type chainPrinter struct {
	graph  *Graph
	out    *strings.Builder
	onPath map[string]bool
	ledger map[string]float64
	totals map[string]float64
}

func (p *chainPrinter) describe(name string, amount float64, recipeIndex, indent int) {
	prefix := strings.Repeat("    ", indent)

	if p.onPath[name] {
		fmt.Fprintf(p.out, "%s%gx %s (cycle detected)\n", prefix, amount, name)
		return
	}

	node := p.graph.nodes[name]
	if node == nil || len(node.Recipes) == 0 || recipeIndex < 0 || recipeIndex >= len(node.Recipes) {
		category := "resource"
		if node != nil {
			category = string(node.Category)
		}
		fmt.Fprintf(p.out, "%s%s (category: %s, amount: %g) [NO RECIPE]\n", prefix, name, category, amount)
		p.totals[name] += amount
		return
	}
	rec := node.Recipes[recipeIndex]

	p.onPath[name] = true
	defer delete(p.onPath, name)

	outputs := rec.Outputs
	if len(outputs) == 0 {
		outputs = map[string]float64{name: 1}
	}
	outputPerCycle := outputs[name]
	if outputPerCycle == 0 {
		outputPerCycle = 1
	}

	used := math.Min(p.ledger[name], amount)
	needed := amount - used
	if used > 0 {
		p.ledger[name] -= used
	}
	cycles := int(math.Ceil(needed / outputPerCycle))
	totalTime := float64(cycles) * rec.CycleTime

	usingNote := ""
	if rec.Using != "" {
		usingNote = " using " + rec.Using
	}
	fmt.Fprintf(p.out, "%s%s (category: %s, amount: %g, cycles: %d, total_time: %gs, cycle_time: %gs, output/cycle: %g%s)\n",
		prefix, name, node.Category, amount, cycles, totalTime, rec.CycleTime, outputPerCycle, usingNote)
	if used > 0 {
		fmt.Fprintf(p.out, "%s  From byproduct surplus: %gx %s\n", prefix, used, name)
	}

	for outName, perCycle := range outputs {
		produced := perCycle * float64(cycles)
		surplus := produced
		if outName == name {
			surplus = produced - needed
		}
		if surplus > 0 {
			p.ledger[outName] += surplus
			if outName != name {
				fmt.Fprintf(p.out, "%s  Byproduct: %gx %s\n", prefix, surplus, outName)
			}
		}
	}

	for _, input := range sortedKeys(rec.Inputs) {
		p.describe(input, rec.Inputs[input]*float64(cycles), 0, indent+1)
	}
}
