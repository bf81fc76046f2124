package recipe

import (
	"math"
	"sort"
)

// Resolution is the result of resolving a target quantity down to base
// materials. The JSON field names are the durable cache format; external
// persistence must reproduce them exactly.
type Resolution struct {
	Materials      map[string]float64 `json:"materials"`
	TotalTime      float64            `json:"total_time"`
	Cycles         int                `json:"cycles"`
	Using          string             `json:"using"`
	CycleTime      float64            `json:"cycle_time"`
	OutputPerCycle float64            `json:"output_per_cycle"`
	Byproducts     map[string]float64 `json:"byproducts"`

	// Truncated lists nodes where a dependency cycle cut resolution short.
	// Cycles are flagged, never fatal. Not part of the cache format.
	Truncated []string `json:"-"`
}

// ResolveBaseMaterials computes the total base-material requirements for
// producing amount units of the named node, selecting recipeIndex when the
// node has several recipes.
//
// Cycle counts round up: under-production is never acceptable. Byproducts
// accumulated earlier in the resolution are consumed before new cycles are
// requested for the same item. A node already on the active resolution path
// is never re-entered, so recycling loops terminate. Unknown nodes, nodes
// without recipes, and out-of-range recipe indices all resolve as raw
// material leaves; the function is total and never panics.
func (g *Graph) ResolveBaseMaterials(name string, amount float64, recipeIndex int) *Resolution {
	r := &resolver{graph: g, onPath: make(map[string]bool), ledger: make(map[string]float64)}
	res := r.resolve(name, amount, recipeIndex)
	res.Truncated = r.truncated
	return res
}

// resolver carries the per-resolution state: the active recursion path and
// the shared byproduct ledger that later sibling calls draw from.
type resolver struct {
	graph     *Graph
	onPath    map[string]bool
	ledger    map[string]float64
	truncated []string
}

func (r *resolver) resolve(name string, amount float64, recipeIndex int) *Resolution {
	if r.onPath[name] {
		r.truncated = append(r.truncated, name)
		return &Resolution{Materials: map[string]float64{}, Byproducts: r.ledgerSnapshot()}
	}

	node := r.graph.nodes[name]
	if node == nil || len(node.Recipes) == 0 || recipeIndex < 0 || recipeIndex >= len(node.Recipes) {
		// Raw material leaf, or an invalid recipe selection falling back to
		// the safe default of treating the node as recipe-less.
		return &Resolution{
			Materials:  map[string]float64{name: amount},
			Byproducts: r.ledgerSnapshot(),
		}
	}
	rec := node.Recipes[recipeIndex]

	r.onPath[name] = true
	defer delete(r.onPath, name)

	outputs := rec.Outputs
	if len(outputs) == 0 {
		outputs = map[string]float64{name: 1}
	}
	outputPerCycle := outputs[name]
	if outputPerCycle == 0 {
		outputPerCycle = 1
	}

	// Draw on surplus produced earlier in this resolution before asking for
	// new cycles.
	used := math.Min(r.ledger[name], amount)
	needed := amount - used
	if used > 0 {
		r.ledger[name] -= used
	}

	cycles := int(math.Ceil(needed / outputPerCycle))
	totalTime := float64(cycles) * rec.CycleTime

	// Record surplus: overproduction of the requested item plus every other
	// output in full.
	for outName, perCycle := range outputs {
		produced := perCycle * float64(cycles)
		surplus := produced
		if outName == name {
			surplus = produced - needed
		}
		if surplus > 0 {
			r.ledger[outName] += surplus
		}
	}

	materials := make(map[string]float64)
	for _, input := range sortedKeys(rec.Inputs) {
		required := rec.Inputs[input] * float64(cycles)
		sub := r.resolve(input, required, 0)
		for mat, qty := range sub.Materials {
			materials[mat] += qty
		}
	}

	return &Resolution{
		Materials:      materials,
		TotalTime:      totalTime,
		Cycles:         cycles,
		Using:          rec.Using,
		CycleTime:      rec.CycleTime,
		OutputPerCycle: outputPerCycle,
		Byproducts:     r.ledgerSnapshot(),
	}
}

func (r *resolver) ledgerSnapshot() map[string]float64 {
	snap := make(map[string]float64, len(r.ledger))
	for item, qty := range r.ledger {
		if qty > 0 {
			snap[item] = qty
		}
	}
	return snap
}

// sortedKeys returns map keys in lexicographic order. Recipe inputs are
// resolved in this order so byproduct consumption is deterministic.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
