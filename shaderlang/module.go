// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package shaderlang

// Module is a single shader stage's expression graph: a set of
// OutputAttribute roots and everything reachable from them. It is
// distinct from coral.ShaderModule, which wraps a compiled SPIR-V
// binary — a Module is the pre-compilation graph a GLSLCompiler
// consumes to produce one.
type Module struct {
	outputs []*OutputAttribute
}

// NewModule creates an empty shader module graph.
func NewModule() *Module { return &Module{} }

// RegisterOutput adds an output attribute write as a root of the graph.
func (m *Module) RegisterOutput(out *OutputAttribute) { m.outputs = append(m.outputs, out) }

// Outputs returns the module's output attribute roots, in registration order.
func (m *Module) Outputs() []*OutputAttribute { return m.outputs }

// Inputs returns the distinct InputAttribute expressions reachable
// from the module's outputs, in first-encountered DFS order.
func (m *Module) Inputs() []*InputAttribute {
	var result []*InputAttribute
	visited := make(map[*InputAttribute]bool)
	for _, out := range m.outputs {
		for _, input := range out.Inputs() {
			collectExpressions(input, &result, visited)
		}
	}
	return result
}

// Parameters returns the distinct Parameter expressions reachable from
// the module's outputs, in first-encountered DFS order.
func (m *Module) Parameters() []*Parameter {
	var result []*Parameter
	visited := make(map[*Parameter]bool)
	for _, out := range m.outputs {
		for _, input := range out.Inputs() {
			collectExpressions(input, &result, visited)
		}
	}
	return result
}

// collectExpressions walks expr's subgraph depth-first, appending the
// first encounter of each node of type T to result.
func collectExpressions[T interface {
	Expression
	comparable
}](expr Expression, result *[]T, visited map[T]bool) {
	if t, ok := expr.(T); ok {
		if !visited[t] {
			visited[t] = true
			*result = append(*result, t)
		}
	}
	for _, input := range expr.Inputs() {
		collectExpressions(input, result, visited)
	}
}

// BuildExpressionList returns every expression reachable from the
// module's outputs, topologically ordered so that every expression
// appears before any expression that depends on it (a node's inputs
// all precede it). Outputs are walked depth-first in registration
// order, each in post-order, so an output follows everything it reads.
func (m *Module) BuildExpressionList() []Expression {
	visited := make(map[Expression]bool)
	result := make([]Expression, 0, len(m.outputs))
	for _, out := range m.outputs {
		result = appendExpressionListRecursive(out, result, visited)
	}
	return result
}

// appendExpressionListRecursive appends expr's transitive inputs and
// then expr to result in post-order, visiting each distinct node
// exactly once so a node reachable through multiple parents is emitted
// a single time.
func appendExpressionListRecursive(expr Expression, result []Expression, visited map[Expression]bool) []Expression {
	if visited[expr] {
		return result
	}
	visited[expr] = true
	for _, input := range expr.Inputs() {
		result = appendExpressionListRecursive(input, result, visited)
	}
	return append(result, expr)
}

// useCounts returns, for every expression in list, the number of
// times it appears as a direct input of another expression in list
// (a stand-in for the reference compiler's shared_ptr use_count,
// which Go's GC gives us no equivalent of).
func useCounts(list []Expression) map[Expression]int {
	counts := make(map[Expression]int, len(list))
	for _, expr := range list {
		for _, input := range expr.Inputs() {
			counts[input]++
		}
	}
	return counts
}
