package transform

import (
	"github.com/dcol97/souffle/internal/analysis"
	"github.com/dcol97/souffle/internal/ram"
)

// CreateIndicesTransformer rewrites Scan(R, t, Filter(cond, nested))
// into IndexScan(R, t, pattern, Filter(residual, nested)) whenever cond
// contains equalities of the form ElementAccess(t, c) = E with E
// computable strictly before t: each such equality becomes pattern
// slot c, and is dropped from the residual condition. Equalities that
// collide on the same column keep the first and leave the rest as
// residual filters.
type CreateIndicesTransformer struct{}

func (CreateIndicesTransformer) Name() string { return "CreateIndices" }

func (CreateIndicesTransformer) Transform(prog *ram.Program) bool {
	arity := relationArity(prog)
	return Walk(prog, func(op ram.Operation) (ram.Operation, bool) {
		return descend(op, func(o ram.Operation) (ram.Operation, bool) {
			return createIndexStep(o, arity)
		})
	})
}

func relationArity(prog *ram.Program) func(string) int {
	return func(name string) int {
		if r := prog.Relations[name]; r != nil {
			return r.Arity
		}
		return 0
	}
}

func createIndexStep(op ram.Operation, arity func(string) int) (ram.Operation, bool) {
	scan, ok := op.(ram.Scan)
	if !ok {
		return op, false
	}
	filter, ok := scan.Nested.(ram.Filter)
	if !ok {
		return op, false
	}

	pattern := make([]ram.Value, arity(scan.Relation))
	var residual []ram.Condition
	consumed := false
	for _, c := range ram.SplitConjuncts(filter.Cond) {
		if cmp, ok := c.(ram.Comparison); ok && cmp.Op == "=" {
			if col, expr, ok := indexCandidate(cmp, scan.Tuple, analysis.ExpressionLevel); ok &&
				col < len(pattern) && pattern[col] == nil {
				pattern[col] = expr
				consumed = true
				continue
			}
		}
		residual = append(residual, c)
	}
	if !consumed {
		return op, false
	}

	nested := filter.Nested
	if len(residual) > 0 {
		nested = ram.Filter{Cond: ram.JoinConjuncts(residual), Nested: filter.Nested}
	}
	return ram.IndexScan{Relation: scan.Relation, Tuple: scan.Tuple, Pattern: pattern, Nested: nested}, true
}
