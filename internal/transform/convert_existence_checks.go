package transform

import (
	"github.com/dcol97/souffle/internal/analysis"
	"github.com/dcol97/souffle/internal/ram"
)

// ConvertExistenceChecksTransformer eliminates a Scan (or IndexScan)
// whose tuple is used only to decide whether some condition holds and
// never by anything downstream: Scan(R, t, ...) becomes
// Filter(ExistenceCheck(R, pattern) AND residual, nested), folding t's
// equalities into pattern exactly as CreateIndices does and leaving
// every other conjunct that still mentions t as a veto — if any
// residual conjunct can't be expressed through the pattern, the scan
// survives untouched (SearchesToChoicesTransformer picks up that case
// instead).
type ConvertExistenceChecksTransformer struct{}

func (ConvertExistenceChecksTransformer) Name() string { return "ConvertExistenceChecks" }

func (ConvertExistenceChecksTransformer) Transform(prog *ram.Program) bool {
	arity := relationArity(prog)
	return Walk(prog, func(op ram.Operation) (ram.Operation, bool) {
		return descend(op, func(o ram.Operation) (ram.Operation, bool) {
			return convertExistenceCheckStep(o, arity)
		})
	})
}

func convertExistenceCheckStep(op ram.Operation, arity func(string) int) (ram.Operation, bool) {
	tuple, relation, pattern, cond, nested, ok := scanParts(op, arity)
	if !ok {
		return op, false
	}
	if referencesNode(nested, tuple) {
		return op, false
	}

	var residual []ram.Condition
	for _, c := range ram.SplitConjuncts(cond) {
		if cmp, ok := c.(ram.Comparison); ok && cmp.Op == "=" {
			if col, expr, ok := indexCandidate(cmp, tuple, analysis.ExpressionLevel); ok &&
				col < len(pattern) && pattern[col] == nil {
				pattern[col] = expr
				continue
			}
		}
		if referencesNode(c, tuple) {
			// t appears here in a shape the pattern can't subsume
			// (e.g. t.0 > 10): the scan must stay, not be dropped.
			return op, false
		}
		residual = append(residual, c)
	}

	conds := append([]ram.Condition{ram.ExistenceCheck{Relation: relation, Pattern: pattern}}, residual...)
	return ram.Filter{Cond: ram.JoinConjuncts(conds), Nested: nested}, true
}

// scanParts extracts the tuple, relation, index pattern, residual
// condition (nil if the scan has no immediate Filter), and body of a
// Scan or IndexScan. CreateIndicesTransformer may already have
// consumed every equality and dropped the Filter entirely, so this
// must work whether or not one remains.
func scanParts(op ram.Operation, arity func(string) int) (tuple int, relation string, pattern []ram.Value, cond ram.Condition, nested ram.Operation, ok bool) {
	switch o := op.(type) {
	case ram.Scan:
		tuple, relation, nested = o.Tuple, o.Relation, o.Nested
		pattern = make([]ram.Value, arity(relation))
	case ram.IndexScan:
		tuple, relation, nested = o.Tuple, o.Relation, o.Nested
		pattern = append([]ram.Value(nil), o.Pattern...)
	default:
		return 0, "", nil, nil, nil, false
	}
	if f, isFilter := nested.(ram.Filter); isFilter {
		cond, nested = f.Cond, f.Nested
	}
	return tuple, relation, pattern, cond, nested, true
}
