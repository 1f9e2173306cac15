// Package analysis implements the pure, stateless structural analyses
// the translator and transformer pipeline share: ExpressionLevel,
// ConditionLevel, ConstValue, and IndexScanKeys. None of them mutate
// the tree they inspect, cache anything, or fail on a structurally
// valid tree — transformers are free to re-request them after every
// rewrite.
package analysis

import "github.com/dcol97/souffle/internal/ram"

// unbound is the level reported for a tuple-free expression: nothing
// in it depends on any enclosing scan, so it can be computed at the
// shallowest possible point (outside every loop).
const unbound = -1

// ExpressionLevel returns the deepest (largest) tuple id referenced
// inside v, or unbound (-1) if v references no tuple at all. It names
// the earliest loop level at which v becomes computable.
func ExpressionLevel(v ram.Value) int {
	switch val := v.(type) {
	case nil:
		return unbound
	case ram.Number:
		return unbound
	case ram.ElementAccess:
		return val.Tuple
	case ram.Argument:
		return unbound
	case ram.AutoIncrement:
		return unbound
	case ram.Intrinsic:
		return maxExpressionLevel(val.Args)
	case ram.Pack:
		return maxExpressionLevel(val.Args)
	default:
		return unbound
	}
}

func maxExpressionLevel(vs []ram.Value) int {
	level := unbound
	for _, v := range vs {
		if l := ExpressionLevel(v); l > level {
			level = l
		}
	}
	return level
}

// ConditionLevel returns the deepest tuple id c depends on (the max
// over every comparand, existence-check pattern slot, or nested
// conjunct), or unbound if c references no tuple. A condition can
// always be placed immediately inside the scan that introduces that
// id — no earlier, and no later is required for correctness.
func ConditionLevel(c ram.Condition) int {
	switch cond := c.(type) {
	case nil:
		return unbound
	case ram.Conjunction:
		return max(ConditionLevel(cond.Left), ConditionLevel(cond.Right))
	case ram.Comparison:
		return max(ExpressionLevel(cond.LHS), ExpressionLevel(cond.RHS))
	case ram.ExistenceCheck:
		return maxExpressionLevel(cond.Pattern)
	case ram.NotExistenceCheck:
		return maxExpressionLevel(cond.Pattern)
	case ram.Empty:
		return unbound
	default:
		return unbound
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
