package transform

import (
	"github.com/dcol97/souffle/internal/analysis"
	"github.com/dcol97/souffle/internal/ram"
)

// LevelConditionsTransformer hoists each filter conjunct to the
// shallowest tuple binding at which every value it reads is already
// bound: a conjunction is split so each conjunct floats independently,
// and a conjunct comes to rest as a Filter immediately inside the scan
// that introduces the tuple matching its analysis.ConditionLevel.
type LevelConditionsTransformer struct{}

func (LevelConditionsTransformer) Name() string { return "LevelConditions" }

func (LevelConditionsTransformer) Transform(prog *ram.Program) bool {
	return Walk(prog, levelConditionsRoot)
}

type floatingCond struct {
	cond  ram.Condition
	level int
}

func levelConditionsRoot(op ram.Operation) (ram.Operation, bool) {
	moved := false
	result, floating := levelConditions(op, -1, &moved)
	if len(floating) > 0 {
		result = ram.Filter{Cond: joinFloating(floating), Nested: result}
	}
	return result, moved
}

// levelConditions rewrites op with every Filter it directly or
// transitively contains dissolved, returning the conjuncts that must
// still be re-inserted somewhere shallower than op (because their
// level is less than enclosing, the tuple id op's caller bound op
// under). movedAny is set whenever a conjunct's resting level differs
// from the level of the Filter it originally sat in — the "at least
// one conjunct was moved" condition the pipeline uses for fixpoint.
func levelConditions(op ram.Operation, enclosing int, movedAny *bool) (ram.Operation, []floatingCond) {
	if tuple, ok := ram.TupleOf(op); ok {
		nested, _ := ram.NestedOf(op)
		inner, floating := levelConditions(nested, tuple, movedAny)
		var stay, float []floatingCond
		for _, f := range floating {
			if f.level == tuple {
				stay = append(stay, f)
			} else {
				float = append(float, f)
			}
		}
		if len(stay) > 0 {
			inner = ram.Filter{Cond: joinFloating(stay), Nested: inner}
		}
		return ram.WithNested(op, inner), float
	}

	if f, ok := op.(ram.Filter); ok {
		inner, floating := levelConditions(f.Nested, enclosing, movedAny)
		for _, c := range ram.SplitConjuncts(f.Cond) {
			level := analysis.ConditionLevel(c)
			if level != enclosing {
				*movedAny = true
			}
			floating = append(floating, floatingCond{cond: c, level: level})
		}
		return inner, floating
	}

	// Project, Return: terminal, nothing floats through them.
	return op, nil
}

func joinFloating(fs []floatingCond) ram.Condition {
	conds := make([]ram.Condition, len(fs))
	for i, f := range fs {
		conds[i] = f.cond
	}
	return ram.JoinConjuncts(conds)
}
