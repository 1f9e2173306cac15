package transform

import "github.com/dcol97/souffle/internal/ram"

// walkStatements rewrites every Query's operation tree (and leaves
// every other statement shape alone beyond recursing into its own
// nested statements), applying rewrite once per Query root.
func walkStatements(s ram.Statement, rewrite func(ram.Operation) (ram.Operation, bool)) (ram.Statement, bool) {
	switch st := s.(type) {
	case ram.Sequence:
		changed := false
		stmts := make([]ram.Statement, len(st.Stmts))
		for i, inner := range st.Stmts {
			out, ok := walkStatements(inner, rewrite)
			stmts[i] = out
			changed = changed || ok
		}
		return ram.Sequence{Stmts: stmts}, changed
	case ram.Parallel:
		changed := false
		stmts := make([]ram.Statement, len(st.Stmts))
		for i, inner := range st.Stmts {
			out, ok := walkStatements(inner, rewrite)
			stmts[i] = out
			changed = changed || ok
		}
		return ram.Parallel{Stmts: stmts}, changed
	case ram.Loop:
		body, changed := walkStatements(st.Body, rewrite)
		return ram.Loop{Body: body}, changed
	case ram.LogTimer:
		body, changed := walkStatements(st.Body, rewrite)
		return ram.LogTimer{Label: st.Label, Body: body}, changed
	case ram.Stratum:
		body, changed := walkStatements(st.Body, rewrite)
		return ram.Stratum{Index: st.Index, Body: body}, changed
	case ram.Query:
		op, changed := rewrite(st.Op)
		return ram.Query{Op: op}, changed
	default:
		return s, false
	}
}

// Walk applies rewrite to every Query's operation tree and every
// subroutine body in prog, replacing them in place, and reports
// whether anything changed. Every transformer's Transform method is a
// thin wrapper around this.
func Walk(prog *ram.Program, rewrite func(ram.Operation) (ram.Operation, bool)) bool {
	changed := false
	if prog.Main != nil {
		main, ok := walkStatements(prog.Main, rewrite)
		prog.Main = main
		changed = changed || ok
	}
	for _, sub := range prog.Subroutines {
		op, ok := rewrite(sub.Body)
		sub.Body = op
		changed = changed || ok
	}
	return changed
}

// descend recurses into op's single nested Operation child (if any)
// before calling step on op itself, i.e. children are rewritten
// first. step is handed a node whose own children are already in
// their final shape and runs exactly once per tree level: it must
// not recurse itself. This is deliberate, not an oversight — a
// generic pre-order ram.Mapper rewrite would re-descend into whatever
// step just produced and could re-match a freshly built replacement
// (the infinite-loop hazard documented in internal/translate/recursive.go);
// processing each level exactly once here rules that out structurally.
func descend(op ram.Operation, step func(ram.Operation) (ram.Operation, bool)) (ram.Operation, bool) {
	changed := false
	if nested, ok := ram.NestedOf(op); ok {
		newNested, childChanged := descend(nested, step)
		if childChanged {
			op = ram.WithNested(op, newNested)
			changed = true
		}
	}
	out, hereChanged := step(op)
	return out, changed || hereChanged
}

// referencesNode reports whether any ElementAccess inside n (at any
// depth, across Value/Condition/Operation/Statement alike) refers to
// tuple. It is the generic "is tuple t still in use here" check every
// transformer needs, and works uniformly over every node category by
// piggybacking on ram.Children instead of a category-specific walk.
func referencesNode(n ram.Node, tuple int) bool {
	if n == nil {
		return false
	}
	if ea, ok := n.(ram.ElementAccess); ok {
		return ea.Tuple == tuple
	}
	for _, child := range ram.Children(n) {
		if referencesNode(child, tuple) {
			return true
		}
	}
	return false
}

// indexCandidate reports whether cmp is an equality between
// ElementAccess(tuple, col) and an expression computable strictly
// before tuple, in either operand order — the shape CreateIndices and
// ConvertExistenceChecks both fold into a pattern slot.
func indexCandidate(cmp ram.Comparison, tuple int, level func(ram.Value) int) (col int, expr ram.Value, ok bool) {
	if ea, isEA := cmp.LHS.(ram.ElementAccess); isEA && ea.Tuple == tuple && level(cmp.RHS) < tuple {
		return ea.Column, cmp.RHS, true
	}
	if ea, isEA := cmp.RHS.(ram.ElementAccess); isEA && ea.Tuple == tuple && level(cmp.LHS) < tuple {
		return ea.Column, cmp.LHS, true
	}
	return 0, nil, false
}
