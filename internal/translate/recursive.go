package translate

import (
	"github.com/dcol97/souffle/internal/ram"
	"github.com/dcol97/souffle/internal/souffleast"
)

// translateRecursiveBody lowers a recursive SCC via semi-naive
// evaluation: base clauses seed Rᵢ and Δᵢ, then a Loop repeatedly
// re-derives into new_Rᵢ from Δⱼ until every new_Rᵢ is empty in the
// same iteration.
func (t *Translator) translateRecursiveBody(scc *souffleast.SCC) []ram.Statement {
	identity := func(_ int, relation string) string { return relation }

	var stmts []ram.Statement
	for _, name := range scc.Relations {
		for _, clause := range t.clausesByHead[name] {
			if t.unit.Recursive != nil && t.unit.Recursive.Is(clause) {
				continue
			}
			stmts = append(stmts, ram.Query{Op: t.translateClause(clause, identity)})
		}
		stmts = append(stmts, ram.Merge{Target: deltaName(name), Source: name})
	}

	var arms []ram.Statement
	for _, name := range scc.Relations {
		var armStmts []ram.Statement
		for _, clause := range t.clausesByHead[name] {
			if t.unit.Recursive == nil || !t.unit.Recursive.Is(clause) {
				continue
			}
			for _, pos := range inSCCAtomPositions(scc, clause) {
				op := t.translateClause(clause, deltaSourceFor(pos))
				armStmts = append(armStmts, ram.Query{Op: wrapNewTarget(op, name)})
			}
		}
		arms = append(arms, ram.Sequence{Stmts: armStmts})
	}

	var exitConds []ram.Condition
	for _, name := range scc.Relations {
		exitConds = append(exitConds, ram.Empty{Relation: newName(name)})
	}

	var loopBody []ram.Statement
	loopBody = append(loopBody, ram.Parallel{Stmts: arms})
	loopBody = append(loopBody, ram.Exit{Cond: ram.JoinConjuncts(exitConds)})
	for _, name := range scc.Relations {
		loopBody = append(loopBody,
			ram.Swap{A: deltaName(name), B: newName(name)},
			ram.Merge{Target: name, Source: deltaName(name)},
			ram.Create{Relation: newName(name)},
		)
	}

	stmts = append(stmts, ram.Loop{Body: ram.Sequence{Stmts: loopBody}})
	return stmts
}

// inSCCAtomPositions returns the body-literal indices of clause's
// positive atoms whose relation belongs to scc — the candidates for
// delta substitution in one recursive variant.
func inSCCAtomPositions(scc *souffleast.SCC, clause *souffleast.Clause) []int {
	var positions []int
	for i, lit := range clause.Body {
		if atom, ok := lit.(*souffleast.Atom); ok && contains(scc.Relations, atom.Relation) {
			positions = append(positions, i)
		}
	}
	return positions
}

// deltaSourceFor builds an atomSource that reads the delta_ variant of
// the literal at target and every other relation under its own name.
func deltaSourceFor(target int) atomSource {
	return func(i int, relation string) string {
		if i == target {
			return deltaName(relation)
		}
		return relation
	}
}

// wrapNewTarget rewrites a translated clause's innermost Project to
// write into new_<relation> instead of relation, and wraps that
// Project (only it; the enclosing operations are rebuilt unchanged) in
// a Filter(NotExistenceCheck(relation, headValues)) so tuples already
// present in Rᵢ are not rederived. This walks the tree
// directly rather than through ram.Mapper: a
// generic pre-order rewrite would re-visit (and re-wrap) the Project
// it had just replaced, since the replacement's own Nested field still
// holds the original node.
func wrapNewTarget(op ram.Operation, originalRelation string) ram.Operation {
	switch o := op.(type) {
	case ram.Scan:
		return ram.Scan{Relation: o.Relation, Tuple: o.Tuple, Nested: wrapNewTarget(o.Nested, originalRelation)}
	case ram.IndexScan:
		return ram.IndexScan{Relation: o.Relation, Tuple: o.Tuple, Pattern: o.Pattern, Nested: wrapNewTarget(o.Nested, originalRelation)}
	case ram.Choice:
		return ram.Choice{Relation: o.Relation, Tuple: o.Tuple, Cond: o.Cond, Nested: wrapNewTarget(o.Nested, originalRelation)}
	case ram.IndexChoice:
		return ram.IndexChoice{Relation: o.Relation, Tuple: o.Tuple, Pattern: o.Pattern, Cond: o.Cond, Nested: wrapNewTarget(o.Nested, originalRelation)}
	case ram.Filter:
		return ram.Filter{Cond: o.Cond, Nested: wrapNewTarget(o.Nested, originalRelation)}
	case ram.Lookup:
		return ram.Lookup{Value: o.Value, Arity: o.Arity, Tuple: o.Tuple, Nested: wrapNewTarget(o.Nested, originalRelation)}
	case ram.Aggregate:
		return ram.Aggregate{
			Func: o.Func, ValueExpr: o.ValueExpr, Source: o.Source, SourcePattern: o.SourcePattern,
			Tuple: o.Tuple, Nested: wrapNewTarget(o.Nested, originalRelation),
		}
	case ram.Project:
		return ram.Filter{
			Cond:   ram.NotExistenceCheck{Relation: originalRelation, Pattern: o.Values},
			Nested: ram.Project{Relation: newName(o.Relation), Values: o.Values},
		}
	default:
		return op
	}
}
