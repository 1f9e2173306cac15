package translate

import (
	"fmt"

	"github.com/dcol97/souffle/internal/ram"
	"github.com/dcol97/souffle/internal/souffleast"
)

// translateProvenance populates prog.Subroutines with one
// "<rel>_<clauseNum>_subproof" subroutine per rule clause. This core's
// AST has no "information relation" flag to exclude
// (souffleast.Relation carries no such marker), so the only exclusion
// applied is unconditional: a fact (an empty-bodied clause) has
// nothing to re-derive and is skipped.
func (t *Translator) translateProvenance(prog *ram.Program) {
	for _, relation := range sortedKeys(t.clausesByHead) {
		for i, clause := range t.clausesByHead[relation] {
			if len(clause.Body) == 0 {
				continue
			}
			name := fmt.Sprintf("%s_%d_subproof", relation, i)
			prog.Subroutines[name] = &ram.Subroutine{
				Name: name,
				Body: t.translateSubproof(clause),
			}
		}
	}
}

// translateSubproof lowers clause into a subproof body: the clause's
// head columns are seeded as Argument(i) parameters instead of fresh
// bindings, so the scans re-derive (and so verify) a specific witness
// rather than enumerating every solution, and the body terminates in
// a Return of every variable bound along the way.
func (t *Translator) translateSubproof(clause *souffleast.Clause) ram.Operation {
	cb := &clauseBuilder{t: t, clause: clause, vi: newValueIndex()}
	for i, arg := range clause.Head.Args {
		if v, ok := arg.(*souffleast.Var); ok {
			cb.vi.define(v.Name, ram.Argument{Index: i})
		}
	}
	identity := func(_ int, relation string) string { return relation }
	return cb.build(clause.Body, 0, identity, func() ram.Operation {
		var op ram.Operation = cb.translateReturn()
		if cond := ram.JoinConjuncts(cb.deferred); cond != nil {
			op = ram.Filter{Cond: cond, Nested: op}
		}
		return op
	})
}
