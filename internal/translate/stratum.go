package translate

import (
	"github.com/dcol97/souffle/internal/ram"
	"github.com/dcol97/souffle/internal/souffleast"
)

// translateStratum emits one SCC's statements in a fixed eight-phase
// order.
func (t *Translator) translateStratum(scc *souffleast.SCC, index int) []ram.Statement {
	var stmts []ram.Statement

	// Phase 1: create internal relations, plus delta_/new_ for a
	// recursive SCC.
	for _, name := range scc.Relations {
		stmts = append(stmts, ram.Create{Relation: name})
		if scc.Recursive {
			stmts = append(stmts, ram.Create{Relation: deltaName(name)}, ram.Create{Relation: newName(name)})
		}
	}

	// Phase 2: load internal input relations from the facts directory.
	for _, name := range scc.Relations {
		if rel := t.unit.Program.RelationByName(name); rel != nil && rel.Input {
			stmts = append(stmts, ram.Load{Relation: name, Ext: ".facts"})
		}
	}

	// Phase 3: with a communication engine, load external
	// predecessors — .csv for ones that are themselves program
	// outputs, .facts otherwise.
	if t.cfg.Engine() {
		for _, name := range scc.ExternalPredecessors {
			ext := ".facts"
			if rel := t.unit.Program.RelationByName(name); rel != nil && rel.Output {
				ext = ".csv"
			}
			stmts = append(stmts, ram.Load{Relation: name, Ext: ext})
		}
	}

	// Phase 4: body.
	if scc.Recursive {
		stmts = append(stmts, t.translateRecursiveBody(scc)...)
	} else {
		stmts = append(stmts, t.translateNonRecursiveBody(scc)...)
	}

	// Phase 5: printsize.
	for _, name := range scc.Relations {
		if rel := t.unit.Program.RelationByName(name); rel != nil && rel.PrintSize {
			stmts = append(stmts, ram.PrintSize{Relation: name})
		}
	}

	// Phase 6: with an engine, store internal non-output relations
	// that have external successors.
	if t.cfg.Engine() {
		for _, name := range scc.Relations {
			rel := t.unit.Program.RelationByName(name)
			if rel != nil && !rel.Output && contains(scc.ExternalSuccessors, name) {
				stmts = append(stmts, ram.Store{Relation: name, Ext: ".facts"})
			}
		}
	}

	// Phase 7: store internal output relations.
	for _, name := range scc.Relations {
		if rel := t.unit.Program.RelationByName(name); rel != nil && rel.Output {
			stmts = append(stmts, ram.Store{Relation: name, Ext: ".csv"})
		}
	}

	// Phase 8: drop, unless provenance is enabled (provenance needs
	// the intermediates to stay around for subproof subroutines).
	if !t.cfg.Provenance() {
		if t.cfg.Engine() {
			for _, name := range scc.Relations {
				stmts = append(stmts, ram.Drop{Relation: name})
			}
			for _, name := range scc.ExternalPredecessors {
				stmts = append(stmts, ram.Drop{Relation: name})
			}
		} else if t.unit.Schedule != nil {
			for _, name := range scc.Relations {
				if t.unit.Schedule.ExpiresAt(index, name) {
					stmts = append(stmts, ram.Drop{Relation: name})
				}
			}
		}
	}

	return stmts
}

// translateNonRecursiveBody lowers every clause defining a relation of
// scc into its own Query, reading relations under their own names.
func (t *Translator) translateNonRecursiveBody(scc *souffleast.SCC) []ram.Statement {
	identity := func(_ int, relation string) string { return relation }
	var stmts []ram.Statement
	for _, name := range scc.Relations {
		for _, clause := range t.clausesByHead[name] {
			stmts = append(stmts, ram.Query{Op: t.translateClause(clause, identity)})
		}
	}
	return stmts
}

func deltaName(relation string) string { return "delta_" + relation }
func newName(relation string) string   { return "new_" + relation }
