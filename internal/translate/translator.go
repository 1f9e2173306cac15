// Package translate lowers a semantically analyzed Datalog translation
// unit into a RAM program: one Stratum per strongly connected
// component, in topological order, each built from a fixed
// eight-phase plan, with clause bodies lowered to nested scans and
// recursive strata lowered via semi-naive evaluation.
package translate

import (
	"sort"

	"github.com/dcol97/souffle/internal/config"
	"github.com/dcol97/souffle/internal/diagnostics"
	"github.com/dcol97/souffle/internal/ram"
	"github.com/dcol97/souffle/internal/souffleast"
)

// Translator holds everything the lowering needs for one translation
// run: the upstream analyses, the configuration store, and the
// error/debug reports it writes into — both passed by reference and
// only ever appended to during translation.
type Translator struct {
	unit  *souffleast.TranslationUnit
	cfg   config.Store
	errs  *diagnostics.ErrorReport
	debug *diagnostics.DebugReport

	clausesByHead map[string][]*souffleast.Clause
}

// New builds a Translator over unit.
func New(unit *souffleast.TranslationUnit, cfg config.Store, errs *diagnostics.ErrorReport, debug *diagnostics.DebugReport) *Translator {
	t := &Translator{unit: unit, cfg: cfg, errs: errs, debug: debug, clausesByHead: make(map[string][]*souffleast.Clause)}
	for _, c := range unit.Program.Clauses {
		t.clausesByHead[c.Head.Relation] = append(t.clausesByHead[c.Head.Relation], c)
	}
	return t
}

// Translate lowers the translation unit into a RAM program. It
// returns nil if any invariant violation or unsupported-shape error
// was reported during lowering: the core aborts the translation unit
// rather than hand back a partially lowered program.
func (t *Translator) Translate() *ram.Program {
	prog := ram.NewProgram()
	for _, r := range t.unit.Program.Relations {
		prog.Relations[r.Name] = &ram.Relation{
			Name:      r.Name,
			Arity:     r.Arity,
			Input:     r.Input,
			Output:    r.Output,
			PrintSize: r.PrintSize,
			Internal:  len(t.clausesByHead[r.Name]) > 0,
		}
	}

	var strata []ram.Statement
	if t.unit.Topo != nil {
		for index, sccIdx := range t.unit.Topo.Order {
			scc := t.unit.SCCs.SCCs[sccIdx]
			stmts := t.translateStratum(scc, index)
			strata = append(strata, ram.Stratum{Index: index, Body: ram.Sequence{Stmts: stmts}})
		}
	}

	var main ram.Statement = ram.Sequence{Stmts: strata}
	if t.cfg.Profile() {
		main = ram.LogTimer{Label: "runtime", Body: main}
	}
	prog.Main = main

	if t.cfg.Provenance() {
		t.translateProvenance(prog)
	}

	if t.debug != nil {
		t.debug.AddSection("ram-program", ram.Print(prog))
	}

	if t.errs.HasErrors() {
		return nil
	}
	return prog
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}

// sortedKeys returns m's keys sorted, used wherever iteration order
// over a map must be made deterministic for reproducible output.
func sortedKeys(m map[string][]*souffleast.Clause) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
