package translate

import (
	"fmt"

	"github.com/dcol97/souffle/internal/diagnostics"
	"github.com/dcol97/souffle/internal/ram"
	"github.com/dcol97/souffle/internal/souffleast"
)

// atomSource resolves the relation a positive atom actually scans,
// given its body-literal index and declared relation name: identity
// during non-recursive translation, and the delta_ variant of exactly
// one in-SCC atom occurrence during semi-naive recursive translation.
// The index lets two occurrences of the same relation in one clause be
// told apart, since only one may read its delta in a given recursive
// variant.
type atomSource func(litIndex int, relation string) string

// clauseBuilder lowers a single clause's body into a nested ram
// Operation tree. Tuple ids are scoped to one clauseBuilder and unique
// within any enclosing Query: every translateClause call starts a
// fresh counter.
type clauseBuilder struct {
	t      *Translator
	clause *souffleast.Clause
	vi     *valueIndex
	next   int
	// deferred accumulates every negation/comparison/functor-implied
	// equality condition seen so far. The translator places them all as
	// one Filter immediately above the head projection rather than at
	// their ExpressionLevel-minimal point; LevelConditionsTransformer is
	// the pass responsible for hoisting them to their minimal level, so
	// naive placement here is semantically complete.
	deferred []ram.Condition
}

// translateClause lowers clause into a Query-ready Operation tree.
// source resolves each positive body atom's relation name, letting the
// same clause body be relowered against delta relations for semi-naive
// evaluation.
func (t *Translator) translateClause(clause *souffleast.Clause, source atomSource) ram.Operation {
	cb := &clauseBuilder{t: t, clause: clause, vi: newValueIndex()}
	return cb.build(clause.Body, 0, source, cb.terminalProject)
}

func (cb *clauseBuilder) terminalProject() ram.Operation {
	var op ram.Operation = cb.translateHead()
	if cond := ram.JoinConjuncts(cb.deferred); cond != nil {
		op = ram.Filter{Cond: cond, Nested: op}
	}
	return op
}

func (cb *clauseBuilder) freshTuple() int {
	id := cb.next
	cb.next++
	return id
}

// build recursively lowers clause body literals starting at idx,
// calling terminal to build the innermost operation once every
// literal has been processed. The terminal hook lets the same body
// traversal serve both ordinary clause translation (terminates in a
// Project) and provenance subproof translation (terminates in a
// Return).
func (cb *clauseBuilder) build(lits []souffleast.Literal, idx int, source atomSource, terminal func() ram.Operation) ram.Operation {
	if idx == len(lits) {
		return terminal()
	}

	switch lit := lits[idx].(type) {
	case *souffleast.Atom:
		tuple := cb.freshTuple()
		for col, arg := range lit.Args {
			cb.bindAtomArg(arg, tuple, col)
		}
		nested := cb.build(lits, idx+1, source, terminal)
		return ram.Scan{Relation: source(idx, lit.Relation), Tuple: tuple, Nested: nested}

	case *souffleast.Negation:
		pattern := make([]ram.Value, len(lit.Atom.Args))
		for i, a := range lit.Atom.Args {
			pattern[i] = cb.resolveValue(a)
		}
		cb.deferred = append(cb.deferred, ram.NotExistenceCheck{Relation: source(idx, lit.Atom.Relation), Pattern: pattern})
		return cb.build(lits, idx+1, source, terminal)

	case *souffleast.Comparison:
		if lit.Op == "=" {
			if rt, ok := lit.RHS.(*souffleast.RecordTerm); ok {
				return cb.translateRecordInit(lit.LHS, rt, lits, idx, source, terminal)
			}
			if rt, ok := lit.LHS.(*souffleast.RecordTerm); ok {
				return cb.translateRecordInit(rt, lit.RHS, lits, idx, source, terminal)
			}
		}
		cb.deferred = append(cb.deferred, ram.Comparison{
			Op:  lit.Op,
			LHS: cb.resolveValue(lit.LHS),
			RHS: cb.resolveValue(lit.RHS),
		})
		return cb.build(lits, idx+1, source, terminal)

	case *souffleast.Functor:
		args := make([]ram.Value, len(lit.Args))
		for i, a := range lit.Args {
			args[i] = cb.resolveValue(a)
		}
		op, ok := functorOp(lit.Op)
		if !ok {
			cb.t.errs.Add(diagnostics.NewError(diagnostics.ErrUnsupportedFunctor,
				fmt.Sprintf("unsupported functor operator %q", lit.Op),
				lit.Pos).Build())
		}
		val := ram.Value(ram.Intrinsic{Op: op, Args: args})
		cb.defineOrCompare(resultName(lit.Result), val)
		return cb.build(lits, idx+1, source, terminal)

	case *souffleast.Aggregate:
		return cb.translateAggregate(lit, lits, idx, source, terminal)

	default:
		cb.t.errs.Add(diagnostics.CompilerError{
			Level:   diagnostics.Error,
			Code:    diagnostics.ErrUnsupportedTerm,
			Message: "unrecognized body literal shape",
		})
		return cb.build(lits, idx+1, source, terminal)
	}
}

// bindAtomArg handles one column of a positive atom: a fresh variable
// records its definition point; any other term generates an equality
// filter against the newly scanned column.
func (cb *clauseBuilder) bindAtomArg(term souffleast.Term, tuple, col int) {
	access := ram.ElementAccess{Tuple: tuple, Column: col}
	switch t := term.(type) {
	case *souffleast.Var:
		access.Label = t.Name
		if existing, ok := cb.vi.defined(t.Name); ok {
			cb.deferred = append(cb.deferred, ram.Comparison{Op: "=", LHS: access, RHS: existing})
			return
		}
		cb.vi.define(t.Name, access)
	case *souffleast.Underscore:
		// wildcard: no constraint, no binding.
	case *souffleast.RecordTerm:
		if !cb.allFieldsGround(t.Fields) {
			cb.t.errs.Add(diagnostics.NewError(diagnostics.ErrUnsupportedTerm,
				"record destruction is only supported via `var = {fields}`, not as a direct atom argument",
				souffleast.Position{}).Build())
			return
		}
		cb.deferred = append(cb.deferred, ram.Comparison{Op: "=", LHS: access, RHS: cb.resolveValue(t)})
	default:
		cb.deferred = append(cb.deferred, ram.Comparison{Op: "=", LHS: access, RHS: cb.resolveValue(term)})
	}
}

// defineOrCompare records name's canonical value if undefined, or
// emits an equality filter against its existing definition otherwise.
// This is the single mechanism backing functor results, record
// construction results, and aggregate results alike: subsequent
// references at other locations generate equality filters rather than
// rebinding the name.
func (cb *clauseBuilder) defineOrCompare(name string, val ram.Value) {
	if existing, ok := cb.vi.defined(name); ok {
		cb.deferred = append(cb.deferred, ram.Comparison{Op: "=", LHS: existing, RHS: val})
		return
	}
	cb.vi.define(name, val)
}

// resolveValue resolves a term to a ram.Value without creating any new
// binding. An undefined variable is a groundedness invariant
// violation: it is reported and a neutral placeholder substituted so
// lowering can proceed structurally.
func (cb *clauseBuilder) resolveValue(term souffleast.Term) ram.Value {
	switch t := term.(type) {
	case *souffleast.Var:
		if v, ok := cb.vi.defined(t.Name); ok {
			return v
		}
		cb.t.errs.Add(diagnostics.NewError(diagnostics.ErrUnboundVariable,
			fmt.Sprintf("variable %q is referenced before it is bound by any atom, functor, or record", t.Name),
			souffleast.Position{}).
			WithNote("every variable must first occur in a positive atom, a record construction, a functor result, or an aggregate result").
			Build())
		return ram.Number{Val: 0}
	case *souffleast.Const:
		return ram.Number{Val: t.Value}
	case *souffleast.Underscore:
		return nil
	case *souffleast.RecordTerm:
		if !cb.allFieldsGround(t.Fields) {
			cb.t.errs.Add(diagnostics.NewError(diagnostics.ErrUnsupportedTerm,
				"record term is neither fully ground nor bound to a variable for destruction", souffleast.Position{}).Build())
			return ram.Number{Val: 0}
		}
		args := make([]ram.Value, len(t.Fields))
		for i, f := range t.Fields {
			args[i] = cb.resolveValue(f)
		}
		return ram.Pack{Args: args}
	default:
		return ram.Number{Val: 0}
	}
}

// resolveLocalOrWildcard resolves a term the way an aggregate body's
// pattern must: a variable already bound outside the aggregate
// contributes a concrete pattern slot, but a variable with no outer
// definition is local to the aggregate's inner scope and becomes a
// wildcard, since ram.Aggregate's SourcePattern cannot expose fresh
// bindings to the surrounding clause.
func (cb *clauseBuilder) resolveLocalOrWildcard(term souffleast.Term) ram.Value {
	if v, ok := term.(*souffleast.Var); ok {
		if existing, ok := cb.vi.defined(v.Name); ok {
			return existing
		}
		return nil
	}
	return cb.resolveValue(term)
}

func (cb *clauseBuilder) allFieldsGround(fields []souffleast.Term) bool {
	for _, f := range fields {
		switch ft := f.(type) {
		case *souffleast.Var:
			if _, ok := cb.vi.defined(ft.Name); !ok {
				return false
			}
		case *souffleast.RecordTerm:
			if !cb.allFieldsGround(ft.Fields) {
				return false
			}
		}
	}
	return true
}

// translateRecordInit lowers a `var = {fields}` literal, classifying
// it as a Pack construction (all fields already ground) or a Lookup
// destruction.
func (cb *clauseBuilder) translateRecordInit(varTerm souffleast.Term, rec souffleast.Term, lits []souffleast.Literal, idx int, source atomSource, terminal func() ram.Operation) ram.Operation {
	v, ok := varTerm.(*souffleast.Var)
	rt, recOk := rec.(*souffleast.RecordTerm)
	if !ok || !recOk {
		cb.t.errs.Add(diagnostics.NewError(diagnostics.ErrUnsupportedTerm,
			"record initialization must have the shape `var = {fields}`", souffleast.Position{}).Build())
		return cb.build(lits, idx+1, source, terminal)
	}

	if cb.allFieldsGround(rt.Fields) {
		cb.defineOrCompare(v.Name, cb.resolveValue(rt))
		return cb.build(lits, idx+1, source, terminal)
	}

	recVal, ok := cb.vi.defined(v.Name)
	if !ok {
		cb.t.errs.Add(diagnostics.NewError(diagnostics.ErrUnboundVariable,
			fmt.Sprintf("record variable %q destructured before it is bound", v.Name), souffleast.Position{}).Build())
		recVal = ram.Number{Val: 0}
	}

	tuple := cb.freshTuple()
	for i, f := range rt.Fields {
		if fv, ok := f.(*souffleast.Var); ok {
			if _, already := cb.vi.defined(fv.Name); !already {
				cb.vi.define(fv.Name, ram.ElementAccess{Tuple: tuple, Column: i, Label: fv.Name})
			}
		}
	}
	nested := cb.build(lits, idx+1, source, terminal)
	return ram.Lookup{Value: recVal, Arity: len(rt.Fields), Tuple: tuple, Nested: nested}
}

// translateAggregate lowers an aggregate literal. This core supports
// the common single-atom aggregate body (`count : B(x,_)`); a richer
// multi-literal body has no corresponding shape in ram.Aggregate,
// whose Source/SourcePattern model one relation scan, and is reported
// as an unsupported AST shape.
func (cb *clauseBuilder) translateAggregate(agg *souffleast.Aggregate, lits []souffleast.Literal, idx int, source atomSource, terminal func() ram.Operation) ram.Operation {
	if len(agg.Body) != 1 {
		cb.t.errs.Add(diagnostics.NewError(diagnostics.ErrUnsupportedAggregateBody,
			"aggregate bodies with more than one literal are not supported", agg.Pos).Build())
		return cb.build(lits, idx+1, source, terminal)
	}
	atom, ok := agg.Body[0].(*souffleast.Atom)
	if !ok {
		cb.t.errs.Add(diagnostics.NewError(diagnostics.ErrUnsupportedAggregateBody,
			"aggregate body must be a single positive atom", agg.Pos).Build())
		return cb.build(lits, idx+1, source, terminal)
	}
	fn, ok := aggregateFunc(agg.Func)
	if !ok {
		cb.t.errs.Add(diagnostics.NewError(diagnostics.ErrUnsupportedFunctor,
			fmt.Sprintf("unsupported aggregate function %q", agg.Func), agg.Pos).Build())
		fn = ram.AggregateCount
	}

	tuple := cb.freshTuple()
	pattern := make([]ram.Value, len(atom.Args))
	targetIdx := -1
	if targetVar, ok := agg.Target.(*souffleast.Var); ok {
		for i, a := range atom.Args {
			if av, ok := a.(*souffleast.Var); ok && av.Name == targetVar.Name {
				targetIdx = i
			}
		}
	}
	for i, a := range atom.Args {
		pattern[i] = cb.resolveLocalOrWildcard(a)
	}

	var valueExpr ram.Value
	if targetIdx >= 0 {
		valueExpr = ram.ElementAccess{Tuple: tuple, Column: targetIdx}
	} else {
		valueExpr = cb.resolveLocalOrWildcard(agg.Target)
	}

	cb.defineOrCompare(resultName(agg.Result), ram.ElementAccess{Tuple: tuple, Column: 0, Label: resultName(agg.Result)})
	nested := cb.build(lits, idx+1, source, terminal)
	return ram.Aggregate{
		Func:          fn,
		ValueExpr:     valueExpr,
		// -1: an aggregate's inner scan is never a candidate for the
		// delta substitution recursive lowering applies to top-level
		// body atoms, so no real literal index may match it.
		Source: source(-1, atom.Relation),
		SourcePattern: pattern,
		Tuple:         tuple,
		Nested:        nested,
	}
}

func (cb *clauseBuilder) translateHead() ram.Project {
	vals := make([]ram.Value, len(cb.clause.Head.Args))
	for i, a := range cb.clause.Head.Args {
		vals[i] = cb.resolveValue(a)
	}
	return ram.Project{Relation: cb.clause.Head.Relation, Values: vals}
}

// translateReturn builds the witness row for a provenance subproof:
// every variable bound anywhere in the clause body, in definition
// order, re-derived from the subroutine's own Argument(i) parameters
// and scans, returned as the subroutine's witnessing tuple values.
func (cb *clauseBuilder) translateReturn() ram.Return {
	names := cb.vi.names()
	vals := make([]ram.Value, len(names))
	for i, name := range names {
		v, _ := cb.vi.defined(name)
		vals[i] = v
	}
	return ram.Return{Values: vals}
}

func resultName(t souffleast.Term) string {
	if v, ok := t.(*souffleast.Var); ok {
		return v.Name
	}
	return ""
}
