package ramtext

import (
	"strconv"

	"github.com/dcol97/souffle/internal/ram"
)

// tupleNum parses the numeric suffix of a tuple/column word ("t3",
// "i12") produced by the lexer as a single token; the grammar can't
// split the token itself, so every caller that captured one of these
// words converts it here.
func tupleNum(word string) int {
	if len(word) < 2 {
		return 0
	}
	n, _ := strconv.Atoi(word[1:])
	return n
}

func toProgram(f *File) *ram.Program {
	prog := ram.NewProgram()
	for _, r := range f.Relations {
		prog.Relations[r.Name] = &ram.Relation{Name: r.Name, Arity: r.Arity, Input: r.Input, Output: r.Output}
	}
	prog.Main = ram.Sequence{Stmts: toStatements(f.Statements)}
	for _, s := range f.Subroutines {
		prog.Subroutines[s.Name] = &ram.Subroutine{Name: s.Name, Body: toOperation(s.Op)}
	}
	return prog
}

func toStatements(ss []*Statement) []ram.Statement {
	out := make([]ram.Statement, len(ss))
	for i, s := range ss {
		out[i] = toStatement(s)
	}
	return out
}

func toStatement(s *Statement) ram.Statement {
	switch {
	case s.Parallel != nil:
		return ram.Parallel{Stmts: toStatements(s.Parallel.Body)}
	case s.Loop != nil:
		return ram.Loop{Body: ram.Sequence{Stmts: toStatements(s.Loop.Body)}}
	case s.Exit != nil:
		return ram.Exit{Cond: toCondition(s.Exit.Cond)}
	case s.Timer != nil:
		return ram.LogTimer{Label: s.Timer.Label, Body: ram.Sequence{Stmts: toStatements(s.Timer.Body)}}
	case s.Merge != nil:
		return ram.Merge{Target: s.Merge.Target, Source: s.Merge.Source}
	case s.Swap != nil:
		return ram.Swap{A: s.Swap.A, B: s.Swap.B}
	case s.Create != nil:
		return ram.Create{Relation: s.Create.Relation}
	case s.Load != nil:
		return ram.Load{Relation: s.Load.Relation, Ext: s.Load.Ext}
	case s.Store != nil:
		return ram.Store{Relation: s.Store.Relation, Ext: s.Store.Ext}
	case s.PrintSize != nil:
		return ram.PrintSize{Relation: s.PrintSize.Relation}
	case s.Drop != nil:
		return ram.Drop{Relation: s.Drop.Relation}
	case s.Stratum != nil:
		return ram.Stratum{Index: s.Stratum.Index, Body: ram.Sequence{Stmts: toStatements(s.Stratum.Body)}}
	case s.Query != nil:
		return ram.Query{Op: toOperation(s.Query.Op)}
	default:
		return nil
	}
}

func toOperation(o *Operation) ram.Operation {
	switch {
	case o.Scan != nil:
		s := o.Scan
		return ram.Scan{Relation: s.Relation, Tuple: tupleNum(s.TupleTok), Nested: toOperation(s.Nested)}
	case o.IndexScan != nil:
		s := o.IndexScan
		return ram.IndexScan{Relation: s.Relation, Tuple: tupleNum(s.TupleTok), Pattern: toValues(s.Pattern), Nested: toOperation(s.Nested)}
	case o.IndexChoice != nil:
		s := o.IndexChoice
		return ram.IndexChoice{
			Relation: s.Relation,
			Tuple:    tupleNum(s.TupleTok),
			Pattern:  toValues(s.Pattern),
			Cond:     toCondition(s.Cond),
			Nested:   toOperation(s.Nested),
		}
	case o.Choice != nil:
		s := o.Choice
		return ram.Choice{Relation: s.Relation, Tuple: tupleNum(s.TupleTok), Cond: toCondition(s.Cond), Nested: toOperation(s.Nested)}
	case o.Filter != nil:
		s := o.Filter
		return ram.Filter{Cond: toCondition(s.Cond), Nested: toOperation(s.Nested)}
	case o.Lookup != nil:
		s := o.Lookup
		return ram.Lookup{Value: toValue(s.Value), Tuple: tupleNum(s.TupleTok), Arity: s.Arity, Nested: toOperation(s.Nested)}
	case o.Aggregate != nil:
		s := o.Aggregate
		return ram.Aggregate{
			Func:          ram.AggregateFunc(s.Func),
			ValueExpr:     toValue(s.ValueExpr),
			Source:        s.Source,
			SourcePattern: toValues(s.SourcePattern),
			Tuple:         tupleNum(s.TupleTok),
			Nested:        toOperation(s.Nested),
		}
	case o.Project != nil:
		s := o.Project
		return ram.Project{Relation: s.Relation, Values: toValues(s.Values)}
	case o.Return != nil:
		return ram.Return{Values: toValues(o.Return.Values)}
	default:
		return nil
	}
}

func toCondition(c *Condition) ram.Condition {
	if c == nil {
		return nil
	}
	switch {
	case c.Conjunction != nil:
		return ram.Conjunction{Left: toCondition(c.Conjunction.Left), Right: toCondition(c.Conjunction.Right)}
	case c.NotExistence != nil:
		return ram.NotExistenceCheck{Relation: c.NotExistence.Relation, Pattern: toValues(c.NotExistence.Pattern)}
	case c.Existence != nil:
		return ram.ExistenceCheck{Relation: c.Existence.Relation, Pattern: toValues(c.Existence.Pattern)}
	case c.Empty != nil:
		return ram.Empty{Relation: c.Empty.Relation}
	case c.True:
		return nil
	case c.Comparison != nil:
		return ram.Comparison{Op: c.Comparison.Op, LHS: toValue(c.Comparison.LHS), RHS: toValue(c.Comparison.RHS)}
	default:
		return nil
	}
}

func toValues(vs []*Value) []ram.Value {
	out := make([]ram.Value, len(vs))
	for i, v := range vs {
		out[i] = toValue(v)
	}
	return out
}

func toValue(v *Value) ram.Value {
	if v == nil {
		return nil
	}
	switch {
	case v.Number != nil:
		return ram.Number{Val: v.Number.Val}
	case v.ElementAccess != nil:
		return ram.ElementAccess{Tuple: tupleNum(v.ElementAccess.TupleTok), Column: tupleNum(v.ElementAccess.ColumnTok)}
	case v.Intrinsic != nil:
		return ram.Intrinsic{Op: v.Intrinsic.Op, Args: toValues(v.Intrinsic.Args)}
	case v.Argument != nil:
		return ram.Argument{Index: v.Argument.Index}
	case v.AutoIncrement != nil:
		return ram.AutoIncrement{}
	case v.Pack != nil:
		return ram.Pack{Args: toValues(v.Pack.Args)}
	case v.Wildcard:
		return nil
	default:
		return nil
	}
}
