package ram

import "fmt"

// AggregateFunc enumerates the supported Aggregate functions.
type AggregateFunc string

const (
	AggregateMin   AggregateFunc = "MIN"
	AggregateMax   AggregateFunc = "MAX"
	AggregateCount AggregateFunc = "COUNT"
	AggregateSum   AggregateFunc = "SUM"
)

// Scan binds, for each tuple of Relation, Tuple to that tuple and
// executes Nested.
type Scan struct {
	Relation string
	Tuple    int
	Nested   Operation
}

func (Scan) isOperation() {}
func (Scan) Kind() string { return "Scan" }

func (s Scan) Apply(f func(Node) Node) Node {
	return Scan{Relation: s.Relation, Tuple: s.Tuple, Nested: mapOperationChild(f, s.Nested)}
}

func (s Scan) Equal(other Node) bool {
	o, ok := other.(Scan)
	return ok && o.Relation == s.Relation && o.Tuple == s.Tuple && equalOperation(s.Nested, o.Nested)
}

// IndexScan restricts Scan to tuples matching the concrete (non-nil)
// slots of Pattern; nil slots are unconstrained.
type IndexScan struct {
	Relation string
	Tuple    int
	Pattern  []Value
	Nested   Operation
}

func (IndexScan) isOperation() {}
func (IndexScan) Kind() string { return "IndexScan" }

func (s IndexScan) Apply(f func(Node) Node) Node {
	return IndexScan{
		Relation: s.Relation,
		Tuple:    s.Tuple,
		Pattern:  mapValueSlice(f, s.Pattern),
		Nested:   mapOperationChild(f, s.Nested),
	}
}

func (s IndexScan) Equal(other Node) bool {
	o, ok := other.(IndexScan)
	return ok && o.Relation == s.Relation && o.Tuple == s.Tuple &&
		equalValueSlice(s.Pattern, o.Pattern) && equalOperation(s.Nested, o.Nested)
}

// Choice executes Nested once for the first tuple of Relation
// satisfying Condition; it is a no-op if no tuple matches.
type Choice struct {
	Relation string
	Tuple    int
	Cond     Condition
	Nested   Operation
}

func (Choice) isOperation() {}
func (Choice) Kind() string { return "Choice" }

func (c Choice) Apply(f func(Node) Node) Node {
	return Choice{
		Relation: c.Relation,
		Tuple:    c.Tuple,
		Cond:     mapConditionChild(f, c.Cond),
		Nested:   mapOperationChild(f, c.Nested),
	}
}

func (c Choice) Equal(other Node) bool {
	o, ok := other.(Choice)
	return ok && o.Relation == c.Relation && o.Tuple == c.Tuple &&
		equalCondition(c.Cond, o.Cond) && equalOperation(c.Nested, o.Nested)
}

// IndexChoice is the index-filtered variant of Choice.
type IndexChoice struct {
	Relation string
	Tuple    int
	Pattern  []Value
	Cond     Condition
	Nested   Operation
}

func (IndexChoice) isOperation() {}
func (IndexChoice) Kind() string { return "IndexChoice" }

func (c IndexChoice) Apply(f func(Node) Node) Node {
	return IndexChoice{
		Relation: c.Relation,
		Tuple:    c.Tuple,
		Pattern:  mapValueSlice(f, c.Pattern),
		Cond:     mapConditionChild(f, c.Cond),
		Nested:   mapOperationChild(f, c.Nested),
	}
}

func (c IndexChoice) Equal(other Node) bool {
	o, ok := other.(IndexChoice)
	return ok && o.Relation == c.Relation && o.Tuple == c.Tuple &&
		equalValueSlice(c.Pattern, o.Pattern) && equalCondition(c.Cond, o.Cond) &&
		equalOperation(c.Nested, o.Nested)
}

// Filter executes Nested iff Cond holds for the current tuple
// environment.
type Filter struct {
	Cond   Condition
	Nested Operation
}

func (Filter) isOperation() {}
func (Filter) Kind() string { return "Filter" }

func (f Filter) Apply(fn func(Node) Node) Node {
	return Filter{Cond: mapConditionChild(fn, f.Cond), Nested: mapOperationChild(fn, f.Nested)}
}

func (f Filter) Equal(other Node) bool {
	o, ok := other.(Filter)
	return ok && equalCondition(f.Cond, o.Cond) && equalOperation(f.Nested, o.Nested)
}

// Lookup unpacks the record referenced by Value into a fresh tuple of
// Arity, bound to Tuple, and executes Nested.
type Lookup struct {
	Value  Value
	Arity  int
	Tuple  int
	Nested Operation
}

func (Lookup) isOperation() {}
func (Lookup) Kind() string { return "Lookup" }

func (l Lookup) Apply(f func(Node) Node) Node {
	return Lookup{
		Value:  mapValueChild(f, l.Value),
		Arity:  l.Arity,
		Tuple:  l.Tuple,
		Nested: mapOperationChild(f, l.Nested),
	}
}

func (l Lookup) Equal(other Node) bool {
	o, ok := other.(Lookup)
	return ok && o.Arity == l.Arity && o.Tuple == l.Tuple &&
		equalValue(l.Value, o.Value) && equalOperation(l.Nested, o.Nested)
}

// Aggregate computes Func over the tuples scanned from Source
// (restricted by SourcePattern, which may be all-wildcard), binds the
// result as tuple Tuple, and executes Nested.
type Aggregate struct {
	Func          AggregateFunc
	ValueExpr     Value
	Source        string
	SourcePattern []Value
	Tuple         int
	Nested        Operation
}

func (Aggregate) isOperation() {}
func (Aggregate) Kind() string { return "Aggregate" }

func (a Aggregate) Apply(f func(Node) Node) Node {
	return Aggregate{
		Func:          a.Func,
		ValueExpr:     mapValueChild(f, a.ValueExpr),
		Source:        a.Source,
		SourcePattern: mapValueSlice(f, a.SourcePattern),
		Tuple:         a.Tuple,
		Nested:        mapOperationChild(f, a.Nested),
	}
}

func (a Aggregate) Equal(other Node) bool {
	o, ok := other.(Aggregate)
	return ok && o.Func == a.Func && o.Source == a.Source && o.Tuple == a.Tuple &&
		equalValue(a.ValueExpr, o.ValueExpr) && equalValueSlice(a.SourcePattern, o.SourcePattern) &&
		equalOperation(a.Nested, o.Nested)
}

// Project inserts a new tuple built from Values into Relation.
type Project struct {
	Relation string
	Values   []Value
}

func (Project) isOperation() {}
func (Project) Kind() string { return "Project" }

func (p Project) Apply(f func(Node) Node) Node {
	return Project{Relation: p.Relation, Values: mapValueSlice(f, p.Values)}
}

func (p Project) Equal(other Node) bool {
	o, ok := other.(Project)
	return ok && o.Relation == p.Relation && equalValueSlice(p.Values, o.Values)
}

// Return terminates a provenance subproof subroutine with a result row.
type Return struct {
	Values []Value
}

func (Return) isOperation() {}
func (Return) Kind() string { return "Return" }

func (r Return) Apply(f func(Node) Node) Node {
	return Return{Values: mapValueSlice(f, r.Values)}
}

func (r Return) Equal(other Node) bool {
	o, ok := other.(Return)
	return ok && equalValueSlice(r.Values, o.Values)
}

func mapOperationChild(f func(Node) Node, op Operation) Operation {
	if op == nil {
		return nil
	}
	out := f(op)
	if out == nil {
		return nil
	}
	return out.(Operation)
}

func equalOperation(a, b Operation) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// TupleOf returns the tuple id introduced by op, and false for
// operations that introduce no tuple (Filter, Project, Return).
func TupleOf(op Operation) (int, bool) {
	switch o := op.(type) {
	case Scan:
		return o.Tuple, true
	case IndexScan:
		return o.Tuple, true
	case Choice:
		return o.Tuple, true
	case IndexChoice:
		return o.Tuple, true
	case Lookup:
		return o.Tuple, true
	case Aggregate:
		return o.Tuple, true
	default:
		return 0, false
	}
}

// NestedOf returns the single nested Operation child of op, and false
// for operations with no nested child (Project, Return).
func NestedOf(op Operation) (Operation, bool) {
	switch o := op.(type) {
	case Scan:
		return o.Nested, true
	case IndexScan:
		return o.Nested, true
	case Choice:
		return o.Nested, true
	case IndexChoice:
		return o.Nested, true
	case Filter:
		return o.Nested, true
	case Lookup:
		return o.Nested, true
	case Aggregate:
		return o.Nested, true
	default:
		return nil, false
	}
}

func (a Aggregate) String() string {
	return fmt.Sprintf("%s(%s) AS t%d", a.Func, a.Source, a.Tuple)
}

// WithNested returns a copy of op with its single nested child
// replaced by nested; it panics if op has no nested child (Project,
// Return), since those calls are always a caller bug. The transform
// pipeline uses this to rebuild a wrapping operation around a rewritten
// child without a type switch at every call site.
func WithNested(op Operation, nested Operation) Operation {
	switch o := op.(type) {
	case Scan:
		o.Nested = nested
		return o
	case IndexScan:
		o.Nested = nested
		return o
	case Choice:
		o.Nested = nested
		return o
	case IndexChoice:
		o.Nested = nested
		return o
	case Filter:
		o.Nested = nested
		return o
	case Lookup:
		o.Nested = nested
		return o
	case Aggregate:
		o.Nested = nested
		return o
	default:
		panic("ram: WithNested called on an operation with no nested child")
	}
}
