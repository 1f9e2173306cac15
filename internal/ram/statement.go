package ram

// Sequence runs each statement in Stmts in order.
type Sequence struct {
	Stmts []Statement
}

func (Sequence) isStatement() {}
func (Sequence) Kind() string { return "Sequence" }

func (s Sequence) Apply(f func(Node) Node) Node {
	return Sequence{Stmts: mapStatementSlice(f, s.Stmts)}
}

func (s Sequence) Equal(other Node) bool {
	o, ok := other.(Sequence)
	return ok && equalStatementSlice(s.Stmts, o.Stmts)
}

// Parallel describes (but does not itself execute) concurrent
// execution of each statement in Stmts; the translator must only ever
// populate it with statements that write disjoint relations.
type Parallel struct {
	Stmts []Statement
}

func (Parallel) isStatement() {}
func (Parallel) Kind() string { return "Parallel" }

func (p Parallel) Apply(f func(Node) Node) Node {
	return Parallel{Stmts: mapStatementSlice(f, p.Stmts)}
}

func (p Parallel) Equal(other Node) bool {
	o, ok := other.(Parallel)
	return ok && equalStatementSlice(p.Stmts, o.Stmts)
}

// Loop repeats Body until an Exit statement inside it fires.
type Loop struct {
	Body Statement
}

func (Loop) isStatement() {}
func (Loop) Kind() string { return "Loop" }

func (l Loop) Apply(f func(Node) Node) Node {
	return Loop{Body: mapStatementChild(f, l.Body)}
}

func (l Loop) Equal(other Node) bool {
	o, ok := other.(Loop)
	return ok && equalStatement(l.Body, o.Body)
}

// Exit breaks out of the innermost enclosing Loop when Cond holds.
type Exit struct {
	Cond Condition
}

func (Exit) isStatement() {}
func (Exit) Kind() string { return "Exit" }

func (e Exit) Apply(f func(Node) Node) Node {
	return Exit{Cond: mapConditionChild(f, e.Cond)}
}

func (e Exit) Equal(other Node) bool {
	o, ok := other.(Exit)
	return ok && equalCondition(e.Cond, o.Cond)
}

// LogTimer wraps Body, timing its execution under Label; emitted only
// when the "profile" configuration option is set.
type LogTimer struct {
	Label string
	Body  Statement
}

func (LogTimer) isStatement() {}
func (LogTimer) Kind() string { return "LogTimer" }

func (l LogTimer) Apply(f func(Node) Node) Node {
	return LogTimer{Label: l.Label, Body: mapStatementChild(f, l.Body)}
}

func (l LogTimer) Equal(other Node) bool {
	o, ok := other.(LogTimer)
	return ok && o.Label == l.Label && equalStatement(l.Body, o.Body)
}

// Merge inserts every tuple of Source into Target.
type Merge struct {
	Target, Source string
}

func (Merge) isStatement() {}
func (Merge) Kind() string { return "Merge" }
func (m Merge) Apply(func(Node) Node) Node { return m }
func (m Merge) Equal(other Node) bool {
	o, ok := other.(Merge)
	return ok && o.Target == m.Target && o.Source == m.Source
}

// Swap exchanges the contents of A and B.
type Swap struct {
	A, B string
}

func (Swap) isStatement() {}
func (Swap) Kind() string { return "Swap" }
func (s Swap) Apply(func(Node) Node) Node { return s }
func (s Swap) Equal(other Node) bool {
	o, ok := other.(Swap)
	return ok && o.A == s.A && o.B == s.B
}

// Create declares Relation as empty and ready for use.
type Create struct {
	Relation string
}

func (Create) isStatement() {}
func (Create) Kind() string { return "Create" }
func (c Create) Apply(func(Node) Node) Node { return c }
func (c Create) Equal(other Node) bool {
	o, ok := other.(Create)
	return ok && o.Relation == c.Relation
}

// Load reads Relation from disk with file extension Ext (".facts" or
// ".csv").
type Load struct {
	Relation string
	Ext      string
}

func (Load) isStatement() {}
func (Load) Kind() string { return "Load" }
func (l Load) Apply(func(Node) Node) Node { return l }
func (l Load) Equal(other Node) bool {
	o, ok := other.(Load)
	return ok && o.Relation == l.Relation && o.Ext == l.Ext
}

// Store writes Relation to disk with file extension Ext.
type Store struct {
	Relation string
	Ext      string
}

func (Store) isStatement() {}
func (Store) Kind() string { return "Store" }
func (s Store) Apply(func(Node) Node) Node { return s }
func (s Store) Equal(other Node) bool {
	o, ok := other.(Store)
	return ok && o.Relation == s.Relation && o.Ext == s.Ext
}

// PrintSize logs the tuple count of Relation.
type PrintSize struct {
	Relation string
}

func (PrintSize) isStatement() {}
func (PrintSize) Kind() string { return "PrintSize" }
func (p PrintSize) Apply(func(Node) Node) Node { return p }
func (p PrintSize) Equal(other Node) bool {
	o, ok := other.(PrintSize)
	return ok && o.Relation == p.Relation
}

// Drop releases Relation's storage.
type Drop struct {
	Relation string
}

func (Drop) isStatement() {}
func (Drop) Kind() string { return "Drop" }
func (d Drop) Apply(func(Node) Node) Node { return d }
func (d Drop) Equal(other Node) bool {
	o, ok := other.(Drop)
	return ok && o.Relation == d.Relation
}

// Stratum wraps the statements emitted for one SCC, in evaluation
// order.
type Stratum struct {
	Index int
	Body  Statement
}

func (Stratum) isStatement() {}
func (Stratum) Kind() string { return "Stratum" }

func (s Stratum) Apply(f func(Node) Node) Node {
	return Stratum{Index: s.Index, Body: mapStatementChild(f, s.Body)}
}

func (s Stratum) Equal(other Node) bool {
	o, ok := other.(Stratum)
	return ok && o.Index == s.Index && equalStatement(s.Body, o.Body)
}

// Query wraps a top-level Operation loop nest.
type Query struct {
	Op Operation
}

func (Query) isStatement() {}
func (Query) Kind() string { return "Query" }

func (q Query) Apply(f func(Node) Node) Node {
	return Query{Op: mapOperationChild(f, q.Op)}
}

func (q Query) Equal(other Node) bool {
	o, ok := other.(Query)
	return ok && equalOperation(q.Op, o.Op)
}

func mapStatementChild(f func(Node) Node, s Statement) Statement {
	if s == nil {
		return nil
	}
	out := f(s)
	if out == nil {
		return nil
	}
	return out.(Statement)
}

func equalStatement(a, b Statement) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func mapStatementSlice(f func(Node) Node, ss []Statement) []Statement {
	out := make([]Statement, len(ss))
	for i, s := range ss {
		out[i] = mapStatementChild(f, s)
	}
	return out
}

func equalStatementSlice(a, b []Statement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalStatement(a[i], b[i]) {
			return false
		}
	}
	return true
}
