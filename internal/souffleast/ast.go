// Package souffleast defines the semantically analyzed Datalog
// program this repository's translator consumes. Building these
// values — lexing and parsing Datalog source, resolving types,
// computing strongly connected components — is explicitly out of
// scope here; this package only fixes the shape of that external
// collaborator's output so the translator has something concrete to
// lower. Values are normally constructed by a JSON fixture loader (see
// cmd/soufflemid) or directly by tests.
package souffleast

// Position mirrors the minimal source-location shape the diagnostics
// package needs to point at a clause or relation declaration; it
// carries no further semantics here.
type Position struct {
	Line   int
	Column int
}

// Relation declares one predicate's name, arity, and I/O role.
type Relation struct {
	Name      string
	Arity     int
	Input     bool
	Output    bool
	PrintSize bool
	Pos       Position
}

// Program is a fully resolved Datalog program: every relation it
// refers to is declared, every clause's body literals are already
// type-checked, and every term inside them already carries its
// resolved shape (Var/Const/Underscore/RecordTerm).
type Program struct {
	Relations []*Relation
	Clauses   []*Clause
}

// RelationByName looks up a declared relation, or nil if undeclared.
func (p *Program) RelationByName(name string) *Relation {
	for _, r := range p.Relations {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Clause is one rule `Head :- Body.` (a fact is a Clause with an
// empty Body).
type Clause struct {
	Head *Atom
	Body []Literal
	Pos  Position
}

// Term is a value occurring inside an Atom's argument list.
type Term interface{ isTerm() }

// Var is a named logic variable.
type Var struct{ Name string }

func (*Var) isTerm() {}

// Const is a literal domain-int constant.
type Const struct{ Value int }

func (*Const) isTerm() {}

// Underscore is the anonymous wildcard `_`.
type Underscore struct{}

func (*Underscore) isTerm() {}

// RecordTerm is a record pattern: `{a, b, _}`-shaped syntax that the
// translator must classify, per clause, as either a construction (all
// fields ground at this point — lower to ram.Pack) or a destruction
// (the pattern's binding variable already has a definition point
// elsewhere in the clause — lower to ram.Lookup).
type RecordTerm struct {
	Fields []Term
}

func (*RecordTerm) isTerm() {}

// Literal is one element of a clause body.
type Literal interface{ isLiteral() }

// Atom is a positive or (when wrapped in Negation) negative relational
// literal, and also the shape of a clause Head.
type Atom struct {
	Relation string
	Args     []Term
	Pos      Position
}

func (*Atom) isLiteral() {}

// Negation is `!Atom` in the clause body.
type Negation struct {
	Atom *Atom
}

func (*Negation) isLiteral() {}

// Comparison is a body literal comparing two terms, e.g. `x > 10`.
type Comparison struct {
	Op       string
	LHS, RHS Term
	Pos      Position
}

func (*Comparison) isLiteral() {}

// Functor is a unary, binary, or ternary built-in computing Result
// from Args, e.g. `z = x + y`.
type Functor struct {
	Result Term // always *Var
	Op     string
	Args   []Term
	Pos    Position
}

func (*Functor) isLiteral() {}

// Aggregate binds Result to Func applied to Target, evaluated over
// Body (a nested clause-body-shaped scope with its own literals).
type Aggregate struct {
	Result Term // always *Var
	Func   string
	Target Term
	Body   []Literal
	Pos    Position
}

func (*Aggregate) isLiteral() {}
