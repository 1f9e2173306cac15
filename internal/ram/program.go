package ram

// Relation describes one relation's schema and role; it is part of
// the RAM IR proper (not the Datalog AST), since Create/Load/Store/
// PrintSize/Drop all refer to relations by name and the transform
// pipeline needs arity to validate pattern length against it.
type Relation struct {
	Name      string
	Arity     int
	Input     bool
	Output    bool
	PrintSize bool
	// Internal relations belong to the current stratum's SCC; external
	// relations are produced by, or feed, a different stratum.
	Internal bool
}

// Subroutine is a provenance subproof: re-derives a clause body using
// Argument values for the head columns, returning witnessing values
// via Return.
type Subroutine struct {
	Name string
	Body Operation
}

// Program is the translation unit's output: a top Sequence of Stratum
// statements, the relation schema table, and any provenance
// subroutines, keyed by name.
type Program struct {
	Main        Statement
	Relations   map[string]*Relation
	Subroutines map[string]*Subroutine
}

// NewProgram returns an empty, ready-to-populate Program.
func NewProgram() *Program {
	return &Program{
		Main:        Sequence{},
		Relations:   make(map[string]*Relation),
		Subroutines: make(map[string]*Subroutine),
	}
}

// Relation looks up a relation by name, returning nil if undeclared.
func (p *Program) Relation(name string) *Relation {
	return p.Relations[name]
}
