package souffleast

// This file fixes the shape of the upstream analyses the translator
// consumes verbatim: TypeEnvironment, RecursiveClauses, SCCGraph,
// TopologicallySortedSCCGraph, and RelationSchedule. None of these are
// computed here — constructing them (type inference, Tarjan's
// algorithm, topological sort, liveness scheduling) belongs to
// components this repository treats as external collaborators. Tests
// and cmd/soufflemid's fixture loader build them directly.

// TypeEnvironment is queried only for relation arity in this core;
// richer typing (e.g. per-column domains) lives upstream and is not
// needed by lowering or the transform pipeline.
type TypeEnvironment struct {
	relationArity map[string]int
}

// NewTypeEnvironment builds a TypeEnvironment from a Program's
// relation declarations.
func NewTypeEnvironment(p *Program) *TypeEnvironment {
	te := &TypeEnvironment{relationArity: make(map[string]int, len(p.Relations))}
	for _, r := range p.Relations {
		te.relationArity[r.Name] = r.Arity
	}
	return te
}

// Arity returns the declared arity of relation, or -1 if undeclared.
func (te *TypeEnvironment) Arity(relation string) int {
	if a, ok := te.relationArity[relation]; ok {
		return a
	}
	return -1
}

// RecursiveClauses marks which clauses depend on at least one atom
// belonging to their own SCC (and therefore need semi-naive
// treatment rather than one-shot evaluation).
type RecursiveClauses struct {
	recursive map[*Clause]bool
}

// NewRecursiveClauses wraps a precomputed recursive/non-recursive
// partition of a program's clauses.
func NewRecursiveClauses(recursive map[*Clause]bool) *RecursiveClauses {
	if recursive == nil {
		recursive = make(map[*Clause]bool)
	}
	return &RecursiveClauses{recursive: recursive}
}

// Is reports whether c was marked recursive.
func (rc *RecursiveClauses) Is(c *Clause) bool {
	return rc.recursive[c]
}

// SCC is one strongly connected component of the relation dependency
// graph: the set of relations defined together, plus which relations
// outside the SCC it reads from or is read by.
type SCC struct {
	Relations            []string
	Recursive            bool
	ExternalPredecessors []string
	ExternalSuccessors   []string
}

// SCCGraph partitions a program's relations into SCCs and records
// which are inputs/outputs of the overall program.
type SCCGraph struct {
	SCCs   []*SCC
	Input  map[string]bool
	Output map[string]bool
}

// NewSCCGraph builds an SCCGraph from already-computed SCCs and
// input/output relation sets.
func NewSCCGraph(sccs []*SCC, input, output map[string]bool) *SCCGraph {
	if input == nil {
		input = make(map[string]bool)
	}
	if output == nil {
		output = make(map[string]bool)
	}
	return &SCCGraph{SCCs: sccs, Input: input, Output: output}
}

// TopoOrder is the topological order over SCCGraph.SCCs: Order[i] is
// the index into SCCGraph.SCCs of the SCC scheduled as stratum i.
type TopoOrder struct {
	Order []int
}

// RelationSchedule records, per stratum index, which relations have
// no further use after that stratum and may be dropped.
type RelationSchedule struct {
	ExpiresAfter map[int][]string
}

// ExpiresAt reports whether relation's expiry set includes stratum.
func (rs *RelationSchedule) ExpiresAt(stratum int, relation string) bool {
	for _, r := range rs.ExpiresAfter[stratum] {
		if r == relation {
			return true
		}
	}
	return false
}

// TranslationUnit bundles everything the translator needs from the
// AST side of the pipeline.
type TranslationUnit struct {
	Program   *Program
	Types     *TypeEnvironment
	Recursive *RecursiveClauses
	SCCs      *SCCGraph
	Topo      *TopoOrder
	Schedule  *RelationSchedule
}
