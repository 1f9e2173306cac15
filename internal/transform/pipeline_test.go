package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcol97/souffle/internal/config"
	"github.com/dcol97/souffle/internal/diagnostics"
	"github.com/dcol97/souffle/internal/ram"
	"github.com/dcol97/souffle/internal/souffleast"
	"github.com/dcol97/souffle/internal/translate"
)

func newReport() *diagnostics.ErrorReport {
	return diagnostics.NewErrorReport("test.dl", "")
}

func singleSCCUnit(prog *souffleast.Program, sccs []*souffleast.SCC) *souffleast.TranslationUnit {
	order := make([]int, len(sccs))
	expires := make(map[int][]string, len(sccs))
	for i, scc := range sccs {
		order[i] = i
		expires[i] = append(expires[i], scc.Relations...)
	}
	return &souffleast.TranslationUnit{
		Program:   prog,
		Types:     souffleast.NewTypeEnvironment(prog),
		Recursive: souffleast.NewRecursiveClauses(nil),
		SCCs:      souffleast.NewSCCGraph(sccs, nil, nil),
		Topo:      &souffleast.TopoOrder{Order: order},
		Schedule:  &souffleast.RelationSchedule{ExpiresAfter: expires},
	}
}

// translateJoin lowers "C(x,z) :- A(x,y), B(y,z)." and returns its
// single Query operation, pre-optimization.
func translateJoin(t *testing.T) ram.Operation {
	t.Helper()
	relA := &souffleast.Relation{Name: "A", Arity: 2, Output: true}
	relB := &souffleast.Relation{Name: "B", Arity: 2, Output: true}
	relC := &souffleast.Relation{Name: "C", Arity: 2, Output: true}
	x, y, z := &souffleast.Var{Name: "x"}, &souffleast.Var{Name: "y"}, &souffleast.Var{Name: "z"}
	clause := &souffleast.Clause{
		Head: &souffleast.Atom{Relation: "C", Args: []souffleast.Term{x, z}},
		Body: []souffleast.Literal{
			&souffleast.Atom{Relation: "A", Args: []souffleast.Term{x, y}},
			&souffleast.Atom{Relation: "B", Args: []souffleast.Term{y, z}},
		},
	}
	prog := &souffleast.Program{Relations: []*souffleast.Relation{relA, relB, relC}, Clauses: []*souffleast.Clause{clause}}
	unit := singleSCCUnit(prog, []*souffleast.SCC{{Relations: []string{"C"}}})
	cfg := config.New("", "", false, false, false, "")
	tr := translate.New(unit, cfg, newReport(), nil)
	out := tr.Translate()
	require.NotNil(t, out)
	return firstQueryOp(t, out)
}

// translateScanToChoiceCandidate lowers "Q(x) :- A(x), B(x,_).": B's
// second column is unused, so B's tuple is only ever consulted for
// existence.
func translateScanToChoiceCandidate(t *testing.T) (*ram.Program, ram.Operation) {
	t.Helper()
	relA := &souffleast.Relation{Name: "A", Arity: 1, Output: true}
	relB := &souffleast.Relation{Name: "B", Arity: 2}
	relQ := &souffleast.Relation{Name: "Q", Arity: 1, Output: true}
	x := &souffleast.Var{Name: "x"}
	clause := &souffleast.Clause{
		Head: &souffleast.Atom{Relation: "Q", Args: []souffleast.Term{x}},
		Body: []souffleast.Literal{
			&souffleast.Atom{Relation: "A", Args: []souffleast.Term{x}},
			&souffleast.Atom{Relation: "B", Args: []souffleast.Term{x, &souffleast.Underscore{}}},
		},
	}
	prog := &souffleast.Program{Relations: []*souffleast.Relation{relA, relB, relQ}, Clauses: []*souffleast.Clause{clause}}
	unit := singleSCCUnit(prog, []*souffleast.SCC{{Relations: []string{"Q"}}})
	cfg := config.New("", "", false, false, false, "")
	tr := translate.New(unit, cfg, newReport(), nil)
	out := tr.Translate()
	require.NotNil(t, out)
	return out, firstQueryOp(t, out)
}

func firstQueryOp(t *testing.T, prog *ram.Program) ram.Operation {
	t.Helper()
	seq, ok := prog.Main.(ram.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Stmts, 1)
	stratum, ok := seq.Stmts[0].(ram.Stratum)
	require.True(t, ok)
	body, ok := stratum.Body.(ram.Sequence)
	require.True(t, ok)
	for _, stmt := range body.Stmts {
		if q, ok := stmt.(ram.Query); ok {
			return q.Op
		}
	}
	t.Fatal("no Query statement found")
	return nil
}

func wrapQuery(op ram.Operation) *ram.Program {
	prog := ram.NewProgram()
	prog.Main = ram.Sequence{Stmts: []ram.Statement{ram.Query{Op: op}}}
	return prog
}

// CreateIndices folds the join equality into an IndexScan and drops
// the now-empty residual Filter.
func TestCreateIndicesFoldsJoinEquality(t *testing.T) {
	op := translateJoin(t)
	prog := wrapQuery(op)
	prog.Relations["A"] = &ram.Relation{Name: "A", Arity: 2}
	prog.Relations["B"] = &ram.Relation{Name: "B", Arity: 2}
	prog.Relations["C"] = &ram.Relation{Name: "C", Arity: 2}

	changed := LevelConditionsTransformer{}.Transform(prog)
	assert.False(t, changed, "the join filter is already at its minimal level")

	changed = CreateIndicesTransformer{}.Transform(prog)
	assert.True(t, changed)

	scanA, ok := firstQueryOp(t, prog).(ram.Scan)
	require.True(t, ok)
	idxB, ok := scanA.Nested.(ram.IndexScan)
	require.True(t, ok)
	assert.Equal(t, "B", idxB.Relation)
	assert.Equal(t, ram.ElementAccess{Tuple: scanA.Tuple, Column: 1, Label: "y"}, idxB.Pattern[0])
	assert.Nil(t, idxB.Pattern[1])

	proj, ok := idxB.Nested.(ram.Project)
	require.True(t, ok)
	assert.Equal(t, "C", proj.Relation)

	changedAgain := CreateIndicesTransformer{}.Transform(prog)
	assert.False(t, changedAgain, "idempotent: nothing left to fold")
}

// ConvertExistenceChecks eliminates B's scan entirely once its tuple
// is fully subsumed by the index pattern and unused downstream.
func TestConvertExistenceChecksEliminatesScan(t *testing.T) {
	_, op := translateScanToChoiceCandidate(t)
	prog := wrapQuery(op)
	prog.Relations["A"] = &ram.Relation{Name: "A", Arity: 1}
	prog.Relations["B"] = &ram.Relation{Name: "B", Arity: 2}
	prog.Relations["Q"] = &ram.Relation{Name: "Q", Arity: 1}

	pipeline := []Transformer{LevelConditionsTransformer{}, CreateIndicesTransformer{}, ConvertExistenceChecksTransformer{}}
	for _, tr := range pipeline {
		tr.Transform(prog)
	}

	scanA, ok := firstQueryOp(t, prog).(ram.Scan)
	require.True(t, ok)
	assert.Equal(t, "A", scanA.Relation)

	filter, ok := scanA.Nested.(ram.Filter)
	require.True(t, ok)
	existence, ok := filter.Cond.(ram.ExistenceCheck)
	require.True(t, ok)
	assert.Equal(t, "B", existence.Relation)
	assert.Equal(t, ram.ElementAccess{Tuple: scanA.Tuple, Column: 0, Label: "x"}, existence.Pattern[0])
	assert.Nil(t, existence.Pattern[1])

	proj, ok := filter.Nested.(ram.Project)
	require.True(t, ok)
	assert.Equal(t, "Q", proj.Relation)

	changedAgain := ConvertExistenceChecksTransformer{}.Transform(prog)
	assert.False(t, changedAgain, "idempotent: no scan left to convert")
}

// Same shape as the existence-check scenario above, but B's second
// column is read by a residual comparison (not an equality
// CreateIndices can fold), so the scan can't be dropped outright;
// SearchesToChoices narrows it to a single witness instead.
func TestSearchesToChoicesNarrowsToSingleWitness(t *testing.T) {
	relA := &souffleast.Relation{Name: "A", Arity: 1, Output: true}
	relB := &souffleast.Relation{Name: "B", Arity: 2}
	relQ := &souffleast.Relation{Name: "Q", Arity: 1, Output: true}
	x, y := &souffleast.Var{Name: "x"}, &souffleast.Var{Name: "y"}
	clause := &souffleast.Clause{
		Head: &souffleast.Atom{Relation: "Q", Args: []souffleast.Term{x}},
		Body: []souffleast.Literal{
			&souffleast.Atom{Relation: "A", Args: []souffleast.Term{x}},
			&souffleast.Atom{Relation: "B", Args: []souffleast.Term{x, y}},
			&souffleast.Comparison{Op: ">", LHS: y, RHS: &souffleast.Const{Value: 0}},
		},
	}
	prog := &souffleast.Program{Relations: []*souffleast.Relation{relA, relB, relQ}, Clauses: []*souffleast.Clause{clause}}
	unit := singleSCCUnit(prog, []*souffleast.SCC{{Relations: []string{"Q"}}})
	cfg := config.New("", "", false, false, false, "")
	tr := translate.New(unit, cfg, newReport(), nil)
	out := tr.Translate()
	require.NotNil(t, out)

	ramProg := wrapQuery(firstQueryOp(t, out))
	ramProg.Relations["A"] = &ram.Relation{Name: "A", Arity: 1}
	ramProg.Relations["B"] = &ram.Relation{Name: "B", Arity: 2}
	ramProg.Relations["Q"] = &ram.Relation{Name: "Q", Arity: 1}

	Run(ramProg, DefaultPipeline(), newReport())

	scanA, ok := firstQueryOp(t, ramProg).(ram.Scan)
	require.True(t, ok)

	// B's scan survives (its tuple is still read by the residual
	// y > 0 comparison, which becomes the choice's condition) but
	// becomes a single-witness choice rather than an enumerated scan.
	var found bool
	var walk func(op ram.Operation)
	walk = func(op ram.Operation) {
		switch o := op.(type) {
		case ram.IndexChoice:
			if o.Relation == "B" {
				found = true
			}
			walk(o.Nested)
		case ram.Choice:
			if o.Relation == "B" {
				found = true
			}
			walk(o.Nested)
		default:
			if nested, ok := ram.NestedOf(op); ok {
				walk(nested)
			}
		}
	}
	walk(scanA)
	assert.True(t, found, "expected B to become a Choice/IndexChoice")
}

// Running the full default pipeline twice never reports a change the
// second time (testable property: idempotence at fixpoint).
func TestPipelineReachesFixpoint(t *testing.T) {
	op := translateJoin(t)
	prog := wrapQuery(op)
	prog.Relations["A"] = &ram.Relation{Name: "A", Arity: 2}
	prog.Relations["B"] = &ram.Relation{Name: "B", Arity: 2}
	prog.Relations["C"] = &ram.Relation{Name: "C", Arity: 2}

	Run(prog, DefaultPipeline(), newReport())

	changed := false
	for _, tr := range DefaultPipeline() {
		if tr.Transform(prog) {
			changed = true
		}
	}
	assert.False(t, changed)
}

func TestLevelConditionsHoistsToMinimalLevel(t *testing.T) {
	// FOR t0 IN A { FOR t1 IN B { IF t0.0 > 10 { PROJECT C(t0.0) } } }
	// The comparison only reads t0, so it belongs immediately inside
	// the A scan, not nested inside the B scan.
	inner := ram.Scan{
		Relation: "A",
		Tuple:    0,
		Nested: ram.Scan{
			Relation: "B",
			Tuple:    1,
			Nested: ram.Filter{
				Cond: ram.Comparison{Op: ">", LHS: ram.ElementAccess{Tuple: 0, Column: 0}, RHS: ram.Number{Val: 10}},
				Nested: ram.Project{
					Relation: "C",
					Values:   []ram.Value{ram.ElementAccess{Tuple: 0, Column: 0}},
				},
			},
		},
	}
	prog := wrapQuery(inner)

	changed := LevelConditionsTransformer{}.Transform(prog)
	assert.True(t, changed)

	scanA, ok := firstQueryOp(t, prog).(ram.Scan)
	require.True(t, ok)
	filter, ok := scanA.Nested.(ram.Filter)
	require.True(t, ok)
	assert.Equal(t, ram.Comparison{Op: ">", LHS: ram.ElementAccess{Tuple: 0, Column: 0}, RHS: ram.Number{Val: 10}}, filter.Cond)

	scanB, ok := filter.Nested.(ram.Scan)
	require.True(t, ok)
	assert.Equal(t, "B", scanB.Relation)
	_, stillFilter := scanB.Nested.(ram.Filter)
	assert.False(t, stillFilter, "the comparison should have moved out from under B's scan")

	changedAgain := LevelConditionsTransformer{}.Transform(prog)
	assert.False(t, changedAgain)
}
