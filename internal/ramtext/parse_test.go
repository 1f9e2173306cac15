package ramtext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcol97/souffle/internal/ram"
	"github.com/dcol97/souffle/internal/ramtext"
)

func roundTrip(t *testing.T, prog *ram.Program) *ram.Program {
	t.Helper()
	text := ram.Print(prog)
	out, err := ramtext.Parse("roundtrip.ram", text)
	require.NoError(t, err, "dump:\n%s", text)
	return out
}

func TestRoundTripSimpleScanFilterProject(t *testing.T) {
	prog := ram.NewProgram()
	prog.Relations["A"] = &ram.Relation{Name: "A", Arity: 1, Input: true}
	prog.Relations["B"] = &ram.Relation{Name: "B", Arity: 1, Output: true}
	prog.Main = ram.Sequence{Stmts: []ram.Statement{
		ram.Stratum{Index: 0, Body: ram.Sequence{Stmts: []ram.Statement{
			ram.Create{Relation: "A"},
			ram.Load{Relation: "A", Ext: ".facts"},
			ram.Query{Op: ram.Scan{
				Relation: "A",
				Tuple:    0,
				Nested: ram.Filter{
					Cond: ram.Comparison{Op: ">", LHS: ram.ElementAccess{Tuple: 0, Column: 0}, RHS: ram.Number{Val: 10}},
					Nested: ram.Project{
						Relation: "B",
						Values:   []ram.Value{ram.ElementAccess{Tuple: 0, Column: 0}},
					},
				},
			}},
			ram.Store{Relation: "B", Ext: ".csv"},
			ram.Drop{Relation: "A"},
		}}},
	}}

	out := roundTrip(t, prog)

	require.NotNil(t, out.Relations["A"])
	require.NotNil(t, out.Relations["B"])
	assert.True(t, out.Relations["A"].Input)
	assert.True(t, out.Relations["B"].Output)
	assert.Equal(t, 1, out.Relations["A"].Arity)
	assert.True(t, prog.Main.Equal(out.Main), "dump:\n%s", ram.Print(prog))
}

func TestRoundTripIndexScanJoinWithWildcard(t *testing.T) {
	prog := ram.NewProgram()
	prog.Relations["A"] = &ram.Relation{Name: "A", Arity: 2}
	prog.Relations["B"] = &ram.Relation{Name: "B", Arity: 2}
	prog.Relations["C"] = &ram.Relation{Name: "C", Arity: 2, Output: true}
	prog.Main = ram.Sequence{Stmts: []ram.Statement{
		ram.Query{Op: ram.Scan{
			Relation: "A",
			Tuple:    0,
			Nested: ram.IndexScan{
				Relation: "B",
				Tuple:    1,
				Pattern:  []ram.Value{ram.ElementAccess{Tuple: 0, Column: 1}, nil},
				Nested: ram.Project{
					Relation: "C",
					Values:   []ram.Value{ram.ElementAccess{Tuple: 0, Column: 0}, ram.ElementAccess{Tuple: 1, Column: 1}},
				},
			},
		}},
	}}

	out := roundTrip(t, prog)
	assert.True(t, prog.Main.Equal(out.Main), "dump:\n%s", ram.Print(prog))
}

func TestRoundTripExistenceChoiceAndConjunction(t *testing.T) {
	prog := ram.NewProgram()
	prog.Relations["A"] = &ram.Relation{Name: "A", Arity: 1}
	prog.Relations["B"] = &ram.Relation{Name: "B", Arity: 2}
	prog.Relations["Q"] = &ram.Relation{Name: "Q", Arity: 1, Output: true}
	prog.Main = ram.Sequence{Stmts: []ram.Statement{
		ram.Query{Op: ram.Scan{
			Relation: "A",
			Tuple:    0,
			Nested: ram.IndexChoice{
				Relation: "B",
				Tuple:    1,
				Pattern:  []ram.Value{ram.ElementAccess{Tuple: 0, Column: 0}, nil},
				Cond: ram.Conjunction{
					Left:  ram.Comparison{Op: ">", LHS: ram.ElementAccess{Tuple: 1, Column: 1}, RHS: ram.Number{Val: 0}},
					Right: ram.ExistenceCheck{Relation: "A", Pattern: []ram.Value{ram.ElementAccess{Tuple: 1, Column: 1}}},
				},
				Nested: ram.Project{Relation: "Q", Values: []ram.Value{ram.ElementAccess{Tuple: 0, Column: 0}}},
			},
		}},
	}}

	out := roundTrip(t, prog)
	assert.True(t, prog.Main.Equal(out.Main), "dump:\n%s", ram.Print(prog))
}

func TestRoundTripAggregateAndLookup(t *testing.T) {
	prog := ram.NewProgram()
	prog.Relations["A"] = &ram.Relation{Name: "A", Arity: 1}
	prog.Relations["B"] = &ram.Relation{Name: "B", Arity: 2}
	prog.Main = ram.Sequence{Stmts: []ram.Statement{
		ram.Query{Op: ram.Aggregate{
			Func:          ram.AggregateSum,
			ValueExpr:     ram.ElementAccess{Tuple: 0, Column: 0},
			Source:        "A",
			SourcePattern: []ram.Value{nil},
			Tuple:         0,
			Nested: ram.Lookup{
				Value:  ram.ElementAccess{Tuple: 0, Column: 0},
				Arity:  2,
				Tuple:  1,
				Nested: ram.Return{Values: []ram.Value{ram.ElementAccess{Tuple: 1, Column: 0}, ram.Argument{Index: 0}}},
			},
		}},
	}}

	out := roundTrip(t, prog)
	assert.True(t, prog.Main.Equal(out.Main), "dump:\n%s", ram.Print(prog))
}

func TestRoundTripSubroutineAndControlStatements(t *testing.T) {
	prog := ram.NewProgram()
	prog.Subroutines["R_0_subproof"] = &ram.Subroutine{
		Name: "R_0_subproof",
		Body: ram.Return{Values: []ram.Value{ram.Argument{Index: 0}, ram.AutoIncrement{}}},
	}
	prog.Main = ram.Sequence{Stmts: []ram.Statement{
		ram.Parallel{Stmts: []ram.Statement{
			ram.Merge{Target: "R", Source: "delta_R"},
			ram.Swap{A: "delta_R", B: "new_R"},
		}},
		ram.Loop{Body: ram.Sequence{Stmts: []ram.Statement{
			ram.Exit{Cond: ram.Empty{Relation: "new_R"}},
		}}},
		ram.LogTimer{Label: "stratum 0", Body: ram.Sequence{Stmts: []ram.Statement{
			ram.PrintSize{Relation: "R"},
		}}},
	}}

	out := roundTrip(t, prog)
	assert.True(t, prog.Main.Equal(out.Main), "dump:\n%s", ram.Print(prog))
	require.NotNil(t, out.Subroutines["R_0_subproof"])
	assert.True(t, prog.Subroutines["R_0_subproof"].Body.Equal(out.Subroutines["R_0_subproof"].Body))
}
