package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcol97/souffle/internal/ram"
)

func TestExpressionLevelLeaf(t *testing.T) {
	assert.Equal(t, unbound, ExpressionLevel(ram.Number{Val: 5}))
	assert.Equal(t, unbound, ExpressionLevel(ram.Argument{Index: 0}))
	assert.Equal(t, unbound, ExpressionLevel(ram.AutoIncrement{}))
	assert.Equal(t, 2, ExpressionLevel(ram.ElementAccess{Tuple: 2, Column: 0}))
}

func TestExpressionLevelNested(t *testing.T) {
	v := ram.Intrinsic{
		Op: "+",
		Args: []ram.Value{
			ram.ElementAccess{Tuple: 1, Column: 0},
			ram.Intrinsic{Op: "*", Args: []ram.Value{ram.ElementAccess{Tuple: 3, Column: 1}, ram.Number{Val: 2}}},
		},
	}
	assert.Equal(t, 3, ExpressionLevel(v))
}

func TestExpressionLevelPackIgnoresWildcards(t *testing.T) {
	v := ram.Pack{Args: []ram.Value{nil, ram.ElementAccess{Tuple: 4, Column: 0}, nil}}
	assert.Equal(t, 4, ExpressionLevel(v))
}

func TestConditionLevelMonotonicity(t *testing.T) {
	// Property 5: ExpressionLevel(v) <= ConditionLevel(c) whenever v
	// occurs in c.
	lhs := ram.ElementAccess{Tuple: 1, Column: 0}
	rhs := ram.ElementAccess{Tuple: 3, Column: 1}
	cmp := ram.Comparison{Op: "=", LHS: lhs, RHS: rhs}

	assert.LessOrEqual(t, ExpressionLevel(lhs), ConditionLevel(cmp))
	assert.LessOrEqual(t, ExpressionLevel(rhs), ConditionLevel(cmp))
	assert.Equal(t, 3, ConditionLevel(cmp))
}

func TestConditionLevelConjunction(t *testing.T) {
	a := ram.Comparison{Op: "=", LHS: ram.ElementAccess{Tuple: 0, Column: 0}, RHS: ram.Number{Val: 1}}
	b := ram.Comparison{Op: "=", LHS: ram.ElementAccess{Tuple: 2, Column: 0}, RHS: ram.Number{Val: 2}}
	conj := ram.Conjunction{Left: a, Right: b}
	assert.Equal(t, 2, ConditionLevel(conj))
}

func TestConditionLevelExistenceCheck(t *testing.T) {
	ec := ram.ExistenceCheck{Relation: "B", Pattern: []ram.Value{ram.ElementAccess{Tuple: 0, Column: 1}, nil}}
	assert.Equal(t, 0, ConditionLevel(ec))

	empty := ram.Empty{Relation: "B"}
	assert.Equal(t, unbound, ConditionLevel(empty))
}

func TestConstValue(t *testing.T) {
	assert.True(t, ConstValue(ram.Number{Val: 1}))
	assert.False(t, ConstValue(ram.ElementAccess{Tuple: 0, Column: 0}))
	assert.False(t, ConstValue(ram.Argument{Index: 0}))
	assert.False(t, ConstValue(ram.AutoIncrement{}))

	assert.True(t, ConstValue(ram.Intrinsic{Op: "+", Args: []ram.Value{ram.Number{Val: 1}, ram.Number{Val: 2}}}))
	assert.False(t, ConstValue(ram.Intrinsic{Op: "+", Args: []ram.Value{ram.Number{Val: 1}, ram.ElementAccess{Tuple: 0, Column: 0}}}))
}

func TestIndexScanKeys(t *testing.T) {
	pattern := []ram.Value{ram.Number{Val: 1}, nil, ram.Number{Val: 2}}
	assert.Equal(t, uint64(0b101), IndexScanKeys(pattern))
	assert.Equal(t, 2, BoundColumns(pattern))
}
