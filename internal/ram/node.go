// Package ram implements the relational algebra machine tree IR: the
// target of AST→RAM lowering and the subject of the transformer
// pipeline. The IR is a strict, singly-owned tree (no node is ever
// shared between two parents); reuse always goes through Clone.
package ram

// Node is the common shape shared by every RAM tree node regardless of
// category (Value, Condition, Operation, Statement). It intentionally
// carries the minimum needed to make clone, child enumeration, and
// mapper rewriting generic: everything else lives on the concrete
// variant types.
type Node interface {
	// Kind names the concrete variant, e.g. "Scan" or "ElementAccess".
	Kind() string

	// Apply rebuilds this node with each direct child replaced by the
	// result of calling f on it. Implementations never mutate the
	// receiver or alias its existing slices; they always construct a
	// fresh node (and fresh backing slices) so ownership of the
	// original subtree is untouched.
	Apply(f func(Node) Node) Node

	// Equal reports whether other is the same variant with pairwise
	// equal attributes and children. Tuple ids are compared
	// structurally; no alpha-renaming is performed.
	Equal(other Node) bool
}

// Value is a pure expression evaluated inside a loop nest.
type Value interface {
	Node
	isValue()
}

// Condition is a boolean expression over Values.
type Condition interface {
	Node
	isCondition()
}

// Operation is a node in a loop nest.
type Operation interface {
	Node
	isOperation()
}

// Statement is an outer control-structure node.
type Statement interface {
	Node
	isStatement()
}

// Clone returns a deep copy of n: mutating any child of the result
// never affects n. It is defined generically in terms of Apply, since
// Apply already rebuilds fresh nodes with fresh slices for every
// variant — recursively cloning every child is then simply "apply
// Clone to every child".
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	return n.Apply(Clone)
}

// Children enumerates the direct children of n in a stable,
// restartable order, without mutating n. It piggybacks on Apply: the
// identity-shaped callback records each child it is handed and
// returns it unchanged.
func Children(n Node) []Node {
	if n == nil {
		return nil
	}
	var out []Node
	n.Apply(func(child Node) Node {
		out = append(out, child)
		return child
	})
	return out
}

// Mapper bundles the four category-specific rewrite functions used by
// a pre-order tree rewrite. Any function left nil behaves as the
// identity for that category.
type Mapper struct {
	Value     func(Value) Value
	Condition func(Condition) Condition
	Operation func(Operation) Operation
	Statement func(Statement) Statement
}

// Rewrite performs a generic pre-order traversal of n: it first
// applies the matching category function (if any) to n itself, then
// recurses into the (possibly replaced) node's children, rewriting
// each of them in turn. Analyses never call Rewrite — only
// transformers do, since this is the one operation that produces new
// trees instead of reading the existing one.
func (m Mapper) Rewrite(n Node) Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case Value:
		if m.Value != nil {
			n = m.Value(v)
		}
	case Condition:
		if m.Condition != nil {
			n = m.Condition(v)
		}
	case Operation:
		if m.Operation != nil {
			n = m.Operation(v)
		}
	case Statement:
		if m.Statement != nil {
			n = m.Statement(v)
		}
	}
	return n.Apply(m.Rewrite)
}

// RewriteOperation is a typed convenience wrapper around Rewrite for
// the common case of rewriting an Operation subtree (clause bodies,
// query bodies): the transformer pipeline works almost exclusively at
// this level.
func (m Mapper) RewriteOperation(op Operation) Operation {
	if op == nil {
		return nil
	}
	return m.Rewrite(op).(Operation)
}

// RewriteStatement is the Statement-level analogue of RewriteOperation,
// used to rewrite whole strata or the top-level sequence.
func (m Mapper) RewriteStatement(s Statement) Statement {
	if s == nil {
		return nil
	}
	return m.Rewrite(s).(Statement)
}
