package diagnostics

// Translator diagnostic codes are split into two ranges, mirroring the
// teacher's per-phase code-range convention:
//
//	R0001-R0099  translator invariant violations (malformed input the
//	             upstream TranslationUnit promised never to produce:
//	             an undeclared relation reference, an arity mismatch,
//	             a Functor/Aggregate Result that isn't a *Var), plus
//	             R0005, the transform pipeline's warning that it hit
//	             its iteration cap before reaching a fixpoint
//	R0100-R0199  unsupported AST shapes (constructs this core
//	             deliberately does not lower, e.g. an unrecognized
//	             Functor operator)
const (
	ErrUndeclaredRelation    = "R0001"
	ErrArityMismatch         = "R0002"
	ErrNonVarResult          = "R0003"
	ErrUnboundVariable       = "R0004"
	ErrTransformerNoFixpoint = "R0005"

	ErrUnsupportedFunctor       = "R0100"
	ErrUnsupportedTerm          = "R0101"
	ErrUnsupportedAggregateBody = "R0102"
)
