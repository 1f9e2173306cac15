package translate

import "github.com/dcol97/souffle/internal/ram"

// functorOps whitelists the functor operators this core knows how to
// lower to an Intrinsic, covering the arithmetic, bitwise, logical,
// and string built-ins Soufflé programs commonly use. An operator
// outside this table is reported as an unsupported AST shape rather
// than guessed at.
var functorOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"band": true, "bor": true, "bxor": true, "bshl": true, "bshr": true,
	"land": true, "lor": true, "lnot": true,
	"max": true, "min": true,
	"cat": true, "ord": true, "strlen": true, "substr": true,
	"to_string": true, "to_number": true,
}

func functorOp(op string) (string, bool) {
	if functorOps[op] {
		return op, true
	}
	return op, false
}

// aggregateFuncs maps the Datalog aggregate keyword to its ram.AggregateFunc.
var aggregateFuncs = map[string]ram.AggregateFunc{
	"min":   ram.AggregateMin,
	"max":   ram.AggregateMax,
	"count": ram.AggregateCount,
	"sum":   ram.AggregateSum,
}

func aggregateFunc(name string) (ram.AggregateFunc, bool) {
	f, ok := aggregateFuncs[name]
	return f, ok
}
