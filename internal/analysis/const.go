package analysis

import "github.com/dcol97/souffle/internal/ram"

// ConstValue reports whether v is a compile-time constant: a literal
// number, or an Intrinsic/Pack built entirely from constants. A nil
// (wildcard) slot is vacuously constant. ElementAccess, Argument, and
// AutoIncrement are never constant: the first two depend on runtime
// tuple binding, the third on evaluation order.
func ConstValue(v ram.Value) bool {
	switch val := v.(type) {
	case nil:
		return true
	case ram.Number:
		return true
	case ram.ElementAccess:
		return false
	case ram.Argument:
		return false
	case ram.AutoIncrement:
		return false
	case ram.Intrinsic:
		return allConst(val.Args)
	case ram.Pack:
		return allConst(val.Args)
	default:
		return false
	}
}

func allConst(vs []ram.Value) bool {
	for _, v := range vs {
		if !ConstValue(v) {
			return false
		}
	}
	return true
}
