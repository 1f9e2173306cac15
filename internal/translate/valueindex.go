package translate

import "github.com/dcol97/souffle/internal/ram"

// valueIndex is the auxiliary table tracking variable bindings,
// scoped to the lowering of a single clause. It maps each variable
// name to
// the ram.Value that stands for its canonical definition: an
// ElementAccess into the tuple that first bound it, or — for a
// functor result or a record construction whose variable has no atom
// occurrence — the computed expression itself. The first recorded
// occurrence wins; later occurrences must consult, not overwrite, it.
type valueIndex struct {
	values map[string]ram.Value
	order  []string
}

func newValueIndex() *valueIndex {
	return &valueIndex{values: make(map[string]ram.Value)}
}

// defined reports the canonical value for name, if one has been
// recorded yet.
func (vi *valueIndex) defined(name string) (ram.Value, bool) {
	v, ok := vi.values[name]
	return v, ok
}

// define records name's canonical value if this is its first
// occurrence; later calls for the same name are no-ops, since the
// first recorded occurrence is the definition point.
func (vi *valueIndex) define(name string, v ram.Value) {
	if _, ok := vi.values[name]; !ok {
		vi.values[name] = v
		vi.order = append(vi.order, name)
	}
}

// names returns every variable name defined so far, in definition
// order — used to build a provenance subproof's witness row.
func (vi *valueIndex) names() []string {
	return vi.order
}
