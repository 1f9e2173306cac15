package transform

import "github.com/dcol97/souffle/internal/ram"

// SearchesToChoicesTransformer rewrites a Scan (or IndexScan) into a
// Choice (or IndexChoice) when its tuple is referenced by the
// enclosing filter's condition but by nothing downstream: semantics
// only need one witnessing tuple, not every match, so the scan can
// commit to the first one that satisfies cond: require the bound
// tuple to be used by the enclosing condition and by no downstream
// projection, aggregation source, or lookup. It runs after
// ConvertExistenceChecksTransformer
// in the pipeline, so it only ever sees scans that transformer could
// not fully dissolve (cond still depends on t in a way a bare
// existence pattern can't express).
type SearchesToChoicesTransformer struct{}

func (SearchesToChoicesTransformer) Name() string { return "SearchesToChoices" }

func (SearchesToChoicesTransformer) Transform(prog *ram.Program) bool {
	return Walk(prog, func(op ram.Operation) (ram.Operation, bool) {
		return descend(op, searchToChoiceStep)
	})
}

func searchToChoiceStep(op ram.Operation) (ram.Operation, bool) {
	switch o := op.(type) {
	case ram.Scan:
		filter, ok := o.Nested.(ram.Filter)
		if !ok || referencesNode(filter.Nested, o.Tuple) || !referencesNode(filter.Cond, o.Tuple) {
			return op, false
		}
		return ram.Choice{Relation: o.Relation, Tuple: o.Tuple, Cond: filter.Cond, Nested: filter.Nested}, true
	case ram.IndexScan:
		filter, ok := o.Nested.(ram.Filter)
		if !ok || referencesNode(filter.Nested, o.Tuple) || !referencesNode(filter.Cond, o.Tuple) {
			return op, false
		}
		return ram.IndexChoice{
			Relation: o.Relation,
			Tuple:    o.Tuple,
			Pattern:  o.Pattern,
			Cond:     filter.Cond,
			Nested:   filter.Nested,
		}, true
	default:
		return op, false
	}
}
