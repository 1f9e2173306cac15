// Package transform implements the RAM-to-RAM rewrite passes that run
// after translation: hoisting filter conditions to their minimal
// level, folding equalities into index patterns, collapsing pure
// existence scans, and narrowing single-witness scans into choices.
package transform

import (
	"github.com/dcol97/souffle/internal/diagnostics"
	"github.com/dcol97/souffle/internal/ram"
	"github.com/dcol97/souffle/internal/souffleast"
)

// maxIterations bounds the fixpoint loop; reaching it is a warning; a
// program legitimately needing more than 16 rounds to stabilize would
// indicate two transformers fighting each other; 16 comfortably
// covers every clause shape the translator can produce.
const maxIterations = 16

// Transformer is one named rewrite pass over a ram.Program.
// Transform reports whether it changed the program, which is how the
// pipeline decides it has reached a fixpoint.
type Transformer interface {
	Name() string
	Transform(prog *ram.Program) bool
}

// DefaultPipeline returns the four transformers in their required
// order: conditions must be leveled before CreateIndices can see
// equalities sitting at the right scan, indices must exist before
// ConvertExistenceChecks can tell a residual conjunct from a folded
// one, and a scan can only become a Choice once ConvertExistenceChecks
// has had first refusal at dropping it entirely.
func DefaultPipeline() []Transformer {
	return []Transformer{
		LevelConditionsTransformer{},
		CreateIndicesTransformer{},
		ConvertExistenceChecksTransformer{},
		SearchesToChoicesTransformer{},
	}
}

// Run applies every transformer in pipeline, in order, then repeats
// the whole sequence until none of them report a change. Hitting
// maxIterations without reaching a fixpoint is reported to errs as a
// warning, not an error: the last stable tree produced is kept and
// translation still succeeds. errs may be nil, in which case the
// warning is simply not recorded.
func Run(prog *ram.Program, pipeline []Transformer, errs *diagnostics.ErrorReport) {
	for i := 0; i < maxIterations; i++ {
		changed := false
		for _, t := range pipeline {
			if t.Transform(prog) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
	diagnostics.Logger("souffle.transform").Warningf("transform pipeline did not reach a fixpoint after %d iterations", maxIterations)
	if errs != nil {
		errs.Add(diagnostics.NewWarning(
			diagnostics.ErrTransformerNoFixpoint,
			"transform pipeline did not reach a fixpoint within the iteration limit",
			souffleast.Position{},
		).Build())
	}
}
