package diagnostics

import "github.com/dcol97/souffle/internal/souffleast"

// Builder fluently assembles a CompilerError.
type Builder struct {
	err CompilerError
}

// NewError starts building an Error-level diagnostic at pos.
func NewError(code, message string, pos souffleast.Position) *Builder {
	return &Builder{err: CompilerError{Level: Error, Code: code, Message: message, Position: pos}}
}

// NewWarning starts building a Warning-level diagnostic at pos.
func NewWarning(code, message string, pos souffleast.Position) *Builder {
	return &Builder{err: CompilerError{Level: Warning, Code: code, Message: message, Position: pos}}
}

// WithSuggestion attaches a fix suggestion with no inline replacement text.
func (b *Builder) WithSuggestion(message string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement attaches a fix suggestion carrying replacement text.
func (b *Builder) WithReplacement(message, replacement string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message, Replacement: replacement})
	return b
}

// WithNote appends a note line.
func (b *Builder) WithNote(note string) *Builder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp sets the help-text line.
func (b *Builder) WithHelp(help string) *Builder {
	b.err.HelpText = help
	return b
}

// Build returns the assembled CompilerError.
func (b *Builder) Build() CompilerError {
	return b.err
}
