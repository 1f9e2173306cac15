// Package diagnostics is the translator's error surface: an
// ErrorReport that the translator writes into and the caller inspects
// afterward, plus a DebugReport that accumulates named sections and is
// flushed once, at the end of translation.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/dcol97/souffle/internal/souffleast"
)

// ErrorLevel is the severity of a CompilerError.
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// Suggestion is an optional suggested fix attached to a CompilerError.
type Suggestion struct {
	Message     string
	Replacement string
}

// CompilerError is a structured translator diagnostic. Position is
// the zero value for whole-unit diagnostics (e.g. a transformer
// hitting its iteration cap), which FormatError renders without a
// location line.
type CompilerError struct {
	Level       ErrorLevel
	Code        string
	Message     string
	Position    souffleast.Position
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

// ErrorReport accumulates CompilerErrors for one translation run. It
// is append-only: nothing the translator does ever removes an entry.
type ErrorReport struct {
	filename string
	source   string
	lines    []string
	errors   []CompilerError
}

// NewErrorReport creates an ErrorReport. filename/source are used only
// to render caret-style context lines; both may be empty when no
// Datalog source text is available (e.g. fixture-driven runs).
func NewErrorReport(filename, source string) *ErrorReport {
	var lines []string
	if source != "" {
		lines = strings.Split(source, "\n")
	}
	return &ErrorReport{filename: filename, source: source, lines: lines}
}

// Add appends err to the report.
func (r *ErrorReport) Add(err CompilerError) {
	r.errors = append(r.errors, err)
}

// Errors returns every accumulated diagnostic, in the order added.
func (r *ErrorReport) Errors() []CompilerError {
	return r.errors
}

// HasErrors reports whether any accumulated diagnostic is at Error
// level. The translator aborts the translation unit (returns a nil
// *ram.Program) iff this is true.
func (r *ErrorReport) HasErrors() bool {
	for _, e := range r.errors {
		if e.Level == Error {
			return true
		}
	}
	return false
}

// FormatAll renders every accumulated diagnostic, in order.
func (r *ErrorReport) FormatAll() string {
	var b strings.Builder
	for _, e := range r.errors {
		b.WriteString(r.FormatError(e))
	}
	return b.String()
}

// FormatError renders a single CompilerError in teacher's Rust-like
// style: a colored "level[code]: message" header, an optional source
// context line, notes, and help text.
func (r *ErrorReport) FormatError(err CompilerError) string {
	var b strings.Builder
	levelColor := r.levelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if err.Code != "" {
		fmt.Fprintf(&b, "%s[%s]: %s\n", levelColor(string(err.Level)), err.Code, err.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s\n", levelColor(string(err.Level)), err.Message)
	}

	if err.Position.Line > 0 && err.Position.Line <= len(r.lines) {
		fmt.Fprintf(&b, "   %s %s:%d:%d\n", dim("-->"), r.filename, err.Position.Line, err.Position.Column)
		fmt.Fprintf(&b, "   %s\n", dim("│"))
		fmt.Fprintf(&b, "%s %s %s\n", bold(fmt.Sprintf("%3d", err.Position.Line)), dim("│"), r.lines[err.Position.Line-1])
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		fmt.Fprintf(&b, "   %s %s %s\n", dim("│"), noteColor("note:"), note)
	}
	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(&b, "   %s %s %s\n", dim("│"), helpColor("help:"), err.HelpText)
	}
	for i, s := range err.Suggestions {
		suggestionColor := color.New(color.FgCyan).SprintFunc()
		if i == 0 {
			fmt.Fprintf(&b, "   %s %s: %s\n", suggestionColor("help"), suggestionColor("try"), s.Message)
		} else {
			fmt.Fprintf(&b, "       %s\n", s.Message)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (r *ErrorReport) levelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}
