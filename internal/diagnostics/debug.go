package diagnostics

import (
	"os"
	"strings"
	"time"
)

// DebugReport accumulates named sections during translation and is
// flushed once, at the end, to the path given by the "debug-report"
// configuration key. Sections are append-only, mirroring ErrorReport.
type DebugReport struct {
	sections []debugSection
}

type debugSection struct {
	name string
	body string
}

// NewDebugReport creates an empty DebugReport.
func NewDebugReport() *DebugReport {
	return &DebugReport{}
}

// AddSection appends a named section. Calling it twice with the same
// name keeps both; sections render in the order added.
func (d *DebugReport) AddSection(name, body string) {
	d.sections = append(d.sections, debugSection{name: name, body: body})
}

// AddTimedSection records a section alongside how long it took to
// produce, used by the CLI for the "ram-program-final" section's
// wall-clock (the translator's own "ram-program" section is untimed).
func (d *DebugReport) AddTimedSection(name, body string, elapsed time.Duration) {
	d.sections = append(d.sections, debugSection{name: name, body: body + "\n\nelapsed: " + elapsed.String()})
}

// Render concatenates every section under a "==== name ====" header.
func (d *DebugReport) Render() string {
	var b strings.Builder
	for _, s := range d.sections {
		b.WriteString("==== ")
		b.WriteString(s.name)
		b.WriteString(" ====\n")
		b.WriteString(s.body)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Flush writes the rendered report to path. A no-op when path is empty,
// matching the "debug-report: if non-empty, write" configuration rule.
func (d *DebugReport) Flush(path string) error {
	if path == "" {
		return nil
	}
	return os.WriteFile(path, []byte(d.Render()), 0o644)
}
