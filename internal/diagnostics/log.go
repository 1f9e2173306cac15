package diagnostics

import "github.com/tliron/commonlog"

// Logger returns the named commonlog.Logger used for this run's
// non-fatal, non-user-facing notes. Its callers are the transform
// pipeline (a transformer hitting the fixpoint cap) and the CLI
// driver; the translator does not log. name follows the dotted
// convention commonlog itself uses, e.g. "souffle.transform".
func Logger(name string) commonlog.Logger {
	return commonlog.GetLogger(name)
}
