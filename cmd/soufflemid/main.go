// Command soufflemid is the CLI driver for the translator and
// transform pipeline: it loads a JSON fixture standing in for a real
// Datalog front end's output, lowers it to a RAM program, runs the
// RAM-to-RAM rewrite pipeline to a fixpoint, and writes the resulting
// textual RAM dump (and, if requested, a debug report) to disk.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/tliron/commonlog"

	"github.com/dcol97/souffle/internal/config"
	"github.com/dcol97/souffle/internal/diagnostics"
	"github.com/dcol97/souffle/internal/ram"
	"github.com/dcol97/souffle/internal/souffleast/fixture"
	"github.com/dcol97/souffle/internal/transform"
	"github.com/dcol97/souffle/internal/translate"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		factDir     = flag.String("fact-dir", ".", "directory LOAD statements read input facts from")
		outputDir   = flag.String("output-dir", ".", "directory STORE statements write output relations to")
		engine      = flag.Bool("engine", false, "load, store and drop relations shared between strata for a standalone engine")
		provenance  = flag.Bool("provenance", false, "emit subproof subroutines")
		profile     = flag.Bool("profile", false, "wrap the whole program in a \"runtime\" wall-clock timer")
		debugReport = flag.String("debug-report", "", "path to write the debug report to (empty disables it)")
		ramOut      = flag.String("o", "", "path to write the textual RAM dump to (default: stdout)")
		verbosity   = flag.Int("v", 0, "commonlog verbosity (0=quiet, higher=noisier)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <fixture.json>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	commonlog.Configure(*verbosity, nil)
	log := diagnostics.Logger("souffle.cmd")

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	fixturePath := flag.Arg(0)

	unit, err := fixture.Load(fixturePath)
	if err != nil {
		color.Red("error: %s", err)
		return 1
	}
	log.Infof("loaded fixture %s: %d relations, %d clauses", fixturePath, len(unit.Program.Relations), len(unit.Program.Clauses))

	cfg := config.New(*factDir, *outputDir, *engine, *provenance, *profile, *debugReport)
	errs := diagnostics.NewErrorReport(fixturePath, "")
	debug := diagnostics.NewDebugReport()

	start := time.Now()
	prog := translate.New(unit, cfg, errs, debug).Translate()
	if prog == nil {
		fmt.Print(errs.FormatAll())
		color.Red("translation failed")
		return 1
	}

	transform.Run(prog, transform.DefaultPipeline(), errs)
	elapsed := time.Since(start)
	debug.AddTimedSection("ram-program-final", ram.Print(prog), elapsed)

	if len(errs.Errors()) > 0 {
		fmt.Print(errs.FormatAll())
	}

	dump := ram.Print(prog)
	if *ramOut == "" {
		fmt.Print(dump)
	} else if err := os.WriteFile(*ramOut, []byte(dump), 0o644); err != nil {
		color.Red("error writing RAM dump: %s", err)
		return 1
	}

	if err := debug.Flush(*debugReport); err != nil {
		color.Red("error writing debug report: %s", err)
		return 1
	}

	color.Green("translated %s in %s", fixturePath, elapsed)
	return 0
}
