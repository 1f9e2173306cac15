package ramtext

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"github.com/dcol97/souffle/internal/ram"
)

// Parse reads a textual RAM dump (as produced by ram.Print) and
// rebuilds the ram.Program it describes.
func Parse(filename, source string) (*ram.Program, error) {
	parser, err := participle.Build[File](
		participle.Lexer(Definition),
		participle.Elide("Newline"),
		participle.UseLookahead(8),
	)
	if err != nil {
		return nil, fmt.Errorf("ramtext: building parser: %w", err)
	}

	f, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("ramtext: %w", err)
	}
	return toProgram(f), nil
}
