// Package ramtext parses the textual RAM dump produced by
// internal/ram's Printer back into a *ram.Program, so a dump written
// to disk by one run (or hand-edited for a regression fixture) can be
// fed back in as a debugging and property-test oracle.
//
// The dump is indentation-structured: a nested operation or statement
// block is one tab deeper than its parent. That rules out a plain
// whitespace-eliding grammar (whitespace alone can't tell a PARALLEL's
// first child from a sibling that follows it), so lexing happens in
// two passes: first the indentation of each line is turned into
// explicit Indent/Dedent tokens (the same job Python's tokenizer
// does), then each line's content is tokenized by a hand-written
// rune scanner (scanLine).
//
// The scanner accepts no '+', '-', '*' or '%' characters and lexes '/'
// as punctuation, so a dump containing an Intrinsic whose operator is
// one of those symbols, or a negative number, does not parse.
package ramtext

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

const (
	Indent lexer.TokenType = -(iota + 2)
	Dedent
	Newline
	Word
	Number
	String
	Punct
)

func symbols() map[string]lexer.TokenType {
	return map[string]lexer.TokenType{
		"EOF":     lexer.EOF,
		"Indent":  Indent,
		"Dedent":  Dedent,
		"Newline": Newline,
		"Word":    Word,
		"Number":  Number,
		"String":  String,
		"Punct":   Punct,
	}
}

// indentLexer is a lexer.Definition that synthesizes Indent/Dedent
// tokens from each line's leading-tab count, then tokenizes the
// remainder of the line with scanLine.
type indentLexer struct{}

// Definition is the participle lexer.Definition for the RAM dump
// format; pass it to participle.Lexer when building the parser.
var Definition lexer.Definition = indentLexer{}

func (indentLexer) Symbols() map[string]lexer.TokenType { return symbols() }

func (indentLexer) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	toks, err := tokenize(filename, string(src))
	if err != nil {
		return nil, err
	}
	return &tokenStream{filename: filename, toks: toks}, nil
}

type tokenStream struct {
	filename string
	toks     []lexer.Token
	pos      int
}

func (s *tokenStream) Next() (lexer.Token, error) {
	if s.pos >= len(s.toks) {
		return lexer.Token{Type: lexer.EOF, Pos: lexer.Position{Filename: s.filename}}, nil
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

// tokenize turns the whole source into a flat token stream: one
// Indent/Dedent run per line-depth change, the line's own tokens, a
// Newline, and a closing run of Dedents. No EOF token is appended;
// tokenStream.Next returns EOF once the slice is exhausted.
func tokenize(filename, src string) ([]lexer.Token, error) {
	var toks []lexer.Token
	indents := []int{0}
	lineNo := 0

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		depth := 0
		for depth < len(line) && line[depth] == '\t' {
			depth++
		}
		rest := line[depth:]
		if strings.TrimSpace(rest) == "" {
			continue
		}

		top := indents[len(indents)-1]
		for depth > top {
			top += 1
			indents = append(indents, top)
			toks = append(toks, lexer.Token{Type: Indent, Value: "", Pos: lexer.Position{Filename: filename, Line: lineNo, Column: 1}})
		}
		for depth < indents[len(indents)-1] {
			indents = indents[:len(indents)-1]
			toks = append(toks, lexer.Token{Type: Dedent, Value: "", Pos: lexer.Position{Filename: filename, Line: lineNo, Column: 1}})
		}

		lineToks, err := scanLine(filename, lineNo, depth+1, rest)
		if err != nil {
			return nil, err
		}
		toks = append(toks, lineToks...)
		toks = append(toks, lexer.Token{Type: Newline, Value: "\n", Pos: lexer.Position{Filename: filename, Line: lineNo, Column: len(line) + 1}})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	for len(indents) > 1 {
		indents = indents[:len(indents)-1]
		toks = append(toks, lexer.Token{Type: Dedent, Value: "", Pos: lexer.Position{Filename: filename, Line: lineNo + 1, Column: 1}})
	}
	return toks, nil
}

// scanLine tokenizes the content of one line (after its leading tabs
// have been stripped for indentation tracking). col is the 1-based
// column of rest's first byte in the original line.
func scanLine(filename string, lineNo, col int, rest string) ([]lexer.Token, error) {
	var toks []lexer.Token
	i := 0
	runes := []rune(rest)
	for i < len(runes) {
		c := runes[i]
		start := i

		switch {
		case c == ' ':
			i++
			continue

		case c == '"':
			j := i + 1
			for j < len(runes) && runes[j] != '"' {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("%s:%d: unterminated string literal", filename, lineNo)
			}
			toks = append(toks, tok(String, string(runes[i+1:j]), filename, lineNo, col+start))
			i = j + 1

		case c >= '0' && c <= '9':
			j := i
			for j < len(runes) && runes[j] >= '0' && runes[j] <= '9' {
				j++
			}
			toks = append(toks, tok(Number, string(runes[i:j]), filename, lineNo, col+start))
			i = j

		case c == '¬' && i+1 < len(runes) && runes[i+1] == '∃':
			toks = append(toks, tok(Punct, "¬∃", filename, lineNo, col+start))
			i += 2

		case c == '∃':
			toks = append(toks, tok(Punct, "∃", filename, lineNo, col+start))
			i++

		case c == '!' && i+1 < len(runes) && runes[i+1] == '=':
			toks = append(toks, tok(Punct, "!=", filename, lineNo, col+start))
			i += 2
		case c == '<' && i+1 < len(runes) && runes[i+1] == '=':
			toks = append(toks, tok(Punct, "<=", filename, lineNo, col+start))
			i += 2
		case c == '>' && i+1 < len(runes) && runes[i+1] == '=':
			toks = append(toks, tok(Punct, ">=", filename, lineNo, col+start))
			i += 2

		case c == '.' && i+1 < len(runes) && isIdentRune(runes[i+1]):
			// A leading dot belongs to the token only when followed by
			// a word (".facts", ".csv"); a bare "." is punctuation.
			j := i + 1
			for j < len(runes) && isIdentRune(runes[j]) {
				j++
			}
			toks = append(toks, tok(Word, string(runes[i:j]), filename, lineNo, col+start))
			i = j

		case strings.ContainsRune("=<>(),./[]", c):
			toks = append(toks, tok(Punct, string(c), filename, lineNo, col+start))
			i++

		case isIdentStartRune(c):
			j := i
			for j < len(runes) && isIdentRune(runes[j]) {
				j++
			}
			toks = append(toks, tok(Word, string(runes[i:j]), filename, lineNo, col+start))
			i = j

		default:
			return nil, fmt.Errorf("%s:%d: unexpected character %q", filename, lineNo, c)
		}
	}
	return toks, nil
}

func isIdentStartRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentRune(r rune) bool {
	return isIdentStartRune(r) || (r >= '0' && r <= '9')
}

func tok(t lexer.TokenType, value, filename string, line, col int) lexer.Token {
	return lexer.Token{Type: t, Value: value, Pos: lexer.Position{Filename: filename, Line: line, Column: col}}
}
