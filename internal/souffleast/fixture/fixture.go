// Package fixture loads a JSON-serialized souffleast.TranslationUnit
// from disk. A real Datalog front end (lexer, parser, type checker,
// SCC/topological-sort/scheduling analyses) is an external
// collaborator this repository never builds, so a fixture file is the
// only legitimate way to hand the translator something to lower:
// cmd/soufflemid loads one and cmd/soufflemid alone.
//
// souffleast.Term and souffleast.Literal are interfaces, so the wire
// format carries an explicit "kind" discriminator per value; Load
// decodes into the wire shapes below and converts each one into its
// souffleast counterpart by hand, the same two-step shape ramtext uses
// to turn a parsed grammar tree into ram.Value/ram.Operation.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/dcol97/souffle/internal/souffleast"
)

// Load reads path as JSON and builds the TranslationUnit it describes.
func Load(path string) (*souffleast.TranslationUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: reading %s: %w", path, err)
	}
	var w wireUnit
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("fixture: decoding %s: %w", path, err)
	}
	return w.toTranslationUnit()
}

type wirePosition struct {
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
}

func (p wirePosition) toPosition() souffleast.Position {
	return souffleast.Position{Line: p.Line, Column: p.Column}
}

type wireRelation struct {
	Name      string `json:"name"`
	Arity     int    `json:"arity"`
	Input     bool   `json:"input,omitempty"`
	Output    bool   `json:"output,omitempty"`
	PrintSize bool   `json:"print_size,omitempty"`
	Pos       wirePosition `json:"pos,omitempty"`
}

func (r wireRelation) toRelation() *souffleast.Relation {
	return &souffleast.Relation{
		Name:      r.Name,
		Arity:     r.Arity,
		Input:     r.Input,
		Output:    r.Output,
		PrintSize: r.PrintSize,
		Pos:       r.Pos.toPosition(),
	}
}

// wireTerm is souffleast.Term's wire shape. Kind selects which of
// Name/Value/Fields apply: "var" (Name), "const" (Value), "_" (none),
// "record" (Fields).
type wireTerm struct {
	Kind   string     `json:"kind"`
	Name   string     `json:"name,omitempty"`
	Value  int        `json:"value,omitempty"`
	Fields []wireTerm `json:"fields,omitempty"`
}

func (t wireTerm) toTerm() (souffleast.Term, error) {
	switch t.Kind {
	case "var":
		return &souffleast.Var{Name: t.Name}, nil
	case "const":
		return &souffleast.Const{Value: t.Value}, nil
	case "_", "underscore":
		return &souffleast.Underscore{}, nil
	case "record":
		fields := make([]souffleast.Term, len(t.Fields))
		for i, f := range t.Fields {
			ft, err := f.toTerm()
			if err != nil {
				return nil, err
			}
			fields[i] = ft
		}
		return &souffleast.RecordTerm{Fields: fields}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown term kind %q", t.Kind)
	}
}

func toTerms(ts []wireTerm) ([]souffleast.Term, error) {
	out := make([]souffleast.Term, len(ts))
	for i, t := range ts {
		term, err := t.toTerm()
		if err != nil {
			return nil, err
		}
		out[i] = term
	}
	return out, nil
}

type wireAtom struct {
	Relation string       `json:"relation"`
	Args     []wireTerm   `json:"args"`
	Pos      wirePosition `json:"pos,omitempty"`
}

func (a wireAtom) toAtom() (*souffleast.Atom, error) {
	args, err := toTerms(a.Args)
	if err != nil {
		return nil, err
	}
	return &souffleast.Atom{Relation: a.Relation, Args: args, Pos: a.Pos.toPosition()}, nil
}

// wireLiteral is souffleast.Literal's wire shape. Kind selects which
// fields apply: "atom" (Relation, Args), "negation" (Relation, Args),
// "comparison" (Op, LHS, RHS), "functor" (Result, Op, Args),
// "aggregate" (Result, Func via Op, Target, Body).
type wireLiteral struct {
	Kind     string        `json:"kind"`
	Relation string        `json:"relation,omitempty"`
	Args     []wireTerm    `json:"args,omitempty"`
	Op       string        `json:"op,omitempty"`
	LHS      *wireTerm     `json:"lhs,omitempty"`
	RHS      *wireTerm     `json:"rhs,omitempty"`
	Result   *wireTerm     `json:"result,omitempty"`
	Target   *wireTerm     `json:"target,omitempty"`
	Body     []wireLiteral `json:"body,omitempty"`
	Pos      wirePosition  `json:"pos,omitempty"`
}

func toLiterals(ls []wireLiteral) ([]souffleast.Literal, error) {
	out := make([]souffleast.Literal, len(ls))
	for i, l := range ls {
		lit, err := l.toLiteral()
		if err != nil {
			return nil, err
		}
		out[i] = lit
	}
	return out, nil
}

func (l wireLiteral) toLiteral() (souffleast.Literal, error) {
	pos := l.Pos.toPosition()
	switch l.Kind {
	case "atom":
		args, err := toTerms(l.Args)
		if err != nil {
			return nil, err
		}
		return &souffleast.Atom{Relation: l.Relation, Args: args, Pos: pos}, nil
	case "negation":
		args, err := toTerms(l.Args)
		if err != nil {
			return nil, err
		}
		return &souffleast.Negation{Atom: &souffleast.Atom{Relation: l.Relation, Args: args, Pos: pos}}, nil
	case "comparison":
		if l.LHS == nil || l.RHS == nil {
			return nil, fmt.Errorf("fixture: comparison literal missing lhs/rhs")
		}
		lhs, err := l.LHS.toTerm()
		if err != nil {
			return nil, err
		}
		rhs, err := l.RHS.toTerm()
		if err != nil {
			return nil, err
		}
		return &souffleast.Comparison{Op: l.Op, LHS: lhs, RHS: rhs, Pos: pos}, nil
	case "functor":
		if l.Result == nil {
			return nil, fmt.Errorf("fixture: functor literal missing result")
		}
		result, err := l.Result.toTerm()
		if err != nil {
			return nil, err
		}
		args, err := toTerms(l.Args)
		if err != nil {
			return nil, err
		}
		return &souffleast.Functor{Result: result, Op: l.Op, Args: args, Pos: pos}, nil
	case "aggregate":
		if l.Result == nil || l.Target == nil {
			return nil, fmt.Errorf("fixture: aggregate literal missing result/target")
		}
		result, err := l.Result.toTerm()
		if err != nil {
			return nil, err
		}
		target, err := l.Target.toTerm()
		if err != nil {
			return nil, err
		}
		body, err := toLiterals(l.Body)
		if err != nil {
			return nil, err
		}
		return &souffleast.Aggregate{Result: result, Func: l.Op, Target: target, Body: body, Pos: pos}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown literal kind %q", l.Kind)
	}
}

type wireClause struct {
	Head wireAtom      `json:"head"`
	Body []wireLiteral `json:"body"`
	Pos  wirePosition  `json:"pos,omitempty"`
}

func (c wireClause) toClause() (*souffleast.Clause, error) {
	head, err := c.Head.toAtom()
	if err != nil {
		return nil, err
	}
	body, err := toLiterals(c.Body)
	if err != nil {
		return nil, err
	}
	return &souffleast.Clause{Head: head, Body: body, Pos: c.Pos.toPosition()}, nil
}

type wireSCC struct {
	Relations            []string `json:"relations"`
	Recursive            bool     `json:"recursive,omitempty"`
	ExternalPredecessors []string `json:"external_predecessors,omitempty"`
	ExternalSuccessors   []string `json:"external_successors,omitempty"`
}

func (s wireSCC) toSCC() *souffleast.SCC {
	return &souffleast.SCC{
		Relations:            s.Relations,
		Recursive:            s.Recursive,
		ExternalPredecessors: s.ExternalPredecessors,
		ExternalSuccessors:   s.ExternalSuccessors,
	}
}

// wireUnit is the top-level fixture document: a Program plus the
// upstream analyses a real front end would already have computed.
// RecursiveClauses is given as a list of indices into Clauses;
// Schedule's keys are stratum indices encoded as JSON object keys
// (strings), since JSON has no integer-keyed map.
type wireUnit struct {
	Relations        []wireRelation `json:"relations"`
	Clauses          []wireClause   `json:"clauses"`
	RecursiveClauses []int          `json:"recursive_clauses,omitempty"`
	SCCs             []wireSCC      `json:"sccs,omitempty"`
	InputRelations   []string       `json:"input_relations,omitempty"`
	OutputRelations  []string       `json:"output_relations,omitempty"`
	TopoOrder        []int          `json:"topo_order,omitempty"`
	ExpiresAfter     map[string][]string `json:"expires_after,omitempty"`
}

func (w wireUnit) toTranslationUnit() (*souffleast.TranslationUnit, error) {
	relations := make([]*souffleast.Relation, len(w.Relations))
	for i, r := range w.Relations {
		relations[i] = r.toRelation()
	}
	clauses := make([]*souffleast.Clause, len(w.Clauses))
	for i, c := range w.Clauses {
		cl, err := c.toClause()
		if err != nil {
			return nil, fmt.Errorf("fixture: clause %d: %w", i, err)
		}
		clauses[i] = cl
	}
	prog := &souffleast.Program{Relations: relations, Clauses: clauses}

	recursive := make(map[*souffleast.Clause]bool, len(w.RecursiveClauses))
	for _, idx := range w.RecursiveClauses {
		if idx < 0 || idx >= len(clauses) {
			return nil, fmt.Errorf("fixture: recursive_clauses index %d out of range", idx)
		}
		recursive[clauses[idx]] = true
	}

	sccs := make([]*souffleast.SCC, len(w.SCCs))
	for i, s := range w.SCCs {
		sccs[i] = s.toSCC()
	}
	input := make(map[string]bool, len(w.InputRelations))
	for _, name := range w.InputRelations {
		input[name] = true
	}
	output := make(map[string]bool, len(w.OutputRelations))
	for _, name := range w.OutputRelations {
		output[name] = true
	}

	expiresAfter := make(map[int][]string, len(w.ExpiresAfter))
	for key, names := range w.ExpiresAfter {
		stratum, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("fixture: expires_after key %q is not a stratum index: %w", key, err)
		}
		expiresAfter[stratum] = names
	}

	return &souffleast.TranslationUnit{
		Program:   prog,
		Types:     souffleast.NewTypeEnvironment(prog),
		Recursive: souffleast.NewRecursiveClauses(recursive),
		SCCs:      souffleast.NewSCCGraph(sccs, input, output),
		Topo:      &souffleast.TopoOrder{Order: w.TopoOrder},
		Schedule:  &souffleast.RelationSchedule{ExpiresAfter: expiresAfter},
	}, nil
}
