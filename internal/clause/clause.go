// Package clause implements the clause emitter of spec.md §4.9/§6: it walks
// a CNF ast.Node, assigns small positive integers to proposition names, and
// renders DIMACS (SAT) or QDIMACS (QBF) text.
package clause

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/touist-lang/touist/internal/ast"
)

// Literal is a signed proposition id: positive for the bare proposition,
// negative for its negation.
type Literal int

// Set is the result of walking a CNF formula: the clause list plus the
// bidirectional name<->id table (§4.9's "records both directions of the
// mapping").
type Set struct {
	Clauses [][]Literal
	NameOf  map[int]string
	IDOf    map[string]int
}

// Walk assigns a unique positive integer to each distinct proposition name
// on first encounter (in left-to-right traversal order) and collects the
// clause list. formula must already be in CNF (see package cnf); Top/Bottom
// may only appear at the root, already encoded as auxiliary tautologies/
// contradictions by the CNF converter. It returns an error rather than
// panicking if formula is not actually in CNF shape — a malformed formula
// from a bug upstream should surface as a diagnosable error, not crash the
// caller.
func Walk(formula ast.Node) (*Set, error) {
	s := &Set{
		NameOf: make(map[int]string),
		IDOf:   make(map[string]int),
	}
	if err := walkConjuncts(s, formula); err != nil {
		return nil, err
	}
	return s, nil
}

func walkConjuncts(s *Set, n ast.Node) error {
	if b, ok := n.(ast.Binary); ok && b.Op == ast.OpAnd {
		if err := walkConjuncts(s, b.Left); err != nil {
			return err
		}
		return walkConjuncts(s, b.Right)
	}
	clause, err := walkClause(s, n)
	if err != nil {
		return err
	}
	s.Clauses = append(s.Clauses, clause)
	return nil
}

// walkClause flattens a (possibly nested) disjunction of literals into one
// DIMACS clause.
func walkClause(s *Set, n ast.Node) ([]Literal, error) {
	if b, ok := n.(ast.Binary); ok && b.Op == ast.OpOr {
		l, err := walkClause(s, b.Left)
		if err != nil {
			return nil, err
		}
		r, err := walkClause(s, b.Right)
		if err != nil {
			return nil, err
		}
		return append(l, r...), nil
	}
	lit, err := literalOf(s, n)
	if err != nil {
		return nil, err
	}
	return []Literal{lit}, nil
}

func literalOf(s *Set, n ast.Node) (Literal, error) {
	switch t := n.(type) {
	case ast.Prop:
		return Literal(s.idFor(t.Name)), nil
	case ast.Unary:
		if t.Op != ast.OpNot {
			return 0, fmt.Errorf("clause: non-literal unary operator %s in CNF input", t.Op)
		}
		p, ok := t.Operand.(ast.Prop)
		if !ok {
			return 0, fmt.Errorf("clause: Not operand is not a Prop in CNF input")
		}
		return -Literal(s.idFor(p.Name)), nil
	default:
		return 0, fmt.Errorf("clause: %s is not a literal in CNF input", n.Kind())
	}
}

func (s *Set) idFor(name string) int {
	if id, ok := s.IDOf[name]; ok {
		return id
	}
	id := len(s.IDOf) + 1
	s.IDOf[name] = id
	s.NameOf[id] = name
	return id
}

// NumVars reports the number of distinct propositions encountered.
func (s *Set) NumVars() int { return len(s.IDOf) }

// DIMACS renders s as ASCII DIMACS CNF: a "p cnf <vars> <clauses>" preamble
// followed by one terminated-by-0 line per clause.
func (s *Set) DIMACS() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "p cnf %d %d\n", s.NumVars(), len(s.Clauses))
	for _, clause := range s.Clauses {
		writeClauseLine(&sb, clause)
	}
	return sb.String()
}

func writeClauseLine(sb *strings.Builder, clause []Literal) {
	for _, lit := range clause {
		sb.WriteString(strconv.Itoa(int(lit)))
		sb.WriteByte(' ')
	}
	sb.WriteString("0\n")
}

// Table renders the name<->id mapping as one "<name> <int>" line per
// proposition, ordered by id. If withCommentMarker is true (for embedding
// alongside a DIMACS stream), each line is prefixed with "c " per §6.
func (s *Set) Table(withCommentMarker bool) string {
	ids := make([]int, 0, len(s.NameOf))
	for id := range s.NameOf {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var sb strings.Builder
	for _, id := range ids {
		if withCommentMarker {
			sb.WriteString("c ")
		}
		fmt.Fprintf(&sb, "%s %d\n", s.NameOf[id], id)
	}
	return sb.String()
}

// QuantifierKind distinguishes universal from existential QBF blocks.
type QuantifierKind int

const (
	Universal QuantifierKind = iota
	Existential
)

// QuantifierBlock is one prenex block: a kind and the proposition names
// quantified at that level, outermost block first.
type QuantifierBlock struct {
	Kind  QuantifierKind
	Names []string
}

// QDIMACS renders s as QDIMACS: the DIMACS preamble, then one quantifier
// line per block (consecutive same-kind blocks pre-merged by the caller),
// then the clauses. Tseytin auxiliary names (those starting with "&") found
// in s but absent from every block are appended to a trailing existential
// block, per §4.9's "Tseytin auxiliaries are existentially quantified at the
// innermost scope."
func (s *Set) QDIMACS(blocks []QuantifierBlock) string {
	quantified := make(map[string]bool)
	for _, b := range blocks {
		for _, n := range b.Names {
			quantified[n] = true
		}
	}

	var auxBlock []string
	for id := 1; id <= s.NumVars(); id++ {
		name := s.NameOf[id]
		if !quantified[name] {
			auxBlock = append(auxBlock, name)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "p cnf %d %d\n", s.NumVars(), len(s.Clauses))

	for _, b := range blocks {
		writeQuantifierLine(&sb, s, b.Kind, b.Names)
	}
	if len(auxBlock) > 0 {
		writeQuantifierLine(&sb, s, Existential, auxBlock)
	}

	for _, c := range s.Clauses {
		writeClauseLine(&sb, c)
	}
	return sb.String()
}

func writeQuantifierLine(sb *strings.Builder, s *Set, kind QuantifierKind, names []string) {
	if len(names) == 0 {
		return
	}
	if kind == Universal {
		sb.WriteString("a ")
	} else {
		sb.WriteString("e ")
	}
	for _, n := range names {
		fmt.Fprintf(sb, "%d ", s.IDOf[n])
	}
	sb.WriteString("0\n")
}
