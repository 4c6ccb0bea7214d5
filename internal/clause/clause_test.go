package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
)

func Test_Walk_assignsIdsInEncounterOrder(t *testing.T) {
	// (p or not q) and (q or r)
	formula := ast.Binary{
		Op: ast.OpAnd,
		Left: ast.Binary{
			Op:   ast.OpOr,
			Left: ast.Prop{Name: "p"},
			Right: ast.Unary{Op: ast.OpNot, Operand: ast.Prop{Name: "q"}},
		},
		Right: ast.Binary{Op: ast.OpOr, Left: ast.Prop{Name: "q"}, Right: ast.Prop{Name: "r"}},
	}

	s, err := Walk(formula)
	assert.NoError(t, err)
	assert.Equal(t, 1, s.IDOf["p"])
	assert.Equal(t, 2, s.IDOf["q"])
	assert.Equal(t, 3, s.IDOf["r"])
	assert.Equal(t, [][]Literal{{1, -2}, {2, 3}}, s.Clauses)
}

func Test_DIMACS_preambleAndClauses(t *testing.T) {
	formula := ast.Binary{Op: ast.OpOr, Left: ast.Prop{Name: "p"}, Right: ast.Prop{Name: "q"}}
	s, err := Walk(formula)
	assert.NoError(t, err)
	out := s.DIMACS()
	assert.Contains(t, out, "p cnf 2 1\n")
	assert.Contains(t, out, "1 2 0\n")
}

func Test_Table_withCommentMarker(t *testing.T) {
	formula := ast.Prop{Name: "p"}
	s, err := Walk(formula)
	assert.NoError(t, err)
	out := s.Table(true)
	assert.Equal(t, "c p 1\n", out)
}

func Test_QDIMACS_groupsQuantifiersAndAppendsAuxExistential(t *testing.T) {
	formula := ast.Binary{
		Op:   ast.OpOr,
		Left: ast.Prop{Name: "x"},
		Right: ast.Binary{Op: ast.OpOr, Left: ast.Prop{Name: "y"}, Right: ast.Prop{Name: "&0"}},
	}
	s, err := Walk(formula)
	assert.NoError(t, err)
	blocks := []QuantifierBlock{
		{Kind: Universal, Names: []string{"x"}},
		{Kind: Existential, Names: []string{"y"}},
	}
	out := s.QDIMACS(blocks)
	assert.Contains(t, out, "a 1 0\n")
	assert.Contains(t, out, "e 2 0\n")
	assert.Contains(t, out, "e 3 0\n")
}

func Test_Walk_multiLiteralDisjunctionOredWithConjunctionNoLongerMalformed(t *testing.T) {
	// (a or b) or (c and d), already pushed through cnf.Convert in practice;
	// here we exercise clause.Walk directly on the well-formed CNF it
	// produces to confirm no literalOf panic/error occurs for this shape.
	formula := ast.Binary{
		Op: ast.OpAnd,
		Left: ast.Binary{
			Op:   ast.OpOr,
			Left: ast.Binary{Op: ast.OpOr, Left: ast.Prop{Name: "a"}, Right: ast.Prop{Name: "b"}},
			Right: ast.Prop{Name: "c"},
		},
		Right: ast.Binary{
			Op:   ast.OpOr,
			Left: ast.Binary{Op: ast.OpOr, Left: ast.Prop{Name: "a"}, Right: ast.Prop{Name: "b"}},
			Right: ast.Prop{Name: "d"},
		},
	}
	s, err := Walk(formula)
	assert.NoError(t, err)
	assert.Len(t, s.Clauses, 2)
}

func Test_Walk_malformedCNFReturnsErrorInsteadOfPanicking(t *testing.T) {
	// And nested directly under Or is not valid CNF; Walk must report it
	// rather than crash.
	formula := ast.Binary{
		Op:   ast.OpOr,
		Left: ast.Prop{Name: "a"},
		Right: ast.Binary{Op: ast.OpAnd, Left: ast.Prop{Name: "b"}, Right: ast.Prop{Name: "c"}},
	}
	_, err := Walk(formula)
	assert.Error(t, err)
}
