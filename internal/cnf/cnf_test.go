package cnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/evalctx"
)

func a(name string) ast.Node { return ast.Prop{Name: name} }

func Test_Convert_literalPassesThrough(t *testing.T) {
	c := evalctx.New()
	got := Convert(c, a("p"))
	assert.Equal(t, ast.Prop{Name: "p"}, got)
}

func Test_Convert_doubleNegationElimination(t *testing.T) {
	c := evalctx.New()
	n := ast.Unary{Op: ast.OpNot, Operand: ast.Unary{Op: ast.OpNot, Operand: a("p")}}
	got := Convert(c, n)
	assert.Equal(t, ast.Prop{Name: "p"}, got)
}

func Test_Convert_deMorganOnAnd(t *testing.T) {
	c := evalctx.New()
	n := ast.Unary{Op: ast.OpNot, Operand: ast.Binary{Op: ast.OpAnd, Left: a("p"), Right: a("q")}}
	got := Convert(c, n)
	want := ast.Binary{Op: ast.OpOr, Left: ast.Unary{Op: ast.OpNot, Operand: a("p")}, Right: ast.Unary{Op: ast.OpNot, Operand: a("q")}}
	assert.Equal(t, want, got)
}

func Test_Convert_impliesRewrite(t *testing.T) {
	c := evalctx.New()
	n := ast.Binary{Op: ast.OpImplies, Left: a("p"), Right: a("q")}
	got := Convert(c, n)
	want := ast.Binary{Op: ast.OpOr, Left: ast.Unary{Op: ast.OpNot, Operand: a("p")}, Right: a("q")}
	assert.Equal(t, want, got)
}

func Test_Convert_pushLitDistributesOverConjunction(t *testing.T) {
	c := evalctx.New()
	// p or (q and r)
	n := ast.Binary{Op: ast.OpOr, Left: a("p"), Right: ast.Binary{Op: ast.OpAnd, Left: a("q"), Right: a("r")}}
	got := Convert(c, n)
	want := ast.Binary{
		Op:   ast.OpAnd,
		Left: ast.Binary{Op: ast.OpOr, Left: a("p"), Right: a("q")},
		Right: ast.Binary{Op: ast.OpOr, Left: a("p"), Right: a("r")},
	}
	assert.Equal(t, want, got)
}

func Test_Convert_pushLitDistributesOverConjunctionWithMultiLiteralSide(t *testing.T) {
	c := evalctx.New()
	// (a or b) or (c and d): left side converts to a disjunction of two
	// literals, not a bare literal, so the push_lit guard must still fire on
	// it (it is not a conjunction) rather than falling through to the
	// default Or-of-And case.
	left := ast.Binary{Op: ast.OpOr, Left: a("a"), Right: a("b")}
	right := ast.Binary{Op: ast.OpAnd, Left: a("c"), Right: a("d")}
	n := ast.Binary{Op: ast.OpOr, Left: left, Right: right}
	got := Convert(c, n)

	want := ast.Binary{
		Op:   ast.OpAnd,
		Left: ast.Binary{Op: ast.OpOr, Left: left, Right: a("c")},
		Right: ast.Binary{Op: ast.OpOr, Left: left, Right: a("d")},
	}
	assert.Equal(t, want, got)

	// whatever shape results, no And may appear nested under an Or.
	assertNoAndUnderOr(t, got, false)
}

func assertNoAndUnderOr(t *testing.T, n ast.Node, underOr bool) {
	t.Helper()
	switch nd := n.(type) {
	case ast.Binary:
		if nd.Op == ast.OpAnd && underOr {
			t.Fatalf("found And nested under Or: %#v", n)
		}
		nextUnderOr := underOr || nd.Op == ast.OpOr
		assertNoAndUnderOr(t, nd.Left, nextUnderOr)
		assertNoAndUnderOr(t, nd.Right, nextUnderOr)
	case ast.Unary:
		assertNoAndUnderOr(t, nd.Operand, underOr)
	}
}

func Test_Convert_tseytinSplitIntroducesAuxiliaries(t *testing.T) {
	c := evalctx.New()
	// (p and q) or (r and s): both sides conjunctions, must split
	left := ast.Binary{Op: ast.OpAnd, Left: a("p"), Right: a("q")}
	right := ast.Binary{Op: ast.OpAnd, Left: a("r"), Right: a("s")}
	n := ast.Binary{Op: ast.OpOr, Left: left, Right: right}
	got := Convert(c, n)

	top, ok := got.(ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, ast.OpAnd, top.Op)

	disjunctOfAux, ok := top.Left.(ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, ast.OpOr, disjunctOfAux.Op)
	_, leftIsProp := disjunctOfAux.Left.(ast.Prop)
	assert.True(t, leftIsProp)
}

func Test_Convert_rootTopEncodedAsTautology(t *testing.T) {
	c := evalctx.New()
	got := Convert(c, ast.Top{})
	b, ok := got.(ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, ast.OpOr, b.Op)
}

func Test_Convert_andWithBottomCollapses(t *testing.T) {
	c := evalctx.New()
	n := ast.Binary{Op: ast.OpAnd, Left: a("p"), Right: ast.Bottom{}}
	got := Convert(c, n)
	assert.Equal(t, ast.Bottom{}, got)
}

func Test_Convert_equivExpandsToImplicationConjunction(t *testing.T) {
	c := evalctx.New()
	n := ast.Binary{Op: ast.OpEquiv, Left: a("p"), Right: a("q")}
	got := Convert(c, n)
	top, ok := got.(ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, ast.OpAnd, top.Op)
}
