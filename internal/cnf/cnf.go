// Package cnf implements the Tseytin CNF converter of spec.md §4.8: it takes
// an evaluated propositional formula over {Prop, Not, And, Or, Implies,
// Equiv, Xor, Top, Bottom} and produces a CNF ast.Node — structurally a
// conjunction of disjunctions of literals, over {Prop, Not(Prop), And, Or,
// Top, Bottom} with truth constants only ever at the root.
package cnf

import (
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/evalctx"
)

// Convert runs the full bottom-up rewrite pass, re-applying it once more if
// a Top/Bottom constant survives at non-root depth (which can happen after a
// Tseytin split introduces a fresh aux whose defining clause itself contains
// one), exactly as spec.md §4.8 describes.
func Convert(c *evalctx.Context, formula ast.Node) ast.Node {
	out := convert(c, formula, true)
	if hasNonRootConstant(out, true) {
		out = convert(c, out, true)
	}
	return out
}

// convert rewrites n into CNF. atRoot controls whether a surviving Top/
// Bottom is left alone (root position, where DIMACS needs the auxiliary
// encoding anyway) or propagated/encoded (non-root).
func convert(c *evalctx.Context, n ast.Node, atRoot bool) ast.Node {
	switch t := n.(type) {
	case ast.Prop:
		return t

	case ast.Top:
		if atRoot {
			return encodeRootTop(c)
		}
		return t

	case ast.Bottom:
		if atRoot {
			return encodeRootBottom(c)
		}
		return t

	case ast.Unary:
		if t.Op != ast.OpNot {
			return t
		}
		return convertNot(c, t.Operand)

	case ast.Binary:
		switch t.Op {
		case ast.OpImplies:
			return convert(c, ast.Binary{Op: ast.OpOr, Left: ast.Unary{Op: ast.OpNot, Operand: t.Left}, Right: t.Right}, atRoot)
		case ast.OpEquiv:
			return convert(c, ast.Binary{
				Op: ast.OpAnd,
				Left: ast.Binary{Op: ast.OpImplies, Left: t.Left, Right: t.Right},
				Right: ast.Binary{Op: ast.OpImplies, Left: t.Right, Right: t.Left},
			}, atRoot)
		case ast.OpXor:
			return convert(c, ast.Binary{
				Op:   ast.OpAnd,
				Left: ast.Binary{Op: ast.OpOr, Left: t.Left, Right: t.Right},
				Right: ast.Binary{
					Op:   ast.OpOr,
					Left: ast.Unary{Op: ast.OpNot, Operand: t.Left},
					Right: ast.Unary{Op: ast.OpNot, Operand: t.Right},
				},
			}, atRoot)
		case ast.OpAnd:
			return convertAnd(c, t.Left, t.Right)
		case ast.OpOr:
			return convertOr(c, t.Left, t.Right)
		}
	}
	return n
}

func convertNot(c *evalctx.Context, operand ast.Node) ast.Node {
	switch t := operand.(type) {
	case ast.Prop:
		return ast.Unary{Op: ast.OpNot, Operand: t}
	case ast.Top:
		return ast.Bottom{}
	case ast.Bottom:
		return ast.Top{}
	case ast.Unary:
		if t.Op == ast.OpNot {
			// double-negation elimination
			return convert(c, t.Operand, false)
		}
	case ast.Binary:
		switch t.Op {
		case ast.OpAnd:
			return convert(c, ast.Binary{Op: ast.OpOr, Left: negate(t.Left), Right: negate(t.Right)}, false)
		case ast.OpOr:
			return convert(c, ast.Binary{Op: ast.OpAnd, Left: negate(t.Left), Right: negate(t.Right)}, false)
		case ast.OpImplies:
			return convert(c, ast.Binary{Op: ast.OpAnd, Left: t.Left, Right: negate(t.Right)}, false)
		default:
			// Equiv/Xor (and anything else pushed through convert's own
			// rewrites): normalize the operand to And/Or/Prop form first,
			// then push the negation through that normal form.
			normalized := convert(c, operand, false)
			return convertNot(c, normalized)
		}
	}
	return ast.Unary{Op: ast.OpNot, Operand: operand}
}

func negate(n ast.Node) ast.Node {
	return ast.Unary{Op: ast.OpNot, Operand: n}
}

func convertAnd(c *evalctx.Context, left, right ast.Node) ast.Node {
	l := convert(c, left, false)
	r := convert(c, right, false)

	if isTop(l) {
		return r
	}
	if isTop(r) {
		return l
	}
	if isBottom(l) || isBottom(r) {
		return ast.Bottom{}
	}
	return ast.Binary{Op: ast.OpAnd, Left: l, Right: r}
}

func convertOr(c *evalctx.Context, left, right ast.Node) ast.Node {
	l := convert(c, left, false)
	r := convert(c, right, false)

	if isTop(l) || isTop(r) {
		return ast.Top{}
	}
	if isBottom(l) {
		return r
	}
	if isBottom(r) {
		return l
	}

	lConj := isConjunction(l)
	rConj := isConjunction(r)

	switch {
	case !lConj && rConj:
		return pushLit(l, r)
	case !rConj && lConj:
		return pushLit(r, l)
	case lConj && rConj:
		return tseytinSplit(c, l, r)
	default:
		return ast.Binary{Op: ast.OpOr, Left: l, Right: r}
	}
}

// pushLit implements the push_lit operation: x ∨ (c1 ∧ c2) ≡ (x ∨ c1) ∧ (x ∨
// c2), distributing x (a literal, or any other non-conjunction disjunction of
// literals) into every conjunct of c.
func pushLit(lit, c ast.Node) ast.Node {
	if conj, ok := c.(ast.Binary); ok && conj.Op == ast.OpAnd {
		return ast.Binary{Op: ast.OpAnd, Left: pushLit(lit, conj.Left), Right: pushLit(lit, conj.Right)}
	}
	return ast.Binary{Op: ast.OpOr, Left: lit, Right: c}
}

// tseytinSplit implements the Tseytin encoding of §4.8: when both sides of
// an Or are themselves conjunctions, introduce two fresh auxiliaries rather
// than distributing (which would blow up exponentially).
func tseytinSplit(c *evalctx.Context, x, y ast.Node) ast.Node {
	alpha := ast.Prop{Name: c.FreshAux()}
	beta := ast.Prop{Name: c.FreshAux()}

	xReified := pushLit(negate(alpha), x)
	yReified := pushLit(negate(beta), y)

	return ast.Binary{
		Op:   ast.OpAnd,
		Left: ast.Binary{Op: ast.OpOr, Left: alpha, Right: beta},
		Right: ast.Binary{
			Op:   ast.OpAnd,
			Left: xReified,
			Right: yReified,
		},
	}
}

func isTop(n ast.Node) bool {
	_, ok := n.(ast.Top)
	return ok
}

func isBottom(n ast.Node) bool {
	_, ok := n.(ast.Bottom)
	return ok
}

// isConjunction reports whether n is a (possibly nested) And of clauses —
// i.e. already-CNF but not yet a single clause.
func isConjunction(n ast.Node) bool {
	b, ok := n.(ast.Binary)
	return ok && b.Op == ast.OpAnd
}

func encodeRootTop(c *evalctx.Context) ast.Node {
	a := ast.Prop{Name: c.FreshAux()}
	return ast.Binary{Op: ast.OpOr, Left: a, Right: ast.Unary{Op: ast.OpNot, Operand: a}}
}

func encodeRootBottom(c *evalctx.Context) ast.Node {
	a := ast.Prop{Name: c.FreshAux()}
	return ast.Binary{Op: ast.OpAnd, Left: a, Right: ast.Unary{Op: ast.OpNot, Operand: a}}
}

// hasNonRootConstant reports whether a Top/Bottom constant appears anywhere
// below the root of n.
func hasNonRootConstant(n ast.Node, atRoot bool) bool {
	switch t := n.(type) {
	case ast.Top, ast.Bottom:
		return !atRoot
	case ast.Unary:
		return hasNonRootConstant(t.Operand, false)
	case ast.Binary:
		return hasNonRootConstant(t.Left, false) || hasNonRootConstant(t.Right, false)
	}
	return false
}
