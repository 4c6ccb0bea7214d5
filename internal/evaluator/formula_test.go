package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/evalctx"
	"github.com/touist-lang/touist/internal/tenv"
)

func Test_EvalFormula_smtLiteralDivisionByZeroSurfacesError(t *testing.T) {
	c := evalctx.New()
	c.Mode = evalctx.ModeSMT
	env := tenv.New()
	n := ast.Binary{Op: ast.OpDiv, Left: ast.Int{Value: 1}, Right: ast.Int{Value: 0}}
	_, err := EvalFormula(c, env, n)
	assert.Error(t, err)
}

func Test_EvalFormula_smtLiteralMismatchedFlavorsSurfacesError(t *testing.T) {
	c := evalctx.New()
	c.Mode = evalctx.ModeSMT
	env := tenv.New()
	n := ast.Binary{Op: ast.OpAdd, Left: ast.Int{Value: 1}, Right: ast.Float{Value: 2.5}}
	_, err := EvalFormula(c, env, n)
	assert.Error(t, err)
}

func Test_EvalFormula_smtSymbolicArithmeticPreservedStructurally(t *testing.T) {
	c := evalctx.New()
	c.Mode = evalctx.ModeSMT
	env := tenv.New()
	// x + 1, where x is an uninterpreted SMT symbol rather than a numeric
	// literal: Eval can't reduce this, so it must survive as a structural
	// arithmetic node rather than erroring.
	n := ast.Binary{Op: ast.OpAdd, Left: ast.Prop{Name: "x"}, Right: ast.Int{Value: 1}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Binary{Op: ast.OpAdd, Left: ast.Prop{Name: "x"}, Right: ast.Int{Value: 1}}, got)
}

func Test_EvalFormula_shortCircuitsAndWithBottom(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpAnd, Left: ast.Bottom{}, Right: ast.Prop{Name: "a"}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Bottom{}, got)
}

func Test_EvalFormula_shortCircuitsOrWithTop(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpOr, Left: ast.Top{}, Right: ast.Prop{Name: "a"}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Top{}, got)
}

func Test_EvalFormula_notTopIsBottom(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Unary{Op: ast.OpNot, Operand: ast.Top{}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Bottom{}, got)
}

func Test_EvalFormula_equivEncodedAsConjunctionOfImplications(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpEquiv, Left: ast.Prop{Name: "a"}, Right: ast.Prop{Name: "b"}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)

	b, ok := got.(ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, ast.OpAnd, b.Op)
}

func Test_EvalFormula_computedNameFallback(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	env.Affect("f", ast.Prop{Name: "q"}, ast.Location{})

	n := ast.Var{Name: "f", Indices: []ast.Node{ast.Var{Name: "i"}}}
	pop := env.PushLocal("i", ast.Int{Value: 1}, ast.Location{})
	defer pop()

	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Prop{Name: "q(1)"}, got)
}

func Test_EvalFormula_bigand_overRange(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Bigand{
		Vars: []string{"i"},
		Sets: []ast.Node{ast.Binary{Op: ast.OpRange, Left: ast.Int{Value: 1}, Right: ast.Int{Value: 3}}},
		Body: ast.UnexpProp{Name: "p", Indices: []ast.Node{ast.Var{Name: "i"}}},
	}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)

	want := shortCircuit(ast.OpAnd,
		shortCircuit(ast.OpAnd, ast.Prop{Name: "p(1)"}, ast.Prop{Name: "p(2)"}),
		ast.Prop{Name: "p(3)"})
	assert.Equal(t, want, got)
}

func Test_EvalFormula_bigand_arityMismatchIsError(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Bigand{
		Vars: []string{"i", "j"},
		Sets: []ast.Node{ast.Binary{Op: ast.OpRange, Left: ast.Int{Value: 1}, Right: ast.Int{Value: 3}}},
		Body: ast.Prop{Name: "p"},
	}
	_, err := EvalFormula(c, env, n)
	assert.Error(t, err)
}

func Test_EvalFormula_bigand_emptyGeneratorWarnsByDefault(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Bigand{
		Vars: []string{"i"},
		Sets: []ast.Node{ast.ISet{}},
		Body: ast.Prop{Name: "p"},
	}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Top{}, got)
	assert.False(t, c.Sink.HasFatal())
	assert.Len(t, c.Sink.Diagnostics(), 1)
}

func Test_EvalFormula_bigand_emptyGeneratorFatalWhenConfigured(t *testing.T) {
	c := evalctx.New()
	c.EmptyGeneratorIsFatal = true
	env := tenv.New()
	n := ast.Bigand{
		Vars: []string{"i"},
		Sets: []ast.Node{ast.ISet{}},
		Body: ast.Prop{Name: "p"},
	}
	_, err := EvalFormula(c, env, n)
	assert.Error(t, err)
}

func Test_EvalFormula_bigor_withWhenGuard(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Bigor{
		Vars: []string{"i"},
		Sets: []ast.Node{ast.Binary{Op: ast.OpRange, Left: ast.Int{Value: 1}, Right: ast.Int{Value: 3}}},
		When: ast.Binary{Op: ast.OpGreater, Left: ast.Var{Name: "i"}, Right: ast.Int{Value: 1}},
		Body: ast.UnexpProp{Name: "p", Indices: []ast.Node{ast.Var{Name: "i"}}},
	}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)

	want := shortCircuit(ast.OpOr, ast.Prop{Name: "p(2)"}, ast.Prop{Name: "p(3)"})
	assert.Equal(t, want, got)
}

func Test_EvalExact_degenerateEmptySetZero(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Exact{N: ast.Int{Value: 0}, Set: ast.EmptySet{}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Top{}, got)
}

func Test_EvalExact_nGreaterThanSetSizeIsBottom(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Exact{N: ast.Int{Value: 5}, Set: ast.PropSet{Items: []string{"a", "b"}}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Bottom{}, got)
}

func Test_EvalExact_checkOnlyYieldsDummyProp(t *testing.T) {
	c := evalctx.New()
	c.CheckOnly = true
	env := tenv.New()
	n := ast.Exact{N: ast.Int{Value: 1}, Set: ast.PropSet{Items: []string{"a", "b", "c"}}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	_, ok := got.(ast.Prop)
	assert.True(t, ok)
}

func Test_EvalAtleast_zeroIsTop(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Atleast{N: ast.Int{Value: 0}, Set: ast.PropSet{Items: []string{"a", "b"}}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Top{}, got)
}

func Test_EvalAtmost_nGreaterEqualSetSizeIsTop(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Atmost{N: ast.Int{Value: 2}, Set: ast.PropSet{Items: []string{"a", "b"}}}
	got, err := EvalFormula(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Top{}, got)
}

func Test_EvalTouistCode_affectThenReferenceFormula(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	code := ast.TouistCode{
		Stmts: []ast.Node{
			ast.Affect{Var: "x", Value: ast.Prop{Name: "a"}},
			ast.Var{Name: "x"},
		},
	}
	got, err := EvalTouistCode(c, env, code)
	assert.NoError(t, err)
	assert.Equal(t, ast.Prop{Name: "a"}, got)
}
