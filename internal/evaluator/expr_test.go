package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/evalctx"
	"github.com/touist-lang/touist/internal/tenv"
)

func Test_Eval_arithmetic_intAdd(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpAdd, Left: ast.Int{Value: 2}, Right: ast.Int{Value: 3}}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Int{Value: 5}, got)
}

func Test_Eval_arithmetic_mixedFlavorIsTypeError(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpAdd, Left: ast.Int{Value: 2}, Right: ast.Float{Value: 3.0}}
	_, err := Eval(c, env, n)
	assert.Error(t, err)
}

func Test_Eval_range_inclusive(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpRange, Left: ast.Int{Value: 1}, Right: ast.Int{Value: 5}}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.ISet{Items: []int{1, 2, 3, 4, 5}}, got)
}

func Test_Eval_range_checkOnlyTruncatesToSingleton(t *testing.T) {
	c := evalctx.New()
	c.CheckOnly = true
	env := tenv.New()
	n := ast.Binary{Op: ast.OpRange, Left: ast.Int{Value: 1}, Right: ast.Int{Value: 5}}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.ISet{Items: []int{1}}, got)
}

func Test_Eval_range_emptyWhenDescending(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpRange, Left: ast.Int{Value: 5}, Right: ast.Int{Value: 1}}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.ISet{}, got)
}

func Test_Eval_setUnion_withEmptySetPromotion(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpUnion, Left: ast.EmptySet{}, Right: ast.PropSet{Items: []string{"a"}}}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.PropSet{Items: []string{"a"}}, got)
}

func Test_Eval_setUnion_mismatchedFlavorsIsTypeError(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpUnion, Left: ast.ISet{Items: []int{1, 2}}, Right: ast.FSet{Items: []float64{1.0, 2.0}}}
	_, err := Eval(c, env, n)
	assert.Error(t, err)
}

func Test_Eval_setIntersection_scalarOperandIsTypeError(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpInter, Left: ast.Int{Value: 1}, Right: ast.Int{Value: 2}}
	_, err := Eval(c, env, n)
	assert.Error(t, err)
}

func Test_Eval_setSubset_mismatchedFlavorsIsTypeError(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpSubset, Left: ast.ISet{Items: []int{1}}, Right: ast.PropSet{Items: []string{"a"}}}
	_, err := Eval(c, env, n)
	assert.Error(t, err)
}

func Test_Eval_setDifference_emptySetOperandNotFlaggedAsMismatch(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Binary{Op: ast.OpDiff, Left: ast.FSet{Items: []float64{1.0, 2.0}}, Right: ast.EmptySet{}}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.FSet{Items: []float64{1.0, 2.0}}, got)
}

func Test_Eval_setDecl_mixedFlavorsIsTypeError(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.SetDecl{Items: []ast.Node{ast.Int{Value: 1}, ast.Float{Value: 2.0}}}
	_, err := Eval(c, env, n)
	assert.Error(t, err)
}

func Test_Eval_setDecl_nonScalarElementListsValidFlavors(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.SetDecl{Items: []ast.Node{ast.Bool{Value: true}}}
	_, err := Eval(c, env, n)
	assert.ErrorContains(t, err, "Int, Float, and Prop")
}

func Test_Eval_card(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Unary{Op: ast.OpCard, Operand: ast.ISet{Items: []int{1, 2, 3}}}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Int{Value: 3}, got)
}

func Test_Eval_neg_literalOnly(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.Unary{Op: ast.OpNeg, Operand: ast.Int{Value: 4}}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Int{Value: -4}, got)
}

func Test_Eval_if_evaluatesOnlyChosenBranch(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.If{
		Cond: ast.Bool{Value: true},
		Then: ast.Int{Value: 1},
		Else: ast.Binary{Op: ast.OpDiv, Left: ast.Int{Value: 1}, Right: ast.Int{Value: 0}},
	}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Int{Value: 1}, got)
}

func Test_Eval_var_resolvesThroughEnv(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	env.Affect("x", ast.Int{Value: 7}, ast.Location{})
	got, err := Eval(c, env, ast.Var{Name: "x"})
	assert.NoError(t, err)
	assert.Equal(t, ast.Int{Value: 7}, got)
}

func Test_Eval_var_undefinedIsNameError(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	_, err := Eval(c, env, ast.Var{Name: "nope"})
	assert.Error(t, err)
}

func Test_Eval_unexpProp_cartesianExpansion(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.UnexpProp{
		Name: "p",
		Indices: []ast.Node{
			ast.ISet{Items: []int{1, 2}},
			ast.Prop{Name: "c"},
		},
	}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	ps, ok := got.(ast.PropSet)
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"p(1, c)", "p(2, c)"}, ps.Items)
}

func Test_Eval_unexpProp_noSetIndexYieldsSingleProp(t *testing.T) {
	c := evalctx.New()
	env := tenv.New()
	n := ast.UnexpProp{Name: "p", Indices: []ast.Node{ast.Int{Value: 1}, ast.Prop{Name: "c"}}}
	got, err := Eval(c, env, n)
	assert.NoError(t, err)
	assert.Equal(t, ast.Prop{Name: "p(1, c)"}, got)
}
