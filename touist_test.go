package touist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/cache"
)

func Test_Compile_simpleConjunction(t *testing.T) {
	code := ast.TouistCode{
		Stmts: []ast.Node{
			ast.Binary{Op: ast.OpAnd, Left: ast.Prop{Name: "a"}, Right: ast.Prop{Name: "b"}},
		},
	}
	res, err := Compile(code, Options{})
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Clauses.NumVars())
	assert.Len(t, res.Clauses.Clauses, 2)
}

func Test_Compile_propagatesFatalDiagnostic(t *testing.T) {
	code := ast.TouistCode{
		Stmts: []ast.Node{ast.Var{Name: "undefined"}},
	}
	_, err := Compile(code, Options{})
	assert.Error(t, err)
}

func Test_CompileCached_hitsSecondTime(t *testing.T) {
	var store cache.Store
	code := ast.TouistCode{
		Stmts: []ast.Node{ast.Prop{Name: "a"}},
	}
	e1, diags1, err := CompileCached(&store, code, Options{})
	assert.NoError(t, err)
	assert.Nil(t, diags1)
	assert.Equal(t, 1, store.Len())

	e2, diags2, err := CompileCached(&store, code, Options{})
	assert.NoError(t, err)
	assert.Nil(t, diags2)
	assert.Equal(t, e1, e2)
}
