package tenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
)

func Test_Affect_thenResolve(t *testing.T) {
	e := New()
	e.Affect("x", ast.Int{Value: 4}, ast.Location{Line: 1})
	b, ok := e.Resolve("x")
	assert.True(t, ok)
	assert.Equal(t, ast.Int{Value: 4}, b.Value)
}

func Test_Resolve_unknownName(t *testing.T) {
	e := New()
	_, ok := e.Resolve("nope")
	assert.False(t, ok)
}

func Test_PushLocal_shadowsGlobal(t *testing.T) {
	e := New()
	e.Affect("x", ast.Int{Value: 1}, ast.Location{})
	pop := e.PushLocal("x", ast.Int{Value: 2}, ast.Location{})
	b, ok := e.Resolve("x")
	assert.True(t, ok)
	assert.Equal(t, ast.Int{Value: 2}, b.Value)

	pop()
	b, ok = e.Resolve("x")
	assert.True(t, ok)
	assert.Equal(t, ast.Int{Value: 1}, b.Value)
}

func Test_PushLocal_innermostWins(t *testing.T) {
	e := New()
	popOuter := e.PushLocal("i", ast.Int{Value: 1}, ast.Location{})
	popInner := e.PushLocal("i", ast.Int{Value: 2}, ast.Location{})

	b, _ := e.Resolve("i")
	assert.Equal(t, ast.Int{Value: 2}, b.Value)

	popInner()
	b, _ = e.Resolve("i")
	assert.Equal(t, ast.Int{Value: 1}, b.Value)
	popOuter()
}

func Test_ExpandVarName_noIndices(t *testing.T) {
	name, err := ExpandVarName("p", nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, "p", name)
}

func Test_ExpandVarName_withIndices(t *testing.T) {
	idx := func(n ast.Node) (ast.Node, error) { return n, nil }
	name, err := ExpandVarName("p", []ast.Node{ast.Int{Value: 1}, ast.Prop{Name: "a"}}, idx)
	assert.NoError(t, err)
	assert.Equal(t, "p(1, a)", name)
}
