package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/evalctx"
)

func Test_Key_deterministic(t *testing.T) {
	n := ast.Binary{Op: ast.OpAnd, Left: ast.Prop{Name: "a"}, Right: ast.Prop{Name: "b"}}
	k1, err := Key(n, evalctx.ModeSAT, false)
	assert.NoError(t, err)
	k2, err := Key(n, evalctx.ModeSAT, false)
	assert.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func Test_Key_differsByMode(t *testing.T) {
	n := ast.Prop{Name: "a"}
	k1, _ := Key(n, evalctx.ModeSAT, false)
	k2, _ := Key(n, evalctx.ModeSMT, false)
	assert.NotEqual(t, k1, k2)
}

func Test_Key_differsByCheckOnly(t *testing.T) {
	n := ast.Prop{Name: "a"}
	k1, _ := Key(n, evalctx.ModeSAT, false)
	k2, _ := Key(n, evalctx.ModeSAT, true)
	assert.NotEqual(t, k1, k2)
}

func Test_Store_putGet(t *testing.T) {
	var s Store
	s.Put("k", Entry{Output: "p cnf 0 0\n"})
	e, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "p cnf 0 0\n", e.Output)
	assert.Equal(t, 1, s.Len())
}

func Test_Store_missingKey(t *testing.T) {
	var s Store
	_, ok := s.Get("nope")
	assert.False(t, ok)
}
