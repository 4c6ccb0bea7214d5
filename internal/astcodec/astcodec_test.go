package astcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
)

func Test_EncodeDecode_roundTripsSimpleFormula(t *testing.T) {
	n := ast.Binary{
		Op:   ast.OpAnd,
		Left: ast.Prop{Name: "a"},
		Right: ast.Unary{Op: ast.OpNot, Operand: ast.Prop{Name: "b"}},
	}

	data, err := Encode(n)
	assert.NoError(t, err)

	decoded, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, n, decoded)
}

func Test_EncodeDecode_roundTripsGenerator(t *testing.T) {
	n := ast.TouistCode{
		Stmts: []ast.Node{
			ast.Affect{Var: "xs", Value: ast.ISet{Items: []int{1, 2, 3}}},
			ast.Bigand{
				Vars: []string{"i"},
				Sets: []ast.Node{ast.Var{Name: "xs"}},
				Body: ast.UnexpProp{Name: "p", Indices: []ast.Node{ast.Var{Name: "i"}}},
			},
		},
	}

	data, err := Encode(n)
	assert.NoError(t, err)

	decoded, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, n, decoded)
}

func Test_EncodeDecode_roundTripsLocAndCardinality(t *testing.T) {
	n := ast.Loc{
		Inner: ast.Exact{N: ast.Int{Value: 2}, Set: ast.PropSet{Items: []string{"a", "b", "c"}}},
		Start: ast.Location{Line: 1, Col: 1, File: "in.touist"},
		End:   ast.Location{Line: 1, Col: 10, File: "in.touist"},
	}

	data, err := Encode(n)
	assert.NoError(t, err)

	decoded, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, n, decoded)
}

func Test_Decode_rejectsUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"kind":"Nope"}`))
	assert.Error(t, err)
}
