package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Node_String(t *testing.T) {
	testCases := []struct {
		name   string
		input  Node
		expect string
	}{
		{
			name:   "int literal",
			input:  Int{Value: 8},
			expect: "8",
		},
		{
			name:   "prop literal",
			input:  Prop{Name: "a"},
			expect: "a",
		},
		{
			name:   "binary and",
			input:  Binary{Op: OpAnd, Left: Prop{Name: "a"}, Right: Prop{Name: "b"}},
			expect: "(a and b)",
		},
		{
			name:   "unary not",
			input:  Unary{Op: OpNot, Operand: Prop{Name: "a"}},
			expect: "(not a)",
		},
		{
			name: "bigand with when",
			input: Bigand{
				Vars: []string{"i"},
				Sets: []Node{Binary{Op: OpRange, Left: Int{Value: 1}, Right: Int{Value: 5}}},
				When: Binary{Op: OpGreater, Left: Var{Name: "i"}, Right: Int{Value: 2}},
				Body: UnexpProp{Name: "p", Indices: []Node{Var{Name: "i"}}},
			},
			expect: "bigand $i in (1 .. 5) when ($i > 2): p($i) end",
		},
		{
			name:   "exact constraint",
			input:  Exact{N: Int{Value: 1}, Set: SetDecl{Items: []Node{Prop{Name: "a"}, Prop{Name: "b"}}}},
			expect: "exact(1, {a, b})",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.input.String())
		})
	}
}

func Test_Unwrap_peelsLocAndReportsOutermostSpan(t *testing.T) {
	inner := Prop{Name: "a"}
	outer := Loc{
		Inner: Loc{
			Inner: inner,
			Start: Location{Line: 2, Col: 2},
			End:   Location{Line: 2, Col: 3},
		},
		Start: Location{Line: 1, Col: 1},
		End:   Location{Line: 1, Col: 10},
	}

	got, start, end, ok := Unwrap(outer)
	assert.True(t, ok)
	assert.Equal(t, inner, got)
	assert.Equal(t, Location{Line: 1, Col: 1}, start)
	assert.Equal(t, Location{Line: 1, Col: 10}, end)
}

func Test_Unwrap_notWrapped(t *testing.T) {
	n := Int{Value: 1}
	got, _, _, ok := Unwrap(n)
	assert.False(t, ok)
	assert.Equal(t, n, got)
}
