// Package astcodec encodes and decodes ast.Node trees as JSON so a driver
// (cmd/touist reading a request file, or server/api receiving an HTTP body)
// can hand the compiler core a wire-transmitted program instead of only an
// in-process one. encoding/json is used throughout, matching every wire
// format already used across the corpus this module was built from.
package astcodec

import (
	"encoding/json"
	"fmt"

	"github.com/touist-lang/touist/internal/ast"
)

// wireNode is the tagged-union JSON shape for ast.Node: Kind selects which of
// the remaining fields are populated. Nodes nest as *wireNode rather than
// ast.Node so encoding/json can recurse into them without a custom
// UnmarshalJSON on every concrete ast type.
type wireNode struct {
	Kind string `json:"kind"`

	IntValue   *int     `json:"int,omitempty"`
	FloatValue *float64 `json:"float,omitempty"`
	BoolValue  *bool    `json:"bool,omitempty"`

	Name    string      `json:"name,omitempty"`
	Indices []*wireNode `json:"indices,omitempty"`

	UnaryOp  string    `json:"unary_op,omitempty"`
	BinaryOp string    `json:"binary_op,omitempty"`
	Operand  *wireNode `json:"operand,omitempty"`
	Left     *wireNode `json:"left,omitempty"`
	Right    *wireNode `json:"right,omitempty"`

	Cond *wireNode `json:"cond,omitempty"`
	Then *wireNode `json:"then,omitempty"`
	Else *wireNode `json:"else,omitempty"`

	IntItems   []int       `json:"int_items,omitempty"`
	FloatItems []float64   `json:"float_items,omitempty"`
	PropItems  []string    `json:"prop_items,omitempty"`
	Items      []*wireNode `json:"items,omitempty"`

	Vars []string    `json:"vars,omitempty"`
	Sets []*wireNode `json:"sets,omitempty"`
	When *wireNode   `json:"when,omitempty"`
	Body *wireNode   `json:"body,omitempty"`

	Var   string    `json:"var,omitempty"`
	Value *wireNode `json:"value,omitempty"`

	Stmts []*wireNode `json:"stmts,omitempty"`

	N   *wireNode `json:"n,omitempty"`
	Set *wireNode `json:"set,omitempty"`

	Inner *wireNode `json:"inner,omitempty"`

	Start *ast.Location `json:"start,omitempty"`
	End   *ast.Location `json:"end,omitempty"`
}

// Encode renders n as JSON.
func Encode(n ast.Node) ([]byte, error) {
	w, err := toWire(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// Decode parses JSON produced by Encode back into an ast.Node tree.
func Decode(data []byte) (ast.Node, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("astcodec: malformed JSON: %w", err)
	}
	return fromWire(&w)
}

func toWire(n ast.Node) (*wireNode, error) {
	if n == nil {
		return nil, nil
	}

	switch v := n.(type) {
	case ast.Int:
		val := v.Value
		return &wireNode{Kind: "Int", IntValue: &val}, nil
	case ast.Float:
		val := v.Value
		return &wireNode{Kind: "Float", FloatValue: &val}, nil
	case ast.Bool:
		val := v.Value
		return &wireNode{Kind: "Bool", BoolValue: &val}, nil
	case ast.Prop:
		return &wireNode{Kind: "Prop", Name: v.Name}, nil
	case ast.Top:
		return &wireNode{Kind: "Top"}, nil
	case ast.Bottom:
		return &wireNode{Kind: "Bottom"}, nil
	case ast.Var:
		indices, err := toWireList(v.Indices)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "Var", Name: v.Name, Indices: indices}, nil
	case ast.UnexpProp:
		indices, err := toWireList(v.Indices)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "UnexpProp", Name: v.Name, Indices: indices}, nil
	case ast.Unary:
		operand, err := toWire(v.Operand)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "Unary", UnaryOp: v.Op.String(), Operand: operand}, nil
	case ast.Binary:
		left, err := toWire(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := toWire(v.Right)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "Binary", BinaryOp: v.Op.String(), Left: left, Right: right}, nil
	case ast.If:
		cond, err := toWire(v.Cond)
		if err != nil {
			return nil, err
		}
		then, err := toWire(v.Then)
		if err != nil {
			return nil, err
		}
		els, err := toWire(v.Else)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "If", Cond: cond, Then: then, Else: els}, nil
	case ast.ISet:
		return &wireNode{Kind: "ISet", IntItems: v.Items}, nil
	case ast.FSet:
		return &wireNode{Kind: "FSet", FloatItems: v.Items}, nil
	case ast.PropSet:
		return &wireNode{Kind: "PropSet", PropItems: v.Items}, nil
	case ast.EmptySet:
		return &wireNode{Kind: "EmptySet"}, nil
	case ast.SetDecl:
		items, err := toWireList(v.Items)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "SetDecl", Items: items}, nil
	case ast.Bigand:
		sets, err := toWireList(v.Sets)
		if err != nil {
			return nil, err
		}
		when, err := toWire(v.When)
		if err != nil {
			return nil, err
		}
		body, err := toWire(v.Body)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "Bigand", Vars: v.Vars, Sets: sets, When: when, Body: body}, nil
	case ast.Bigor:
		sets, err := toWireList(v.Sets)
		if err != nil {
			return nil, err
		}
		when, err := toWire(v.When)
		if err != nil {
			return nil, err
		}
		body, err := toWire(v.Body)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "Bigor", Vars: v.Vars, Sets: sets, When: when, Body: body}, nil
	case ast.Let:
		value, err := toWire(v.Value)
		if err != nil {
			return nil, err
		}
		body, err := toWire(v.Body)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "Let", Var: v.Var, Value: value, Body: body}, nil
	case ast.Affect:
		value, err := toWire(v.Value)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "Affect", Var: v.Var, Value: value}, nil
	case ast.TouistCode:
		stmts, err := toWireList(v.Stmts)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "TouistCode", Stmts: stmts}, nil
	case ast.Exact:
		return toWireCardinality("Exact", v.N, v.Set)
	case ast.Atleast:
		return toWireCardinality("Atleast", v.N, v.Set)
	case ast.Atmost:
		return toWireCardinality("Atmost", v.N, v.Set)
	case ast.Paren:
		inner, err := toWire(v.Inner)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: "Paren", Inner: inner}, nil
	case ast.Loc:
		inner, err := toWire(v.Inner)
		if err != nil {
			return nil, err
		}
		start, end := v.Start, v.End
		return &wireNode{Kind: "Loc", Inner: inner, Start: &start, End: &end}, nil
	default:
		return nil, fmt.Errorf("astcodec: unsupported node type %T", n)
	}
}

func toWireCardinality(kind string, n, set ast.Node) (*wireNode, error) {
	wn, err := toWire(n)
	if err != nil {
		return nil, err
	}
	ws, err := toWire(set)
	if err != nil {
		return nil, err
	}
	return &wireNode{Kind: kind, N: wn, Set: ws}, nil
}

func toWireList(nodes []ast.Node) ([]*wireNode, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]*wireNode, len(nodes))
	for i, n := range nodes {
		w, err := toWire(n)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func fromWire(w *wireNode) (ast.Node, error) {
	if w == nil {
		return nil, nil
	}

	switch w.Kind {
	case "Int":
		if w.IntValue == nil {
			return nil, fmt.Errorf("astcodec: Int node missing value")
		}
		return ast.Int{Value: *w.IntValue}, nil
	case "Float":
		if w.FloatValue == nil {
			return nil, fmt.Errorf("astcodec: Float node missing value")
		}
		return ast.Float{Value: *w.FloatValue}, nil
	case "Bool":
		if w.BoolValue == nil {
			return nil, fmt.Errorf("astcodec: Bool node missing value")
		}
		return ast.Bool{Value: *w.BoolValue}, nil
	case "Prop":
		return ast.Prop{Name: w.Name}, nil
	case "Top":
		return ast.Top{}, nil
	case "Bottom":
		return ast.Bottom{}, nil
	case "Var":
		indices, err := fromWireList(w.Indices)
		if err != nil {
			return nil, err
		}
		return ast.Var{Name: w.Name, Indices: indices}, nil
	case "UnexpProp":
		indices, err := fromWireList(w.Indices)
		if err != nil {
			return nil, err
		}
		return ast.UnexpProp{Name: w.Name, Indices: indices}, nil
	case "Unary":
		op, err := parseUnaryOp(w.UnaryOp)
		if err != nil {
			return nil, err
		}
		operand, err := fromWire(w.Operand)
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: op, Operand: operand}, nil
	case "Binary":
		op, err := parseBinaryOp(w.BinaryOp)
		if err != nil {
			return nil, err
		}
		left, err := fromWire(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromWire(w.Right)
		if err != nil {
			return nil, err
		}
		return ast.Binary{Op: op, Left: left, Right: right}, nil
	case "If":
		cond, err := fromWire(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := fromWire(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := fromWire(w.Else)
		if err != nil {
			return nil, err
		}
		return ast.If{Cond: cond, Then: then, Else: els}, nil
	case "ISet":
		return ast.ISet{Items: w.IntItems}, nil
	case "FSet":
		return ast.FSet{Items: w.FloatItems}, nil
	case "PropSet":
		return ast.PropSet{Items: w.PropItems}, nil
	case "EmptySet":
		return ast.EmptySet{}, nil
	case "SetDecl":
		items, err := fromWireList(w.Items)
		if err != nil {
			return nil, err
		}
		return ast.SetDecl{Items: items}, nil
	case "Bigand", "Bigor":
		sets, err := fromWireList(w.Sets)
		if err != nil {
			return nil, err
		}
		when, err := fromWire(w.When)
		if err != nil {
			return nil, err
		}
		body, err := fromWire(w.Body)
		if err != nil {
			return nil, err
		}
		if w.Kind == "Bigand" {
			return ast.Bigand{Vars: w.Vars, Sets: sets, When: when, Body: body}, nil
		}
		return ast.Bigor{Vars: w.Vars, Sets: sets, When: when, Body: body}, nil
	case "Let":
		value, err := fromWire(w.Value)
		if err != nil {
			return nil, err
		}
		body, err := fromWire(w.Body)
		if err != nil {
			return nil, err
		}
		return ast.Let{Var: w.Var, Value: value, Body: body}, nil
	case "Affect":
		value, err := fromWire(w.Value)
		if err != nil {
			return nil, err
		}
		return ast.Affect{Var: w.Var, Value: value}, nil
	case "TouistCode":
		stmts, err := fromWireList(w.Stmts)
		if err != nil {
			return nil, err
		}
		return ast.TouistCode{Stmts: stmts}, nil
	case "Exact", "Atleast", "Atmost":
		n, err := fromWire(w.N)
		if err != nil {
			return nil, err
		}
		set, err := fromWire(w.Set)
		if err != nil {
			return nil, err
		}
		switch w.Kind {
		case "Exact":
			return ast.Exact{N: n, Set: set}, nil
		case "Atleast":
			return ast.Atleast{N: n, Set: set}, nil
		default:
			return ast.Atmost{N: n, Set: set}, nil
		}
	case "Paren":
		inner, err := fromWire(w.Inner)
		if err != nil {
			return nil, err
		}
		return ast.Paren{Inner: inner}, nil
	case "Loc":
		inner, err := fromWire(w.Inner)
		if err != nil {
			return nil, err
		}
		var start, end ast.Location
		if w.Start != nil {
			start = *w.Start
		}
		if w.End != nil {
			end = *w.End
		}
		return ast.Loc{Inner: inner, Start: start, End: end}, nil
	default:
		return nil, fmt.Errorf("astcodec: unknown node kind %q", w.Kind)
	}
}

func fromWireList(nodes []*wireNode) ([]ast.Node, error) {
	if nodes == nil {
		return nil, nil
	}
	out := make([]ast.Node, len(nodes))
	for i, w := range nodes {
		n, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

var unaryOpNames = map[string]ast.UnaryOp{
	"-": ast.OpNeg, "sqrt": ast.OpSqrt, "int": ast.OpToInt, "float": ast.OpToFloat,
	"abs": ast.OpAbs, "not": ast.OpNot, "card": ast.OpCard, "empty": ast.OpSetEmpty,
}

func parseUnaryOp(s string) (ast.UnaryOp, error) {
	if op, ok := unaryOpNames[s]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("astcodec: unknown unary operator %q", s)
}

var binaryOpNames = map[string]ast.BinaryOp{
	"+": ast.OpAdd, "-": ast.OpSub, "*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod,
	"and": ast.OpAnd, "or": ast.OpOr, "xor": ast.OpXor, "=>": ast.OpImplies, "<=>": ast.OpEquiv,
	"=": ast.OpEqual, "!=": ast.OpNotEqual, "<": ast.OpLess, "<=": ast.OpLessEq,
	">": ast.OpGreater, ">=": ast.OpGreaterEq,
	"union": ast.OpUnion, "inter": ast.OpInter, "diff": ast.OpDiff, "subset": ast.OpSubset,
	"in": ast.OpIn, "..": ast.OpRange,
}

func parseBinaryOp(s string) (ast.BinaryOp, error) {
	if op, ok := binaryOpNames[s]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("astcodec: unknown binary operator %q", s)
}
