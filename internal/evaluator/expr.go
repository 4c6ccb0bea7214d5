// Package evaluator implements the expression evaluator (spec.md §4.2), the
// set-indexed proposition expander (§4.7), the formula evaluator (§4.4), the
// bigand/bigor generators (§4.5), and cardinality constraints (§4.6).
//
// file expr.go: value-shaped nodes only. A node is "value-shaped" when it is
// expected to reduce to a scalar or set value rather than a propositional
// formula; Top/Bottom/Prop short-circuit rewriting lives in formula.go.
package evaluator

import (
	"fmt"
	"math"

	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/evalctx"
	"github.com/touist-lang/touist/internal/tenv"
	"github.com/touist-lang/touist/internal/tsets"
	"github.com/touist-lang/touist/internal/util"
)

// Eval implements the contract of spec.md §4.2: given a node expected to
// evaluate to a scalar/set value, produce a value-shaped node, or a
// *diag.Diagnostic wrapped error on type mismatch.
func Eval(c *evalctx.Context, env *tenv.Env, n ast.Node) (ast.Node, error) {
	inner, start, end, wrapped := ast.Unwrap(n)
	v, err := evalUnwrapped(c, env, inner)
	if err != nil && wrapped {
		return nil, fmt.Errorf("%s: %w", start, err)
	}
	_ = end
	return v, err
}

func evalUnwrapped(c *evalctx.Context, env *tenv.Env, n ast.Node) (ast.Node, error) {
	switch t := n.(type) {
	case ast.Int, ast.Float, ast.Bool, ast.Prop, ast.Top, ast.Bottom,
		ast.ISet, ast.FSet, ast.PropSet, ast.EmptySet:
		return n, nil

	case ast.Var:
		return evalVar(c, env, t)

	case ast.UnexpProp:
		return evalUnexpProp(c, env, t)

	case ast.SetDecl:
		return evalSetDecl(c, env, t)

	case ast.Unary:
		return evalUnary(c, env, t)

	case ast.Binary:
		return evalBinary(c, env, t)

	case ast.If:
		return evalIf(c, env, t)

	default:
		return nil, c.Sink.ShapeError("eval", ast.Location{}, ast.Location{}, "%s is not a value-shaped node", n.Kind())
	}
}

func evalVar(c *evalctx.Context, env *tenv.Env, v ast.Var) (ast.Node, error) {
	name, err := tenv.ExpandVarName(v.Name, v.Indices, func(idx ast.Node) (ast.Node, error) {
		return Eval(c, env, idx)
	})
	if err != nil {
		return nil, err
	}
	b, ok := env.Resolve(name)
	if !ok {
		return nil, c.Sink.NameError("eval", ast.Location{}, ast.Location{}, "undefined variable $%s", name)
	}
	return b.Value, nil
}

// evalUnexpProp implements §4.7's Cartesian expansion: evaluate each index
// position, build the product of index sequences (a scalar index counts as a
// singleton sequence), and materialize either a single Prop (no index was a
// set) or a PropSet (at least one index was a set).
func evalUnexpProp(c *evalctx.Context, env *tenv.Env, p ast.UnexpProp) (ast.Node, error) {
	sequences := make([][]string, len(p.Indices))
	anySet := false

	for i, idx := range p.Indices {
		v, err := Eval(c, env, idx)
		if err != nil {
			return nil, err
		}
		rendered, isSet, err := renderIndexSequence(v)
		if err != nil {
			return nil, err
		}
		sequences[i] = rendered
		anySet = anySet || isSet
	}

	names := cartesianNames(p.Name, sequences)
	if !anySet {
		return ast.Prop{Name: names[0]}, nil
	}
	return ast.PropSet{Items: names}, nil
}

func renderIndexSequence(v ast.Node) (items []string, isSet bool, err error) {
	switch t := v.(type) {
	case ast.Int:
		return []string{fmt.Sprintf("%d", t.Value)}, false, nil
	case ast.Float:
		return []string{fmt.Sprintf("%g", t.Value)}, false, nil
	case ast.Prop:
		return []string{t.Name}, false, nil
	case ast.ISet:
		elems := tsets.Elements(t)
		out := make([]string, len(elems))
		for i, e := range elems {
			out[i] = e.(ast.Int).String()
		}
		return out, true, nil
	case ast.FSet:
		elems := tsets.Elements(t)
		out := make([]string, len(elems))
		for i, e := range elems {
			out[i] = e.(ast.Float).String()
		}
		return out, true, nil
	case ast.PropSet:
		elems := tsets.Elements(t)
		out := make([]string, len(elems))
		for i, e := range elems {
			out[i] = e.(ast.Prop).Name
		}
		return out, true, nil
	default:
		return nil, false, fmt.Errorf("index must be a scalar or set value, got %s", v.Kind())
	}
}

func cartesianNames(prefix string, sequences [][]string) []string {
	combos := [][]string{{}}
	for _, seq := range sequences {
		var next [][]string
		for _, combo := range combos {
			for _, v := range seq {
				extended := append(append([]string(nil), combo...), v)
				next = append(next, extended)
			}
		}
		combos = next
	}

	names := make([]string, len(combos))
	for i, combo := range combos {
		name := prefix + "("
		for j, v := range combo {
			if j > 0 {
				name += ", "
			}
			name += v
		}
		name += ")"
		names[i] = name
	}
	return names
}

func evalSetDecl(c *evalctx.Context, env *tenv.Env, s ast.SetDecl) (ast.Node, error) {
	if len(s.Items) == 0 {
		return ast.EmptySet{}, nil
	}

	values := make([]ast.Node, len(s.Items))
	for i, item := range s.Items {
		v, err := Eval(c, env, item)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	switch values[0].(type) {
	case ast.Int:
		items := make([]int, len(values))
		for i, v := range values {
			iv, ok := v.(ast.Int)
			if !ok {
				return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "set elements must share one flavor")
			}
			items[i] = iv.Value
		}
		return ast.ISet{Items: items}, nil
	case ast.Float:
		items := make([]float64, len(values))
		for i, v := range values {
			fv, ok := v.(ast.Float)
			if !ok {
				return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "set elements must share one flavor")
			}
			items[i] = fv.Value
		}
		return ast.FSet{Items: items}, nil
	case ast.Prop:
		items := make([]string, len(values))
		for i, v := range values {
			pv, ok := v.(ast.Prop)
			if !ok {
				return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "set elements must share one flavor")
			}
			items[i] = pv.Name
		}
		return ast.PropSet{Items: items}, nil
	default:
		valid := util.MakeTextList([]string{"Int", "Float", "Prop"})
		return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "%s is not a valid set element type (expected %s)", values[0].Kind(), valid)
	}
}

func evalUnary(c *evalctx.Context, env *tenv.Env, u ast.Unary) (ast.Node, error) {
	operand, err := Eval(c, env, u.Operand)
	if err != nil {
		return nil, err
	}

	switch u.Op {
	case ast.OpNeg:
		// Open question resolution: Neg folds only literal numeric operands,
		// not nested unary negations (SPEC_FULL.md §10).
		switch o := operand.(type) {
		case ast.Int:
			return ast.Int{Value: -o.Value}, nil
		case ast.Float:
			return ast.Float{Value: -o.Value}, nil
		default:
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "cannot negate %s", operand.Kind())
		}

	case ast.OpSqrt:
		f, err := asFloat(operand)
		if err != nil {
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "%s", err)
		}
		return ast.Float{Value: math.Sqrt(f)}, nil

	case ast.OpAbs:
		switch o := operand.(type) {
		case ast.Int:
			if o.Value < 0 {
				return ast.Int{Value: -o.Value}, nil
			}
			return o, nil
		case ast.Float:
			return ast.Float{Value: math.Abs(o.Value)}, nil
		default:
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "cannot take abs of %s", operand.Kind())
		}

	case ast.OpToInt:
		switch o := operand.(type) {
		case ast.Int:
			return o, nil
		case ast.Float:
			return ast.Int{Value: int(o.Value)}, nil
		default:
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "cannot convert %s to int", operand.Kind())
		}

	case ast.OpToFloat:
		switch o := operand.(type) {
		case ast.Int:
			return ast.Float{Value: float64(o.Value)}, nil
		case ast.Float:
			return o, nil
		default:
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "cannot convert %s to float", operand.Kind())
		}

	case ast.OpNot:
		b, ok := operand.(ast.Bool)
		if !ok {
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "not requires a bool value, got %s", operand.Kind())
		}
		return ast.Bool{Value: !b.Value}, nil

	case ast.OpCard:
		if _, ok := setFlavor(operand); !ok {
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "card requires a set value, got %s", operand.Kind())
		}
		return ast.Int{Value: tsets.Len(operand)}, nil

	case ast.OpSetEmpty:
		if _, ok := setFlavor(operand); !ok {
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "empty requires a set value, got %s", operand.Kind())
		}
		return ast.Bool{Value: tsets.Len(operand) == 0}, nil

	default:
		return nil, c.Sink.ShapeError("eval", ast.Location{}, ast.Location{}, "unknown unary operator %s", u.Op)
	}
}

func setFlavor(n ast.Node) (tsets.Flavor, bool) {
	return tsets.FlavorOf(n)
}

// checkSetOperands verifies both operands are set-valued and, unless one side
// is the flavorless ast.EmptySet, that their flavors match — the same
// type-checks-first discipline evalArith/evalBoolOp/evalOrdering apply before
// dispatching to their respective operations.
func checkSetOperands(c *evalctx.Context, op ast.BinaryOp, left, right ast.Node) error {
	lf, lok := setFlavor(left)
	if !lok {
		return c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "%s requires set operands, got %s", op, left.Kind())
	}
	rf, rok := setFlavor(right)
	if !rok {
		return c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "%s requires set operands, got %s", op, right.Kind())
	}

	_, lEmpty := left.(ast.EmptySet)
	_, rEmpty := right.(ast.EmptySet)
	if !lEmpty && !rEmpty && lf != rf {
		return c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "mismatched set operand flavors: %s and %s", left.Kind(), right.Kind())
	}
	return nil
}

func asFloat(n ast.Node) (float64, error) {
	switch t := n.(type) {
	case ast.Int:
		return float64(t.Value), nil
	case ast.Float:
		return t.Value, nil
	default:
		return 0, fmt.Errorf("expected a number, got %s", n.Kind())
	}
}

func evalBinary(c *evalctx.Context, env *tenv.Env, b ast.Binary) (ast.Node, error) {
	// Boolean operands are evaluated strictly — both sides always, before
	// combining — per §4.2; there is no short-circuit at the value level.
	left, err := Eval(c, env, b.Left)
	if err != nil {
		return nil, err
	}
	right, err := Eval(c, env, b.Right)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return evalArith(c, b.Op, left, right)

	case ast.OpAnd, ast.OpOr, ast.OpXor, ast.OpImplies, ast.OpEquiv:
		return evalBoolOp(c, b.Op, left, right)

	case ast.OpEqual, ast.OpNotEqual:
		return evalEquality(c, b.Op, left, right)

	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		return evalOrdering(c, b.Op, left, right)

	case ast.OpUnion:
		if err := checkSetOperands(c, b.Op, left, right); err != nil {
			return nil, err
		}
		return tsets.Union(left, right), nil
	case ast.OpInter:
		if err := checkSetOperands(c, b.Op, left, right); err != nil {
			return nil, err
		}
		return tsets.Intersection(left, right), nil
	case ast.OpDiff:
		if err := checkSetOperands(c, b.Op, left, right); err != nil {
			return nil, err
		}
		return tsets.Difference(left, right), nil
	case ast.OpSubset:
		if err := checkSetOperands(c, b.Op, left, right); err != nil {
			return nil, err
		}
		return ast.Bool{Value: tsets.Subset(left, right)}, nil
	case ast.OpIn:
		if _, ok := setFlavor(right); !ok {
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "in requires a set on the right, got %s", right.Kind())
		}
		return ast.Bool{Value: tsets.In(left, right)}, nil

	case ast.OpRange:
		return evalRange(c, left, right)

	default:
		return nil, c.Sink.ShapeError("eval", ast.Location{}, ast.Location{}, "unknown binary operator %s", b.Op)
	}
}

func evalArith(c *evalctx.Context, op ast.BinaryOp, left, right ast.Node) (ast.Node, error) {
	li, lIsInt := left.(ast.Int)
	ri, rIsInt := right.(ast.Int)
	lf, lIsFloat := left.(ast.Float)
	rf, rIsFloat := right.(ast.Float)

	if op == ast.OpMod {
		if !lIsInt || !rIsInt {
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "mod requires integer operands")
		}
		if ri.Value == 0 {
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "mod by zero")
		}
		return ast.Int{Value: li.Value % ri.Value}, nil
	}

	switch {
	case lIsInt && rIsInt:
		switch op {
		case ast.OpAdd:
			return ast.Int{Value: li.Value + ri.Value}, nil
		case ast.OpSub:
			return ast.Int{Value: li.Value - ri.Value}, nil
		case ast.OpMul:
			return ast.Int{Value: li.Value * ri.Value}, nil
		case ast.OpDiv:
			if ri.Value == 0 {
				return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "division by zero")
			}
			return ast.Int{Value: li.Value / ri.Value}, nil
		}
	case lIsFloat && rIsFloat:
		switch op {
		case ast.OpAdd:
			return ast.Float{Value: lf.Value + rf.Value}, nil
		case ast.OpSub:
			return ast.Float{Value: lf.Value - rf.Value}, nil
		case ast.OpMul:
			return ast.Float{Value: lf.Value * rf.Value}, nil
		case ast.OpDiv:
			return ast.Float{Value: lf.Value / rf.Value}, nil
		}
	}

	return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "mismatched arithmetic operand flavors: %s and %s (no implicit promotion)", left.Kind(), right.Kind())
}

func evalBoolOp(c *evalctx.Context, op ast.BinaryOp, left, right ast.Node) (ast.Node, error) {
	lb, lok := left.(ast.Bool)
	rb, rok := right.(ast.Bool)
	if !lok || !rok {
		return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "%s requires boolean operands", op)
	}

	switch op {
	case ast.OpAnd:
		return ast.Bool{Value: lb.Value && rb.Value}, nil
	case ast.OpOr:
		return ast.Bool{Value: lb.Value || rb.Value}, nil
	case ast.OpXor:
		return ast.Bool{Value: lb.Value != rb.Value}, nil
	case ast.OpImplies:
		return ast.Bool{Value: !lb.Value || rb.Value}, nil
	case ast.OpEquiv:
		return ast.Bool{Value: lb.Value == rb.Value}, nil
	default:
		return nil, c.Sink.ShapeError("eval", ast.Location{}, ast.Location{}, "unreachable boolean operator %s", op)
	}
}

func evalEquality(c *evalctx.Context, op ast.BinaryOp, left, right ast.Node) (ast.Node, error) {
	eq, err := valuesEqual(c, left, right)
	if err != nil {
		return nil, err
	}
	if op == ast.OpNotEqual {
		eq = !eq
	}
	return ast.Bool{Value: eq}, nil
}

func valuesEqual(c *evalctx.Context, left, right ast.Node) (bool, error) {
	switch l := left.(type) {
	case ast.Int:
		r, ok := right.(ast.Int)
		if !ok {
			return false, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "cannot compare int to %s", right.Kind())
		}
		return l.Value == r.Value, nil
	case ast.Float:
		r, ok := right.(ast.Float)
		if !ok {
			return false, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "cannot compare float to %s", right.Kind())
		}
		return l.Value == r.Value, nil
	case ast.Bool:
		r, ok := right.(ast.Bool)
		if !ok {
			return false, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "cannot compare bool to %s", right.Kind())
		}
		return l.Value == r.Value, nil
	case ast.Prop:
		r, ok := right.(ast.Prop)
		if !ok {
			return false, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "cannot compare proposition to %s", right.Kind())
		}
		return l.Name == r.Name, nil
	default:
		if _, ok := setFlavor(left); ok {
			if err := checkSetOperands(c, ast.OpEqual, left, right); err != nil {
				return false, err
			}
			return tsets.Equal(left, right), nil
		}
		return false, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "%s is not comparable", left.Kind())
	}
}

func evalOrdering(c *evalctx.Context, op ast.BinaryOp, left, right ast.Node) (ast.Node, error) {
	lf, lok := numericValue(left)
	rf, rok := numericValue(right)
	if !lok || !rok {
		return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "%s requires numeric operands of the same flavor", op)
	}
	_, lIsInt := left.(ast.Int)
	_, rIsInt := right.(ast.Int)
	if lIsInt != rIsInt {
		return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "cannot compare int to float")
	}

	var result bool
	switch op {
	case ast.OpLess:
		result = lf < rf
	case ast.OpLessEq:
		result = lf <= rf
	case ast.OpGreater:
		result = lf > rf
	case ast.OpGreaterEq:
		result = lf >= rf
	}
	return ast.Bool{Value: result}, nil
}

func numericValue(n ast.Node) (float64, bool) {
	switch t := n.(type) {
	case ast.Int:
		return float64(t.Value), true
	case ast.Float:
		return t.Value, true
	default:
		return 0, false
	}
}

func evalRange(c *evalctx.Context, left, right ast.Node) (ast.Node, error) {
	if li, ok := left.(ast.Int); ok {
		ri, ok := right.(ast.Int)
		if !ok {
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "range endpoints must share one flavor")
		}
		hi := ri.Value
		if c.CheckOnly {
			hi = li.Value
		}
		var items []int
		for v := li.Value; v <= hi; v++ {
			items = append(items, v)
		}
		return ast.ISet{Items: items}, nil
	}
	if lf, ok := left.(ast.Float); ok {
		rf, ok := right.(ast.Float)
		if !ok {
			return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "range endpoints must share one flavor")
		}
		hi := lf.Value
		if !c.CheckOnly {
			hi = lf.Value + math.Floor(rf.Value-lf.Value)
		}
		var items []float64
		for v := lf.Value; v <= hi+1e-9; v++ {
			items = append(items, v)
		}
		return ast.FSet{Items: items}, nil
	}
	return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "range requires int or float endpoints, got %s", left.Kind())
}

func evalIf(c *evalctx.Context, env *tenv.Env, f ast.If) (ast.Node, error) {
	cond, err := Eval(c, env, f.Cond)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(ast.Bool)
	if !ok {
		return nil, c.Sink.TypeError("eval", ast.Location{}, ast.Location{}, "if condition must be boolean, got %s", cond.Kind())
	}
	if b.Value {
		return Eval(c, env, f.Then)
	}
	return Eval(c, env, f.Else)
}
