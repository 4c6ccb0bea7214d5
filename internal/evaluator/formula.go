// file formula.go: the formula evaluator (§4.4), bigand/bigor generators
// (§4.5), cardinality constraints (§4.6), and the top-level Let/Affect/
// TouistCode statement forms.
package evaluator

import (
	"fmt"

	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/diag"
	"github.com/touist-lang/touist/internal/evalctx"
	"github.com/touist-lang/touist/internal/tenv"
	"github.com/touist-lang/touist/internal/tsets"
)

// EvalFormula traverses a formula-shaped node and returns a normalised
// propositional formula over {Prop, Unary(Not), Binary(And/Or/Implies/
// Equiv/Xor), Top, Bottom} (plus numeric literals/arithmetic, in SMT mode).
func EvalFormula(c *evalctx.Context, env *tenv.Env, n ast.Node) (ast.Node, error) {
	inner, start, _, wrapped := ast.Unwrap(n)
	v, err := evalFormulaUnwrapped(c, env, inner)
	if err != nil && wrapped {
		return nil, fmt.Errorf("%s: %w", start, err)
	}
	return v, err
}

func evalFormulaUnwrapped(c *evalctx.Context, env *tenv.Env, n ast.Node) (ast.Node, error) {
	switch t := n.(type) {
	case ast.Top, ast.Bottom, ast.Prop:
		return n, nil

	case ast.Int, ast.Float:
		if c.Mode != evalctx.ModeSMT {
			return nil, c.Sink.TypeError("formula", ast.Location{}, ast.Location{}, "numeric value %s is not allowed in formula position outside SMT mode", n)
		}
		return n, nil

	case ast.Var:
		return evalFormulaVar(c, env, t)

	case ast.UnexpProp:
		v, err := evalUnexpProp(c, env, t)
		if err != nil {
			return nil, err
		}
		return v, nil

	case ast.Unary:
		return evalFormulaUnary(c, env, t)

	case ast.Binary:
		return evalFormulaBinary(c, env, t)

	case ast.If:
		return evalFormulaIf(c, env, t)

	case ast.Let:
		return evalLet(c, env, t)

	case ast.Bigand:
		return evalGenerator(c, env, t, true)

	case ast.Bigor:
		return evalGenerator(c, env, t, false)

	case ast.Exact:
		return evalExact(c, env, t)

	case ast.Atleast:
		return evalAtleast(c, env, t)

	case ast.Atmost:
		return evalAtmost(c, env, t)

	case ast.Paren:
		return EvalFormula(c, env, t.Inner)

	default:
		// Anything else (typed sets, SetDecl) is value-shaped, not
		// formula-shaped, in this position.
		return nil, c.Sink.TypeError("formula", ast.Location{}, ast.Location{}, "%s is not a valid formula node", n.Kind())
	}
}

// evalFormulaVar implements §4.4 step 1 (variable expansion) and step 2 (the
// computed-name fallback that enables "bigand $f in $F: $f($i)").
func evalFormulaVar(c *evalctx.Context, env *tenv.Env, v ast.Var) (ast.Node, error) {
	name, err := tenv.ExpandVarName(v.Name, v.Indices, func(idx ast.Node) (ast.Node, error) {
		return Eval(c, env, idx)
	})
	if err != nil {
		return nil, err
	}

	b, ok := env.Resolve(name)
	if !ok && len(v.Indices) > 0 {
		// Computed-name fallback: retry with just the prefix; if it names a
		// proposition, build "prefix(idx1, idx2, ...)" as the final name.
		if prefixBinding, prefixOK := env.Resolve(v.Name); prefixOK {
			if prop, isProp := prefixBinding.Value.(ast.Prop); isProp {
				composed, err := composeIndexedName(c, env, prop.Name, v.Indices)
				if err != nil {
					return nil, err
				}
				return composed, nil
			}
		}
	}
	if !ok {
		return nil, c.Sink.NameError("formula", ast.Location{}, ast.Location{}, "undefined variable $%s", name)
	}

	switch val := b.Value.(type) {
	case ast.Prop, ast.Top, ast.Bottom:
		return val, nil
	case ast.Int, ast.Float:
		if c.Mode == evalctx.ModeSMT {
			return val, nil
		}
		return nil, c.Sink.TypeError("formula", ast.Location{}, ast.Location{}, "$%s is a %s, not a proposition", name, val.Kind())
	default:
		return nil, c.Sink.TypeError("formula", ast.Location{}, ast.Location{}, "$%s is a %s, not a proposition", name, val.Kind())
	}
}

func composeIndexedName(c *evalctx.Context, env *tenv.Env, prefix string, indices []ast.Node) (ast.Node, error) {
	v, err := evalUnexpProp(c, env, ast.UnexpProp{Name: prefix, Indices: indices})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func evalFormulaUnary(c *evalctx.Context, env *tenv.Env, u ast.Unary) (ast.Node, error) {
	if u.Op != ast.OpNot {
		// arithmetic unary ops inside a formula (SMT mode linear arithmetic)
		return Eval(c, env, u)
	}

	operand, err := EvalFormula(c, env, u.Operand)
	if err != nil {
		return nil, err
	}

	switch operand.(type) {
	case ast.Top:
		return ast.Bottom{}, nil
	case ast.Bottom:
		return ast.Top{}, nil
	default:
		return ast.Unary{Op: ast.OpNot, Operand: operand}, nil
	}
}

func evalFormulaBinary(c *evalctx.Context, env *tenv.Env, b ast.Binary) (ast.Node, error) {
	switch b.Op {
	case ast.OpAnd, ast.OpOr, ast.OpImplies, ast.OpEquiv, ast.OpXor:
		left, err := EvalFormula(c, env, b.Left)
		if err != nil {
			return nil, err
		}
		right, err := EvalFormula(c, env, b.Right)
		if err != nil {
			return nil, err
		}
		return shortCircuit(b.Op, left, right), nil

	default:
		// arithmetic/comparison/set operators reaching here are value-level;
		// §4.4 step 4: evaluate when both sides reduce to numeric literals,
		// otherwise leave the arithmetic node structurally (SMT linear
		// arithmetic).
		v, err := Eval(c, env, b)
		if err == nil {
			return v, nil
		}
		left, lerr := EvalFormula(c, env, b.Left)
		if lerr != nil {
			return nil, err
		}
		right, rerr := EvalFormula(c, env, b.Right)
		if rerr != nil {
			return nil, err
		}
		if isNumericLiteral(left) && isNumericLiteral(right) {
			// Both sides are already concrete numbers, so Eval's failure
			// (division by zero, mismatched operand flavors, ...) is a real
			// arithmetic error, not an unresolved SMT symbol — surface it
			// instead of silently preserving a bogus structural node.
			return nil, err
		}
		return ast.Binary{Op: b.Op, Left: left, Right: right}, nil
	}
}

func isNumericLiteral(n ast.Node) bool {
	switch n.(type) {
	case ast.Int, ast.Float:
		return true
	default:
		return false
	}
}

// shortCircuit implements §4.4 step 3's eager Top/Bottom propagation.
func shortCircuit(op ast.BinaryOp, left, right ast.Node) ast.Node {
	_, lTop := left.(ast.Top)
	_, lBot := left.(ast.Bottom)
	_, rTop := right.(ast.Top)
	_, rBot := right.(ast.Bottom)

	switch op {
	case ast.OpAnd:
		if lBot || rBot {
			return ast.Bottom{}
		}
		if lTop {
			return right
		}
		if rTop {
			return left
		}
	case ast.OpOr:
		if lTop || rTop {
			return ast.Top{}
		}
		if lBot {
			return right
		}
		if rBot {
			return left
		}
	case ast.OpImplies:
		if rTop || lBot {
			return ast.Top{}
		}
		if lTop {
			return right
		}
		if rBot {
			return ast.Unary{Op: ast.OpNot, Operand: left}
		}
	case ast.OpEquiv:
		// Open question resolution: Equiv is encoded only as the
		// conjunction of both implications (SPEC_FULL.md §10), never the
		// duplicated-clause variant.
		return shortCircuit(ast.OpAnd,
			shortCircuit(ast.OpImplies, left, right),
			shortCircuit(ast.OpImplies, right, left))
	case ast.OpXor:
		return shortCircuit(ast.OpAnd,
			shortCircuit(ast.OpOr, left, right),
			shortCircuit(ast.OpOr,
				ast.Unary{Op: ast.OpNot, Operand: left},
				ast.Unary{Op: ast.OpNot, Operand: right}))
	}

	return ast.Binary{Op: op, Left: left, Right: right}
}

func evalFormulaIf(c *evalctx.Context, env *tenv.Env, f ast.If) (ast.Node, error) {
	cond, err := Eval(c, env, f.Cond)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(ast.Bool)
	if !ok {
		return nil, c.Sink.TypeError("formula", ast.Location{}, ast.Location{}, "if condition must be boolean, got %s", cond.Kind())
	}
	if b.Value {
		return EvalFormula(c, env, f.Then)
	}
	return EvalFormula(c, env, f.Else)
}

// evalLet implements §4.4 step 7: evaluate the value under the current env,
// extend the local env, evaluate body under the extended env.
func evalLet(c *evalctx.Context, env *tenv.Env, l ast.Let) (ast.Node, error) {
	value, err := Eval(c, env, l.Value)
	if err != nil {
		return nil, err
	}
	pop := env.PushLocal(l.Var, value, ast.Location{})
	defer pop()
	return EvalFormula(c, env, l.Body)
}

// EvalAffect implements the top-level "$var = value" statement: evaluate
// under env, bind globally.
func EvalAffect(c *evalctx.Context, env *tenv.Env, a ast.Affect) error {
	value, err := Eval(c, env, a.Value)
	if err != nil {
		return err
	}
	env.Affect(a.Var, value, ast.Location{})
	return nil
}

// EvalTouistCode evaluates every top-level statement in order, threading
// Affect's global-env side effects to subsequent statements, and returns the
// conjunction of every formula-shaped statement (the overall formula this
// program denotes).
func EvalTouistCode(c *evalctx.Context, env *tenv.Env, code ast.TouistCode) (ast.Node, error) {
	var result ast.Node = ast.Top{}
	for _, stmt := range code.Stmts {
		inner, _, _, _ := ast.Unwrap(stmt)
		if a, ok := inner.(ast.Affect); ok {
			if err := EvalAffect(c, env, a); err != nil {
				return nil, err
			}
			continue
		}
		v, err := EvalFormula(c, env, stmt)
		if err != nil {
			return nil, err
		}
		result = shortCircuit(ast.OpAnd, result, v)
	}
	return result, nil
}

// evalGenerator implements §4.5: arity check, n-ary unrolling, and the
// single-variable accumulation step, shared between bigand and bigor via the
// isAnd flag.
func evalGenerator(c *evalctx.Context, env *tenv.Env, n ast.Node, isAnd bool) (ast.Node, error) {
	var vars []string
	var sets []ast.Node
	var when, body ast.Node

	switch t := n.(type) {
	case ast.Bigand:
		vars, sets, when, body = t.Vars, t.Sets, t.When, t.Body
	case ast.Bigor:
		vars, sets, when, body = t.Vars, t.Sets, t.When, t.Body
	}

	if len(vars) != len(sets) {
		return nil, c.Sink.ArityError("generator", ast.Location{}, ast.Location{},
			"generator has %d variable(s) but %d set(s)", len(vars), len(sets))
	}

	return runGenerator(c, env, vars, sets, when, body, isAnd)
}

// runGenerator performs the n-ary unrolling of §4.5: for n>1, the innermost
// generator carries the when-guard so the predicate can see every bound
// variable.
func runGenerator(c *evalctx.Context, env *tenv.Env, vars []string, sets []ast.Node, when, body ast.Node, isAnd bool) (ast.Node, error) {
	if len(vars) > 1 {
		var inner ast.Node
		if isAnd {
			inner = ast.Bigand{Vars: vars[1:], Sets: sets[1:], When: when, Body: body}
		} else {
			inner = ast.Bigor{Vars: vars[1:], Sets: sets[1:], When: when, Body: body}
		}
		return runGenerator(c, env, vars[:1], sets[:1], nil, inner, isAnd)
	}

	setVal, err := Eval(c, env, sets[0])
	if err != nil {
		return nil, err
	}
	if _, ok := tsets.FlavorOf(setVal); !ok {
		return nil, c.Sink.TypeError("generator", ast.Location{}, ast.Location{}, "generator source must be a set, got %s", setVal.Kind())
	}

	elems := tsets.Elements(setVal)
	if c.CheckOnly && len(elems) > 1 {
		elems = elems[:1]
	}

	neutral := ast.Node(ast.Top{})
	combine := ast.OpAnd
	if !isAnd {
		neutral = ast.Bottom{}
		combine = ast.OpOr
	}

	result := neutral
	kept := 0
	for _, elem := range elems {
		pop := env.PushLocal(vars[0], elem, ast.Location{})
		keep := true
		if when != nil {
			w, err := Eval(c, env, when)
			if err != nil {
				pop()
				return nil, err
			}
			wb, ok := w.(ast.Bool)
			if !ok {
				pop()
				return nil, c.Sink.TypeError("generator", ast.Location{}, ast.Location{}, "when-clause must be boolean, got %s", w.Kind())
			}
			keep = wb.Value
		}
		if keep {
			v, err := EvalFormula(c, env, body)
			if err != nil {
				pop()
				return nil, err
			}
			if kept == 0 {
				result = v
			} else {
				result = shortCircuit(combine, result, v)
			}
			kept++
		}
		pop()
	}

	if kept == 0 {
		name := "bigand"
		if !isAnd {
			name = "bigor"
		}
		if c.EmptyGeneratorIsFatal {
			return nil, c.Sink.ArityError("generator", ast.Location{}, ast.Location{}, "%s produced no terms", name)
		}
		c.Sink.Warn(diag.KindArity, "generator", ast.Location{}, ast.Location{}, "%s produced no terms, using neutral element", name)
		return neutral, nil
	}

	return result, nil
}

// evalCardinalitySet evaluates the proposition-set operand shared by Exact,
// Atleast, and Atmost, returning its elements as Prop nodes.
func evalCardinalitySet(c *evalctx.Context, env *tenv.Env, n ast.Node) ([]ast.Prop, error) {
	v, err := Eval(c, env, n)
	if err != nil {
		return nil, err
	}
	ps, ok := v.(ast.PropSet)
	if !ok {
		if _, isEmpty := v.(ast.EmptySet); isEmpty {
			return nil, nil
		}
		return nil, c.Sink.TypeError("cardinality", ast.Location{}, ast.Location{}, "cardinality constraint requires a proposition set, got %s", v.Kind())
	}
	sorted := tsets.Sorted(ps).(ast.PropSet)
	out := make([]ast.Prop, len(sorted.Items))
	for i, name := range sorted.Items {
		out[i] = ast.Prop{Name: name}
	}
	return out, nil
}

func evalCardinalityN(c *evalctx.Context, env *tenv.Env, n ast.Node) (int, error) {
	v, err := Eval(c, env, n)
	if err != nil {
		return 0, err
	}
	iv, ok := v.(ast.Int)
	if !ok {
		return 0, c.Sink.TypeError("cardinality", ast.Location{}, ast.Location{}, "cardinality constraint requires an integer count, got %s", v.Kind())
	}
	return iv.Value, nil
}

func evalExact(c *evalctx.Context, env *tenv.Env, e ast.Exact) (ast.Node, error) {
	n, err := evalCardinalityN(c, env, e.N)
	if err != nil {
		return nil, err
	}
	props, err := evalCardinalitySet(c, env, e.Set)
	if err != nil {
		return nil, err
	}
	if c.CheckOnly {
		return ast.Prop{Name: c.FreshAux()}, nil
	}

	k := len(props)
	if n > k {
		return ast.Bottom{}, nil
	}
	if k == 0 {
		if n == 0 {
			return ast.Top{}, nil
		}
		return ast.Bottom{}, nil
	}

	var disjuncts []ast.Node
	forEachSubset(k, n, func(chosen []bool) {
		var conjuncts []ast.Node
		for i, p := range props {
			if chosen[i] {
				conjuncts = append(conjuncts, p)
			} else {
				conjuncts = append(conjuncts, ast.Unary{Op: ast.OpNot, Operand: p})
			}
		}
		disjuncts = append(disjuncts, andAll(conjuncts))
	})
	return orAll(disjuncts), nil
}

func evalAtleast(c *evalctx.Context, env *tenv.Env, a ast.Atleast) (ast.Node, error) {
	n, err := evalCardinalityN(c, env, a.N)
	if err != nil {
		return nil, err
	}
	props, err := evalCardinalitySet(c, env, a.Set)
	if err != nil {
		return nil, err
	}
	if c.CheckOnly {
		return ast.Prop{Name: c.FreshAux()}, nil
	}

	k := len(props)
	if n > k {
		return ast.Bottom{}, nil
	}
	if n <= 0 {
		return ast.Top{}, nil
	}

	var disjuncts []ast.Node
	forEachSubset(k, n, func(chosen []bool) {
		var conjuncts []ast.Node
		for i, p := range props {
			if chosen[i] {
				conjuncts = append(conjuncts, p)
			}
		}
		disjuncts = append(disjuncts, andAll(conjuncts))
	})
	return orAll(disjuncts), nil
}

func evalAtmost(c *evalctx.Context, env *tenv.Env, a ast.Atmost) (ast.Node, error) {
	n, err := evalCardinalityN(c, env, a.N)
	if err != nil {
		return nil, err
	}
	props, err := evalCardinalitySet(c, env, a.Set)
	if err != nil {
		return nil, err
	}
	if c.CheckOnly {
		return ast.Prop{Name: c.FreshAux()}, nil
	}

	k := len(props)
	if n >= k {
		return ast.Top{}, nil
	}
	if n < 0 {
		return ast.Bottom{}, nil
	}

	f := k - n
	var disjuncts []ast.Node
	forEachSubset(k, f, func(chosen []bool) {
		var conjuncts []ast.Node
		for i, p := range props {
			if chosen[i] {
				conjuncts = append(conjuncts, ast.Unary{Op: ast.OpNot, Operand: p})
			}
		}
		disjuncts = append(disjuncts, andAll(conjuncts))
	})
	return orAll(disjuncts), nil
}

// forEachSubset invokes fn once per n-element subset of {0,...,k-1},
// represented as a length-k boolean selection mask.
func forEachSubset(k, n int, fn func(chosen []bool)) {
	if n < 0 || n > k {
		return
	}
	chosen := make([]bool, k)
	var rec func(start, remaining int)
	rec = func(start, remaining int) {
		if remaining == 0 {
			fn(append([]bool(nil), chosen...))
			return
		}
		for i := start; i <= k-remaining; i++ {
			chosen[i] = true
			rec(i+1, remaining-1)
			chosen[i] = false
		}
	}
	rec(0, n)
}

func andAll(nodes []ast.Node) ast.Node {
	if len(nodes) == 0 {
		return ast.Top{}
	}
	result := nodes[0]
	for _, n := range nodes[1:] {
		result = shortCircuit(ast.OpAnd, result, n)
	}
	return result
}

func orAll(nodes []ast.Node) ast.Node {
	if len(nodes) == 0 {
		return ast.Bottom{}
	}
	result := nodes[0]
	for _, n := range nodes[1:] {
		result = shortCircuit(ast.OpOr, result, n)
	}
	return result
}
