// Package tenv implements the two-scope name resolution of spec.md §4.1: a
// mutable global environment (populated by top-level Affect statements) and
// a local environment stack (pushed by Let, Bigand, and Bigor), with the
// local scope always shadowing the global one.
package tenv

import (
	"fmt"
	"strconv"

	"github.com/touist-lang/touist/internal/ast"
)

// Binding pairs a resolved value with the location of the reference that
// bound it, so a later diagnostic about the bound name can point at the
// binder rather than only the use site.
type Binding struct {
	Value ast.Node
	Loc   ast.Location
}

// frame is one level of the local environment stack, pushed by Let and by
// each single-variable step of a Bigand/Bigor generator.
type frame struct {
	name    string
	binding Binding
}

// Env is the two-scope environment threaded through evaluation: a global map
// for Affect-bound names, and a local stack for Let/generator-bound names.
// The zero value is ready to use.
type Env struct {
	global map[string]Binding
	local  []frame
}

// New returns an empty Env.
func New() *Env {
	return &Env{global: make(map[string]Binding)}
}

// Affect binds name in the global scope, overwriting any prior global
// binding of the same name (spec.md's top-level "var = value" statement).
func (e *Env) Affect(name string, value ast.Node, loc ast.Location) {
	if e.global == nil {
		e.global = make(map[string]Binding)
	}
	e.global[name] = Binding{Value: value, Loc: loc}
}

// PushLocal pushes a new local binding, shadowing any existing binding
// (global or local) of the same name for the lifetime of the returned pop
// function. Callers must defer the returned func to restore the prior scope.
func (e *Env) PushLocal(name string, value ast.Node, loc ast.Location) (pop func()) {
	e.local = append(e.local, frame{name: name, binding: Binding{Value: value, Loc: loc}})
	depth := len(e.local)
	return func() {
		e.local = e.local[:depth-1]
	}
}

// Resolve implements resolve(name, env) from spec.md §4.1: linear search of
// the local stack innermost-first, then a hashed lookup in the global map.
func (e *Env) Resolve(name string) (Binding, bool) {
	for i := len(e.local) - 1; i >= 0; i-- {
		if e.local[i].name == name {
			return e.local[i].binding, true
		}
	}
	b, ok := e.global[name]
	return b, ok
}

// Indexer evaluates an index expression to its scalar rendering, used by
// ExpandVarName. It is supplied by the evaluator package (which owns full
// expression evaluation) to avoid an import cycle between tenv and
// evaluator.
type Indexer func(index ast.Node) (ast.Node, error)

// ExpandVarName implements expand_var_name from spec.md §4.1: with no
// indices, the prefix alone; otherwise "prefix(v1, v2, ...)" where each vi is
// the evaluated-and-rendered index. This string is both envs' lookup key and
// the materialised DIMACS proposition name.
func ExpandVarName(prefix string, indices []ast.Node, eval Indexer) (string, error) {
	if len(indices) == 0 {
		return prefix, nil
	}

	rendered := make([]string, len(indices))
	for i, idx := range indices {
		v, err := eval(idx)
		if err != nil {
			return "", err
		}
		s, err := renderIndex(v)
		if err != nil {
			return "", err
		}
		rendered[i] = s
	}

	out := prefix + "("
	for i, r := range rendered {
		if i > 0 {
			out += ", "
		}
		out += r
	}
	out += ")"
	return out, nil
}

func renderIndex(v ast.Node) (string, error) {
	switch t := v.(type) {
	case ast.Int:
		return strconv.Itoa(t.Value), nil
	case ast.Float:
		return strconv.FormatFloat(t.Value, 'f', -1, 64), nil
	case ast.Prop:
		return t.Name, nil
	default:
		return "", fmt.Errorf("index must evaluate to int, float, or proposition, got %s", v.Kind())
	}
}
