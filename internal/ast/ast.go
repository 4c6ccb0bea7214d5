// Package ast defines the tagged-variant AST that every pass in this module
// operates on: the raw syntax handed down by the (out of scope) parser, the
// purely evaluated propositional formula the evaluator produces, and the CNF
// the converter produces are all represented with this one node set, with
// passes distinguished by which subset of constructors they may still
// contain (see the package-level invariants documented on each pass).
package ast

import (
	"fmt"
	"strings"
)

// Kind discriminates the concrete Go type implementing Node. Operator-level
// detail within a family (e.g. which arithmetic operator a Binary node
// applies) lives in that node's Op field rather than in a Kind of its own,
// keeping the switch a caller needs to exhaustively handle to a manageable
// size.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KProp
	KTop
	KBottom
	KVar
	KUnexpProp
	KUnary
	KBinary
	KIf
	KISet
	KFSet
	KPropSet
	KEmptySet
	KSetDecl
	KBigand
	KBigor
	KLet
	KAffect
	KTouistCode
	KExact
	KAtleast
	KAtmost
	KParen
	KLoc
)

func (k Kind) String() string {
	switch k {
	case KInt:
		return "Int"
	case KFloat:
		return "Float"
	case KBool:
		return "Bool"
	case KProp:
		return "Prop"
	case KTop:
		return "Top"
	case KBottom:
		return "Bottom"
	case KVar:
		return "Var"
	case KUnexpProp:
		return "UnexpProp"
	case KUnary:
		return "Unary"
	case KBinary:
		return "Binary"
	case KIf:
		return "If"
	case KISet:
		return "ISet"
	case KFSet:
		return "FSet"
	case KPropSet:
		return "PropSet"
	case KEmptySet:
		return "EmptySet"
	case KSetDecl:
		return "SetDecl"
	case KBigand:
		return "Bigand"
	case KBigor:
		return "Bigor"
	case KLet:
		return "Let"
	case KAffect:
		return "Affect"
	case KTouistCode:
		return "TouistCode"
	case KExact:
		return "Exact"
	case KAtleast:
		return "Atleast"
	case KAtmost:
		return "Atmost"
	case KParen:
		return "Paren"
	case KLoc:
		return "Loc"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is implemented by every concrete AST node type in this package. It is
// intentionally minimal; callers are expected to type-switch on the
// concrete type (as is idiomatic for a Go AST, cf. go/ast.Expr) rather than
// call panic-on-mismatch accessors.
type Node interface {
	Kind() Kind
	String() string
}

// ---- literals ----

type Int struct{ Value int }

func (n Int) Kind() Kind     { return KInt }
func (n Int) String() string { return fmt.Sprintf("%d", n.Value) }

type Float struct{ Value float64 }

func (n Float) Kind() Kind     { return KFloat }
func (n Float) String() string { return fmt.Sprintf("%g", n.Value) }

type Bool struct{ Value bool }

func (n Bool) Kind() Kind     { return KBool }
func (n Bool) String() string { return fmt.Sprintf("%t", n.Value) }

// Prop is a ground, already-materialized proposition literal: either it
// appeared as a bare name in formula position, or it is the result of
// expanding a UnexpProp's indices into a single concrete name (§4.7).
type Prop struct{ Name string }

func (n Prop) Kind() Kind     { return KProp }
func (n Prop) String() string { return n.Name }

type Top struct{}

func (n Top) Kind() Kind     { return KTop }
func (n Top) String() string { return "Top" }

type Bottom struct{}

func (n Bottom) Kind() Kind     { return KBottom }
func (n Bottom) String() string { return "Bottom" }

// ---- variables & unexpanded propositions ----

// Var is a reference to a name bound by Let/Affect/Bigand/Bigor, of the form
// "$prefix" or "$prefix(i1, i2, ...)". Name does not include the leading '$'.
type Var struct {
	Name    string
	Indices []Node // nil if the variable is not parameterized
}

func (n Var) Kind() Kind { return KVar }
func (n Var) String() string {
	if len(n.Indices) == 0 {
		return "$" + n.Name
	}
	return fmt.Sprintf("$%s(%s)", n.Name, joinNodes(n.Indices))
}

// UnexpProp is a parameterized proposition reference awaiting index
// expansion, of the form "name(i1, i2, ...)" (§4.7). A bare name with no
// indices parses as Prop directly, not as an UnexpProp with an empty index
// list.
type UnexpProp struct {
	Name    string
	Indices []Node
}

func (n UnexpProp) Kind() Kind { return KUnexpProp }
func (n UnexpProp) String() string {
	return fmt.Sprintf("%s(%s)", n.Name, joinNodes(n.Indices))
}

// ---- arithmetic & boolean unary/binary operators ----

type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpSqrt
	OpToInt
	OpToFloat
	OpAbs
	OpNot
	OpCard
	OpSetEmpty // the "is this set empty" test, distinct from the EmptySet value
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpSqrt:
		return "sqrt"
	case OpToInt:
		return "int"
	case OpToFloat:
		return "float"
	case OpAbs:
		return "abs"
	case OpNot:
		return "not"
	case OpCard:
		return "card"
	case OpSetEmpty:
		return "empty"
	default:
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
}

type Unary struct {
	Op      UnaryOp
	Operand Node
}

func (n Unary) Kind() Kind     { return KUnary }
func (n Unary) String() string { return fmt.Sprintf("(%s %s)", n.Op, n.Operand) }

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpImplies
	OpEquiv
	OpEqual
	OpNotEqual
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpUnion
	OpInter
	OpDiff
	OpSubset
	OpIn
	OpRange
)

var binOpSymbols = map[BinaryOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpImplies: "=>", OpEquiv: "<=>",
	OpEqual: "=", OpNotEqual: "!=", OpLess: "<", OpLessEq: "<=",
	OpGreater: ">", OpGreaterEq: ">=",
	OpUnion: "union", OpInter: "inter", OpDiff: "diff", OpSubset: "subset",
	OpIn: "in", OpRange: "..",
}

func (op BinaryOp) String() string {
	if s, ok := binOpSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

type Binary struct {
	Op          BinaryOp
	Left, Right Node
}

func (n Binary) Kind() Kind { return KBinary }
func (n Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

type If struct {
	Cond, Then, Else Node
}

func (n If) Kind() Kind { return KIf }
func (n If) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", n.Cond, n.Then, n.Else)
}

// ---- typed set values & constructors ----

// ISet is an already-evaluated set of integers. Its Items are not required to
// be sorted or deduplicated by construction; every operation in package
// tsets normalizes first.
type ISet struct{ Items []int }

func (n ISet) Kind() Kind     { return KISet }
func (n ISet) String() string { return fmt.Sprintf("ISet%v", n.Items) }

// FSet is an already-evaluated set of floats.
type FSet struct{ Items []float64 }

func (n FSet) Kind() Kind     { return KFSet }
func (n FSet) String() string { return fmt.Sprintf("FSet%v", n.Items) }

// PropSet is an already-evaluated set of proposition names.
type PropSet struct{ Items []string }

func (n PropSet) Kind() Kind     { return KPropSet }
func (n PropSet) String() string { return fmt.Sprintf("PropSet%v", n.Items) }

// EmptySet is the polymorphic empty set (§4.3): it has no element flavor
// until promoted against a sibling operand.
type EmptySet struct{}

func (n EmptySet) Kind() Kind     { return KEmptySet }
func (n EmptySet) String() string { return "EmptySet" }

// SetDecl is the syntactic set-builder form "{e1, e2, ...}", not yet
// evaluated into one of the typed set values above.
type SetDecl struct{ Items []Node }

func (n SetDecl) Kind() Kind     { return KSetDecl }
func (n SetDecl) String() string { return fmt.Sprintf("{%s}", joinNodes(n.Items)) }

// ---- generators ----

type Bigand struct {
	Vars []string
	Sets []Node
	When Node // nil if there is no when-guard
	Body Node
}

func (n Bigand) Kind() Kind     { return KBigand }
func (n Bigand) String() string { return formatGenerator("bigand", n.Vars, n.Sets, n.When, n.Body) }

type Bigor struct {
	Vars []string
	Sets []Node
	When Node
	Body Node
}

func (n Bigor) Kind() Kind     { return KBigor }
func (n Bigor) String() string { return formatGenerator("bigor", n.Vars, n.Sets, n.When, n.Body) }

func formatGenerator(name string, vars []string, sets []Node, when, body Node) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(" ")
	for i := range vars {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "$%s in %s", vars[i], sets[i])
	}
	if when != nil {
		fmt.Fprintf(&sb, " when %s", when)
	}
	fmt.Fprintf(&sb, ": %s end", body)
	return sb.String()
}

// ---- bindings ----

type Let struct {
	Var   string
	Value Node
	Body  Node
}

func (n Let) Kind() Kind { return KLet }
func (n Let) String() string {
	return fmt.Sprintf("let $%s = %s in %s", n.Var, n.Value, n.Body)
}

// Affect is a top-level "$var = value" declaration; it has no body, only a
// side effect on the global env (§4.4 step 7 contrasts it with Let, which
// extends the local env for a body).
type Affect struct {
	Var   string
	Value Node
}

func (n Affect) Kind() Kind     { return KAffect }
func (n Affect) String() string { return fmt.Sprintf("$%s = %s", n.Var, n.Value) }

// TouistCode is the root node of a parsed program: a sequence of top-level
// statements (Affects and formulas).
type TouistCode struct{ Stmts []Node }

func (n TouistCode) Kind() Kind { return KTouistCode }
func (n TouistCode) String() string {
	parts := make([]string, len(n.Stmts))
	for i := range n.Stmts {
		parts[i] = n.Stmts[i].String()
	}
	return strings.Join(parts, "\n")
}

// ---- cardinality constraints ----

type Exact struct{ N, Set Node }

func (n Exact) Kind() Kind     { return KExact }
func (n Exact) String() string { return fmt.Sprintf("exact(%s, %s)", n.N, n.Set) }

type Atleast struct{ N, Set Node }

func (n Atleast) Kind() Kind     { return KAtleast }
func (n Atleast) String() string { return fmt.Sprintf("atleast(%s, %s)", n.N, n.Set) }

type Atmost struct{ N, Set Node }

func (n Atmost) Kind() Kind     { return KAtmost }
func (n Atmost) String() string { return fmt.Sprintf("atmost(%s, %s)", n.N, n.Set) }

// ---- grouping ----

type Paren struct{ Inner Node }

func (n Paren) Kind() Kind     { return KParen }
func (n Paren) String() string { return fmt.Sprintf("(%s)", n.Inner) }

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i := range nodes {
		parts[i] = nodes[i].String()
	}
	return strings.Join(parts, ", ")
}

// indent pads every line after the first of s by amount spaces, the same
// multi-line-node rendering trick the teacher's ast.go uses for its own
// String() methods.
func indent(s string, amount int) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	pad := strings.Repeat(" ", amount)
	return strings.ReplaceAll(s, "\n", "\n"+pad)
}
