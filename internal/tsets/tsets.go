// Package tsets implements the set algebra of spec.md §4.3 over the three
// typed set flavors and the polymorphic empty set: union, intersection,
// difference, subset, equality, membership, cardinality, and ordered
// enumeration. It operates on the set-valued ast.Node variants (ast.ISet,
// ast.FSet, ast.PropSet, ast.EmptySet) produced by the evaluator; it holds no
// state of its own — the membership/dedup containers it builds on top of
// internal/util.KeySet[E] are scratch values, thrown away once an operation
// flattens its result back into one of the flat-slice ast set variants.
package tsets

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/util"
)

// collator orders PropSet elements the way a human reading a .touist source
// file would expect ("a10" after "a9", accented names grouped with their
// unaccented forms), rather than byte-wise as sort.Strings would.
var collator = collate.New(language.English)

// Flavor identifies which of the three element types a set value carries.
type Flavor int

const (
	FlavorInt Flavor = iota
	FlavorFloat
	FlavorProp
)

// FlavorOf reports the element flavor of a set-valued node. ok is false if n
// is not one of ast.ISet, ast.FSet, ast.PropSet, or ast.EmptySet.
func FlavorOf(n ast.Node) (f Flavor, ok bool) {
	switch n.(type) {
	case ast.ISet:
		return FlavorInt, true
	case ast.FSet:
		return FlavorFloat, true
	case ast.PropSet:
		return FlavorProp, true
	case ast.EmptySet:
		return FlavorInt, true // arbitrary; EmptySet has no intrinsic flavor
	default:
		return 0, false
	}
}

// promoteEmpty resolves a pair of set-valued operands against spec.md
// §4.3's empty-set polymorphism rule: an ast.EmptySet operand is promoted to
// the empty set of the other operand's flavor; if both are ast.EmptySet, both
// are promoted to an empty ast.ISet.
func promoteEmpty(a, b ast.Node) (ast.Node, ast.Node) {
	_, aEmpty := a.(ast.EmptySet)
	_, bEmpty := b.(ast.EmptySet)

	if aEmpty && bEmpty {
		return ast.ISet{}, ast.ISet{}
	}
	if aEmpty {
		return emptyLike(b), b
	}
	if bEmpty {
		return a, emptyLike(a)
	}
	return a, b
}

func emptyLike(n ast.Node) ast.Node {
	switch n.(type) {
	case ast.FSet:
		return ast.FSet{}
	case ast.PropSet:
		return ast.PropSet{}
	default:
		return ast.ISet{}
	}
}

// Len returns the cardinality of a set-valued node.
func Len(n ast.Node) int {
	switch t := n.(type) {
	case ast.ISet:
		return len(t.Items)
	case ast.FSet:
		return len(t.Items)
	case ast.PropSet:
		return len(t.Items)
	case ast.EmptySet:
		return 0
	default:
		return 0
	}
}

// Sorted returns the elements of a set-valued node in the enumeration order
// spec.md §4.5 requires: integers ascending, floats ascending, propositions
// in collation order. The returned Node is always concrete (never
// ast.EmptySet), so range loops over it don't need a type switch.
func Sorted(n ast.Node) ast.Node {
	switch t := n.(type) {
	case ast.ISet:
		items := util.SortedElements(util.KeySetOf(t.Items), func(a, b int) bool { return a < b })
		return ast.ISet{Items: items}
	case ast.FSet:
		items := util.SortedElements(util.KeySetOf(t.Items), func(a, b float64) bool { return a < b })
		return ast.FSet{Items: items}
	case ast.PropSet:
		items := util.SortedElements(util.KeySetOf(t.Items), func(a, b string) bool {
			return collator.CompareString(a, b) < 0
		})
		return ast.PropSet{Items: items}
	default:
		return ast.ISet{}
	}
}

// Elements returns the enumerated elements of a set-valued node boxed as
// individual scalar ast.Node values (ast.Int, ast.Float, or ast.Prop), in the
// order described by Sorted. This is the sequence a bigand/bigor generator
// binds its loop variable to across iterations (§4.5).
func Elements(n ast.Node) []ast.Node {
	sorted := Sorted(n)
	switch t := sorted.(type) {
	case ast.ISet:
		out := make([]ast.Node, len(t.Items))
		for i, v := range t.Items {
			out[i] = ast.Int{Value: v}
		}
		return out
	case ast.FSet:
		out := make([]ast.Node, len(t.Items))
		for i, v := range t.Items {
			out[i] = ast.Float{Value: v}
		}
		return out
	case ast.PropSet:
		out := make([]ast.Node, len(t.Items))
		for i, v := range t.Items {
			out[i] = ast.Prop{Name: v}
		}
		return out
	default:
		return nil
	}
}

// Union computes a ∪ b, after empty-set promotion.
func Union(a, b ast.Node) ast.Node {
	a, b = promoteEmpty(a, b)
	switch at := a.(type) {
	case ast.ISet:
		bt := b.(ast.ISet)
		set := util.NewKeySet[int]()
		set.AddAll(util.KeySetOf(at.Items))
		set.AddAll(util.KeySetOf(bt.Items))
		return ast.ISet{Items: sortedInts(set)}
	case ast.FSet:
		bt := b.(ast.FSet)
		set := util.NewKeySet[float64]()
		set.AddAll(util.KeySetOf(at.Items))
		set.AddAll(util.KeySetOf(bt.Items))
		return ast.FSet{Items: sortedFloats(set)}
	case ast.PropSet:
		bt := b.(ast.PropSet)
		set := util.NewKeySet[string]()
		set.AddAll(util.KeySetOf(at.Items))
		set.AddAll(util.KeySetOf(bt.Items))
		return ast.PropSet{Items: sortedStrings(set)}
	default:
		return ast.EmptySet{}
	}
}

// Intersection computes a ∩ b, after empty-set promotion.
func Intersection(a, b ast.Node) ast.Node {
	a, b = promoteEmpty(a, b)
	switch at := a.(type) {
	case ast.ISet:
		bt := b.(ast.ISet)
		member := util.KeySetOf(bt.Items)
		out := util.NewKeySet[int]()
		for _, v := range at.Items {
			if member.Has(v) {
				out.Add(v)
			}
		}
		return ast.ISet{Items: sortedInts(out)}
	case ast.FSet:
		bt := b.(ast.FSet)
		member := util.KeySetOf(bt.Items)
		out := util.NewKeySet[float64]()
		for _, v := range at.Items {
			if member.Has(v) {
				out.Add(v)
			}
		}
		return ast.FSet{Items: sortedFloats(out)}
	case ast.PropSet:
		bt := b.(ast.PropSet)
		member := util.KeySetOf(bt.Items)
		out := util.NewKeySet[string]()
		for _, v := range at.Items {
			if member.Has(v) {
				out.Add(v)
			}
		}
		return ast.PropSet{Items: sortedStrings(out)}
	default:
		return ast.EmptySet{}
	}
}

// Difference computes a \ b, after empty-set promotion.
func Difference(a, b ast.Node) ast.Node {
	a, b = promoteEmpty(a, b)
	switch at := a.(type) {
	case ast.ISet:
		bt := b.(ast.ISet)
		member := util.KeySetOf(bt.Items)
		out := util.NewKeySet[int]()
		for _, v := range at.Items {
			if !member.Has(v) {
				out.Add(v)
			}
		}
		return ast.ISet{Items: sortedInts(out)}
	case ast.FSet:
		bt := b.(ast.FSet)
		member := util.KeySetOf(bt.Items)
		out := util.NewKeySet[float64]()
		for _, v := range at.Items {
			if !member.Has(v) {
				out.Add(v)
			}
		}
		return ast.FSet{Items: sortedFloats(out)}
	case ast.PropSet:
		bt := b.(ast.PropSet)
		member := util.KeySetOf(bt.Items)
		out := util.NewKeySet[string]()
		for _, v := range at.Items {
			if !member.Has(v) {
				out.Add(v)
			}
		}
		return ast.PropSet{Items: sortedStrings(out)}
	default:
		return ast.EmptySet{}
	}
}

// Subset reports whether a ⊆ b, after empty-set promotion.
func Subset(a, b ast.Node) bool {
	a, b = promoteEmpty(a, b)
	switch at := a.(type) {
	case ast.ISet:
		bt := b.(ast.ISet)
		member := util.KeySetOf(bt.Items)
		for _, v := range at.Items {
			if !member.Has(v) {
				return false
			}
		}
		return true
	case ast.FSet:
		bt := b.(ast.FSet)
		member := util.KeySetOf(bt.Items)
		for _, v := range at.Items {
			if !member.Has(v) {
				return false
			}
		}
		return true
	case ast.PropSet:
		bt := b.(ast.PropSet)
		member := util.KeySetOf(bt.Items)
		for _, v := range at.Items {
			if !member.Has(v) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Equal reports whether a and b contain the same elements, after empty-set
// promotion.
func Equal(a, b ast.Node) bool {
	return Subset(a, b) && Subset(b, a)
}

// In reports whether the scalar value elem (an ast.Int, ast.Float, or
// ast.Prop) is a member of set s.
func In(elem ast.Node, s ast.Node) bool {
	switch st := s.(type) {
	case ast.ISet:
		e, ok := elem.(ast.Int)
		if !ok {
			return false
		}
		for _, v := range st.Items {
			if v == e.Value {
				return true
			}
		}
	case ast.FSet:
		e, ok := elem.(ast.Float)
		if !ok {
			return false
		}
		for _, v := range st.Items {
			if v == e.Value {
				return true
			}
		}
	case ast.PropSet:
		e, ok := elem.(ast.Prop)
		if !ok {
			return false
		}
		for _, v := range st.Items {
			if v == e.Name {
				return true
			}
		}
	}
	return false
}

// sortedInts/sortedFloats/sortedStrings flatten a util.KeySet back into the
// deduplicated, deterministically-ordered slice the flat-slice ast set
// variants store. Ascending numeric order matches §4.5's enumeration rule;
// PropSet's own collation order is applied separately by Sorted.
func sortedInts(s util.ISet[int]) []int {
	out := s.Elements()
	sort.Ints(out)
	return out
}

func sortedFloats(s util.ISet[float64]) []float64 {
	out := s.Elements()
	sort.Float64s(out)
	return out
}

func sortedStrings(s util.ISet[string]) []string {
	out := s.Elements()
	sort.Strings(out)
	return out
}
