package ast

import "fmt"

// Location is a single point in touist source: a 1-indexed line and column, a
// 0-indexed byte offset from the start of the file, and the file name it came
// from. It is produced by the (external, out of scope for this core) parser
// and is otherwise opaque to every pass in this package.
type Location struct {
	Line int
	Col  int
	Byte int
	File string
}

// IsZero returns whether loc is the unset zero value, which is what every
// Node not wrapped in a Loc node reports for its location.
func (loc Location) IsZero() bool {
	return loc == Location{}
}

func (loc Location) String() string {
	if loc.File == "" {
		return fmt.Sprintf("%d:%d", loc.Line, loc.Col)
	}
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
}

// Loc wraps any Node with the source span that produced it. Per spec, this
// wrapper is always peeled immediately before pattern-matching a node and
// re-attached around any diagnostic raised about it; see Unwrap.
type Loc struct {
	Inner      Node
	Start, End Location
}

func (n Loc) Kind() Kind { return KLoc }

func (n Loc) String() string {
	return fmt.Sprintf("[LOC %s-%s\n%s\n]", n.Start, n.End, indent(n.Inner.String(), 2))
}

// Unwrap peels every leading Loc wrapper off of n, returning the innermost
// node along with the outermost source span found (the span a diagnostic
// about the returned node should be reported at). ok is false if n was never
// wrapped in a Loc at all, in which case span is the zero Location pair.
func Unwrap(n Node) (inner Node, start, end Location, ok bool) {
	cur := n
	for {
		l, isLoc := cur.(Loc)
		if !isLoc {
			return cur, start, end, ok
		}
		if !ok {
			start, end = l.Start, l.End
			ok = true
		}
		cur = l.Inner
	}
}
