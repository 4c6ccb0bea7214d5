// Package evalctx provides the explicit Context object threaded through
// every evaluator entry point, replacing the mutable package-level globals a
// naive port of the design would reach for (spec.md §9 design note). A
// Context is created once per compile and is not safe for concurrent use
// from more than one goroutine.
package evalctx

import (
	"github.com/touist-lang/touist/internal/diag"
	"github.com/touist-lang/touist/internal/tenv"
)

// Mode selects which target dialect the evaluator and downstream passes
// produce output for.
type Mode int

const (
	// ModeSAT targets plain DIMACS: only Bool-flavored values are legal in
	// formula position.
	ModeSAT Mode = iota
	// ModeSMT targets SMT-LIB2: Int and Float values are additionally legal
	// in formula position (spec.md §4.4.1).
	ModeSMT
)

// Context carries every piece of evaluation state that the original design
// would otherwise keep as mutable globals: the active mode, whether this is
// a fast check-only pass, the global name environment, the diagnostic sink,
// and the Tseytin fresh-name counter.
type Context struct {
	Mode Mode

	// CheckOnly, when true, truncates every generator's source set to its
	// first element (spec.md §4.5) and every cardinality constraint to a
	// single dummy proposition (§4.6), trading exactness for a fast
	// type-checking pass.
	CheckOnly bool

	// EmptyGeneratorIsFatal upgrades the warning spec.md §4.5 describes for
	// an empty bigand/bigor result to a Fatal diagnostic. Default false.
	EmptyGeneratorIsFatal bool

	Global *tenv.Env
	Sink   *diag.Sink

	freshCounter int
}

// New returns a ready-to-use Context in ModeSAT, non-check-only, with fresh
// Global and Sink.
func New() *Context {
	return &Context{
		Mode:   ModeSAT,
		Global: tenv.New(),
		Sink:   &diag.Sink{},
	}
}

// FreshAux returns the next Tseytin auxiliary proposition name ("&0", "&1",
// ...) and advances the counter. The counter is local to the Context so two
// independent compiles never collide, and is reset by ResetFresh between
// CNF passes over unrelated formulas (spec.md §4.8).
func (c *Context) FreshAux() string {
	n := c.freshCounter
	c.freshCounter++
	return freshName(n)
}

// ResetFresh resets the auxiliary-name counter to zero. Call this between
// independent top-level formulas so aux names stay small and reproducible
// instead of monotonically growing across an entire program.
func (c *Context) ResetFresh() {
	c.freshCounter = 0
}

func freshName(n int) string {
	const digits = "0123456789"
	if n == 0 {
		return "&0"
	}
	buf := make([]byte, 0, 8)
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "&" + string(buf)
}
