// Package touist contains the compiler core that every driver (the CLI in
// cmd/touist and the HTTP service in package server) calls into: Evaluate →
// CNF → Emit. It is a library, not a CLI; drivers own rendering diagnostics
// and writing output.
package touist

import (
	"github.com/touist-lang/touist/internal/ast"
	"github.com/touist-lang/touist/internal/cache"
	"github.com/touist-lang/touist/internal/clause"
	"github.com/touist-lang/touist/internal/cnf"
	"github.com/touist-lang/touist/internal/diag"
	"github.com/touist-lang/touist/internal/evalctx"
	"github.com/touist-lang/touist/internal/evaluator"
	"github.com/touist-lang/touist/internal/tenv"
)

// Options selects the driver-configurable behavior of a compile, mirroring
// spec.md §6's "configuration struct, not globals."
type Options struct {
	SMTMode               bool
	CheckOnly             bool
	EmptyGeneratorIsFatal bool
	QuantifierBlocks      []clause.QuantifierBlock
}

// Result is everything a driver needs to render output and diagnostics for
// one compile.
type Result struct {
	Clauses     *clause.Set
	Diagnostics []diag.Diagnostic
}

// Compile runs the full pipeline over a parsed program: evaluate to a
// ground propositional formula, convert to CNF via Tseytin, and walk the
// CNF into an integer-keyed clause set. It returns as much of the
// diagnostic sink as was collected even on a Fatal error, so a driver can
// still print partial warnings.
func Compile(code ast.TouistCode, opts Options) (Result, error) {
	c := evalctx.New()
	if opts.SMTMode {
		c.Mode = evalctx.ModeSMT
	}
	c.CheckOnly = opts.CheckOnly
	c.EmptyGeneratorIsFatal = opts.EmptyGeneratorIsFatal

	env := tenv.New()

	formula, err := evaluator.EvalTouistCode(c, env, code)
	if err != nil {
		return Result{Diagnostics: c.Sink.Diagnostics()}, err
	}

	c.ResetFresh()
	cnfFormula := cnf.Convert(c, formula)
	clauses, err := clause.Walk(cnfFormula)
	if err != nil {
		return Result{Diagnostics: c.Sink.Diagnostics()}, err
	}

	return Result{Clauses: clauses, Diagnostics: c.Sink.Diagnostics()}, nil
}

// CompileCached wraps Compile with a Store lookup: identical ASTs under
// identical options skip straight to the cached DIMACS/table text instead of
// re-running the Tseytin pass, the ambient concern SPEC_FULL.md adds for a
// driver that sees the same program repeatedly (see package server).
func CompileCached(store *cache.Store, code ast.TouistCode, opts Options) (cache.Entry, []diag.Diagnostic, error) {
	key, err := cache.Key(code, modeFor(opts), opts.CheckOnly)
	if err != nil {
		return cache.Entry{}, nil, err
	}

	if e, ok := store.Get(key); ok {
		return e, nil, nil
	}

	result, err := Compile(code, opts)
	if err != nil {
		return cache.Entry{}, result.Diagnostics, err
	}

	var entry cache.Entry
	if len(opts.QuantifierBlocks) > 0 {
		entry = cache.Entry{Output: result.Clauses.QDIMACS(opts.QuantifierBlocks), Table: result.Clauses.Table(false)}
	} else {
		entry = cache.Entry{Output: result.Clauses.DIMACS(), Table: result.Clauses.Table(false)}
	}

	store.Put(key, entry)
	return entry, result.Diagnostics, nil
}

func modeFor(opts Options) evalctx.Mode {
	if opts.SMTMode {
		return evalctx.ModeSMT
	}
	return evalctx.ModeSAT
}
