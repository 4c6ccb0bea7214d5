// Package diag implements the four-kind error taxonomy and diagnostic sink
// described in spec.md §7: NameError, TypeError, ArityError, and ShapeError,
// each carrying a source location when available, plus the append-only sink
// they accumulate into during one evaluation pass (spec.md §5's "Diagnostic
// sink").
package diag

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/touist-lang/touist/internal/ast"
)

// Kind is one of the four error kinds spec.md §7 enumerates.
type Kind int

const (
	// KindName: a variable reference could not be resolved in either env.
	KindName Kind = iota
	// KindType: an operator's operands have incompatible or unexpected
	// flavors, or a formula-position variable holds a non-proposition.
	KindType
	// KindArity: a bigand/bigor's variable count differs from its set
	// count, or (when configured fatal) a generator produced nothing.
	KindArity
	// KindShape: the AST is structurally invalid at a point where a specific
	// node shape was expected. Should not occur with a well-formed parser.
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "NameError"
	case KindType:
		return "TypeError"
	case KindArity:
		return "ArityError"
	case KindShape:
		return "ShapeError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Severity controls whether a Diagnostic aborts the current pass.
type Severity int

const (
	Warning Severity = iota
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "error"
	}
	return "warning"
}

// Diagnostic is one entry in the sink: a (severity, phase, message,
// location) record per spec.md §5.
type Diagnostic struct {
	Kind       Kind
	Severity   Severity
	Phase      string
	Message    string
	Start, End ast.Location

	// SourceLine is the exact text of the offending source line, if known.
	// Used only to render FullMessage; empty is fine and simply omits the
	// excerpt.
	SourceLine string
}

// Error satisfies the error interface so a Diagnostic can be returned
// directly by any function that aborts on the first Fatal diagnostic.
func (d Diagnostic) Error() string {
	if d.Start.IsZero() {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	if d.End.IsZero() || d.End.Col == d.Start.Col {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.Start.File, d.Start.Line, d.Start.Col, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d-%d: %s: %s", d.Start.File, d.Start.Line, d.Start.Col, d.End.Col, d.Severity, d.Message)
}

// FullMessage renders the diagnostic the way spec.md §7 describes: the
// offending sub-expression's source line, word-wrapped to a terminal-ish
// width, with a caret under the offending column, followed by the one-line
// summary from Error().
func (d Diagnostic) FullMessage() string {
	if d.SourceLine == "" {
		return d.Error()
	}

	wrapped := rosed.Edit(d.SourceLine).Wrap(100).String()
	cursor := ""
	for i := 0; i < d.Start.Col-1; i++ {
		cursor += " "
	}
	cursor += "^"

	return fmt.Sprintf("%s\n%s\n%s", wrapped, cursor, d.Error())
}

// Sink is the append-only diagnostic collector threaded through an
// evalctx.Context. A Fatal diagnostic is also returned as an error by the
// function that raised it so callers can abort immediately without scanning
// the sink; non-fatal diagnostics (warnings) only accumulate.
type Sink struct {
	diags []Diagnostic
}

// Diagnostics returns every diagnostic recorded so far, in the order they
// were raised.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diags
}

// HasFatal returns whether any recorded diagnostic is of Fatal severity.
func (s *Sink) HasFatal() bool {
	for _, d := range s.diags {
		if d.Severity == Fatal {
			return true
		}
	}
	return false
}

// Warn records a Warning-severity diagnostic and returns it (for logging);
// it never aborts the current pass.
func (s *Sink) Warn(kind Kind, phase string, start, end ast.Location, format string, a ...interface{}) Diagnostic {
	d := Diagnostic{
		Kind:     kind,
		Severity: Warning,
		Phase:    phase,
		Message:  fmt.Sprintf(format, a...),
		Start:    start,
		End:      end,
	}
	s.diags = append(s.diags, d)
	return d
}

// Fatalf records a Fatal-severity diagnostic and returns it as an error; the
// caller is expected to propagate it immediately, aborting the current
// top-level pass (spec.md §7, "Fatal severity immediately aborts the pass").
func (s *Sink) Fatalf(kind Kind, phase string, start, end ast.Location, format string, a ...interface{}) error {
	d := Diagnostic{
		Kind:     kind,
		Severity: Fatal,
		Phase:    phase,
		Message:  fmt.Sprintf(format, a...),
		Start:    start,
		End:      end,
	}
	s.diags = append(s.diags, d)
	return d
}

// NameError is a convenience wrapper for Fatalf(KindName, ...).
func (s *Sink) NameError(phase string, start, end ast.Location, format string, a ...interface{}) error {
	return s.Fatalf(KindName, phase, start, end, format, a...)
}

// TypeError is a convenience wrapper for Fatalf(KindType, ...).
func (s *Sink) TypeError(phase string, start, end ast.Location, format string, a ...interface{}) error {
	return s.Fatalf(KindType, phase, start, end, format, a...)
}

// ArityError is a convenience wrapper for Fatalf(KindArity, ...).
func (s *Sink) ArityError(phase string, start, end ast.Location, format string, a ...interface{}) error {
	return s.Fatalf(KindArity, phase, start, end, format, a...)
}

// ShapeError is a convenience wrapper for Fatalf(KindShape, ...).
func (s *Sink) ShapeError(phase string, start, end ast.Location, format string, a ...interface{}) error {
	return s.Fatalf(KindShape, phase, start, end, format, a...)
}
