package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/touist-lang/touist/internal/ast"
)

func Test_Diagnostic_Error_noLocation(t *testing.T) {
	d := Diagnostic{Kind: KindName, Severity: Fatal, Message: "undefined variable $x"}
	assert.Equal(t, "NameError: undefined variable $x", d.Error())
}

func Test_Diagnostic_Error_withLocation(t *testing.T) {
	d := Diagnostic{
		Kind:     KindType,
		Severity: Fatal,
		Message:  "expected proposition, got int",
		Start:    ast.Location{File: "a.touist", Line: 3, Col: 5},
		End:      ast.Location{File: "a.touist", Line: 3, Col: 9},
	}
	assert.Equal(t, "a.touist:3:5-9: error: expected proposition, got int", d.Error())
}

func Test_Sink_Warn_doesNotSetHasFatal(t *testing.T) {
	var s Sink
	s.Warn(KindArity, "bigand", ast.Location{}, ast.Location{}, "generator produced no terms")
	assert.False(t, s.HasFatal())
	assert.Len(t, s.Diagnostics(), 1)
	assert.Equal(t, Warning, s.Diagnostics()[0].Severity)
}

func Test_Sink_Fatalf_setsHasFatalAndReturnsError(t *testing.T) {
	var s Sink
	err := s.NameError("eval", ast.Location{}, ast.Location{}, "undefined variable $%s", "x")
	assert.Error(t, err)
	assert.True(t, s.HasFatal())
	assert.Equal(t, "NameError: undefined variable $x", err.Error())
}

func Test_Diagnostic_FullMessage_rendersCaret(t *testing.T) {
	d := Diagnostic{
		Kind:       KindType,
		Severity:   Fatal,
		Message:    "expected proposition",
		Start:      ast.Location{File: "a.touist", Line: 1, Col: 3},
		SourceLine: "a and 4",
	}
	msg := d.FullMessage()
	assert.Contains(t, msg, "a and 4")
	assert.Contains(t, msg, "  ^")
	assert.Contains(t, msg, "a.touist:1:3")
}
