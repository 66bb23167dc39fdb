package pseudocode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kolkov/pseudocode/internal/interp"
	"github.com/kolkov/pseudocode/internal/parser"
	"github.com/kolkov/pseudocode/internal/semantic"
)

// DiagnosticKind classifies a Diagnostic by the stage that found it.
type DiagnosticKind uint8

const (
	KindLexical  DiagnosticKind = iota // malformed literal, stray character
	KindSyntax                         // grammar error
	KindSemantic                       // undeclared name, type mismatch found before running
	KindRuntime                        // failure while running
)

var diagnosticKindNames = [...]string{
	KindLexical:  "lexical",
	KindSyntax:   "syntax",
	KindSemantic: "semantic",
	KindRuntime:  "runtime",
}

func (k DiagnosticKind) String() string {
	return diagnosticKindNames[k]
}

// MarshalText encodes the kind by name.
func (k DiagnosticKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is one problem found in a program, positioned by 1-based line
// and column. Column is zero when only the line is known.
type Diagnostic struct {
	Line    int            `json:"line"`
	Column  int            `json:"column"`
	Message string         `json:"message"`
	Kind    DiagnosticKind `json:"kind"`
}

func (d Diagnostic) String() string {
	if d.Column > 0 {
		return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
	}
	return fmt.Sprintf("%d: %s", d.Line, d.Message)
}

// SyntaxError is returned when a program is rejected before it runs. It
// holds every lexical, syntax or semantic diagnostic found.
type SyntaxError struct {
	Diagnostics []Diagnostic
}

func (e *SyntaxError) Error() string {
	switch len(e.Diagnostics) {
	case 0:
		return "syntax error"
	case 1:
		return fmt.Sprintf("%s error at %s", e.Diagnostics[0].Kind, e.Diagnostics[0])
	default:
		return fmt.Sprintf("%s error at %s (and %d more errors)",
			e.Diagnostics[0].Kind, e.Diagnostics[0], len(e.Diagnostics)-1)
	}
}

// RuntimeError represents a failure during execution. Execution stops at
// the first one.
type RuntimeError struct {
	Line    int    // line of the failing statement
	Message string // error description
	Err     error  // underlying cause, e.g. context.Canceled
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at line %d: %s", e.Line, e.Message)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Diagnostic returns the error as a runtime Diagnostic.
func (e *RuntimeError) Diagnostic() Diagnostic {
	return Diagnostic{Line: e.Line, Message: e.Message, Kind: KindRuntime}
}

// syntaxDiagnostics converts parser errors.
func syntaxDiagnostics(errs parser.ErrorList) []Diagnostic {
	diags := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		kind := KindSyntax
		if e.Lexical {
			kind = KindLexical
		}
		diags = append(diags, Diagnostic{Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Message, Kind: kind})
	}
	return diags
}

// semanticDiagnostics converts the error returned by semantic.Check.
func semanticDiagnostics(err error) []Diagnostic {
	var el semantic.ErrorList
	if !errors.As(err, &el) {
		return []Diagnostic{{Message: err.Error(), Kind: KindSemantic}}
	}
	diags := make([]Diagnostic, 0, len(el))
	for _, e := range el {
		diags = append(diags, Diagnostic{Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Message, Kind: KindSemantic})
	}
	return diags
}

// runtimeError converts an error that stopped m. line is used when the
// error carries no position of its own.
func runtimeError(err error, line int) *RuntimeError {
	var re *interp.RuntimeError
	if errors.As(err, &re) {
		return &RuntimeError{Line: re.Pos.Line, Message: re.Message}
	}
	msg := err.Error()
	if isCancel(err) {
		msg = "execution stopped: " + msg
	}
	return &RuntimeError{Line: line, Message: msg, Err: err}
}

// internalError reports a recovered panic as a runtime failure.
func internalError(r any, line int) *RuntimeError {
	msg := fmt.Sprint(r)
	if err, ok := r.(error); ok {
		msg = err.Error()
	}
	return &RuntimeError{Line: line, Message: "internal error: " + strings.TrimSpace(msg)}
}
