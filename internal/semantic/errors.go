// Package semantic provides static analysis for pseudocode programs.
//
// The analyzer performs:
//   - Name resolution: binding identifiers to their declarations
//   - Scope analysis: one global scope plus one scope per routine
//   - Type resolution: turning written types into types.Type descriptors,
//     folding constant array bounds
//   - Semantic validation: redeclaration, undeclared names, constant
//     reassignment, declaration-time type mismatch, call arity
//
// Pseudocode semantics the analyzer follows:
//   - Names are case-insensitive; the declared spelling is kept for display
//   - Routines and record types are hoisted, variables are visible from
//     their DECLARE onward
//   - Loop and IF bodies do not open scopes
//   - An undeclared FOR counter is implicitly an INTEGER
package semantic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kolkov/pseudocode/internal/token"
)

// Error represents a semantic analysis error with source location.
type Error struct {
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ErrorList is a collection of semantic errors.
type ErrorList []*Error

// Add appends an error to the list.
func (el *ErrorList) Add(pos token.Position, format string, args ...any) {
	*el = append(*el, &Error{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// Err returns an error if the list is non-empty, nil otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// Sort orders the list by position. Routine bodies are checked after the
// top level, so reports arrive out of source order.
func (el ErrorList) Sort() {
	sort.SliceStable(el, func(i, j int) bool {
		return el[i].Pos.Before(el[j].Pos)
	})
}

// Error implements the error interface for ErrorList.
func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		var sb strings.Builder
		sb.WriteString(el[0].Error())
		for _, e := range el[1:] {
			sb.WriteByte('\n')
			sb.WriteString(e.Error())
		}
		return sb.String()
	}
}

// Common error messages as constants for consistency.
const (
	errAlreadyDeclared    = "%q is already declared (line %d)"
	errUndeclared         = "undeclared identifier %q"
	errUndeclaredRoutine  = "undeclared function or procedure %q"
	errUnknownType        = "unknown type %q"
	errNotArray           = "cannot index %q: it is not an array"
	errIndexCount         = "%q has %d dimension(s) but %d index(es) given"
	errNotRecord          = "cannot access field %q: value is not a record"
	errNoField            = "record type %s has no field %q"
	errAssignConstant     = "cannot assign to constant %q"
	errNotVariable        = "%q is a %s, not a variable"
	errTypeMismatch       = "type mismatch: cannot assign %s to %s"
	errArgCount           = "%s expects %d argument(s), got %d"
	errProcInExpr         = "procedure %q does not return a value; use CALL %s(...)"
	errBoundsNotConstant  = "array bounds must be constant INTEGER expressions"
	errBoundsOrder        = "array lower bound %d is greater than upper bound %d"
	errConstantValue      = "CONSTANT %q must have a constant value"
	errCondition          = "%s condition must be BOOLEAN, got %s"
	errForCounter         = "FOR counter %q must be INTEGER, got %s"
	errForBound           = "FOR %s must be INTEGER, got %s"
	errReturnMissing      = "RETURN in function %q needs a value"
	errReturnInProcedure  = "procedure %q cannot return a value"
	errFileName           = "file name must be a STRING, got %s"
	errIndexType          = "array index must be INTEGER, got %s"
	errInputTarget        = "cannot %s into %s: only INTEGER, REAL, STRING, CHAR, BOOLEAN and DATE are supported"
	errSeekAddress        = "SEEK address must be INTEGER, got %s"
	errDidYouMean         = "%s; did you mean %q?"
	errRecursiveType      = "record type %q cannot contain itself"
	errDuplicateParameter = "duplicate parameter %q in %s"
)
