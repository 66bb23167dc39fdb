package interp

import (
	"errors"
	"fmt"

	"github.com/kolkov/pseudocode/internal/token"
)

// RuntimeError is a failure raised while executing a statement.
type RuntimeError struct {
	Pos     token.Position
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Message)
}

// ErrNoInput is wrapped by the error raised when INPUT finds the input
// queue empty and cannot suspend.
var ErrNoInput = errors.New("no input available")

// errorf builds a RuntimeError at pos.
func errorf(pos token.Position, format string, args ...any) *RuntimeError {
	return &RuntimeError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// wrap turns an error from a lower layer into a RuntimeError at pos,
// keeping an existing RuntimeError as is.
func wrap(pos token.Position, err error) error {
	if err == nil {
		return nil
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return re
	}
	return &RuntimeError{Pos: pos, Message: err.Error()}
}

// Runtime error messages.
const (
	errUndeclared      = "undeclared identifier %q"
	errUnknownRoutine  = "undeclared function or procedure %q"
	errAssignConstant  = "cannot assign to constant %q"
	errNotArray        = "%s is not an array"
	errNotRecord       = "%s is not a record"
	errNoField         = "record type %s has no field %q"
	errIndexType       = "array index must be INTEGER, got %s"
	errCondition       = "%s condition must be BOOLEAN, got %s"
	errForValue        = "FOR %s must be INTEGER, got %s"
	errForStepZero     = "FOR STEP must not be zero"
	errArgCount        = "%s expects %d argument(s), got %d"
	errRefArgument     = "argument %d of %s must be a variable, array element or record field (parameter %s is VAR)"
	errRefType         = "argument %d of %s: cannot pass %s by reference to a %s parameter"
	errNoReturn        = "function %s ended without RETURN"
	errProcValue       = "procedure %s does not return a value"
	errInputTarget     = "cannot %s into %s: only INTEGER, REAL, STRING, CHAR, BOOLEAN and DATE are supported"
	errInputValue      = "invalid input for %s: %v"
	errFileName        = "file name must be a STRING, got %s"
	errReadPastEnd     = "%s %q: end of file reached"
	errSeekAddress     = "SEEK address must be INTEGER, got %s"
	errBadRecord       = "GETRECORD %q: %v"
	errStackOverflow   = "call depth exceeded %d (runaway recursion?)"
	errCaseCompare     = "CASE value %s cannot be compared with %s"
)
