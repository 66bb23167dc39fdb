// Package parser builds the syntax tree of a pseudocode program. It keeps
// going after an error so one pass reports everything it can.
package parser

import (
	"fmt"
	"sort"

	"github.com/kolkov/pseudocode/internal/token"
)

// ParseError is one diagnostic from parsing. Lexical is set when the
// scanner rejected the text (an unterminated string, a stray character)
// rather than the grammar.
type ParseError struct {
	Pos     token.Position
	Message string
	Lexical bool
}

func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// ErrorList collects the diagnostics of one parse, in source order once
// sorted.
type ErrorList []*ParseError

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
	}
}

// Err returns el as an error, or nil when it is empty.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// Sort orders the list by position. Diagnostics at the same position keep
// the order they were reported in.
func (el ErrorList) Sort() {
	sort.SliceStable(el, func(i, j int) bool {
		return el[i].Pos.Before(el[j].Pos)
	})
}

func errorf(pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// expectedError reports a token that does not fit: "expected X, got Y".
func expectedError(pos token.Position, want, got string) *ParseError {
	return errorf(pos, "expected %s, got %s", want, got)
}
