package token

import "fmt"

// Position is a location in source text. Line and Column are 1-based;
// Column counts characters, not bytes.
type Position struct {
	Line   int
	Column int
	Offset int // byte offset from the start of source (0-based)
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before returns true if p is before other in the source.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Span is a range of lines, inclusive on both ends. Routine bodies are
// tracked this way for scope-by-line lookups.
type Span struct {
	FirstLine int
	LastLine  int
}

// ContainsLine returns true if line falls inside the span.
func (s Span) ContainsLine(line int) bool {
	return line >= s.FirstLine && line <= s.LastLine
}

// NoPos is a zero Position used when position is unknown.
var NoPos = Position{}
