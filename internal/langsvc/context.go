// Package langsvc answers editor queries (completion and hover) about
// pseudocode source that may be incomplete or invalid.
//
// Every query re-derives what it needs from the text: the source is parsed
// in tolerant mode, declarations are collected without regard to errors,
// and the line around the cursor is classified with a few fixed patterns.
// Nothing is cached and nothing is shared with a running program.
package langsvc

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kolkov/pseudocode/internal/pattern"
)

// ContextKind says what may be typed at a cursor position.
type ContextKind uint8

const (
	ContextExpression ContextKind = iota // operand of an expression
	ContextStatement                     // start of a statement
	ContextType                          // after a DECLARE or parameter colon, or ARRAY[..] OF
	ContextReturnType                    // after RETURNS
	ContextNone                          // inside a string, character literal or comment
)

var contextNames = [...]string{
	ContextExpression: "expression",
	ContextStatement:  "statement",
	ContextType:       "type",
	ContextReturnType: "return type",
	ContextNone:       "none",
}

func (k ContextKind) String() string {
	return contextNames[k]
}

// Context is the classification of a cursor position.
type Context struct {
	Kind   ContextKind
	Prefix string // identifier characters typed before the cursor
	Line   int    // 1-based line of the cursor, clamped to the source
}

// Line shapes, matched against the text before the cursor with the
// partially typed word removed. Keywords are case-insensitive.
var (
	declColon  = pattern.MustCompile(`(?:^|[^A-Za-z0-9_])DECLARE\s+[A-Za-z_][A-Za-z0-9_]*(?:\s*,\s*[A-Za-z_][A-Za-z0-9_]*)*\s*:\s*$`, true)
	paramColon = pattern.MustCompile(`(?:^|[^A-Za-z0-9_])(?:FUNCTION|PROCEDURE)\s+[A-Za-z_][A-Za-z0-9_]*\s*\([^)]*:\s*$`, true)
	arrayOf    = pattern.MustCompile(`\]\s*OF\s*$`, true)
	returns    = pattern.MustCompile(`(?:^|[^A-Za-z0-9_])RETURNS\s*$`, true)
	blockWord  = pattern.MustCompile(`(?:^|[^A-Za-z0-9_])(?:THEN|ELSE|DO|REPEAT|OTHERWISE)\s*$`, true)
	separator  = pattern.MustCompile(`[;:]\s*$`, false)

	openBracket  = pattern.MustCompile(`\[`, false)
	closeBracket = pattern.MustCompile(`\]`, false)
)

// AnalyzeContext classifies the position before column col (1-based,
// counted in characters) on line line of src. Out-of-range positions are
// clamped.
func AnalyzeContext(src string, line, col int) Context {
	before, line := textBefore(src, line, col)
	ctx := Context{Line: line}
	if inLiteralOrComment(before) {
		ctx.Kind = ContextNone
		return ctx
	}
	ctx.Prefix = trailingWord(before)
	head := before[:len(before)-len(ctx.Prefix)]
	ctx.Kind = classify(head)
	return ctx
}

// classify looks at the line up to the start of the word being typed.
func classify(head string) ContextKind {
	switch {
	case inBrackets(head):
		return ContextExpression
	case declColon.MatchString(head), paramColon.MatchString(head), arrayOf.MatchString(head):
		return ContextType
	case returns.MatchString(head):
		return ContextReturnType
	case strings.TrimSpace(head) == "",
		separator.MatchString(head),
		blockWord.MatchString(head):
		return ContextStatement
	}
	return ContextExpression
}

// inBrackets reports whether head ends inside an unclosed [ ], where a
// colon separates array bounds.
func inBrackets(head string) bool {
	open := openBracket.FindLastIndex(head)
	if open == nil {
		return false
	}
	closed := closeBracket.FindLastIndex(head)
	return closed == nil || closed[0] < open[0]
}

// textBefore returns the text of line line before column col, and the
// line number actually used.
func textBefore(src string, line, col int) (string, int) {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	text := []rune(strings.TrimSuffix(lines[line-1], "\r"))
	n := col - 1
	if n < 0 {
		n = 0
	}
	if n > len(text) {
		n = len(text)
	}
	return string(text[:n]), line
}

// inLiteralOrComment reports whether the end of text lies inside a string
// or character literal or a // comment.
func inLiteralOrComment(text string) bool {
	var quote rune
	escaped := false
	prev := rune(0)
	for _, r := range text {
		switch {
		case quote != 0:
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '/' && prev == '/':
			return true
		}
		prev = r
	}
	return quote != 0
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// trailingWord returns the identifier characters at the end of text.
func trailingWord(text string) string {
	i := len(text)
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if !isWordRune(r) {
			break
		}
		i -= size
	}
	return text[i:]
}

// wordAt returns the identifier that contains or ends at column col
// (1-based) on line line, or "".
func wordAt(src string, line, col int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	text := []rune(strings.TrimSuffix(lines[line-1], "\r"))
	at := col - 1
	if at < 0 || at > len(text) {
		return ""
	}
	start, end := at, at
	for start > 0 && isWordRune(text[start-1]) {
		start--
	}
	for end < len(text) && isWordRune(text[end]) {
		end++
	}
	word := string(text[start:end])
	if word == "" || unicode.IsDigit(text[start]) {
		return ""
	}
	return word
}
