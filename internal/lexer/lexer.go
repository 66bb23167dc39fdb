// Package lexer provides pseudocode source tokenization.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kolkov/pseudocode/internal/token"
)

// Lexer tokenizes pseudocode source.
type Lexer struct {
	src     []byte         // Source code
	ch      rune           // Current character (-1 at EOF)
	offset  int            // Byte offset of the next character
	pos     token.Position // Position of ch
	nextPos token.Position // Position of the next character

	lastLine int // line of the previously returned token
}

const eof = -1

// New creates a new Lexer for the given source code.
func New(src []byte) *Lexer {
	l := &Lexer{
		src:     src,
		nextPos: token.Position{Line: 1, Column: 1},
	}
	l.next()
	return l
}

// NewFromString creates a new Lexer from a string.
func NewFromString(src string) *Lexer {
	return New([]byte(src))
}

// Token represents a scanned token with its position and value.
// For ILLEGAL tokens Value holds the error message.
type Token struct {
	Type      token.Token
	Pos       token.Position
	Value     string
	LineStart bool // first token on its source line
}

// Error is a lexical error.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Tokenize scans all of src. The returned slice always ends with EOF.
// Lexical problems are reported as ILLEGAL tokens and collected into errs;
// scanning continues after each one.
func Tokenize(src string) (toks []Token, errs []*Error) {
	l := NewFromString(src)
	for {
		tok := l.Scan()
		if tok.Type == token.ILLEGAL {
			errs = append(errs, &Error{Pos: tok.Pos, Message: tok.Value})
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, errs
		}
	}
}

// Scan scans and returns the next token.
func (l *Lexer) Scan() Token {
	tok := l.scan()
	tok.LineStart = tok.Pos.Line != l.lastLine
	l.lastLine = tok.Pos.Line
	return tok
}

func (l *Lexer) scan() Token {
	l.skipWhitespaceAndComments()

	pos := l.pos
	if l.ch == eof {
		return Token{Type: token.EOF, Pos: pos}
	}

	switch ch := l.ch; ch {
	case '<':
		l.next()
		switch l.ch {
		case '-':
			l.next()
			return Token{Type: token.ASSIGN, Pos: pos, Value: "<-"}
		case '>':
			l.next()
			return Token{Type: token.NOT_EQUALS, Pos: pos, Value: "<>"}
		case '=':
			l.next()
			return Token{Type: token.LTE, Pos: pos, Value: "<="}
		}
		return Token{Type: token.LESS, Pos: pos, Value: "<"}

	case '>':
		l.next()
		if l.ch == '=' {
			l.next()
			return Token{Type: token.GTE, Pos: pos, Value: ">="}
		}
		return Token{Type: token.GREATER, Pos: pos, Value: ">"}

	case '"':
		return l.scanString(pos)
	case '\'':
		return l.scanChar(pos)

	case '.':
		if isDigit(l.peek()) {
			l.next()
			for isDigit(l.ch) {
				l.next()
			}
			return Token{Type: token.ILLEGAL, Pos: pos, Value: "malformed number: missing digits before decimal point"}
		}
		l.next()
		return Token{Type: token.PERIOD, Pos: pos, Value: "."}

	default:
		if tok, ok := single[ch]; ok {
			l.next()
			return Token{Type: tok, Pos: pos, Value: string(ch)}
		}
		if isDigit(ch) {
			return l.scanNumber(pos)
		}
		if isIdentStart(ch) {
			return l.scanIdent(pos)
		}
		l.next()
		return Token{Type: token.ILLEGAL, Pos: pos, Value: fmt.Sprintf("unexpected character %q", ch)}
	}
}

var single = map[rune]token.Token{
	'+': token.ADD,
	'-': token.SUB,
	'*': token.MUL,
	'/': token.QUO,
	'&': token.CONCAT,
	'=': token.EQUALS,
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	',': token.COMMA,
	':': token.COLON,
	';': token.SEMICOLON,
}

func (l *Lexer) scanString(pos token.Position) Token {
	l.next() // opening quote
	var sb strings.Builder
	for l.ch != '"' {
		if l.ch == eof || l.ch == '\n' {
			return Token{Type: token.ILLEGAL, Pos: pos, Value: "unterminated string literal"}
		}
		sb.WriteRune(l.scanEscape())
	}
	l.next()
	return Token{Type: token.STRING, Pos: pos, Value: sb.String()}
}

func (l *Lexer) scanChar(pos token.Position) Token {
	l.next() // opening quote
	var runes []rune
	for l.ch != '\'' {
		if l.ch == eof || l.ch == '\n' {
			return Token{Type: token.ILLEGAL, Pos: pos, Value: "unterminated char literal"}
		}
		runes = append(runes, l.scanEscape())
	}
	l.next()
	if len(runes) != 1 {
		return Token{Type: token.ILLEGAL, Pos: pos, Value: "char literal must contain exactly one character"}
	}
	return Token{Type: token.CHAR, Pos: pos, Value: string(runes)}
}

// scanEscape consumes one (possibly escaped) character of a quoted literal.
func (l *Lexer) scanEscape() rune {
	ch := l.ch
	l.next()
	if ch != '\\' || l.ch == eof || l.ch == '\n' {
		return ch
	}
	esc := l.ch
	l.next()
	switch esc {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return esc
	}
}

func (l *Lexer) scanNumber(pos token.Position) Token {
	start := pos.Offset
	for isDigit(l.ch) {
		l.next()
	}
	if l.ch != '.' {
		return Token{Type: token.INT, Pos: pos, Value: string(l.src[start:l.pos.Offset])}
	}
	if !isDigit(l.peek()) {
		l.next()
		return Token{Type: token.ILLEGAL, Pos: pos, Value: "malformed number: missing digits after decimal point"}
	}
	l.next()
	for isDigit(l.ch) {
		l.next()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		for l.ch == '.' || isDigit(l.ch) {
			l.next()
		}
		return Token{Type: token.ILLEGAL, Pos: pos, Value: "malformed number: more than one decimal point"}
	}
	return Token{Type: token.REAL, Pos: pos, Value: string(l.src[start:l.pos.Offset])}
}

func (l *Lexer) scanIdent(pos token.Position) Token {
	start := pos.Offset
	for isIdentContinue(l.ch) {
		l.next()
	}
	name := string(l.src[start:l.pos.Offset])
	return Token{Type: token.Lookup(name), Pos: pos, Value: name}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' || l.ch == '\f':
			l.next()
		case l.ch == '/' && l.peek() == '/':
			for l.ch != eof && l.ch != '\n' {
				l.next()
			}
		default:
			return
		}
	}
}

// peek returns the character after the current one without consuming it.
func (l *Lexer) peek() rune {
	if l.offset >= len(l.src) {
		return eof
	}
	r, _ := utf8.DecodeRune(l.src[l.offset:])
	return r
}

func (l *Lexer) next() {
	l.pos = l.nextPos
	if l.offset >= len(l.src) {
		l.ch = eof
		return
	}
	r, size := utf8.DecodeRune(l.src[l.offset:])
	l.ch = r
	l.offset += size
	l.nextPos.Offset = l.offset
	if r == '\n' {
		l.nextPos.Line++
		l.nextPos.Column = 1
	} else {
		l.nextPos.Column++
	}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= utf8.RuneSelf && unicode.IsLetter(ch))
}

func isIdentContinue(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '_'
}
