// Package token defines lexical tokens for CAIE pseudocode.
package token

import (
	"fmt"
	"sort"
	"strings"
)

// Token represents a lexical token type.
type Token uint8

const (
	// Special tokens
	ILLEGAL Token = iota // <illegal>
	EOF                  // EOF

	// Literals
	literalStart
	IDENT  // identifier
	INT    // integer literal
	REAL   // real literal
	STRING // string literal
	CHAR   // char literal
	literalEnd

	// Operators and delimiters
	operatorStart
	ASSIGN     // <-
	ADD        // +
	SUB        // -
	MUL        // *
	QUO        // /
	CONCAT     // &
	EQUALS     // =
	NOT_EQUALS // <>
	LESS       // <
	LTE        // <=
	GREATER    // >
	GTE        // >=

	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	PERIOD    // .
	operatorEnd

	// Keywords
	keywordStart
	DECLARE     // DECLARE
	CONSTANT    // CONSTANT
	ARRAY       // ARRAY
	OF          // OF
	TYPE        // TYPE
	ENDTYPE     // ENDTYPE
	IF          // IF
	THEN        // THEN
	ELSE        // ELSE
	ENDIF       // ENDIF
	CASE        // CASE
	OTHERWISE   // OTHERWISE
	ENDCASE     // ENDCASE
	FOR         // FOR
	TO          // TO
	STEP        // STEP
	NEXT        // NEXT
	WHILE       // WHILE
	DO          // DO
	ENDWHILE    // ENDWHILE
	REPEAT      // REPEAT
	UNTIL       // UNTIL
	BREAK       // BREAK
	PROCEDURE   // PROCEDURE
	ENDPROC     // ENDPROCEDURE
	FUNCTION    // FUNCTION
	ENDFUNCTION // ENDFUNCTION
	RETURNS     // RETURNS
	RETURN      // RETURN
	CALL        // CALL
	BYREF       // BYREF
	BYVAL       // BYVAL
	VAR         // VAR
	INPUT       // INPUT
	OUTPUT      // OUTPUT
	OPENFILE    // OPENFILE
	CLOSEFILE   // CLOSEFILE
	READFILE    // READFILE
	WRITEFILE   // WRITEFILE
	SEEK        // SEEK
	GETRECORD   // GETRECORD
	PUTRECORD   // PUTRECORD
	READ        // READ
	WRITE       // WRITE
	APPEND      // APPEND
	RANDOM      // RANDOM
	AND         // AND
	OR          // OR
	NOT         // NOT
	MOD         // MOD
	DIV         // DIV
	TRUE        // TRUE
	FALSE       // FALSE
	keywordEnd

	// Built-in type names
	typeStart
	INTEGER_T // INTEGER
	REAL_T    // REAL
	STRING_T  // STRING
	CHAR_T    // CHAR
	BOOLEAN_T // BOOLEAN
	DATE_T    // DATE
	typeEnd
)

var names = map[Token]string{
	ILLEGAL: "illegal",
	EOF:     "end of file",
	IDENT:   "identifier",
	INT:     "integer",
	REAL:    "real",
	STRING:  "string",
	CHAR:    "char",

	ASSIGN:     "<-",
	ADD:        "+",
	SUB:        "-",
	MUL:        "*",
	QUO:        "/",
	CONCAT:     "&",
	EQUALS:     "=",
	NOT_EQUALS: "<>",
	LESS:       "<",
	LTE:        "<=",
	GREATER:    ">",
	GTE:        ">=",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
	COMMA:      ",",
	COLON:      ":",
	SEMICOLON:  ";",
	PERIOD:     ".",
}

// IsLiteral returns true if the token is an identifier or literal.
func (t Token) IsLiteral() bool {
	return t > literalStart && t < literalEnd
}

// IsOperator returns true if the token is an operator or delimiter.
func (t Token) IsOperator() bool {
	return t > operatorStart && t < operatorEnd
}

// IsKeyword returns true if the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// IsType returns true if the token names a primitive type.
func (t Token) IsType() bool {
	return t > typeStart && t < typeEnd
}

// String returns the source spelling of the token, or a descriptive name
// for literal classes.
func (t Token) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	if s, ok := spelling[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", t)
}

// keywords maps upper-cased reserved words to their token types.
var keywords = map[string]Token{
	"DECLARE":      DECLARE,
	"CONSTANT":     CONSTANT,
	"ARRAY":        ARRAY,
	"OF":           OF,
	"TYPE":         TYPE,
	"ENDTYPE":      ENDTYPE,
	"IF":           IF,
	"THEN":         THEN,
	"ELSE":         ELSE,
	"ENDIF":        ENDIF,
	"CASE":         CASE,
	"OTHERWISE":    OTHERWISE,
	"ENDCASE":      ENDCASE,
	"FOR":          FOR,
	"TO":           TO,
	"STEP":         STEP,
	"NEXT":         NEXT,
	"WHILE":        WHILE,
	"DO":           DO,
	"ENDWHILE":     ENDWHILE,
	"REPEAT":       REPEAT,
	"UNTIL":        UNTIL,
	"BREAK":        BREAK,
	"PROCEDURE":    PROCEDURE,
	"ENDPROCEDURE": ENDPROC,
	"FUNCTION":     FUNCTION,
	"ENDFUNCTION":  ENDFUNCTION,
	"RETURNS":      RETURNS,
	"RETURN":       RETURN,
	"CALL":         CALL,
	"BYREF":        BYREF,
	"BYVAL":        BYVAL,
	"VAR":          VAR,
	"INPUT":        INPUT,
	"OUTPUT":       OUTPUT,
	"OPENFILE":     OPENFILE,
	"CLOSEFILE":    CLOSEFILE,
	"READFILE":     READFILE,
	"WRITEFILE":    WRITEFILE,
	"SEEK":         SEEK,
	"GETRECORD":    GETRECORD,
	"PUTRECORD":    PUTRECORD,
	"READ":         READ,
	"WRITE":        WRITE,
	"APPEND":       APPEND,
	"RANDOM":       RANDOM,
	"AND":          AND,
	"OR":           OR,
	"NOT":          NOT,
	"MOD":          MOD,
	"DIV":          DIV,
	"TRUE":         TRUE,
	"FALSE":        FALSE,

	"INTEGER": INTEGER_T,
	"REAL":    REAL_T,
	"STRING":  STRING_T,
	"CHAR":    CHAR_T,
	"BOOLEAN": BOOLEAN_T,
	"DATE":    DATE_T,
}

var spelling = func() map[Token]string {
	m := make(map[Token]string, len(keywords))
	for s, t := range keywords {
		m[t] = s
	}
	return m
}()

// Lookup returns the token type for an identifier spelling.
// Matching is case-insensitive; anything else is IDENT.
func Lookup(ident string) Token {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENT
}

// IsReserved reports whether ident is a keyword or type name in any case.
func IsReserved(ident string) bool {
	return Lookup(ident) != IDENT
}

// Keywords returns all reserved words (keywords and type names) in sorted order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for s := range keywords {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// StartsStatement returns true if the token can only begin a statement.
// The parser uses it to resynchronise after an error.
func (t Token) StartsStatement() bool {
	switch t {
	case DECLARE, CONSTANT, TYPE, IF, CASE, FOR, WHILE, REPEAT, BREAK,
		PROCEDURE, FUNCTION, RETURN, CALL, INPUT, OUTPUT,
		OPENFILE, CLOSEFILE, READFILE, WRITEFILE, SEEK, GETRECORD, PUTRECORD:
		return true
	}
	return false
}

// IsBlockEnd returns true if the token terminates or splits a block.
func (t Token) IsBlockEnd() bool {
	switch t {
	case EOF, ELSE, ENDIF, OTHERWISE, ENDCASE, NEXT, ENDWHILE, UNTIL,
		ENDPROC, ENDFUNCTION, ENDTYPE:
		return true
	}
	return false
}
