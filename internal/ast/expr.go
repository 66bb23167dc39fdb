package ast

import "github.com/kolkov/pseudocode/internal/token"

// -----------------------------------------------------------------------------
// Literals
// -----------------------------------------------------------------------------

// IntLit represents an integer literal.
type IntLit struct {
	BaseExpr
	Value int64
	Raw   string
}

// RealLit represents a real literal such as 3.14.
type RealLit struct {
	BaseExpr
	Value float64
	Raw   string
}

// StrLit represents a string literal.
type StrLit struct {
	BaseExpr
	Value string // Unescaped string value
}

// CharLit represents a single-character literal such as 'A'.
type CharLit struct {
	BaseExpr
	Value rune
}

// BoolLit represents TRUE or FALSE.
type BoolLit struct {
	BaseExpr
	Value bool
}

// -----------------------------------------------------------------------------
// References
// -----------------------------------------------------------------------------

// Ident represents an identifier. Name keeps the source spelling.
type Ident struct {
	BaseExpr
	Name string
}

// IndexExpr represents an array element reference.
// Examples: scores[i], grid[r, c]
type IndexExpr struct {
	BaseExpr
	Array Expr
	Index []Expr
}

// FieldExpr represents a record field reference.
// Example: student.Name
type FieldExpr struct {
	BaseExpr
	X    Expr
	Name string
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// BinaryExpr represents a binary operation.
// Op is one of ADD, SUB, MUL, QUO, MOD, DIV, CONCAT, the comparison
// operators, AND or OR.
type BinaryExpr struct {
	BaseExpr
	Left  Expr
	Op    token.Token
	Right Expr
}

// UnaryExpr represents NOT x or -x.
type UnaryExpr struct {
	BaseExpr
	Op token.Token
	X  Expr
}

// CallExpr represents a call to a user function, procedure or built-in.
type CallExpr struct {
	BaseExpr
	Name    string
	NamePos token.Position
	Args    []Expr
}

// Compile-time interface checks.
var (
	_ Expr = (*IntLit)(nil)
	_ Expr = (*RealLit)(nil)
	_ Expr = (*StrLit)(nil)
	_ Expr = (*CharLit)(nil)
	_ Expr = (*BoolLit)(nil)
	_ Expr = (*Ident)(nil)
	_ Expr = (*IndexExpr)(nil)
	_ Expr = (*FieldExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*CallExpr)(nil)
)
