// Package ast defines the abstract syntax tree for pseudocode programs.
//
// Node hierarchy:
//
//	Node (interface)
//	├── Expr (interface) - expressions that produce values
//	│   ├── IntLit, RealLit, StrLit, CharLit, BoolLit - literals
//	│   ├── Ident, IndexExpr, FieldExpr - references
//	│   ├── BinaryExpr, UnaryExpr - operations
//	│   └── CallExpr - function calls
//	├── Stmt (interface) - statements that perform actions
//	│   ├── DeclareStmt, ConstantStmt, TypeDecl, FuncDecl - declarations
//	│   ├── AssignStmt, InputStmt, OutputStmt, CallStmt - basic
//	│   ├── IfStmt, CaseStmt - conditionals
//	│   ├── WhileStmt, RepeatStmt, ForStmt, BreakStmt - loops
//	│   ├── ReturnStmt - routine exit
//	│   └── OpenFileStmt ... PutRecordStmt - file handling
//	└── Program - top-level statement list
package ast

import "github.com/kolkov/pseudocode/internal/token"

// Node is the interface implemented by all AST nodes.
type Node interface {
	// Pos returns the position of the first character belonging to this node.
	Pos() token.Position

	// End returns the position of the last token belonging to this node.
	End() token.Position
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// BaseExpr provides common fields for all expression nodes.
type BaseExpr struct {
	StartPos token.Position
	EndPos   token.Position
}

func (b *BaseExpr) Pos() token.Position { return b.StartPos }
func (b *BaseExpr) End() token.Position { return b.EndPos }
func (b *BaseExpr) exprNode()           {}

// BaseStmt provides common fields for all statement nodes.
type BaseStmt struct {
	StartPos token.Position
	EndPos   token.Position
}

func (b *BaseStmt) Pos() token.Position { return b.StartPos }
func (b *BaseStmt) End() token.Position { return b.EndPos }
func (b *BaseStmt) stmtNode()           {}

// IsLValue returns true if the expression denotes a storage location:
// a variable, an array element or a record field.
func IsLValue(e Expr) bool {
	switch e := e.(type) {
	case *Ident:
		return true
	case *IndexExpr:
		return IsLValue(e.Array)
	case *FieldExpr:
		return IsLValue(e.X)
	default:
		return false
	}
}

// RootIdent returns the variable at the base of an lvalue chain such as
// a[i].Name, or nil.
func RootIdent(e Expr) *Ident {
	for {
		switch x := e.(type) {
		case *Ident:
			return x
		case *IndexExpr:
			e = x.Array
		case *FieldExpr:
			e = x.X
		default:
			return nil
		}
	}
}

// MakeBaseExpr creates a BaseExpr with the given positions.
func MakeBaseExpr(start, end token.Position) BaseExpr {
	return BaseExpr{StartPos: start, EndPos: end}
}

// MakeBaseStmt creates a BaseStmt with the given positions.
func MakeBaseStmt(start, end token.Position) BaseStmt {
	return BaseStmt{StartPos: start, EndPos: end}
}
