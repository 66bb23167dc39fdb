package ast

import "github.com/kolkov/pseudocode/internal/token"

// -----------------------------------------------------------------------------
// Types
// -----------------------------------------------------------------------------

// TypeSpec is a type written in source: a primitive or record type name,
// or ARRAY[l:u, ...] OF Elem.
type TypeSpec struct {
	StartPos token.Position
	Name     string   // type name as written; "ARRAY" for arrays
	Bounds   []*Bound // array dimensions, nil for non-arrays
	Elem     *TypeSpec
}

// Bound is one array dimension l:u.
type Bound struct {
	Lower Expr
	Upper Expr
}

// IsArray returns true if t describes an array type.
func (t *TypeSpec) IsArray() bool {
	return t != nil && t.Elem != nil
}

// -----------------------------------------------------------------------------
// Declarations
// -----------------------------------------------------------------------------

// DeclareStmt declares one or more variables of a type.
// Examples:
//   - DECLARE x : INTEGER
//   - DECLARE a, b : REAL
//   - DECLARE n : INTEGER <- 10
//   - DECLARE scores : ARRAY[1:10] OF INTEGER
type DeclareStmt struct {
	BaseStmt
	Names []*Ident
	Type  *TypeSpec
	Init  Expr // optional, only with a single name
}

// ConstantStmt declares a named constant.
// Example: CONSTANT Pi = 3.14
type ConstantStmt struct {
	BaseStmt
	Name  *Ident
	Value Expr
}

// TypeDecl declares a record type.
//
//	TYPE Student
//	    DECLARE Name : STRING
//	ENDTYPE
type TypeDecl struct {
	BaseStmt
	Name   *Ident
	Fields []*DeclareStmt
}

// Param is one routine parameter.
type Param struct {
	Name  *Ident
	Type  *TypeSpec
	ByRef bool // VAR or BYREF
}

// FuncDecl declares a FUNCTION (Returns != nil) or a PROCEDURE.
type FuncDecl struct {
	BaseStmt
	Name        *Ident
	Params      []*Param
	Returns     *TypeSpec
	Body        []Stmt
	IsProcedure bool
}

// Span returns the source lines covered by the declaration.
func (f *FuncDecl) Span() token.Span {
	return token.Span{FirstLine: f.StartPos.Line, LastLine: f.EndPos.Line}
}

// -----------------------------------------------------------------------------
// Basic statements
// -----------------------------------------------------------------------------

// AssignStmt represents target <- value.
type AssignStmt struct {
	BaseStmt
	Target Expr // *Ident, *IndexExpr or *FieldExpr
	Value  Expr
}

// OutputStmt prints its values concatenated, followed by a newline.
type OutputStmt struct {
	BaseStmt
	Values []Expr
}

// InputStmt reads one value into an lvalue.
type InputStmt struct {
	BaseStmt
	Target Expr
}

// CallStmt represents CALL name(args).
type CallStmt struct {
	BaseStmt
	Call *CallExpr
}

// ReturnStmt represents RETURN [value].
type ReturnStmt struct {
	BaseStmt
	Value Expr
}

// BreakStmt leaves the innermost loop.
type BreakStmt struct {
	BaseStmt
}

// -----------------------------------------------------------------------------
// Conditional statements
// -----------------------------------------------------------------------------

// IfStmt represents IF cond THEN ... [ELSE ...] ENDIF.
type IfStmt struct {
	BaseStmt
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if there is no ELSE
}

// CaseStmt represents CASE OF subject ... ENDCASE.
type CaseStmt struct {
	BaseStmt
	Subject Expr
	Clauses []*CaseClause
}

// CaseClause is one branch of a CASE. Exactly one of these holds:
// Otherwise is set; Value is set and To is nil (single value);
// Value and To are both set (inclusive range).
type CaseClause struct {
	StartPos  token.Position
	Value     Expr
	To        Expr
	Otherwise bool
	Body      []Stmt
}

// -----------------------------------------------------------------------------
// Loop statements
// -----------------------------------------------------------------------------

// WhileStmt represents WHILE cond [DO] ... ENDWHILE.
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body []Stmt
}

// RepeatStmt represents REPEAT ... UNTIL cond.
type RepeatStmt struct {
	BaseStmt
	Body []Stmt
	Cond Expr
}

// ForStmt represents FOR v <- start TO end [STEP s] ... NEXT [v].
type ForStmt struct {
	BaseStmt
	Var   *Ident
	Start Expr
	Limit Expr
	Step  Expr // nil means 1
	Body  []Stmt
}

// -----------------------------------------------------------------------------
// File statements
// -----------------------------------------------------------------------------

// OpenFileStmt represents OPENFILE name FOR mode.
type OpenFileStmt struct {
	BaseStmt
	File Expr
	Mode token.Token // READ, WRITE, APPEND or RANDOM
}

// CloseFileStmt represents CLOSEFILE name.
type CloseFileStmt struct {
	BaseStmt
	File Expr
}

// ReadFileStmt represents READFILE name, target.
type ReadFileStmt struct {
	BaseStmt
	File   Expr
	Target Expr
}

// WriteFileStmt represents WRITEFILE name, value.
type WriteFileStmt struct {
	BaseStmt
	File  Expr
	Value Expr
}

// SeekStmt represents SEEK name, address.
type SeekStmt struct {
	BaseStmt
	File    Expr
	Address Expr
}

// GetRecordStmt represents GETRECORD name, target.
type GetRecordStmt struct {
	BaseStmt
	File   Expr
	Target Expr
}

// PutRecordStmt represents PUTRECORD name, value.
type PutRecordStmt struct {
	BaseStmt
	File  Expr
	Value Expr
}

// Compile-time interface checks.
var (
	_ Stmt = (*DeclareStmt)(nil)
	_ Stmt = (*ConstantStmt)(nil)
	_ Stmt = (*TypeDecl)(nil)
	_ Stmt = (*FuncDecl)(nil)
	_ Stmt = (*AssignStmt)(nil)
	_ Stmt = (*OutputStmt)(nil)
	_ Stmt = (*InputStmt)(nil)
	_ Stmt = (*CallStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)
	_ Stmt = (*BreakStmt)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*CaseStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*RepeatStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*OpenFileStmt)(nil)
	_ Stmt = (*CloseFileStmt)(nil)
	_ Stmt = (*ReadFileStmt)(nil)
	_ Stmt = (*WriteFileStmt)(nil)
	_ Stmt = (*SeekStmt)(nil)
	_ Stmt = (*GetRecordStmt)(nil)
	_ Stmt = (*PutRecordStmt)(nil)
)
