package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kolkov/pseudocode/internal/token"
)

// Printer writes nodes back out as canonical pseudocode: upper-case
// keywords, four-space indentation, fully parenthesised nested operators.
// Parsing the output yields an equivalent tree.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes node to the writer.
func (p *Printer) Print(node Node) error {
	switch n := node.(type) {
	case *Program:
		p.printStmts(n.Stmts)
	case Stmt:
		p.printStmt(n)
	case Expr:
		p.printf("%s", ExprString(n))
	default:
		p.printf("<%T>", node)
	}
	return p.err
}

// String returns the canonical text of a program.
func String(prog *Program) string {
	var sb strings.Builder
	_ = NewPrinter(&sb).Print(prog)
	return sb.String()
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	for i := 0; i < p.indent; i++ {
		_, p.err = io.WriteString(p.w, "    ")
	}
	p.printf(format, args...)
	p.printf("\n")
}

func (p *Printer) block(stmts []Stmt) {
	p.indent++
	p.printStmts(stmts)
	p.indent--
}

func (p *Printer) printStmts(stmts []Stmt) {
	for _, s := range stmts {
		p.printStmt(s)
	}
}

func (p *Printer) printStmt(s Stmt) {
	switch n := s.(type) {
	case *DeclareStmt:
		p.line("%s", declString(n))
	case *ConstantStmt:
		p.line("CONSTANT %s = %s", n.Name.Name, ExprString(n.Value))
	case *TypeDecl:
		p.line("TYPE %s", n.Name.Name)
		p.indent++
		for _, f := range n.Fields {
			p.printStmt(f)
		}
		p.indent--
		p.line("ENDTYPE")
	case *FuncDecl:
		p.printFunc(n)
	case *AssignStmt:
		p.line("%s <- %s", ExprString(n.Target), ExprString(n.Value))
	case *OutputStmt:
		p.line("OUTPUT %s", exprList(n.Values))
	case *InputStmt:
		p.line("INPUT %s", ExprString(n.Target))
	case *CallStmt:
		p.line("CALL %s", ExprString(n.Call))
	case *ReturnStmt:
		if n.Value == nil {
			p.line("RETURN")
		} else {
			p.line("RETURN %s", ExprString(n.Value))
		}
	case *BreakStmt:
		p.line("BREAK")
	case *IfStmt:
		p.line("IF %s THEN", ExprString(n.Cond))
		p.block(n.Then)
		if n.Else != nil {
			p.line("ELSE")
			p.block(n.Else)
		}
		p.line("ENDIF")
	case *CaseStmt:
		p.line("CASE OF %s", ExprString(n.Subject))
		p.indent++
		for _, c := range n.Clauses {
			switch {
			case c.Otherwise:
				p.line("OTHERWISE")
			case c.To != nil:
				p.line("%s TO %s :", ExprString(c.Value), ExprString(c.To))
			default:
				p.line("%s :", ExprString(c.Value))
			}
			p.block(c.Body)
		}
		p.indent--
		p.line("ENDCASE")
	case *WhileStmt:
		p.line("WHILE %s DO", ExprString(n.Cond))
		p.block(n.Body)
		p.line("ENDWHILE")
	case *RepeatStmt:
		p.line("REPEAT")
		p.block(n.Body)
		p.line("UNTIL %s", ExprString(n.Cond))
	case *ForStmt:
		if n.Step != nil {
			p.line("FOR %s <- %s TO %s STEP %s", n.Var.Name, ExprString(n.Start), ExprString(n.Limit), ExprString(n.Step))
		} else {
			p.line("FOR %s <- %s TO %s", n.Var.Name, ExprString(n.Start), ExprString(n.Limit))
		}
		p.block(n.Body)
		p.line("NEXT %s", n.Var.Name)
	case *OpenFileStmt:
		p.line("OPENFILE %s FOR %s", ExprString(n.File), n.Mode)
	case *CloseFileStmt:
		p.line("CLOSEFILE %s", ExprString(n.File))
	case *ReadFileStmt:
		p.line("READFILE %s, %s", ExprString(n.File), ExprString(n.Target))
	case *WriteFileStmt:
		p.line("WRITEFILE %s, %s", ExprString(n.File), ExprString(n.Value))
	case *SeekStmt:
		p.line("SEEK %s, %s", ExprString(n.File), ExprString(n.Address))
	case *GetRecordStmt:
		p.line("GETRECORD %s, %s", ExprString(n.File), ExprString(n.Target))
	case *PutRecordStmt:
		p.line("PUTRECORD %s, %s", ExprString(n.File), ExprString(n.Value))
	default:
		p.line("<%T>", s)
	}
}

func (p *Printer) printFunc(fn *FuncDecl) {
	kw, end := "FUNCTION", "ENDFUNCTION"
	if fn.IsProcedure {
		kw, end = "PROCEDURE", "ENDPROCEDURE"
	}
	head := kw + " " + fn.Name.Name + "(" + ParamsString(fn.Params) + ")"
	if fn.Returns != nil {
		head += " RETURNS " + TypeString(fn.Returns)
	}
	p.line("%s", head)
	p.block(fn.Body)
	p.line("%s", end)
}

func declString(d *DeclareStmt) string {
	names := make([]string, len(d.Names))
	for i, id := range d.Names {
		names[i] = id.Name
	}
	s := "DECLARE " + strings.Join(names, ", ") + " : " + TypeString(d.Type)
	if d.Init != nil {
		s += " <- " + ExprString(d.Init)
	}
	return s
}

// ParamsString formats a parameter list without parentheses.
func ParamsString(params []*Param) string {
	parts := make([]string, len(params))
	for i, prm := range params {
		s := prm.Name.Name + " : " + TypeString(prm.Type)
		if prm.ByRef {
			s = "BYREF " + s
		}
		parts[i] = s
	}
	return strings.Join(parts, ", ")
}

// TypeString formats a type specification.
func TypeString(t *TypeSpec) string {
	if t == nil {
		return "?"
	}
	if !t.IsArray() {
		return t.Name
	}
	dims := make([]string, len(t.Bounds))
	for i, b := range t.Bounds {
		dims[i] = ExprString(b.Lower) + ":" + ExprString(b.Upper)
	}
	return "ARRAY[" + strings.Join(dims, ", ") + "] OF " + TypeString(t.Elem)
}

func exprList(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = ExprString(e)
	}
	return strings.Join(parts, ", ")
}

// ExprString formats an expression. Operands that are themselves
// operations are parenthesised.
func ExprString(e Expr) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *IntLit:
		return strconv.FormatInt(n.Value, 10)
	case *RealLit:
		s := strconv.FormatFloat(n.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case *StrLit:
		return quote(n.Value, '"')
	case *CharLit:
		return quote(string(n.Value), '\'')
	case *BoolLit:
		if n.Value {
			return "TRUE"
		}
		return "FALSE"
	case *Ident:
		return n.Name
	case *IndexExpr:
		return ExprString(n.Array) + "[" + exprList(n.Index) + "]"
	case *FieldExpr:
		return ExprString(n.X) + "." + n.Name
	case *CallExpr:
		return n.Name + "(" + exprList(n.Args) + ")"
	case *UnaryExpr:
		if n.Op == token.NOT {
			return "NOT " + operand(n.X)
		}
		return "-" + operand(n.X)
	case *BinaryExpr:
		return operand(n.Left) + " " + n.Op.String() + " " + operand(n.Right)
	}
	return fmt.Sprintf("<%T>", e)
}

func operand(e Expr) string {
	switch e.(type) {
	case *BinaryExpr, *UnaryExpr:
		return "(" + ExprString(e) + ")"
	}
	return ExprString(e)
}

func quote(s string, q rune) string {
	var sb strings.Builder
	sb.WriteRune(q)
	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\', q:
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(q)
	return sb.String()
}
