package parser_test

import (
	"strings"
	"testing"

	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/parser"
	"github.com/kolkov/pseudocode/internal/token"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return prog
}

func parseErrors(t *testing.T, src string) parser.ErrorList {
	t.Helper()
	_, errs := parser.ParseTolerant(src)
	if len(errs) == 0 {
		t.Fatalf("expected errors for:\n%s", src)
	}
	return errs
}

func hasError(errs parser.ErrorList, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// TestParseEmpty tests parsing an empty program.
func TestParseEmpty(t *testing.T) {
	prog := mustParse(t, "")
	if len(prog.Stmts) != 0 {
		t.Errorf("Stmts = %d, want 0", len(prog.Stmts))
	}
	prog = mustParse(t, "// nothing but a comment\n")
	if len(prog.Stmts) != 0 {
		t.Errorf("Stmts = %d, want 0", len(prog.Stmts))
	}
}

func TestParseExprPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "1 + (2 * 3)"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"a OR b AND c", "a OR (b AND c)"},
		{"NOT a = b", "(NOT a) = b"},
		{"x < 5 AND y > 2", "(x < 5) AND (y > 2)"},
		{"-x * 2", "(-x) * 2"},
		{"10 MOD 3 + 1", "(10 MOD 3) + 1"},
		{"7 DIV 2 * 2", "(7 DIV 2) * 2"},
		{"MOD(10, 3)", "MOD(10, 3)"},
		{`"a" & "b" & c`, `("a" & "b") & c`},
		{"a[i, j].Name", "a[i, j].Name"},
		{"LENGTH(s) - 1", "LENGTH(s) - 1"},
		{"1 - -2", "1 - (-2)"},
		{"RANDOM()", "RANDOM()"},
		{"x <> y", "x <> y"},
		{"TRUE", "TRUE"},
		{"'c'", "'c'"},
		{"2.50", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := parser.ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr() error = %v", err)
			}
			if got := ast.ExprString(e); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDeclare(t *testing.T) {
	tests := []struct {
		src      string
		names    int
		typeName string
		hasInit  bool
	}{
		{"DECLARE x : INTEGER", 1, "INTEGER", false},
		{"declare x : integer", 1, "INTEGER", false},
		{"DECLARE a, b : REAL", 2, "REAL", false},
		{"DECLARE n : INTEGER <- 10", 1, "INTEGER", true},
		{"DECLARE n <- 10 : INTEGER", 1, "INTEGER", true},
		{"DECLARE p : Point", 1, "Point", false},
		{"DECLARE m : ARRAY[1:3, 1:4] OF INTEGER", 1, "ARRAY", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			d, ok := prog.Stmts[0].(*ast.DeclareStmt)
			if !ok {
				t.Fatalf("expected *ast.DeclareStmt, got %T", prog.Stmts[0])
			}
			if len(d.Names) != tt.names {
				t.Errorf("names = %d, want %d", len(d.Names), tt.names)
			}
			if d.Type.Name != tt.typeName {
				t.Errorf("type = %s, want %s", d.Type.Name, tt.typeName)
			}
			if (d.Init != nil) != tt.hasInit {
				t.Errorf("init = %v, want %v", d.Init != nil, tt.hasInit)
			}
		})
	}
}

func TestParseArrayType(t *testing.T) {
	prog := mustParse(t, "DECLARE grid : ARRAY[1:3, 0:4] OF CHAR")
	d := prog.Stmts[0].(*ast.DeclareStmt)
	if !d.Type.IsArray() {
		t.Fatal("expected array type")
	}
	if len(d.Type.Bounds) != 2 {
		t.Errorf("dimensions = %d, want 2", len(d.Type.Bounds))
	}
	if d.Type.Elem.Name != "CHAR" {
		t.Errorf("element type = %s, want CHAR", d.Type.Elem.Name)
	}
	if got := ast.TypeString(d.Type); got != "ARRAY[1:3, 0:4] OF CHAR" {
		t.Errorf("TypeString = %q", got)
	}
}

func TestParseControlFlow(t *testing.T) {
	src := `DECLARE x : INTEGER
x <- 0
IF x > 0 THEN
    OUTPUT "positive"
ELSE
    OUTPUT "not positive"
ENDIF
WHILE x < 3
    x <- x + 1
ENDWHILE
WHILE x > 0 DO
    x <- x - 1
ENDWHILE
REPEAT
    x <- x + 2
UNTIL x >= 10
FOR i <- 10 TO 1 STEP -1
    OUTPUT i
NEXT i
FOR j <- 1 TO 2
NEXT
`
	prog := mustParse(t, src)
	kinds := []string{"DECLARE", "ASSIGN", "IF", "WHILE", "WHILE", "REPEAT", "FOR", "FOR"}
	if len(prog.Stmts) != len(kinds) {
		t.Fatalf("got %d statements, want %d", len(prog.Stmts), len(kinds))
	}
	for i, k := range kinds {
		if got := ast.StmtKind(prog.Stmts[i]); got != k {
			t.Errorf("stmt[%d] = %s, want %s", i, got, k)
		}
	}
	ifs := prog.Stmts[2].(*ast.IfStmt)
	if len(ifs.Then) != 1 || len(ifs.Else) != 1 {
		t.Errorf("IF branches = %d/%d, want 1/1", len(ifs.Then), len(ifs.Else))
	}
	loop := prog.Stmts[6].(*ast.ForStmt)
	if loop.Step == nil {
		t.Error("expected STEP expression")
	}
	if prog.Stmts[7].(*ast.ForStmt).Step != nil {
		t.Error("expected default STEP")
	}
}

func TestParseCase(t *testing.T) {
	forms := []string{
		"CASE x OF\n",
		"CASE OF x\n",
	}
	body := `    1 : OUTPUT "one"
    2 TO 5 : OUTPUT "few"
    -1 : OUTPUT "neg"
    OTHERWISE OUTPUT "many"
ENDCASE
`
	for _, head := range forms {
		t.Run(strings.TrimSpace(head), func(t *testing.T) {
			prog := mustParse(t, "DECLARE x : INTEGER\n"+head+body)
			c, ok := prog.Stmts[1].(*ast.CaseStmt)
			if !ok {
				t.Fatalf("expected *ast.CaseStmt, got %T", prog.Stmts[1])
			}
			if len(c.Clauses) != 4 {
				t.Fatalf("clauses = %d, want 4", len(c.Clauses))
			}
			if c.Clauses[1].To == nil {
				t.Error("clause 2 should be a range")
			}
			if _, ok := c.Clauses[2].Value.(*ast.UnaryExpr); !ok {
				t.Errorf("clause 3 value = %T, want *ast.UnaryExpr", c.Clauses[2].Value)
			}
			if !c.Clauses[3].Otherwise {
				t.Error("last clause should be OTHERWISE")
			}
			for i, cl := range c.Clauses {
				if len(cl.Body) != 1 {
					t.Errorf("clause %d body = %d statements, want 1", i, len(cl.Body))
				}
			}
		})
	}
}

func TestParseRoutines(t *testing.T) {
	src := `PROCEDURE Swap(BYREF a : INTEGER, b : INTEGER)
    DECLARE t : INTEGER
    t <- a
    a <- b
    b <- t
ENDPROCEDURE
FUNCTION Add(BYVAL a : INTEGER, b : INTEGER) RETURNS INTEGER
    RETURN a + b
ENDFUNCTION
PROCEDURE Hello
    OUTPUT "hi"
    RETURN
    OUTPUT "unreachable"
ENDPROCEDURE
CALL Swap(x, y)
CALL Hello
`
	prog := mustParse(t, src)
	routines := prog.Routines()
	if len(routines) != 3 {
		t.Fatalf("routines = %d, want 3", len(routines))
	}
	swap := routines[0]
	if !swap.IsProcedure || len(swap.Params) != 2 {
		t.Fatalf("Swap = %+v", swap)
	}
	if !swap.Params[0].ByRef || !swap.Params[1].ByRef {
		t.Error("BYREF should apply to both Swap parameters")
	}
	add := routines[1]
	if add.IsProcedure || add.Returns == nil || add.Returns.Name != "INTEGER" {
		t.Errorf("Add returns = %v", add.Returns)
	}
	if add.Params[0].ByRef || add.Params[1].ByRef {
		t.Error("Add parameters should be by value")
	}
	hello := routines[2]
	if len(hello.Params) != 0 {
		t.Errorf("Hello params = %d", len(hello.Params))
	}
	if len(hello.Body) != 3 {
		t.Fatalf("Hello body = %d statements, want 3", len(hello.Body))
	}
	if ret := hello.Body[1].(*ast.ReturnStmt); ret.Value != nil {
		t.Error("RETURN must not take a value from the next line")
	}
	if span := swap.Span(); span.FirstLine != 1 || span.LastLine != 6 {
		t.Errorf("Swap span = %+v", span)
	}
	call := prog.Stmts[3].(*ast.CallStmt)
	if call.Call.Name != "Swap" || len(call.Call.Args) != 2 {
		t.Errorf("CALL = %+v", call.Call)
	}
}

func TestParseRecordsAndFiles(t *testing.T) {
	src := `TYPE Student
    DECLARE Name : STRING
    DECLARE Marks : ARRAY[1:3] OF INTEGER
ENDTYPE
DECLARE s : Student
s.Name <- "Ann"
s.Marks[2] <- 70
OPENFILE "data.txt" FOR APPEND
WRITEFILE "data.txt", s.Name
CLOSEFILE "data.txt"
OPENFILE "data.txt" FOR READ
READFILE "data.txt", s.Name
CLOSEFILE "data.txt"
OPENFILE "recs.dat" FOR RANDOM
SEEK "recs.dat", 2
PUTRECORD "recs.dat", s
GETRECORD "recs.dat", s
`
	prog := mustParse(t, src)
	td, ok := prog.Stmts[0].(*ast.TypeDecl)
	if !ok || len(td.Fields) != 2 {
		t.Fatalf("TYPE = %#v", prog.Stmts[0])
	}
	assign := prog.Stmts[3].(*ast.AssignStmt)
	if _, ok := assign.Target.(*ast.IndexExpr); !ok {
		t.Errorf("target = %T, want *ast.IndexExpr", assign.Target)
	}
	open := prog.Stmts[4].(*ast.OpenFileStmt)
	if open.Mode != token.APPEND {
		t.Errorf("mode = %v, want APPEND", open.Mode)
	}
	want := []string{"OPENFILE", "WRITEFILE", "CLOSEFILE", "OPENFILE", "READFILE", "CLOSEFILE",
		"OPENFILE", "SEEK", "PUTRECORD", "GETRECORD"}
	for i, k := range want {
		if got := ast.StmtKind(prog.Stmts[4+i]); got != k {
			t.Errorf("stmt[%d] = %s, want %s", 4+i, got, k)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing ENDIF", "IF x THEN\n    OUTPUT 1\n", "expected ENDIF to close IF opened at line 1"},
		{"missing ENDWHILE", "x <- 1\nWHILE x < 2 DO\n    x <- x + 1\n", "expected ENDWHILE to close WHILE opened at line 2"},
		{"wrong terminator", "FOR i <- 1 TO 2\n    OUTPUT i\nENDWHILE\n", "expected NEXT to close FOR opened at line 1"},
		{"NEXT mismatch", "FOR i <- 1 TO 3\nNEXT j\n", "does not match"},
		{"BREAK outside loop", "BREAK\n", "BREAK outside of a loop"},
		{"RETURN outside routine", "RETURN 1\n", "RETURN outside"},
		{"OTHERWISE not last", "CASE OF x\n    OTHERWISE : OUTPUT 0\n    1 : OUTPUT 1\nENDCASE\n", "OTHERWISE must be the last"},
		{"initializer with list", "DECLARE a, b : INTEGER <- 1\n", "single variable"},
		{"nested routine", "IF TRUE THEN\nFUNCTION f RETURNS INTEGER\nENDFUNCTION\nENDIF\n", "only allowed at the top level"},
		{"function without RETURNS", "FUNCTION f(a : INTEGER)\nENDFUNCTION\n", "expected RETURNS"},
		{"equals for assignment", "x = 5\n", "use <- for assignment"},
		{"procedure call without CALL", "Show(1)\n", "use CALL Show"},
		{"stray terminator", "ENDIF\n", "unexpected ENDIF"},
		{"reserved word as name", "DECLARE OUTPUT : INTEGER\n", "reserved word"},
		{"bad file mode", "OPENFILE \"f\" FOR UPDATE\n", "READ, WRITE, APPEND or RANDOM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseErrors(t, tt.src)
			if !hasError(errs, tt.want) {
				t.Errorf("no error containing %q in %v", tt.want, errs)
			}
		})
	}
}

func TestParseCollectsMultipleErrors(t *testing.T) {
	src := `DECLARE x INTEGER
DECLARE y : INTEGER
y <-
OUTPUT y
`
	prog, errs := parser.ParseTolerant(src)
	if len(errs) != 2 {
		t.Fatalf("errors = %d, want 2: %v", len(errs), errs)
	}
	if errs[0].Pos.Line != 1 {
		t.Errorf("first error on line %d, want 1", errs[0].Pos.Line)
	}
	if len(prog.Stmts) != 3 {
		t.Errorf("recovered statements = %d, want 3", len(prog.Stmts))
	}
	if _, ok := prog.Stmts[2].(*ast.OutputStmt); !ok {
		t.Errorf("last statement = %T, want *ast.OutputStmt", prog.Stmts[2])
	}
}

func TestParseStrictRejects(t *testing.T) {
	prog, err := parser.Parse("IF x THEN\n")
	if err == nil || prog != nil {
		t.Fatal("strict parse must reject incomplete programs")
	}
	if _, ok := err.(parser.ErrorList); !ok {
		t.Errorf("error type = %T, want parser.ErrorList", err)
	}
}

func TestParseTolerantKeepsDeclarations(t *testing.T) {
	prog, errs := parser.ParseTolerant("DECLARE total : INTEGER\nFUNCTION f(n : INTEGER) RETURNS INTEGER\n    DECLARE acc : REAL\n    RETURN n +\n")
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("statements = %d, want 2", len(prog.Stmts))
	}
	fn, ok := prog.Stmts[1].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("stmt[1] = %T", prog.Stmts[1])
	}
	if len(fn.Body) == 0 {
		t.Error("function body lost")
	}
}

func TestLexicalErrorsReported(t *testing.T) {
	_, errs := parser.ParseTolerant("x <- 5.\nOUTPUT \"open\n")
	lexical := 0
	for _, e := range errs {
		if e.Lexical {
			lexical++
		}
	}
	if lexical != 2 {
		t.Errorf("lexical errors = %d, want 2: %v", lexical, errs)
	}
}

func TestErrorList(t *testing.T) {
	var empty parser.ErrorList
	if empty.Err() != nil {
		t.Error("Err() of an empty list is not nil")
	}

	el := parser.ErrorList{
		{Pos: token.Position{Line: 3, Column: 1}, Message: "second"},
		{Pos: token.Position{Line: 1, Column: 4}, Message: "first", Lexical: true},
		{Pos: token.Position{Line: 3, Column: 1}, Message: "third"},
	}
	el.Sort()
	var got []string
	for _, e := range el {
		got = append(got, e.Message)
	}
	if strings.Join(got, " ") != "first second third" {
		t.Errorf("sorted = %v, want [first second third]", got)
	}
	if want := el[0].Error() + " (and 2 more errors)"; el.Error() != want {
		t.Errorf("Error() = %q, want %q", el.Error(), want)
	}
	if !strings.HasSuffix(el[0].Error(), ": first") {
		t.Errorf("ParseError.Error() = %q", el[0].Error())
	}
}

func TestPrintRoundTrip(t *testing.T) {
	src := `CONSTANT Max = 10
TYPE Point
    DECLARE X : INTEGER
    DECLARE Y : INTEGER
ENDTYPE
DECLARE p : Point
DECLARE nums : ARRAY[1:Max] OF INTEGER
FUNCTION Square(n : INTEGER) RETURNS INTEGER
    RETURN n * n
ENDFUNCTION
PROCEDURE Show(BYREF v : INTEGER)
    OUTPUT "v=", v
ENDPROCEDURE
FOR i <- 1 TO Max STEP 2
    nums[i] <- Square(i) MOD 7
NEXT i
p.X <- -3
WHILE p.X < 0 DO
    p.X <- p.X + 1
ENDWHILE
REPEAT
    p.Y <- p.Y + 1
UNTIL p.Y >= 3 OR NOT TRUE
CASE OF p.Y
    1 : OUTPUT 'a'
    2 TO 4 : OUTPUT "b\n"
    OTHERWISE : OUTPUT 1.5
ENDCASE
IF p.Y = 3 THEN
    CALL Show(p.Y)
ELSE
    OUTPUT "no" & "pe"
ENDIF
OPENFILE "out.txt" FOR WRITE
WRITEFILE "out.txt", "line"
CLOSEFILE "out.txt"
`
	first := ast.String(mustParse(t, src))
	second := ast.String(mustParse(t, first))
	if first != second {
		t.Errorf("printing is not stable:\n--- first\n%s\n--- second\n%s", first, second)
	}
	if !strings.Contains(first, "CASE OF p.Y") {
		t.Errorf("unexpected output:\n%s", first)
	}
}
