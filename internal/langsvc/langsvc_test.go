package langsvc

import (
	"sort"
	"strings"
	"testing"
)

const program = `CONSTANT Max = 10
DECLARE Count : INTEGER
TYPE Point
  DECLARE X : INTEGER
  DECLARE Y : INTEGER
ENDTYPE
FUNCTION Square(N : INTEGER) RETURNS INTEGER
  DECLARE Tmp : INTEGER
  Tmp <- N * N
  RETURN Tmp
ENDFUNCTION
PROCEDURE Show(BYREF P : Point)
  OUTPUT P.X
ENDPROCEDURE
`

// completeAtEnd completes with the cursor after the last character of src.
func completeAtEnd(t *testing.T, src string) []CompletionItem {
	t.Helper()
	line, col := endOf(src)
	return Completions(src, line, col)
}

func endOf(src string) (line, col int) {
	lines := strings.Split(src, "\n")
	last := lines[len(lines)-1]
	return len(lines), len([]rune(last)) + 1
}

func labels(items []CompletionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func find(items []CompletionItem, label string) (CompletionItem, bool) {
	for _, it := range items {
		if it.Label == label {
			return it, true
		}
	}
	return CompletionItem{}, false
}

func TestAnalyzeContext(t *testing.T) {
	tests := []struct {
		line   string
		kind   ContextKind
		prefix string
	}{
		{"", ContextStatement, ""},
		{"    OUT", ContextStatement, "OUT"},
		{"DECLARE x : ", ContextType, ""},
		{"DECLARE x : INT", ContextType, "INT"},
		{"declare a, b :", ContextType, ""},
		{"  DECLARE Total:Re", ContextType, "Re"},
		{"FUNCTION F(a : ", ContextType, ""},
		{"PROCEDURE P(BYREF a : INTEGER, b : St", ContextType, "St"},
		{"DECLARE A : ARRAY[1:3] OF ", ContextType, ""},
		{"DECLARE A : ARRAY[1:", ContextExpression, ""},
		{"DECLARE A : ARRAY[1:Si", ContextExpression, "Si"},
		{"PROCEDURE P(A : ARRAY[0:", ContextExpression, ""},
		{"A[I] <- B[", ContextExpression, ""},
		{"FUNCTION F(a : INTEGER) RETURNS ", ContextReturnType, ""},
		{"FUNCTION F() RETURNS BOO", ContextReturnType, "BOO"},
		{"IF x > 1 THEN ", ContextStatement, ""},
		{"ELSE OU", ContextStatement, "OU"},
		{"WHILE x < 3 DO ", ContextStatement, ""},
		{"  1 : ", ContextStatement, ""},
		{"  OTHERWISE ", ContextStatement, ""},
		{"x <- ", ContextExpression, ""},
		{"x <- Cou", ContextExpression, "Cou"},
		{"OUTPUT LENGTH(s) + ", ContextExpression, ""},
		{"CALL Sh", ContextExpression, "Sh"},
		{"IF Done", ContextExpression, "Done"},
		{`OUTPUT "abc`, ContextNone, ""},
		{`OUTPUT 'a`, ContextNone, ""},
		{"x <- 1 // com", ContextNone, ""},
		{`OUTPUT "a\"b" + Na`, ContextExpression, "Na"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ctx := AnalyzeContext(tt.line, 1, len([]rune(tt.line))+1)
			if ctx.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", ctx.Kind, tt.kind)
			}
			if ctx.Prefix != tt.prefix {
				t.Errorf("prefix = %q, want %q", ctx.Prefix, tt.prefix)
			}
		})
	}
}

func TestAnalyzeContextClamps(t *testing.T) {
	src := "DECLARE x : INTEGER\nx <- 1"
	tests := []struct {
		line, col int
		wantLine  int
		wantKind  ContextKind
	}{
		{0, 0, 1, ContextStatement},
		{-3, 5, 1, ContextStatement},
		{99, 99, 2, ContextExpression},
		{2, 1000, 2, ContextExpression},
		{1, 13, 1, ContextType},
	}
	for _, tt := range tests {
		ctx := AnalyzeContext(src, tt.line, tt.col)
		if ctx.Line != tt.wantLine || ctx.Kind != tt.wantKind {
			t.Errorf("AnalyzeContext(%d, %d) = line %d %s, want line %d %s",
				tt.line, tt.col, ctx.Line, ctx.Kind, tt.wantLine, tt.wantKind)
		}
	}
}

func TestExpressionCompletions(t *testing.T) {
	items := completeAtEnd(t, program+"Count <- ")
	for _, want := range []string{"Count", "Max", "Square", "Show", "LENGTH", "SUBSTRING", "AND", "NOT", "TRUE"} {
		if _, ok := find(items, want); !ok {
			t.Errorf("missing %s in %v", want, labels(items))
		}
	}
	for _, unwanted := range []string{"Tmp", "N", "P", "DECLARE", "INTEGER", "Point"} {
		if _, ok := find(items, unwanted); ok {
			t.Errorf("unexpected %s in %v", unwanted, labels(items))
		}
	}
	if !sort.SliceIsSorted(items, func(i, j int) bool { return items[i].Label < items[j].Label }) {
		t.Errorf("items not sorted: %v", labels(items))
	}

	count, _ := find(items, "Count")
	if count.Kind != KindVariable || count.Detail != "Variable: INTEGER" || count.InsertText != "Count" {
		t.Errorf("Count item = %+v", count)
	}
	maxItem, _ := find(items, "Max")
	if maxItem.Kind != KindConstant || maxItem.Documentation != "Max = 10" {
		t.Errorf("Max item = %+v", maxItem)
	}
	length, _ := find(items, "LENGTH")
	if length.Kind != KindFunction || length.InsertText != "LENGTH(" || length.Detail != "Built-in Function" {
		t.Errorf("LENGTH item = %+v", length)
	}
	square, _ := find(items, "Square")
	if square.InsertText != "Square(" || square.Documentation != "Square(N: INTEGER) RETURNS INTEGER" {
		t.Errorf("Square item = %+v", square)
	}
}

func TestCompletionsInsideRoutine(t *testing.T) {
	// Line 9 is "  Tmp <- N * N"; complete after the arrow.
	items := Completions(program, 9, 10)
	for _, want := range []string{"Tmp", "N", "Count", "Max"} {
		if _, ok := find(items, want); !ok {
			t.Errorf("missing %s in %v", want, labels(items))
		}
	}
	if _, ok := find(items, "P"); ok {
		t.Errorf("parameter of another routine offered: %v", labels(items))
	}
	n, _ := find(items, "N")
	if n.Detail != "Parameter: INTEGER" {
		t.Errorf("N item = %+v", n)
	}
}

func TestPrefixFilter(t *testing.T) {
	items := completeAtEnd(t, program+"x <- sq")
	if got := labels(items); len(got) != 1 || got[0] != "Square" {
		t.Errorf("labels = %v, want [Square]", got)
	}

	items = completeAtEnd(t, program+"x <- le")
	if got := strings.Join(labels(items), " "); got != "LEFT LENGTH" {
		t.Errorf("labels = %v, want [LEFT LENGTH]", got)
	}
}

func TestStatementCompletions(t *testing.T) {
	items := completeAtEnd(t, program+"  ")
	for _, want := range []string{"DECLARE", "OUTPUT", "FOR", "ENDWHILE", "Square", "Show"} {
		if _, ok := find(items, want); !ok {
			t.Errorf("missing %s in %v", want, labels(items))
		}
	}
	for _, unwanted := range []string{"Count", "LENGTH", "AND"} {
		if _, ok := find(items, unwanted); ok {
			t.Errorf("unexpected %s at statement start", unwanted)
		}
	}
	show, _ := find(items, "Show")
	if show.InsertText != "CALL Show(" || show.Detail != "Procedure" {
		t.Errorf("Show item = %+v", show)
	}

	items = completeAtEnd(t, program+"CA")
	caseItem, ok := find(items, "CASE")
	if !ok || caseItem.InsertText != "CASE OF " {
		t.Errorf("CASE item = %+v, %v", caseItem, ok)
	}
	if _, ok := find(items, "CALL"); !ok {
		t.Errorf("missing CALL in %v", labels(items))
	}
}

func TestArrayBoundCompletions(t *testing.T) {
	items := completeAtEnd(t, program+"DECLARE A : ARRAY[1:")
	if _, ok := find(items, "Max"); !ok {
		t.Errorf("missing Max in %v", labels(items))
	}
	for _, unwanted := range []string{"BREAK", "CALL", "DECLARE", "INTEGER"} {
		if _, ok := find(items, unwanted); ok {
			t.Errorf("unexpected %s as an array bound", unwanted)
		}
	}
}

func TestTypeCompletions(t *testing.T) {
	items := completeAtEnd(t, program+"DECLARE Q : ")
	want := []string{"ARRAY", "BOOLEAN", "CHAR", "DATE", "INTEGER", "Point", "REAL", "STRING"}
	if got := labels(items); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("labels = %v, want %v", got, want)
	}
	point, _ := find(items, "Point")
	if point.Kind != KindType || point.Documentation != "TYPE Point (X: INTEGER, Y: INTEGER)" {
		t.Errorf("Point item = %+v", point)
	}

	items = completeAtEnd(t, program+"FUNCTION G() RETURNS ")
	if len(items) != len(want) {
		t.Errorf("return type labels = %v", labels(items))
	}
	for _, it := range items {
		if it.Label != "Point" && it.Detail != "Return Type" {
			t.Errorf("%s detail = %q, want Return Type", it.Label, it.Detail)
		}
	}
}

func TestNoCompletionsInLiteral(t *testing.T) {
	if items := completeAtEnd(t, program+`OUTPUT "Cou`); len(items) != 0 {
		t.Errorf("completions inside a string: %v", labels(items))
	}
}

func TestUserRoutineShadowsBuiltin(t *testing.T) {
	src := "FUNCTION LENGTH(S : STRING) RETURNS INTEGER\n  RETURN 0\nENDFUNCTION\nx <- LEN"
	items := completeAtEnd(t, src)
	if len(items) != 1 || items[0].Detail != "Function: INTEGER" {
		t.Errorf("items = %+v, want the user LENGTH only", items)
	}
}

func TestItemKindText(t *testing.T) {
	b, err := KindConstant.MarshalText()
	if err != nil || string(b) != "constant" {
		t.Errorf("MarshalText = %q, %v", b, err)
	}
}

func TestHover(t *testing.T) {
	src := program + `Count <- Square(Max)
CALL Show(Pt)
OUTPUT LENGTH("abc"), Tmp
declare z : date`
	last, _ := endOf(src)
	tests := []struct {
		name      string
		line, col int
		want      string
	}{
		{"keyword", 1, 3, "**CONSTANT**\n\nDeclares a constant value: CONSTANT name = value"},
		{"lower case keyword", last, 2, "**DECLARE**\n\nDeclares a variable or array: DECLARE name : type"},
		{"type keyword", last, 14, "**DATE**\n\nCalendar date type, written DD/MM/YYYY"},
		{"builtin", last - 1, 10, "**LENGTH(string)**\n\nReturns the number of characters in a string"},
		{"variable", last - 3, 1, "**Variable:** `Count: INTEGER`"},
		{"variable end of word", last - 3, 6, "**Variable:** `Count: INTEGER`"},
		{"constant", last - 3, 18, "**Constant:** `Max = 10`"},
		{"function", last - 3, 12, "**Function:** `Square(N: INTEGER) RETURNS INTEGER`"},
		{"procedure", last - 2, 7, "**Procedure:** `Show(BYREF P: Point)`"},
		{"type", 3, 7, "**Type:** `Point`\n\nFields: X: INTEGER, Y: INTEGER"},
		{"parameter", 9, 10, "**Parameter:** `BYVAL N: INTEGER`"},
		{"local", 9, 4, "**Variable:** `Tmp: INTEGER`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := Hover(src, tt.line, tt.col)
			if !ok {
				t.Fatalf("no hover at %d:%d", tt.line, tt.col)
			}
			if h.Contents != tt.want {
				t.Errorf("hover = %q, want %q", h.Contents, tt.want)
			}
		})
	}

	misses := []struct {
		name      string
		line, col int
	}{
		{"local out of scope", last - 1, 24},
		{"undeclared", last - 2, 12},
		{"blank", 4, 1},
		{"number", 1, 17},
		{"line out of range", 99, 1},
		{"column out of range", 1, 99},
	}
	for _, tt := range misses {
		t.Run(tt.name, func(t *testing.T) {
			if h, ok := Hover(src, tt.line, tt.col); ok {
				t.Errorf("unexpected hover %q", h.Contents)
			}
		})
	}
}

func TestBrokenSource(t *testing.T) {
	sources := []string{
		"FUNCTION",
		"DECLARE : ARRAY[",
		"TYPE T\nDECLARE",
		"IF x THEN\nWHILE\nFOR i <- ",
		"PROCEDURE P(BYREF\n",
		"\"unterminated\nDECLARE n : INTEGER\n",
	}
	for _, src := range sources {
		line, col := endOf(src)
		_ = Completions(src, line, col)
		_, _ = Hover(src, 1, 1)
	}
}
