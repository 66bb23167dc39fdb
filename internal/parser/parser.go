package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/lexer"
	"github.com/kolkov/pseudocode/internal/token"
)

// Parser is a recursive descent parser for pseudocode programs.
//
// The token stream is scanned up front; ILLEGAL tokens become lexical
// errors and are dropped, so the grammar never sees them.
type Parser struct {
	toks    []lexer.Token
	idx     int
	tok     lexer.Token // Current token
	prevTok lexer.Token // Previous token
	errors  ErrorList   // Accumulated errors

	// Parsing state
	depth     int           // block nesting depth, 0 at top level
	loopDepth int           // nesting depth of loops (for BREAK validation)
	routine   *ast.FuncDecl // enclosing routine, nil at top level
}

// Parse parses a program in strict mode: if any lexical or syntax error is
// found the program is rejected and the full error list is returned.
func Parse(src string) (*ast.Program, error) {
	prog, errs := ParseTolerant(src)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

// ParseTolerant parses as much of src as possible. It always returns a
// program, together with every error encountered. Editor features use it
// to work on incomplete source.
func ParseTolerant(src string) (*ast.Program, ErrorList) {
	p := newParser(src)
	prog := p.parseProgram()
	p.errors.Sort()
	return prog, p.errors
}

// ParseExpr parses a single expression (useful for testing).
func ParseExpr(src string) (ast.Expr, error) {
	p := newParser(src)
	expr := p.parseExpr()
	if p.tok.Type != token.EOF {
		p.error(expectedError(p.tok.Pos, "end of expression", p.tokenDesc()))
	}
	if err := p.errors.Err(); err != nil {
		return nil, err
	}
	return expr, nil
}

func newParser(src string) *Parser {
	toks, lexErrs := lexer.Tokenize(src)
	p := &Parser{toks: make([]lexer.Token, 0, len(toks))}
	for _, e := range lexErrs {
		p.errors = append(p.errors, &ParseError{Pos: e.Pos, Message: e.Message, Lexical: true})
	}
	for _, tok := range toks {
		if tok.Type != token.ILLEGAL {
			p.toks = append(p.toks, tok)
		}
	}
	p.idx = -1
	p.next()
	return p
}

// -----------------------------------------------------------------------------
// Token handling
// -----------------------------------------------------------------------------

// next advances to the next token. The stream ends with EOF, which is
// returned indefinitely.
func (p *Parser) next() {
	p.prevTok = p.tok
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
	p.tok = p.toks[p.idx]
}

// peek returns the token after the current one.
func (p *Parser) peek() lexer.Token {
	if p.idx+1 < len(p.toks) {
		return p.toks[p.idx+1]
	}
	return p.toks[len(p.toks)-1]
}

// expect checks that the current token is tok and advances.
// If not, it records an error.
func (p *Parser) expect(tok token.Token) bool {
	if p.tok.Type != tok {
		p.error(expectedError(p.tok.Pos, tok.String(), p.tokenDesc()))
		return false
	}
	p.next()
	return true
}

// expectIdent expects an identifier and returns it.
func (p *Parser) expectIdent(what string) *ast.Ident {
	if p.tok.Type != token.IDENT {
		if p.tok.Type.IsKeyword() || p.tok.Type.IsType() {
			p.errorf("%s is a reserved word and cannot be used as %s", p.tok.Value, what)
		} else {
			p.error(expectedError(p.tok.Pos, what, p.tokenDesc()))
		}
		return nil
	}
	id := &ast.Ident{BaseExpr: ast.MakeBaseExpr(p.tok.Pos, p.tok.Pos), Name: p.tok.Value}
	p.next()
	return id
}

// expectClose consumes the terminator of a compound statement, or reports
// which construct it was meant to close.
func (p *Parser) expectClose(term token.Token, opener string, open token.Position) bool {
	if p.tok.Type == term {
		p.next()
		return true
	}
	p.errorf("expected %s to close %s opened at line %d, got %s", term, opener, open.Line, p.tokenDesc())
	return false
}

// match returns true if current token matches any of the given types.
func (p *Parser) match(types ...token.Token) bool {
	for _, t := range types {
		if p.tok.Type == t {
			return true
		}
	}
	return false
}

// tokenDesc returns a description of the current token for error messages.
func (p *Parser) tokenDesc() string {
	switch p.tok.Type {
	case token.EOF:
		return "end of file"
	case token.STRING:
		return strconv.Quote(p.tok.Value)
	case token.CHAR:
		return "'" + p.tok.Value + "'"
	case token.IDENT, token.INT, token.REAL:
		return p.tok.Value
	default:
		if p.tok.Type.IsKeyword() || p.tok.Type.IsType() {
			return strings.ToUpper(p.tok.Value)
		}
		return p.tok.Type.String()
	}
}

// error records a parse error.
func (p *Parser) error(err *ParseError) {
	p.errors = append(p.errors, err)
}

// errorf records a formatted parse error at current position.
func (p *Parser) errorf(format string, args ...any) {
	p.error(errorf(p.tok.Pos, format, args...))
}

// atSyncPoint reports whether parsing can resume at the current token.
func (p *Parser) atSyncPoint() bool {
	t := p.tok.Type
	if t.StartsStatement() || t.IsBlockEnd() {
		return true
	}
	return p.tok.LineStart && (t == token.IDENT || t.IsLiteral() || t == token.SUB || t == token.TRUE || t == token.FALSE)
}

// sync skips tokens after an error until a statement boundary. It always
// moves past the token the failed statement started on.
func (p *Parser) sync(start int) {
	if p.idx == start {
		p.next()
	}
	for !p.atSyncPoint() {
		p.next()
	}
}

// -----------------------------------------------------------------------------
// Program and statement lists
// -----------------------------------------------------------------------------

// parseProgram parses a complete program.
func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{StartPos: p.tok.Pos}
	for {
		prog.Stmts = append(prog.Stmts, p.parseStmtList()...)
		if p.tok.Type == token.EOF {
			break
		}
		// A terminator with no construct to close.
		p.errorf("unexpected %s", p.tokenDesc())
		p.next()
	}
	prog.EndPos = p.tok.Pos
	return prog
}

// parseStmtList parses statements until a block terminator or EOF. The
// terminator is left for the caller.
func (p *Parser) parseStmtList() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.tok.Type.IsBlockEnd() {
		start := p.idx
		nerr := len(p.errors)
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
		if len(p.errors) > nerr || p.idx == start {
			p.sync(start)
		}
	}
	return stmts
}

// parseBody parses a nested statement list.
func (p *Parser) parseBody() []ast.Stmt {
	p.depth++
	defer func() { p.depth-- }()
	return p.parseStmtList()
}

// parseLoopBody parses the statement list of a loop.
func (p *Parser) parseLoopBody() []ast.Stmt {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.parseBody()
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

// parseStmt parses a single statement.
func (p *Parser) parseStmt() ast.Stmt {
	switch p.tok.Type {
	case token.DECLARE:
		if d := p.parseDeclare(); d != nil {
			return d
		}
	case token.CONSTANT:
		if c := p.parseConstant(); c != nil {
			return c
		}
	case token.TYPE:
		return p.parseTypeDecl()
	case token.FUNCTION, token.PROCEDURE:
		return p.parseFuncDecl()
	case token.IF:
		return p.parseIf()
	case token.CASE:
		return p.parseCase()
	case token.WHILE:
		return p.parseWhile()
	case token.REPEAT:
		return p.parseRepeat()
	case token.FOR:
		if f := p.parseFor(); f != nil {
			return f
		}
	case token.CALL:
		if c := p.parseCall(); c != nil {
			return c
		}
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		return p.parseBreak()
	case token.OUTPUT:
		return p.parseOutput()
	case token.INPUT:
		start := p.tok.Pos
		p.next()
		target := p.parseLValue("INPUT")
		return &ast.InputStmt{BaseStmt: ast.MakeBaseStmt(start, p.prevTok.Pos), Target: target}
	case token.OPENFILE:
		if o := p.parseOpenFile(); o != nil {
			return o
		}
	case token.CLOSEFILE:
		start := p.tok.Pos
		p.next()
		file := p.parseExpr()
		return &ast.CloseFileStmt{BaseStmt: ast.MakeBaseStmt(start, p.prevTok.Pos), File: file}
	case token.READFILE, token.WRITEFILE, token.SEEK, token.GETRECORD, token.PUTRECORD:
		return p.parseFileOp()
	case token.IDENT:
		return p.parseAssign()
	default:
		p.errorf("unexpected %s at start of statement", p.tokenDesc())
	}
	return nil
}

// parseDeclare parses DECLARE a, b : T [<- init].
// The initializer may also precede the colon.
func (p *Parser) parseDeclare() *ast.DeclareStmt {
	start := p.tok.Pos
	p.next()
	decl := &ast.DeclareStmt{}
	for {
		id := p.expectIdent("variable name")
		if id == nil {
			return nil
		}
		decl.Names = append(decl.Names, id)
		if p.tok.Type != token.COMMA {
			break
		}
		p.next()
	}
	if p.tok.Type == token.ASSIGN {
		p.next()
		decl.Init = p.parseExpr()
	}
	if !p.expect(token.COLON) {
		return nil
	}
	decl.Type = p.parseType()
	if decl.Type == nil {
		return nil
	}
	if p.tok.Type == token.ASSIGN && !p.tok.LineStart {
		if decl.Init != nil {
			p.errorf("variable already has an initializer")
		}
		p.next()
		decl.Init = p.parseExpr()
	}
	if decl.Init != nil && len(decl.Names) > 1 {
		p.error(errorf(start, "an initializer may only be given when declaring a single variable"))
	}
	decl.BaseStmt = ast.MakeBaseStmt(start, p.prevTok.Pos)
	return decl
}

// parseConstant parses CONSTANT name = value (or <- value).
func (p *Parser) parseConstant() *ast.ConstantStmt {
	start := p.tok.Pos
	p.next()
	name := p.expectIdent("constant name")
	if name == nil {
		return nil
	}
	if !p.match(token.EQUALS, token.ASSIGN) {
		p.error(expectedError(p.tok.Pos, "= or <-", p.tokenDesc()))
		return nil
	}
	p.next()
	value := p.parseExpr()
	return &ast.ConstantStmt{BaseStmt: ast.MakeBaseStmt(start, p.prevTok.Pos), Name: name, Value: value}
}

// parseType parses a type: a primitive, a record type name, or
// ARRAY[l:u {, l:u}] OF T.
func (p *Parser) parseType() *ast.TypeSpec {
	start := p.tok.Pos
	switch {
	case p.tok.Type.IsType():
		name := strings.ToUpper(p.tok.Value)
		p.next()
		return &ast.TypeSpec{StartPos: start, Name: name}
	case p.tok.Type == token.IDENT:
		name := p.tok.Value
		p.next()
		return &ast.TypeSpec{StartPos: start, Name: name}
	case p.tok.Type == token.ARRAY:
		p.next()
		if !p.expect(token.LBRACKET) {
			return nil
		}
		spec := &ast.TypeSpec{StartPos: start, Name: "ARRAY"}
		for {
			lower := p.parseExpr()
			if !p.expect(token.COLON) {
				return nil
			}
			upper := p.parseExpr()
			spec.Bounds = append(spec.Bounds, &ast.Bound{Lower: lower, Upper: upper})
			if p.tok.Type != token.COMMA {
				break
			}
			p.next()
		}
		if !p.expect(token.RBRACKET) || !p.expect(token.OF) {
			return nil
		}
		spec.Elem = p.parseType()
		if spec.Elem == nil {
			return nil
		}
		return spec
	default:
		p.error(expectedError(p.tok.Pos, "type", p.tokenDesc()))
		return nil
	}
}

// parseTypeDecl parses TYPE name DECLARE... ENDTYPE.
func (p *Parser) parseTypeDecl() ast.Stmt {
	start := p.tok.Pos
	p.next()
	if p.depth > 0 || p.routine != nil {
		p.error(errorf(start, "TYPE declarations are only allowed at the top level"))
	}
	name := p.expectIdent("type name")
	if name == nil {
		return nil
	}
	td := &ast.TypeDecl{Name: name}
	for p.tok.Type == token.DECLARE {
		nerr := len(p.errors)
		if d := p.parseDeclare(); d != nil {
			if d.Init != nil {
				p.error(errorf(d.Pos(), "record fields cannot have initializers"))
			}
			td.Fields = append(td.Fields, d)
		}
		if len(p.errors) > nerr {
			for !p.match(token.DECLARE, token.ENDTYPE, token.EOF) && !p.tok.LineStart {
				p.next()
			}
		}
	}
	if len(td.Fields) == 0 {
		p.errorf("TYPE %s must declare at least one field", name.Name)
	}
	p.expectClose(token.ENDTYPE, "TYPE", start)
	td.BaseStmt = ast.MakeBaseStmt(start, p.prevTok.Pos)
	return td
}

// parseFuncDecl parses FUNCTION and PROCEDURE declarations.
//
//	FUNCTION name(params) RETURNS type ... ENDFUNCTION
//	PROCEDURE name[(params)] ... ENDPROCEDURE
func (p *Parser) parseFuncDecl() ast.Stmt {
	start := p.tok.Pos
	isProc := p.tok.Type == token.PROCEDURE
	kw, term := "FUNCTION", token.ENDFUNCTION
	if isProc {
		kw, term = "PROCEDURE", token.ENDPROC
	}
	p.next()
	if p.depth > 0 || p.routine != nil {
		p.error(errorf(start, "%s declarations are only allowed at the top level", kw))
	}
	name := p.expectIdent(strings.ToLower(kw) + " name")
	if name == nil {
		return nil
	}
	fn := &ast.FuncDecl{Name: name, IsProcedure: isProc}
	if p.tok.Type == token.LPAREN {
		p.next()
		fn.Params = p.parseParams()
		if !p.expect(token.RPAREN) {
			return nil
		}
	}
	if p.tok.Type == token.RETURNS {
		if isProc {
			p.errorf("a PROCEDURE cannot have RETURNS; use FUNCTION")
		}
		p.next()
		fn.Returns = p.parseType()
		if fn.Returns == nil {
			return nil
		}
	} else if !isProc {
		p.error(expectedError(p.tok.Pos, "RETURNS", p.tokenDesc()))
		return nil
	}

	outer := p.routine
	p.routine = fn
	outerLoops := p.loopDepth
	p.loopDepth = 0
	fn.Body = p.parseBody()
	p.routine = outer
	p.loopDepth = outerLoops

	fn.BaseStmt = ast.MakeBaseStmt(start, p.tok.Pos)
	p.expectClose(term, kw+" "+name.Name, start)
	return fn
}

// parseParams parses a parameter list. A BYREF or BYVAL marker applies to
// the parameter it precedes and to every following one until the next marker.
func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	byRef := false
	for p.tok.Type != token.RPAREN && p.tok.Type != token.EOF {
		if len(params) > 0 && !p.expect(token.COMMA) {
			return params
		}
		switch p.tok.Type {
		case token.BYREF, token.VAR:
			byRef = true
			p.next()
		case token.BYVAL:
			byRef = false
			p.next()
		}
		name := p.expectIdent("parameter name")
		if name == nil || !p.expect(token.COLON) {
			return params
		}
		typ := p.parseType()
		if typ == nil {
			return params
		}
		params = append(params, &ast.Param{Name: name, Type: typ, ByRef: byRef})
	}
	return params
}

// parseIf parses IF cond THEN ... [ELSE ...] ENDIF.
func (p *Parser) parseIf() *ast.IfStmt {
	start := p.tok.Pos
	p.next()
	cond := p.parseExpr()
	p.expect(token.THEN)
	stmt := &ast.IfStmt{Cond: cond}
	stmt.Then = p.parseBody()
	if p.tok.Type == token.ELSE {
		p.next()
		stmt.Else = p.parseBody()
		if stmt.Else == nil {
			stmt.Else = []ast.Stmt{}
		}
	}
	stmt.BaseStmt = ast.MakeBaseStmt(start, p.tok.Pos)
	p.expectClose(token.ENDIF, "IF", start)
	return stmt
}

// parseCase parses CASE OF x (or CASE x OF) followed by clauses and ENDCASE.
func (p *Parser) parseCase() *ast.CaseStmt {
	start := p.tok.Pos
	p.next()
	var subject ast.Expr
	if p.tok.Type == token.OF {
		p.next()
		subject = p.parseExpr()
	} else {
		subject = p.parseExpr()
		p.expect(token.OF)
	}
	stmt := &ast.CaseStmt{Subject: subject}

	seenOtherwise := false
	for !p.match(token.ENDCASE, token.EOF) {
		clause := &ast.CaseClause{StartPos: p.tok.Pos}
		switch {
		case p.tok.Type == token.OTHERWISE:
			p.next()
			if p.tok.Type == token.COLON {
				p.next()
			}
			clause.Otherwise = true
		case p.tok.Type.IsBlockEnd():
			stmt.BaseStmt = ast.MakeBaseStmt(start, p.tok.Pos)
			p.expectClose(token.ENDCASE, "CASE", start)
			return stmt
		default:
			before := p.idx
			clause.Value = p.parseExpr()
			if p.tok.Type == token.TO {
				p.next()
				clause.To = p.parseExpr()
			}
			if clause.Value == nil || !p.expect(token.COLON) {
				if p.idx == before {
					p.next()
				}
				for !p.match(token.ENDCASE, token.OTHERWISE, token.EOF) && !p.tok.LineStart {
					p.next()
				}
				continue
			}
		}
		if seenOtherwise {
			p.error(errorf(clause.StartPos, "OTHERWISE must be the last clause of CASE"))
		}
		if clause.Otherwise {
			seenOtherwise = true
		}
		clause.Body = p.parseClauseBody()
		stmt.Clauses = append(stmt.Clauses, clause)
	}
	stmt.BaseStmt = ast.MakeBaseStmt(start, p.tok.Pos)
	p.expectClose(token.ENDCASE, "CASE", start)
	return stmt
}

// parseClauseBody parses the statements of one CASE clause. It stops at
// anything that cannot begin a statement, which is where the next clause
// label starts.
func (p *Parser) parseClauseBody() []ast.Stmt {
	p.depth++
	defer func() { p.depth-- }()
	var stmts []ast.Stmt
	for p.tok.Type.StartsStatement() || (p.tok.Type == token.IDENT && !isClauseLabelEnd(p.peek().Type)) {
		start := p.idx
		nerr := len(p.errors)
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
		if len(p.errors) > nerr || p.idx == start {
			p.sync(start)
		}
	}
	return stmts
}

func isClauseLabelEnd(t token.Token) bool {
	return t == token.COLON || t == token.TO
}

// parseWhile parses WHILE cond [DO] ... ENDWHILE.
func (p *Parser) parseWhile() *ast.WhileStmt {
	start := p.tok.Pos
	p.next()
	cond := p.parseExpr()
	if p.tok.Type == token.DO {
		p.next()
	}
	stmt := &ast.WhileStmt{Cond: cond}
	stmt.Body = p.parseLoopBody()
	stmt.BaseStmt = ast.MakeBaseStmt(start, p.tok.Pos)
	p.expectClose(token.ENDWHILE, "WHILE", start)
	return stmt
}

// parseRepeat parses REPEAT ... UNTIL cond.
func (p *Parser) parseRepeat() *ast.RepeatStmt {
	start := p.tok.Pos
	p.next()
	stmt := &ast.RepeatStmt{}
	stmt.Body = p.parseLoopBody()
	if p.expectClose(token.UNTIL, "REPEAT", start) {
		stmt.Cond = p.parseExpr()
	}
	stmt.BaseStmt = ast.MakeBaseStmt(start, p.prevTok.Pos)
	return stmt
}

// parseFor parses FOR v <- start TO end [STEP s] ... NEXT [v].
func (p *Parser) parseFor() *ast.ForStmt {
	start := p.tok.Pos
	p.next()
	v := p.expectIdent("loop variable")
	if v == nil {
		return nil
	}
	stmt := &ast.ForStmt{Var: v}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	stmt.Start = p.parseExpr()
	if !p.expect(token.TO) {
		return nil
	}
	stmt.Limit = p.parseExpr()
	if p.tok.Type == token.STEP {
		p.next()
		stmt.Step = p.parseExpr()
	}
	stmt.Body = p.parseLoopBody()
	stmt.BaseStmt = ast.MakeBaseStmt(start, p.tok.Pos)
	if p.expectClose(token.NEXT, "FOR", start) {
		if p.tok.Type == token.IDENT && !p.tok.LineStart {
			if !strings.EqualFold(p.tok.Value, v.Name) {
				p.errorf("NEXT %s does not match FOR loop variable %s", p.tok.Value, v.Name)
			}
			stmt.EndPos = p.tok.Pos
			p.next()
		}
	}
	return stmt
}

// parseCall parses CALL name[(args)].
func (p *Parser) parseCall() *ast.CallStmt {
	start := p.tok.Pos
	p.next()
	if p.tok.Type != token.IDENT {
		p.error(expectedError(p.tok.Pos, "procedure name", p.tokenDesc()))
		return nil
	}
	call := &ast.CallExpr{Name: p.tok.Value, NamePos: p.tok.Pos}
	p.next()
	if p.tok.Type == token.LPAREN {
		call.Args = p.parseArgs()
	}
	call.BaseExpr = ast.MakeBaseExpr(call.NamePos, p.prevTok.Pos)
	return &ast.CallStmt{BaseStmt: ast.MakeBaseStmt(start, p.prevTok.Pos), Call: call}
}

// parseReturn parses RETURN [value]. The value must be on the same line.
func (p *Parser) parseReturn() *ast.ReturnStmt {
	start := p.tok.Pos
	p.next()
	if p.routine == nil {
		p.error(errorf(start, "RETURN outside of a FUNCTION or PROCEDURE"))
	}
	stmt := &ast.ReturnStmt{}
	if !p.tok.LineStart && p.canStartExpr() {
		stmt.Value = p.parseExpr()
	}
	stmt.BaseStmt = ast.MakeBaseStmt(start, p.prevTok.Pos)
	return stmt
}

func (p *Parser) parseBreak() *ast.BreakStmt {
	start := p.tok.Pos
	p.next()
	if p.loopDepth == 0 {
		p.error(errorf(start, "BREAK outside of a loop"))
	}
	return &ast.BreakStmt{BaseStmt: ast.MakeBaseStmt(start, start)}
}

// parseOutput parses OUTPUT expr {, expr}.
func (p *Parser) parseOutput() *ast.OutputStmt {
	start := p.tok.Pos
	p.next()
	stmt := &ast.OutputStmt{}
	stmt.Values = append(stmt.Values, p.parseExpr())
	for p.tok.Type == token.COMMA {
		p.next()
		stmt.Values = append(stmt.Values, p.parseExpr())
	}
	stmt.BaseStmt = ast.MakeBaseStmt(start, p.prevTok.Pos)
	return stmt
}

// parseOpenFile parses OPENFILE name FOR mode.
func (p *Parser) parseOpenFile() *ast.OpenFileStmt {
	start := p.tok.Pos
	p.next()
	file := p.parseExpr()
	if !p.expect(token.FOR) {
		return nil
	}
	if !p.match(token.READ, token.WRITE, token.APPEND, token.RANDOM) {
		p.error(expectedError(p.tok.Pos, "READ, WRITE, APPEND or RANDOM", p.tokenDesc()))
		return nil
	}
	mode := p.tok.Type
	p.next()
	return &ast.OpenFileStmt{BaseStmt: ast.MakeBaseStmt(start, p.prevTok.Pos), File: file, Mode: mode}
}

// parseFileOp parses the two-operand file statements:
// READFILE, WRITEFILE, SEEK, GETRECORD and PUTRECORD.
func (p *Parser) parseFileOp() ast.Stmt {
	start := p.tok.Pos
	kw := p.tok.Type
	p.next()
	file := p.parseExpr()
	if !p.expect(token.COMMA) {
		return nil
	}
	switch kw {
	case token.READFILE:
		target := p.parseLValue("READFILE")
		return &ast.ReadFileStmt{BaseStmt: ast.MakeBaseStmt(start, p.prevTok.Pos), File: file, Target: target}
	case token.GETRECORD:
		target := p.parseLValue("GETRECORD")
		return &ast.GetRecordStmt{BaseStmt: ast.MakeBaseStmt(start, p.prevTok.Pos), File: file, Target: target}
	}
	value := p.parseExpr()
	base := ast.MakeBaseStmt(start, p.prevTok.Pos)
	switch kw {
	case token.WRITEFILE:
		return &ast.WriteFileStmt{BaseStmt: base, File: file, Value: value}
	case token.SEEK:
		return &ast.SeekStmt{BaseStmt: base, File: file, Address: value}
	default:
		return &ast.PutRecordStmt{BaseStmt: base, File: file, Value: value}
	}
}

// parseAssign parses target <- value.
func (p *Parser) parseAssign() ast.Stmt {
	start := p.tok.Pos
	target := p.parsePostfix()
	if p.tok.Type != token.ASSIGN {
		if p.tok.Type == token.EQUALS {
			p.errorf("use <- for assignment, not =")
		} else if call, ok := target.(*ast.CallExpr); ok {
			p.error(errorf(start, "use CALL %s to invoke a procedure", call.Name))
		} else {
			p.error(expectedError(p.tok.Pos, "<-", p.tokenDesc()))
		}
		return nil
	}
	if !ast.IsLValue(target) {
		p.error(errorf(start, "cannot assign to %s", ast.ExprString(target)))
	}
	p.next()
	value := p.parseExpr()
	return &ast.AssignStmt{BaseStmt: ast.MakeBaseStmt(start, p.prevTok.Pos), Target: target, Value: value}
}

// parseLValue parses an assignable reference for INPUT and file reads.
func (p *Parser) parseLValue(stmt string) ast.Expr {
	if p.tok.Type != token.IDENT {
		p.error(expectedError(p.tok.Pos, "variable for "+stmt, p.tokenDesc()))
		return nil
	}
	start := p.tok.Pos
	e := p.parsePostfix()
	if !ast.IsLValue(e) {
		p.error(errorf(start, "%s target must be a variable, array element or record field", stmt))
	}
	return e
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

// parseExpr parses an expression.
//
// Precedence (lowest to highest):
//
//	OR
//	AND
//	= <> < > <= >=
//	+ - &
//	* / MOD DIV
//	NOT, unary -
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	return p.parseBinaryLeft(p.parseAnd, token.OR)
}

func (p *Parser) parseAnd() ast.Expr {
	return p.parseBinaryLeft(p.parseCompare, token.AND)
}

func (p *Parser) parseCompare() ast.Expr {
	return p.parseBinaryLeft(p.parseAdd,
		token.EQUALS, token.NOT_EQUALS, token.LESS, token.LTE, token.GREATER, token.GTE)
}

func (p *Parser) parseAdd() ast.Expr {
	return p.parseBinaryLeft(p.parseMul, token.ADD, token.SUB, token.CONCAT)
}

func (p *Parser) parseMul() ast.Expr {
	return p.parseBinaryLeft(p.parseUnary, token.MUL, token.QUO, token.MOD, token.DIV)
}

// parseUnary parses NOT x and -x.
func (p *Parser) parseUnary() ast.Expr {
	if p.match(token.NOT, token.SUB) {
		start := p.tok.Pos
		op := p.tok.Type
		p.next()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.UnaryExpr{BaseExpr: ast.MakeBaseExpr(start, x.End()), Op: op, X: x}
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary followed by any index and field suffixes.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for {
		switch p.tok.Type {
		case token.LBRACKET:
			p.next()
			idx := &ast.IndexExpr{Array: expr}
			for {
				e := p.parseExpr()
				if e == nil {
					return nil
				}
				idx.Index = append(idx.Index, e)
				if p.tok.Type != token.COMMA {
					break
				}
				p.next()
			}
			if !p.expect(token.RBRACKET) {
				return nil
			}
			idx.BaseExpr = ast.MakeBaseExpr(expr.Pos(), p.prevTok.Pos)
			expr = idx
		case token.PERIOD:
			p.next()
			if p.tok.Type != token.IDENT {
				p.error(expectedError(p.tok.Pos, "field name", p.tokenDesc()))
				return nil
			}
			expr = &ast.FieldExpr{BaseExpr: ast.MakeBaseExpr(expr.Pos(), p.tok.Pos), X: expr, Name: p.tok.Value}
			p.next()
		default:
			return expr
		}
	}
}

// parsePrimary parses literals, names, calls and parenthesised expressions.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.tok
	base := ast.MakeBaseExpr(tok.Pos, tok.Pos)
	switch tok.Type {
	case token.INT:
		p.next()
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			p.error(errorf(tok.Pos, "integer literal %s is out of range", tok.Value))
		}
		return &ast.IntLit{BaseExpr: base, Value: n, Raw: tok.Value}
	case token.REAL:
		p.next()
		f, _ := strconv.ParseFloat(tok.Value, 64)
		return &ast.RealLit{BaseExpr: base, Value: f, Raw: tok.Value}
	case token.STRING:
		p.next()
		return &ast.StrLit{BaseExpr: base, Value: tok.Value}
	case token.CHAR:
		p.next()
		r := []rune(tok.Value)
		return &ast.CharLit{BaseExpr: base, Value: r[0]}
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.BoolLit{BaseExpr: base, Value: tok.Type == token.TRUE}
	case token.IDENT:
		p.next()
		if p.tok.Type == token.LPAREN {
			return p.finishCall(tok)
		}
		return &ast.Ident{BaseExpr: base, Name: tok.Value}
	case token.MOD, token.DIV, token.RANDOM:
		// Built-ins spelled like keywords.
		if p.peek().Type == token.LPAREN {
			p.next()
			tok.Value = strings.ToUpper(tok.Value)
			return p.finishCall(tok)
		}
	case token.LPAREN:
		p.next()
		e := p.parseExpr()
		if e == nil {
			return nil
		}
		p.expect(token.RPAREN)
		return e
	}
	p.error(expectedError(tok.Pos, "expression", p.tokenDesc()))
	return nil
}

func (p *Parser) finishCall(name lexer.Token) ast.Expr {
	call := &ast.CallExpr{Name: name.Value, NamePos: name.Pos}
	call.Args = p.parseArgs()
	call.BaseExpr = ast.MakeBaseExpr(name.Pos, p.prevTok.Pos)
	return call
}

// parseArgs parses a parenthesised argument list.
func (p *Parser) parseArgs() []ast.Expr {
	p.expect(token.LPAREN)
	args := []ast.Expr{}
	for p.tok.Type != token.RPAREN && p.tok.Type != token.EOF {
		if len(args) > 0 && !p.expect(token.COMMA) {
			return args
		}
		e := p.parseExpr()
		if e == nil {
			return args
		}
		args = append(args, e)
	}
	p.expect(token.RPAREN)
	return args
}

// canStartExpr reports whether the current token can begin an expression.
func (p *Parser) canStartExpr() bool {
	switch p.tok.Type {
	case token.INT, token.REAL, token.STRING, token.CHAR, token.TRUE, token.FALSE,
		token.IDENT, token.LPAREN, token.NOT, token.SUB:
		return true
	case token.MOD, token.DIV, token.RANDOM:
		return p.peek().Type == token.LPAREN
	}
	return false
}

// -----------------------------------------------------------------------------
// Helper functions
// -----------------------------------------------------------------------------

// parseBinaryLeft parses left-associative binary operators. A minus sign
// that begins a line is never taken as a binary operator: it starts the
// next CASE label.
func (p *Parser) parseBinaryLeft(higher func() ast.Expr, ops ...token.Token) ast.Expr {
	expr := higher()
	if expr == nil {
		return nil
	}

	for p.match(ops...) {
		if p.tok.Type == token.SUB && p.tok.LineStart {
			break
		}
		op := p.tok.Type
		p.next()
		right := higher()
		if right == nil {
			break
		}
		expr = &ast.BinaryExpr{
			BaseExpr: ast.MakeBaseExpr(expr.Pos(), right.End()),
			Left:     expr,
			Op:       op,
			Right:    right,
		}
	}
	return expr
}

// String implements fmt.Stringer for debugging.
func (p *Parser) String() string {
	return fmt.Sprintf("Parser{tok: %s at %s, errors: %d}", p.tok.Type, p.tok.Pos, len(p.errors))
}
