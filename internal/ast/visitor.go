package ast

// Walk traverses an AST in depth-first order.
// For each node, it calls fn(node). If fn returns false,
// the children of that node are not visited.
//
// Example: Count all identifiers
//
//	count := 0
//	ast.Walk(program, func(n ast.Node) bool {
//	    if _, ok := n.(*ast.Ident); ok {
//	        count++
//	    }
//	    return true
//	})
func Walk(node Node, fn func(Node) bool) {
	if isNil(node) || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(n.Stmts, fn)

	// Expressions
	case *IntLit, *RealLit, *StrLit, *CharLit, *BoolLit, *Ident:
		// no children
	case *IndexExpr:
		Walk(n.Array, fn)
		walkExprs(n.Index, fn)
	case *FieldExpr:
		Walk(n.X, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *UnaryExpr:
		Walk(n.X, fn)
	case *CallExpr:
		walkExprs(n.Args, fn)

	// Declarations
	case *DeclareStmt:
		for _, id := range n.Names {
			Walk(id, fn)
		}
		walkType(n.Type, fn)
		Walk(n.Init, fn)
	case *ConstantStmt:
		Walk(n.Name, fn)
		Walk(n.Value, fn)
	case *TypeDecl:
		for _, f := range n.Fields {
			Walk(f, fn)
		}
	case *FuncDecl:
		walkStmts(n.Body, fn)

	// Statements
	case *AssignStmt:
		Walk(n.Target, fn)
		Walk(n.Value, fn)
	case *OutputStmt:
		walkExprs(n.Values, fn)
	case *InputStmt:
		Walk(n.Target, fn)
	case *CallStmt:
		Walk(n.Call, fn)
	case *ReturnStmt:
		Walk(n.Value, fn)
	case *BreakStmt:
		// no children
	case *IfStmt:
		Walk(n.Cond, fn)
		walkStmts(n.Then, fn)
		walkStmts(n.Else, fn)
	case *CaseStmt:
		Walk(n.Subject, fn)
		for _, c := range n.Clauses {
			Walk(c.Value, fn)
			Walk(c.To, fn)
			walkStmts(c.Body, fn)
		}
	case *WhileStmt:
		Walk(n.Cond, fn)
		walkStmts(n.Body, fn)
	case *RepeatStmt:
		walkStmts(n.Body, fn)
		Walk(n.Cond, fn)
	case *ForStmt:
		Walk(n.Var, fn)
		Walk(n.Start, fn)
		Walk(n.Limit, fn)
		Walk(n.Step, fn)
		walkStmts(n.Body, fn)

	// File statements
	case *OpenFileStmt:
		Walk(n.File, fn)
	case *CloseFileStmt:
		Walk(n.File, fn)
	case *ReadFileStmt:
		Walk(n.File, fn)
		Walk(n.Target, fn)
	case *WriteFileStmt:
		Walk(n.File, fn)
		Walk(n.Value, fn)
	case *SeekStmt:
		Walk(n.File, fn)
		Walk(n.Address, fn)
	case *GetRecordStmt:
		Walk(n.File, fn)
		Walk(n.Target, fn)
	case *PutRecordStmt:
		Walk(n.File, fn)
		Walk(n.Value, fn)
	}
}

func walkStmts(stmts []Stmt, fn func(Node) bool) {
	for _, s := range stmts {
		Walk(s, fn)
	}
}

func walkExprs(exprs []Expr, fn func(Node) bool) {
	for _, e := range exprs {
		Walk(e, fn)
	}
}

func walkType(t *TypeSpec, fn func(Node) bool) {
	for t != nil {
		for _, b := range t.Bounds {
			Walk(b.Lower, fn)
			Walk(b.Upper, fn)
		}
		t = t.Elem
	}
}

// isNil catches typed nil pointers stored in interfaces, which the parser
// produces for optional children.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch x := n.(type) {
	case Expr:
		return exprIsNil(x)
	case *Program:
		return x == nil
	}
	return false
}

func exprIsNil(e Expr) bool {
	switch x := e.(type) {
	case *Ident:
		return x == nil
	case *CallExpr:
		return x == nil
	}
	return false
}

// StmtKind returns the keyword-style name of a statement, used in
// step-wise execution reports.
func StmtKind(s Stmt) string {
	switch s.(type) {
	case *DeclareStmt:
		return "DECLARE"
	case *ConstantStmt:
		return "CONSTANT"
	case *TypeDecl:
		return "TYPE"
	case *FuncDecl:
		return "FUNCTION"
	case *AssignStmt:
		return "ASSIGN"
	case *OutputStmt:
		return "OUTPUT"
	case *InputStmt:
		return "INPUT"
	case *CallStmt:
		return "CALL"
	case *ReturnStmt:
		return "RETURN"
	case *BreakStmt:
		return "BREAK"
	case *IfStmt:
		return "IF"
	case *CaseStmt:
		return "CASE"
	case *WhileStmt:
		return "WHILE"
	case *RepeatStmt:
		return "REPEAT"
	case *ForStmt:
		return "FOR"
	case *OpenFileStmt:
		return "OPENFILE"
	case *CloseFileStmt:
		return "CLOSEFILE"
	case *ReadFileStmt:
		return "READFILE"
	case *WriteFileStmt:
		return "WRITEFILE"
	case *SeekStmt:
		return "SEEK"
	case *GetRecordStmt:
		return "GETRECORD"
	case *PutRecordStmt:
		return "PUTRECORD"
	}
	return "UNKNOWN"
}
