package semantic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/token"
	"github.com/kolkov/pseudocode/internal/types"
)

// Check performs static analysis of a parsed program. The result is always
// returned; err is non-nil (an ErrorList) if any problem was found.
func Check(prog *ast.Program) (*ResolveResult, error) {
	r := newResolver()
	r.resolveProgram(prog)
	if err := r.result.Errors.Err(); err != nil {
		return r.result, err
	}
	return r.result, nil
}

// Collect extracts declarations from a possibly incomplete program,
// ignoring errors. Editor features use it on text being typed.
func Collect(prog *ast.Program) *ResolveResult {
	res, _ := Check(prog)
	return res
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.DeclareStmt:
		r.checkDeclare(s)

	case *ast.ConstantStmt:
		vt := r.exprType(s.Value)
		val, ok := ConstValue(s.Value, r.scope)
		if s.Value != nil && !ok {
			r.result.Errors.Add(s.Value.Pos(), errConstantValue, s.Name.Name)
		}
		r.define(&Symbol{Name: s.Name.Name, Kind: SymbolConstant, Type: vt, Pos: s.Name.Pos(), Value: val})

	case *ast.TypeDecl:
		if sym, ok := r.result.Globals.LookupLocal(s.Name.Name); ok && sym.Kind == SymbolType {
			r.ensureFields(sym.Type)
		}

	case *ast.FuncDecl:
		r.ensureSignature(r.routineSyms[s])

	case *ast.AssignStmt:
		tt := r.targetType(s.Target)
		vt := r.exprType(s.Value)
		r.checkAssignable(s.Value, vt, tt)

	case *ast.InputStmt:
		r.checkScalarTarget(s.Target, "INPUT")

	case *ast.OutputStmt:
		for _, v := range s.Values {
			r.exprType(v)
		}

	case *ast.CallStmt:
		r.checkCall(s.Call, true)

	case *ast.ReturnStmt:
		r.checkReturn(s)

	case *ast.BreakStmt:
		// validated by the parser

	case *ast.IfStmt:
		r.checkCondition("IF", s.Cond)
		r.resolveStmts(s.Then)
		r.resolveStmts(s.Else)

	case *ast.CaseStmt:
		r.exprType(s.Subject)
		for _, c := range s.Clauses {
			r.exprType(c.Value)
			r.exprType(c.To)
			r.resolveStmts(c.Body)
		}

	case *ast.WhileStmt:
		r.checkCondition("WHILE", s.Cond)
		r.resolveStmts(s.Body)

	case *ast.RepeatStmt:
		r.resolveStmts(s.Body)
		r.checkCondition("UNTIL", s.Cond)

	case *ast.ForStmt:
		r.checkFor(s)

	case *ast.OpenFileStmt:
		r.checkFileName(s.File)
	case *ast.CloseFileStmt:
		r.checkFileName(s.File)
	case *ast.ReadFileStmt:
		r.checkFileName(s.File)
		r.checkScalarTarget(s.Target, "READFILE")
	case *ast.WriteFileStmt:
		r.checkFileName(s.File)
		r.exprType(s.Value)
	case *ast.SeekStmt:
		r.checkFileName(s.File)
		if t := r.exprType(s.Address); t != nil && t.Kind != types.KindInteger {
			r.result.Errors.Add(s.Address.Pos(), errSeekAddress, t)
		}
	case *ast.GetRecordStmt:
		r.checkFileName(s.File)
		r.targetType(s.Target)
	case *ast.PutRecordStmt:
		r.checkFileName(s.File)
		r.exprType(s.Value)
	}
}

func (r *Resolver) checkDeclare(s *ast.DeclareStmt) {
	t := r.resolveType(s.Type, r.scope)
	if s.Init != nil {
		it := r.exprType(s.Init)
		r.checkAssignable(s.Init, it, t)
	}
	for _, name := range s.Names {
		r.define(&Symbol{Name: name.Name, Kind: SymbolVariable, Type: t, Pos: name.Pos()})
	}
}

func (r *Resolver) checkFor(s *ast.ForStmt) {
	sym, ok := r.scope.Lookup(s.Var.Name)
	switch {
	case !ok:
		r.define(&Symbol{Name: s.Var.Name, Kind: SymbolVariable, Type: types.IntegerType, Pos: s.Var.Pos()})
	case sym.Kind == SymbolConstant:
		r.result.Errors.Add(s.Var.Pos(), errAssignConstant, sym.Name)
	case !sym.IsStorage():
		r.result.Errors.Add(s.Var.Pos(), errNotVariable, sym.Name, sym.Kind)
	case sym.Type != nil && sym.Type.Kind != types.KindInteger:
		r.result.Errors.Add(s.Var.Pos(), errForCounter, sym.Name, sym.Type)
	}
	for _, part := range []struct {
		what string
		e    ast.Expr
	}{{"start value", s.Start}, {"end value", s.Limit}, {"STEP", s.Step}} {
		if t := r.exprType(part.e); t != nil && t.Kind != types.KindInteger {
			r.result.Errors.Add(part.e.Pos(), errForBound, part.what, t)
		}
	}
	r.resolveStmts(s.Body)
}

func (r *Resolver) checkReturn(s *ast.ReturnStmt) {
	vt := r.exprType(s.Value)
	if r.routine == nil {
		return
	}
	name := r.routine.Name.Name
	if r.routine.IsProcedure {
		if s.Value != nil {
			r.result.Errors.Add(s.Pos(), errReturnInProcedure, name)
		}
		return
	}
	if s.Value == nil {
		r.result.Errors.Add(s.Pos(), errReturnMissing, name)
		return
	}
	r.checkAssignable(s.Value, vt, r.routineSym.Type)
}

func (r *Resolver) checkCondition(what string, cond ast.Expr) {
	if t := r.exprType(cond); t != nil && t.Kind != types.KindBoolean {
		r.result.Errors.Add(cond.Pos(), errCondition, what, t)
	}
}

func (r *Resolver) checkFileName(e ast.Expr) {
	if t := r.exprType(e); t != nil && t.Kind != types.KindString {
		r.result.Errors.Add(e.Pos(), errFileName, t)
	}
}

func (r *Resolver) checkScalarTarget(target ast.Expr, stmt string) {
	t := r.targetType(target)
	if t != nil && !t.IsScalar() {
		r.result.Errors.Add(target.Pos(), errInputTarget, stmt, t)
	}
}

// checkAssignable reports a declaration-time type mismatch when both types
// are statically known.
func (r *Resolver) checkAssignable(e ast.Expr, src, dst *types.Type) {
	if src == nil || dst == nil || e == nil {
		return
	}
	if !types.AssignableTo(src, dst) {
		r.result.Errors.Add(e.Pos(), errTypeMismatch, src, dst)
	}
}

// targetType checks an assignment target and returns its type.
func (r *Resolver) targetType(target ast.Expr) *types.Type {
	if root := ast.RootIdent(target); root != nil {
		if sym, ok := r.scope.Lookup(root.Name); ok {
			switch {
			case sym.Kind == SymbolConstant:
				r.result.Errors.Add(root.Pos(), errAssignConstant, sym.Name)
				return nil
			case !sym.IsStorage():
				r.result.Errors.Add(root.Pos(), errNotVariable, sym.Name, sym.Kind)
				return nil
			}
		}
	}
	return r.exprType(target)
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

// exprType checks an expression and returns its static type, or nil when
// the type is not known. Operand type errors are left to run time.
func (r *Resolver) exprType(expr ast.Expr) *types.Type {
	switch e := expr.(type) {
	case nil:
		return nil
	case *ast.IntLit:
		return types.IntegerType
	case *ast.RealLit:
		return types.RealType
	case *ast.StrLit:
		return types.StringType
	case *ast.CharLit:
		return types.CharType
	case *ast.BoolLit:
		return types.BooleanType

	case *ast.Ident:
		if e == nil {
			return nil
		}
		sym, ok := r.scope.Lookup(e.Name)
		if !ok {
			r.undeclared(e.Pos(), fmt.Sprintf(errUndeclared, e.Name), e.Name, r.storageNames())
			return nil
		}
		if !sym.IsStorage() {
			r.result.Errors.Add(e.Pos(), errNotVariable, sym.Name, sym.Kind)
			return nil
		}
		return sym.Type

	case *ast.IndexExpr:
		bt := r.exprType(e.Array)
		for _, idx := range e.Index {
			if it := r.exprType(idx); it != nil && it.Kind != types.KindInteger {
				r.result.Errors.Add(idx.Pos(), errIndexType, it)
			}
		}
		if bt == nil {
			return nil
		}
		name := ast.ExprString(e.Array)
		if bt.Kind != types.KindArray {
			r.result.Errors.Add(e.Pos(), errNotArray, name)
			return nil
		}
		if len(e.Index) != len(bt.Dims) {
			r.result.Errors.Add(e.Pos(), errIndexCount, name, len(bt.Dims), len(e.Index))
		}
		return bt.Elem

	case *ast.FieldExpr:
		bt := r.exprType(e.X)
		if bt == nil {
			return nil
		}
		if bt.Kind != types.KindRecord {
			r.result.Errors.Add(e.Pos(), errNotRecord, e.Name)
			return nil
		}
		i := bt.FieldIndex(e.Name)
		if i < 0 {
			r.result.Errors.Add(e.Pos(), errNoField, bt.Name, e.Name)
			return nil
		}
		return bt.Fields[i].Type

	case *ast.UnaryExpr:
		t := r.exprType(e.X)
		if e.Op == token.NOT {
			return types.BooleanType
		}
		if t.IsNumeric() {
			return t
		}
		return nil

	case *ast.BinaryExpr:
		lt := r.exprType(e.Left)
		rt := r.exprType(e.Right)
		return types.ResultType(e.Op, lt, rt)

	case *ast.CallExpr:
		if e == nil {
			return nil
		}
		return r.checkCall(e, false)
	}
	return nil
}

// checkCall checks a call to a user routine or built-in and returns the
// result type. A FUNCTION may be CALLed (its value is discarded); a
// PROCEDURE may not appear in an expression.
func (r *Resolver) checkCall(call *ast.CallExpr, stmt bool) *types.Type {
	argTypes := make([]*types.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = r.exprType(a)
	}

	sym, found := r.scope.Lookup(call.Name)
	if found && sym.IsRoutine() {
		r.ensureSignature(sym)
		if sym.Kind == SymbolProcedure && !stmt {
			r.result.Errors.Add(call.NamePos, errProcInExpr, sym.Name, sym.Name)
		}
		if len(call.Args) != len(sym.Params) {
			r.result.Errors.Add(call.NamePos, errArgCount, sym.Name, len(sym.Params), len(call.Args))
		}
		return sym.Type
	}

	if info, ok := GetBuiltinInfo(call.Name); ok {
		if len(call.Args) != info.NumArgs() {
			r.result.Errors.Add(call.NamePos, errArgCount, info.Name, info.NumArgs(), len(call.Args))
		}
		if info.Returns != nil {
			return info.Returns
		}
		// Case conversions return the kind they are given.
		if len(argTypes) == 1 && argTypes[0] != nil &&
			(argTypes[0].Kind == types.KindString || argTypes[0].Kind == types.KindChar) {
			return argTypes[0]
		}
		return nil
	}

	if found {
		r.result.Errors.Add(call.NamePos, "%q is a %s, not a function or procedure", sym.Name, sym.Kind)
		return nil
	}
	r.undeclared(call.NamePos, fmt.Sprintf(errUndeclaredRoutine, call.Name), call.Name, r.routineNames())
	return nil
}

// -----------------------------------------------------------------------------
// Suggestions
// -----------------------------------------------------------------------------

// undeclared reports msg, adding the closest known name as a hint.
func (r *Resolver) undeclared(pos token.Position, msg, name string, candidates []string) {
	if best := closestMatch(name, candidates); best != "" {
		msg = fmt.Sprintf(errDidYouMean, msg, best)
	}
	r.result.Errors.Add(pos, "%s", msg)
}

func (r *Resolver) storageNames() []string {
	var out []string
	for _, name := range r.scope.Names() {
		if sym, _ := r.scope.Lookup(name); sym.IsStorage() {
			out = append(out, name)
		}
	}
	return out
}

func (r *Resolver) routineNames() []string {
	var out []string
	for _, sym := range r.result.Globals.Symbols() {
		if sym.IsRoutine() {
			out = append(out, sym.Name)
		}
	}
	for _, b := range Builtins() {
		out = append(out, b.Name)
	}
	return out
}

// closestMatch finds the closest candidate: first by fuzzy subsequence
// ranking, then by edit distance for transpositions and typos.
func closestMatch(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", 3
	lower := strings.ToLower(target)
	for _, c := range candidates {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(c))
		if d < bestDist && d < len(target) {
			best, bestDist = c, d
		}
	}
	return best
}
