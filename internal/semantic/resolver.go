package semantic

import (
	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/token"
	"github.com/kolkov/pseudocode/internal/types"
)

// ResolveResult contains the results of semantic analysis.
type ResolveResult struct {
	// Global scope: routines, record types, top-level variables and constants
	Globals *Scope

	// Local scope of each routine, keyed by declaration
	Locals map[*ast.FuncDecl]*Scope

	// Resolved type of every written type in the program
	Types map[*ast.TypeSpec]*types.Type

	// Every declaration in source order, with its enclosing routine
	Decls []Declaration

	// Errors encountered during resolution, sorted by position
	Errors ErrorList
}

// Declaration records where a symbol was declared.
type Declaration struct {
	Symbol  *Symbol
	Routine *ast.FuncDecl // nil for globals
}

// TypeOf returns the resolved type of a written type, or nil.
func (r *ResolveResult) TypeOf(spec *ast.TypeSpec) *types.Type {
	return r.Types[spec]
}

// Routine returns the FUNCTION or PROCEDURE named name.
func (r *ResolveResult) Routine(name string) (*Symbol, bool) {
	sym, ok := r.Globals.LookupLocal(name)
	if !ok || !sym.IsRoutine() {
		return nil, false
	}
	return sym, true
}

// Resolver walks a program, declaring symbols and checking uses.
type Resolver struct {
	result *ResolveResult

	// Current scope for name resolution
	scope *Scope

	// Current routine being analyzed (nil at top level)
	routine    *ast.FuncDecl
	routineSym *Symbol

	// Hoisted declarations resolved on first use
	routineSyms map[*ast.FuncDecl]*Symbol
	recordDecls map[*types.Type]*ast.TypeDecl
	sigDone     map[*Symbol]bool
	fieldsDone  map[*types.Type]bool
	inProgress  map[*types.Type]bool
}

func newResolver() *Resolver {
	globals := NewScope(nil, "global")
	return &Resolver{
		result: &ResolveResult{
			Globals: globals,
			Locals:  make(map[*ast.FuncDecl]*Scope),
			Types:   make(map[*ast.TypeSpec]*types.Type),
		},
		scope:       globals,
		routineSyms: make(map[*ast.FuncDecl]*Symbol),
		recordDecls: make(map[*types.Type]*ast.TypeDecl),
		sigDone:     make(map[*Symbol]bool),
		fieldsDone:  make(map[*types.Type]bool),
		inProgress:  make(map[*types.Type]bool),
	}
}

func (r *Resolver) resolveProgram(prog *ast.Program) {
	// Phase 1: hoist record types and routines
	r.collectTypes(prog)
	r.collectRoutines(prog)

	// Phase 2: top-level statements in order
	r.resolveStmts(prog.Stmts)

	// Phase 3: routine bodies, with every global visible
	for _, fn := range prog.Routines() {
		r.resolveRoutine(fn)
	}

	// Phase 4: anything never reached on demand
	for t := range r.recordDecls {
		r.ensureFields(t)
	}
	for _, sym := range r.routineSyms {
		r.ensureSignature(sym)
	}

	r.result.Errors.Sort()
}

// collectTypes declares every record type before any statement is checked.
// Fields are resolved on first use.
func (r *Resolver) collectTypes(prog *ast.Program) {
	for _, td := range prog.Types() {
		t := &types.Type{Kind: types.KindRecord, Name: td.Name.Name}
		r.recordDecls[t] = td
		r.define(&Symbol{Name: td.Name.Name, Kind: SymbolType, Type: t, Pos: td.Name.Pos()})
	}
}

// collectRoutines declares every routine. Signatures are resolved on first use.
func (r *Resolver) collectRoutines(prog *ast.Program) {
	for _, fn := range prog.Routines() {
		kind := SymbolFunction
		if fn.IsProcedure {
			kind = SymbolProcedure
		}
		sym := &Symbol{Name: fn.Name.Name, Kind: kind, Pos: fn.Name.Pos(), Decl: fn}
		r.routineSyms[fn] = sym
		r.define(sym)
	}
}

func (r *Resolver) resolveRoutine(fn *ast.FuncDecl) {
	sym := r.routineSyms[fn]
	r.ensureSignature(sym)

	local := NewScope(r.result.Globals, fn.Name.Name)
	r.result.Locals[fn] = local
	outer := r.scope
	r.scope = local
	r.routine, r.routineSym = fn, sym
	for _, p := range sym.Params {
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.scope = outer
	r.routine, r.routineSym = nil, nil
}

// define adds sym to the current scope, reporting a redeclaration. The new
// symbol shadows the old one for the rest of the analysis.
func (r *Resolver) define(sym *Symbol) {
	if prev := r.scope.Define(sym); prev != nil {
		r.result.Errors.Add(sym.Pos, errAlreadyDeclared, sym.Name, prev.Pos.Line)
	}
	r.result.Decls = append(r.result.Decls, Declaration{Symbol: sym, Routine: r.routine})
}

// ensureSignature resolves parameter and return types of a routine.
func (r *Resolver) ensureSignature(sym *Symbol) {
	if sym == nil || r.sigDone[sym] {
		return
	}
	r.sigDone[sym] = true
	fn := sym.Decl
	seen := make(map[string]bool)
	for _, p := range fn.Params {
		key := Key(p.Name.Name)
		if seen[key] {
			r.result.Errors.Add(p.Name.Pos(), errDuplicateParameter, p.Name.Name, fn.Name.Name)
		}
		seen[key] = true
		sym.Params = append(sym.Params, &Symbol{
			Name:  p.Name.Name,
			Kind:  SymbolParameter,
			Type:  r.resolveType(p.Type, r.result.Globals),
			Pos:   p.Name.Pos(),
			ByRef: p.ByRef,
		})
	}
	if fn.Returns != nil {
		sym.Type = r.resolveType(fn.Returns, r.result.Globals)
	}
}

// ensureFields resolves the fields of a record type.
func (r *Resolver) ensureFields(t *types.Type) {
	if r.fieldsDone[t] {
		return
	}
	r.fieldsDone[t] = true
	r.inProgress[t] = true
	defer delete(r.inProgress, t)

	td := r.recordDecls[t]
	seen := make(map[string]token.Position)
	for _, f := range td.Fields {
		ft := r.resolveType(f.Type, r.result.Globals)
		for _, name := range f.Names {
			key := Key(name.Name)
			if prev, dup := seen[key]; dup {
				r.result.Errors.Add(name.Pos(), errAlreadyDeclared, name.Name, prev.Line)
				continue
			}
			seen[key] = name.Pos()
			t.Fields = append(t.Fields, types.Field{Name: name.Name, Type: ft})
		}
	}
}

// resolveType turns a written type into a descriptor. Array bounds are
// folded using the constants visible in scope. Returns nil (after reporting)
// when the type cannot be resolved.
func (r *Resolver) resolveType(spec *ast.TypeSpec, scope *Scope) *types.Type {
	if spec == nil {
		return nil
	}
	if t, ok := r.result.Types[spec]; ok {
		return t
	}
	t := r.resolveTypeUncached(spec, scope)
	r.result.Types[spec] = t
	return t
}

func (r *Resolver) resolveTypeUncached(spec *ast.TypeSpec, scope *Scope) *types.Type {
	if spec.IsArray() {
		elem := r.resolveType(spec.Elem, scope)
		dims := make([]types.Dim, 0, len(spec.Bounds))
		ok := elem != nil
		for _, b := range spec.Bounds {
			lo, okLo := foldInt(b.Lower, scope)
			hi, okHi := foldInt(b.Upper, scope)
			if !okLo || !okHi {
				pos := spec.StartPos
				if b.Lower != nil {
					pos = b.Lower.Pos()
				}
				r.result.Errors.Add(pos, errBoundsNotConstant)
				ok = false
				continue
			}
			if lo > hi {
				r.result.Errors.Add(b.Lower.Pos(), errBoundsOrder, lo, hi)
				ok = false
				continue
			}
			dims = append(dims, types.Dim{Lower: lo, Upper: hi})
		}
		if !ok {
			return nil
		}
		return types.ArrayOf(elem, dims...)
	}

	if t := types.Primitive(spec.Name); t != nil {
		return t
	}
	sym, ok := r.result.Globals.LookupLocal(spec.Name)
	if !ok || sym.Kind != SymbolType {
		r.result.Errors.Add(spec.StartPos, errUnknownType, spec.Name)
		return nil
	}
	if r.inProgress[sym.Type] {
		r.result.Errors.Add(spec.StartPos, errRecursiveType, sym.Name)
		return nil
	}
	r.ensureFields(sym.Type)
	return sym.Type
}

// ConstValue folds a constant expression: literals, constants and
// operators applied to them.
func ConstValue(e ast.Expr, scope *Scope) (types.Value, bool) {
	switch n := e.(type) {
	case *ast.IntLit:
		return types.Int(n.Value), true
	case *ast.RealLit:
		return types.Float(n.Value), true
	case *ast.StrLit:
		return types.Str(n.Value), true
	case *ast.CharLit:
		return types.CharOf(n.Value), true
	case *ast.BoolLit:
		return types.Bool(n.Value), true
	case *ast.Ident:
		if scope == nil {
			return types.Value{}, false
		}
		sym, ok := scope.Lookup(n.Name)
		if !ok || sym.Kind != SymbolConstant || sym.Value.IsNull() {
			return types.Value{}, false
		}
		return sym.Value, true
	case *ast.UnaryExpr:
		x, ok := ConstValue(n.X, scope)
		if !ok {
			return types.Value{}, false
		}
		var v types.Value
		var err error
		if n.Op == token.NOT {
			v, err = types.Not(x)
		} else {
			v, err = types.Neg(x)
		}
		return v, err == nil
	case *ast.BinaryExpr:
		l, okL := ConstValue(n.Left, scope)
		rv, okR := ConstValue(n.Right, scope)
		if !okL || !okR {
			return types.Value{}, false
		}
		var v types.Value
		var err error
		switch n.Op {
		case token.AND, token.OR:
			if l.Kind() != types.KindBoolean || rv.Kind() != types.KindBoolean {
				return types.Value{}, false
			}
			if n.Op == token.AND {
				return types.Bool(l.AsBool() && rv.AsBool()), true
			}
			return types.Bool(l.AsBool() || rv.AsBool()), true
		case token.EQUALS, token.NOT_EQUALS, token.LESS, token.LTE, token.GREATER, token.GTE:
			v, err = types.Compare(n.Op, l, rv)
		default:
			v, err = types.Arith(n.Op, l, rv)
		}
		return v, err == nil
	}
	return types.Value{}, false
}

func foldInt(e ast.Expr, scope *Scope) (int64, bool) {
	v, ok := ConstValue(e, scope)
	if !ok || v.Kind() != types.KindInteger {
		return 0, false
	}
	return v.AsInt(), true
}
