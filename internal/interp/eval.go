package interp

import (
	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/token"
	"github.com/kolkov/pseudocode/internal/types"
)

// eval evaluates an expression. Function calls run to completion before
// eval returns.
func (m *Machine) eval(expr ast.Expr) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return types.Int(e.Value), nil
	case *ast.RealLit:
		return types.Float(e.Value), nil
	case *ast.StrLit:
		return types.Str(e.Value), nil
	case *ast.CharLit:
		return types.CharOf(e.Value), nil
	case *ast.BoolLit:
		return types.Bool(e.Value), nil

	case *ast.Ident:
		b, ok := m.lookup(e.Name)
		if !ok {
			return types.Value{}, errorf(e.Pos(), errUndeclared, e.Name)
		}
		return *b.slot, nil

	case *ast.IndexExpr:
		base, err := m.eval(e.Array)
		if err != nil {
			return types.Value{}, err
		}
		if base.Kind() != types.KindArray {
			return types.Value{}, errorf(e.Pos(), errNotArray, ast.ExprString(e.Array))
		}
		off, err := m.offset(base.Array(), e)
		if err != nil {
			return types.Value{}, err
		}
		return base.Array().Elems[off], nil

	case *ast.FieldExpr:
		base, err := m.eval(e.X)
		if err != nil {
			return types.Value{}, err
		}
		if base.Kind() != types.KindRecord {
			return types.Value{}, errorf(e.Pos(), errNotRecord, ast.ExprString(e.X))
		}
		rec := base.Record()
		i := rec.Type.FieldIndex(e.Name)
		if i < 0 {
			return types.Value{}, errorf(e.Pos(), errNoField, rec.Type.Name, e.Name)
		}
		return rec.Fields[i], nil

	case *ast.UnaryExpr:
		x, err := m.eval(e.X)
		if err != nil {
			return types.Value{}, err
		}
		var v types.Value
		if e.Op == token.NOT {
			v, err = types.Not(x)
		} else {
			v, err = types.Neg(x)
		}
		return v, wrap(e.Pos(), err)

	case *ast.BinaryExpr:
		return m.evalBinary(e)

	case *ast.CallExpr:
		return m.evalCall(e)
	}
	return types.Value{}, errorf(expr.Pos(), "cannot evaluate %s", ast.ExprString(expr))
}

func (m *Machine) evalBinary(e *ast.BinaryExpr) (types.Value, error) {
	l, err := m.eval(e.Left)
	if err != nil {
		return types.Value{}, err
	}

	// AND and OR short-circuit.
	if e.Op == token.AND || e.Op == token.OR {
		if l.Kind() != types.KindBoolean {
			return types.Value{}, errorf(e.Left.Pos(), "%s requires BOOLEAN operands, got %s", e.Op, l.Type())
		}
		if (e.Op == token.AND && !l.AsBool()) || (e.Op == token.OR && l.AsBool()) {
			return l, nil
		}
		r, err := m.eval(e.Right)
		if err != nil {
			return types.Value{}, err
		}
		if r.Kind() != types.KindBoolean {
			return types.Value{}, errorf(e.Right.Pos(), "%s requires BOOLEAN operands, got %s", e.Op, r.Type())
		}
		return r, nil
	}

	r, err := m.eval(e.Right)
	if err != nil {
		return types.Value{}, err
	}
	var v types.Value
	switch e.Op {
	case token.EQUALS, token.NOT_EQUALS, token.LESS, token.LTE, token.GREATER, token.GTE:
		v, err = types.Compare(e.Op, l, r)
	default:
		v, err = types.Arith(e.Op, l, r)
	}
	return v, wrap(e.Pos(), err)
}

// evalCall calls a user function or a built-in from an expression.
func (m *Machine) evalCall(call *ast.CallExpr) (types.Value, error) {
	sym, ok := m.res.Routine(call.Name)
	if !ok {
		return m.callBuiltin(call)
	}
	if sym.Kind == semantic.SymbolProcedure {
		return types.Value{}, errorf(call.NamePos, errProcValue, sym.Name)
	}
	act, err := m.bindArgs(sym, call)
	if err != nil {
		return types.Value{}, err
	}
	act.nested = true
	floor := len(m.frames)
	if err := m.enter(sym, act, call); err != nil {
		return types.Value{}, err
	}
	if err := m.runNested(floor); err != nil {
		return types.Value{}, err
	}
	return act.result, nil
}

// bindArgs evaluates call arguments into a fresh activation. Value
// parameters get a converted copy; VAR parameters share the caller's slot.
func (m *Machine) bindArgs(sym *semantic.Symbol, call *ast.CallExpr) (*activation, error) {
	if len(call.Args) != len(sym.Params) {
		return nil, errorf(call.NamePos, errArgCount, sym.Name, len(sym.Params), len(call.Args))
	}
	locals := newEnv()
	for i, p := range sym.Params {
		arg := call.Args[i]
		if p.ByRef {
			if !ast.IsLValue(arg) {
				return nil, errorf(arg.Pos(), errRefArgument, i+1, sym.Name, p.Name)
			}
			r, err := m.resolveRef(arg)
			if err != nil {
				return nil, err
			}
			if !types.Identical(r.typ, p.Type) {
				return nil, errorf(arg.Pos(), errRefType, i+1, sym.Name, r.typ, p.Type)
			}
			locals.bind(p.Name, p.Type, r.slot)
			continue
		}
		v, err := m.eval(arg)
		if err != nil {
			return nil, err
		}
		cv, err := types.Convert(v, p.Type)
		if err != nil {
			return nil, errorf(arg.Pos(), "argument %d of %s: %v", i+1, sym.Name, err)
		}
		locals.define(p.Name, p.Type, cv, false)
	}
	return &activation{sym: sym, locals: locals}, nil
}

// enter pushes the call frame for a bound activation.
func (m *Machine) enter(sym *semantic.Symbol, act *activation, call *ast.CallExpr) error {
	if m.depth >= MaxCallDepth {
		return errorf(call.NamePos, errStackOverflow, MaxCallDepth)
	}
	m.depth++
	m.push(&frame{kind: frameCall, stmts: sym.Decl.Body, call: act})
	m.log.Debug("call", "routine", sym.Name, "depth", m.depth)
	return nil
}
