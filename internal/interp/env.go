package interp

import (
	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/types"
)

// binding is a named storage slot.
type binding struct {
	name     string // declared spelling
	typ      *types.Type
	slot     *types.Value
	constant bool
}

// env maps case-insensitive names to bindings. There is one global env per
// run and one local env per active call.
type env struct {
	vars map[string]*binding
}

func newEnv() *env {
	return &env{vars: make(map[string]*binding)}
}

func (e *env) lookup(name string) (*binding, bool) {
	b, ok := e.vars[semantic.Key(name)]
	return b, ok
}

// define binds name to a fresh slot holding v. A second DECLARE of the same
// name (a declaration inside a loop body) rebinds it.
func (e *env) define(name string, t *types.Type, v types.Value, constant bool) *binding {
	slot := new(types.Value)
	*slot = v
	b := &binding{name: name, typ: t, slot: slot, constant: constant}
	e.vars[semantic.Key(name)] = b
	return b
}

// bind makes name refer to an existing slot (a VAR parameter).
func (e *env) bind(name string, t *types.Type, slot *types.Value) {
	e.vars[semantic.Key(name)] = &binding{name: name, typ: t, slot: slot}
}

// ref is a resolved assignment target.
type ref struct {
	slot *types.Value
	typ  *types.Type
}

// lookup finds name in the current call's locals, then in globals.
func (m *Machine) lookup(name string) (*binding, bool) {
	if act := m.activation(); act != nil {
		if b, ok := act.locals.lookup(name); ok {
			return b, true
		}
	}
	return m.globals.lookup(name)
}

// scope returns the env new declarations go into.
func (m *Machine) scope() *env {
	if act := m.activation(); act != nil {
		return act.locals
	}
	return m.globals
}

// resolveRef resolves an assignment target to its storage slot.
func (m *Machine) resolveRef(e ast.Expr) (ref, error) {
	switch x := e.(type) {
	case *ast.Ident:
		b, ok := m.lookup(x.Name)
		if !ok {
			return ref{}, errorf(x.Pos(), errUndeclared, x.Name)
		}
		if b.constant {
			return ref{}, errorf(x.Pos(), errAssignConstant, b.name)
		}
		return ref{slot: b.slot, typ: b.typ}, nil

	case *ast.IndexExpr:
		base, err := m.resolveRef(x.Array)
		if err != nil {
			return ref{}, err
		}
		if base.typ.Kind != types.KindArray {
			return ref{}, errorf(x.Pos(), errNotArray, ast.ExprString(x.Array))
		}
		off, err := m.offset(base.slot.Array(), x)
		if err != nil {
			return ref{}, err
		}
		return ref{slot: &base.slot.Array().Elems[off], typ: base.typ.Elem}, nil

	case *ast.FieldExpr:
		base, err := m.resolveRef(x.X)
		if err != nil {
			return ref{}, err
		}
		if base.typ.Kind != types.KindRecord {
			return ref{}, errorf(x.Pos(), errNotRecord, ast.ExprString(x.X))
		}
		i := base.typ.FieldIndex(x.Name)
		if i < 0 {
			return ref{}, errorf(x.Pos(), errNoField, base.typ.Name, x.Name)
		}
		return ref{slot: &base.slot.Record().Fields[i], typ: base.typ.Fields[i].Type}, nil
	}
	return ref{}, errorf(e.Pos(), "%s is not a variable, array element or record field", ast.ExprString(e))
}

// offset evaluates the subscripts of x and returns the element offset.
func (m *Machine) offset(arr *types.Array, x *ast.IndexExpr) (int, error) {
	idx := make([]int64, len(x.Index))
	for i, ie := range x.Index {
		v, err := m.eval(ie)
		if err != nil {
			return 0, err
		}
		if v.Kind() != types.KindInteger {
			return 0, errorf(ie.Pos(), errIndexType, v.Type())
		}
		idx[i] = v.AsInt()
	}
	off, err := arr.Offset(idx)
	if err != nil {
		return 0, errorf(x.Pos(), "%s: %v", ast.ExprString(x.Array), err)
	}
	return off, nil
}

// store converts v to the target's type and writes it.
func store(r ref, v types.Value, pos ast.Node) error {
	cv, err := types.Convert(v, r.typ)
	if err != nil {
		return errorf(pos.Pos(), "%v", err)
	}
	cv.AssignTo(r.slot)
	return nil
}
