package interp

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/token"
	"github.com/kolkov/pseudocode/internal/types"
	"github.com/kolkov/pseudocode/internal/vfs"
)

// exec runs a statement whose cursor position has already been advanced.
// Compound statements push a frame for the branch or body they enter.
func (m *Machine) exec(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.DeclareStmt:
		return m.execDeclare(s)

	case *ast.ConstantStmt:
		v, err := m.eval(s.Value)
		if err != nil {
			return err
		}
		m.scope().define(s.Name.Name, v.Type(), v, true)
		return nil

	case *ast.AssignStmt:
		v, err := m.eval(s.Value)
		if err != nil {
			return err
		}
		r, err := m.resolveRef(s.Target)
		if err != nil {
			return err
		}
		return store(r, v, s.Value)

	case *ast.OutputStmt:
		var sb strings.Builder
		for _, e := range s.Values {
			v, err := m.eval(e)
			if err != nil {
				return err
			}
			sb.WriteString(v.String())
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(m.out, sb.String()); err != nil {
			return errorf(s.Pos(), "writing output: %v", err)
		}
		return nil

	case *ast.CallStmt:
		return m.execCall(s)

	case *ast.ReturnStmt:
		return m.execReturn(s)

	case *ast.BreakStmt:
		m.unwind(frameLoop)
		return nil

	case *ast.IfStmt:
		ok, err := m.cond(s.Cond, "IF")
		if err != nil {
			return err
		}
		branch := s.Else
		if ok {
			branch = s.Then
		}
		if len(branch) > 0 {
			m.push(&frame{kind: frameBlock, stmts: branch})
		}
		return nil

	case *ast.CaseStmt:
		return m.execCase(s)

	case *ast.WhileStmt:
		ok, err := m.cond(s.Cond, "WHILE")
		if err != nil {
			return err
		}
		if ok {
			m.push(&frame{kind: frameLoop, stmts: s.Body, loop: s})
		}
		return nil

	case *ast.RepeatStmt:
		m.push(&frame{kind: frameLoop, stmts: s.Body, loop: s})
		return nil

	case *ast.ForStmt:
		return m.execFor(s)

	case *ast.OpenFileStmt:
		name, err := m.fileName(s.File)
		if err != nil {
			return err
		}
		mode, _ := vfs.ParseMode(s.Mode.String())
		if err := m.files.Open(name, mode); err != nil {
			return errorf(s.Pos(), "OPENFILE %v", err)
		}
		return nil

	case *ast.CloseFileStmt:
		name, err := m.fileName(s.File)
		if err != nil {
			return err
		}
		return fileError(s, m.files.Close(name))

	case *ast.ReadFileStmt:
		return m.execReadFile(s)

	case *ast.WriteFileStmt:
		name, err := m.fileName(s.File)
		if err != nil {
			return err
		}
		v, err := m.eval(s.Value)
		if err != nil {
			return err
		}
		return fileError(s, m.files.WriteLine(name, v.String()))

	case *ast.SeekStmt:
		name, err := m.fileName(s.File)
		if err != nil {
			return err
		}
		addr, err := m.eval(s.Address)
		if err != nil {
			return err
		}
		if addr.Kind() != types.KindInteger {
			return errorf(s.Address.Pos(), errSeekAddress, addr.Type())
		}
		return fileError(s, m.files.Seek(name, addr.AsInt()))

	case *ast.GetRecordStmt:
		return m.execGetRecord(s)

	case *ast.PutRecordStmt:
		name, err := m.fileName(s.File)
		if err != nil {
			return err
		}
		v, err := m.eval(s.Value)
		if err != nil {
			return err
		}
		rec, err := types.Encode(v)
		if err != nil {
			return errorf(s.Pos(), "PUTRECORD %q: %v", name, err)
		}
		return fileError(s, m.files.PutRecord(name, rec))

	case *ast.FuncDecl, *ast.TypeDecl:
		return nil
	}
	return errorf(stmt.Pos(), "unsupported statement %s", ast.StmtKind(stmt))
}

func (m *Machine) execDeclare(s *ast.DeclareStmt) error {
	t := m.res.TypeOf(s.Type)
	if t == nil {
		return errorf(s.Pos(), "unresolved type %s", ast.TypeString(s.Type))
	}
	var init types.Value
	if s.Init != nil {
		v, err := m.eval(s.Init)
		if err != nil {
			return err
		}
		if init, err = types.Convert(v, t); err != nil {
			return errorf(s.Init.Pos(), "%v", err)
		}
	}
	sc := m.scope()
	for _, name := range s.Names {
		v := init
		if s.Init == nil {
			v = types.Zero(t)
		}
		sc.define(name.Name, t, v, false)
	}
	return nil
}

// cond evaluates a condition that must be BOOLEAN.
func (m *Machine) cond(e ast.Expr, what string) (bool, error) {
	v, err := m.eval(e)
	if err != nil {
		return false, err
	}
	if v.Kind() != types.KindBoolean {
		return false, errorf(e.Pos(), errCondition, what, v.Type())
	}
	return v.AsBool(), nil
}

func (m *Machine) execCase(s *ast.CaseStmt) error {
	subject, err := m.eval(s.Subject)
	if err != nil {
		return err
	}
	for _, c := range s.Clauses {
		matched := c.Otherwise
		if !matched {
			if matched, err = m.caseMatch(subject, c); err != nil {
				return err
			}
		}
		if matched {
			if len(c.Body) > 0 {
				m.push(&frame{kind: frameBlock, stmts: c.Body})
			}
			return nil
		}
	}
	return nil
}

func (m *Machine) caseMatch(subject types.Value, c *ast.CaseClause) (bool, error) {
	lo, err := m.eval(c.Value)
	if err != nil {
		return false, err
	}
	if c.To == nil {
		eq, err := types.Compare(token.EQUALS, subject, lo)
		if err != nil {
			return false, errorf(c.StartPos, errCaseCompare, subject.Type(), lo.Type())
		}
		return eq.AsBool(), nil
	}
	hi, err := m.eval(c.To)
	if err != nil {
		return false, err
	}
	ge, err1 := types.Compare(token.GTE, subject, lo)
	le, err2 := types.Compare(token.LTE, subject, hi)
	if err1 != nil || err2 != nil {
		return false, errorf(c.StartPos, errCaseCompare, subject.Type(), lo.Type())
	}
	return ge.AsBool() && le.AsBool(), nil
}

func (m *Machine) execFor(s *ast.ForStmt) error {
	start, err := m.forValue(s.Start, "start value")
	if err != nil {
		return err
	}
	limit, err := m.forValue(s.Limit, "end value")
	if err != nil {
		return err
	}
	step := int64(1)
	if s.Step != nil {
		if step, err = m.forValue(s.Step, "STEP"); err != nil {
			return err
		}
		if step == 0 {
			return errorf(s.Step.Pos(), errForStepZero)
		}
	}

	if _, ok := m.lookup(s.Var.Name); !ok {
		m.scope().define(s.Var.Name, types.IntegerType, types.Int(0), false)
	}
	r, err := m.resolveRef(s.Var)
	if err != nil {
		return err
	}
	if r.typ.Kind != types.KindInteger {
		return errorf(s.Var.Pos(), errForValue, "counter "+s.Var.Name, r.typ)
	}
	*r.slot = types.Int(start)

	if inRange(start, limit, step) {
		m.push(&frame{kind: frameLoop, stmts: s.Body, loop: s, counter: r.slot, limit: limit, step: step})
	}
	return nil
}

func (m *Machine) forValue(e ast.Expr, what string) (int64, error) {
	v, err := m.eval(e)
	if err != nil {
		return 0, err
	}
	if v.Kind() != types.KindInteger {
		return 0, errorf(e.Pos(), errForValue, what, v.Type())
	}
	return v.AsInt(), nil
}

func inRange(v, limit, step int64) bool {
	if step > 0 {
		return v <= limit
	}
	return v >= limit
}

// stepCounter adds step to v, reporting false on overflow.
func stepCounter(v, step int64) (int64, bool) {
	if (step > 0 && v > math.MaxInt64-step) || (step < 0 && v < math.MinInt64-step) {
		return v, false
	}
	return v + step, true
}

// execHeader runs the loop test that follows a finished body.
func (m *Machine) execHeader(f *frame) error {
	again := false
	switch s := f.loop.(type) {
	case *ast.WhileStmt:
		ok, err := m.cond(s.Cond, "WHILE")
		if err != nil {
			return err
		}
		again = ok
	case *ast.RepeatStmt:
		done, err := m.cond(s.Cond, "UNTIL")
		if err != nil {
			return err
		}
		again = !done
	case *ast.ForStmt:
		next, ok := stepCounter(f.counter.AsInt(), f.step)
		if !ok {
			// the next value is past any INTEGER limit
			break
		}
		*f.counter = types.Int(next)
		again = inRange(next, f.limit, f.step)
	}
	if again {
		f.pc = 0
		f.header = false
	} else {
		m.pop()
	}
	return nil
}

// execInput stores one queued value into the INPUT target. With an empty
// queue it suspends (interactive, not inside a function call) or fails.
// The target is validated before suspending.
func (m *Machine) execInput(s *ast.InputStmt) (suspended bool, err error) {
	r, err := m.inputRef(s.Target, "INPUT")
	if err != nil {
		return false, err
	}
	text, ok := m.takeInput()
	if !ok {
		if m.interact && m.nested == 0 {
			m.state = Suspended
			m.waiting = s
			return true, nil
		}
		return false, errorf(s.Pos(), "INPUT %s: %v", ast.ExprString(s.Target), ErrNoInput)
	}
	v, err := types.ParseInput(text, r.typ)
	if err != nil {
		return false, errorf(s.Pos(), errInputValue, ast.ExprString(s.Target), err)
	}
	*r.slot = v
	return false, nil
}

// inputRef resolves the target of INPUT or READFILE, which must be a
// scalar variable.
func (m *Machine) inputRef(target ast.Expr, verb string) (ref, error) {
	r, err := m.resolveRef(target)
	if err != nil {
		return ref{}, err
	}
	if !r.typ.IsScalar() {
		return ref{}, errorf(target.Pos(), errInputTarget, verb, r.typ)
	}
	return r, nil
}

func (m *Machine) execReadFile(s *ast.ReadFileStmt) error {
	name, err := m.fileName(s.File)
	if err != nil {
		return err
	}
	r, err := m.inputRef(s.Target, "READFILE")
	if err != nil {
		return err
	}
	line, err := m.files.ReadLine(name)
	if err == io.EOF {
		return errorf(s.Pos(), errReadPastEnd, "READFILE", name)
	}
	if err != nil {
		return fileError(s, err)
	}
	v, err := types.ParseInput(line, r.typ)
	if err != nil {
		return errorf(s.Pos(), "READFILE %q: %v", name, err)
	}
	*r.slot = v
	return nil
}

func (m *Machine) execGetRecord(s *ast.GetRecordStmt) error {
	name, err := m.fileName(s.File)
	if err != nil {
		return err
	}
	r, err := m.resolveRef(s.Target)
	if err != nil {
		return err
	}
	rec, err := m.files.GetRecord(name)
	if err == io.EOF {
		return errorf(s.Pos(), errReadPastEnd, "GETRECORD", name)
	}
	if err != nil {
		return fileError(s, err)
	}
	v, err := types.Decode(rec, r.typ)
	if err != nil {
		return errorf(s.Pos(), errBadRecord, name, err)
	}
	v.AssignTo(r.slot)
	return nil
}

func (m *Machine) fileName(e ast.Expr) (string, error) {
	v, err := m.eval(e)
	if err != nil {
		return "", err
	}
	if v.Kind() != types.KindString {
		return "", errorf(e.Pos(), errFileName, v.Type())
	}
	return v.AsString(), nil
}

// fileError reports a VFS failure at the statement.
func fileError(s ast.Stmt, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if errors.Is(err, vfs.ErrNotOpen) || errors.Is(err, vfs.ErrAlreadyOpen) || errors.Is(err, vfs.ErrNotFound) {
		msg = fmt.Sprintf("%s %v", ast.StmtKind(s), err)
	}
	return errorf(s.Pos(), "%s", msg)
}

// -----------------------------------------------------------------------------
// Calls
// -----------------------------------------------------------------------------

func (m *Machine) execCall(s *ast.CallStmt) error {
	sym, ok := m.res.Routine(s.Call.Name)
	if !ok {
		// A built-in used as a statement; the value is discarded.
		_, err := m.eval(s.Call)
		return err
	}
	act, err := m.bindArgs(sym, s.Call)
	if err != nil {
		return err
	}
	return m.enter(sym, act, s.Call)
}

func (m *Machine) execReturn(s *ast.ReturnStmt) error {
	var v types.Value
	if s.Value != nil {
		var err error
		if v, err = m.eval(s.Value); err != nil {
			return err
		}
	}
	f := m.unwind(frameCall)
	if f == nil {
		return errorf(s.Pos(), "RETURN outside a function or procedure")
	}
	sym := f.call.sym
	if sym.Kind != semantic.SymbolFunction || s.Value == nil {
		return nil
	}
	rv, err := types.Convert(v, sym.Type)
	if err != nil {
		return errorf(s.Value.Pos(), "RETURN from %s: %v", sym.Name, err)
	}
	f.call.result = rv
	return nil
}
