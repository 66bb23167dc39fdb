// Package interp executes pseudocode programs by walking the syntax tree.
//
// A Machine holds an explicit cursor (a stack of frames, each a statement
// list plus the index of the next statement), so execution can stop after
// any statement and resume later. Batch execution and step-wise execution
// drive the same Step method; the only difference is what happens when an
// INPUT statement finds no queued value.
package interp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/token"
	"github.com/kolkov/pseudocode/internal/types"
	"github.com/kolkov/pseudocode/internal/vfs"
)

// MaxCallDepth bounds the number of active routine calls.
const MaxCallDepth = 10000

// State is the execution state of a Machine.
type State uint8

const (
	NotStarted State = iota
	Running
	Suspended // waiting for input
	Completed
	Failed
)

var stateNames = [...]string{
	NotStarted: "NotStarted",
	Running:    "Running",
	Suspended:  "Suspended",
	Completed:  "Completed",
	Failed:     "Failed",
}

func (s State) String() string {
	return stateNames[s]
}

// Finished reports whether no more statements can run.
func (s State) Finished() bool {
	return s == Completed || s == Failed
}

// ErrFinished is returned by Step after the program completed or failed.
var ErrFinished = errors.New("program has finished")

// Config holds Machine configuration.
type Config struct {
	// Output receives OUTPUT text. Default: io.Discard.
	Output io.Writer

	// Files backs the file statements. Default: a fresh empty FS.
	Files *vfs.FS

	// Logger receives a Debug record per executed statement. Default:
	// discards everything.
	Logger *slog.Logger

	// Seed seeds RAND and RANDOM. Zero picks a time-based seed.
	Seed int64

	// Now returns the current time for NOW. Default: time.Now.
	Now func() time.Time

	// Interactive makes INPUT with an empty queue suspend instead of fail.
	Interactive bool
}

// Machine executes one program run.
type Machine struct {
	prog *ast.Program
	res  *semantic.ResolveResult

	frames  []*frame
	line    int // line of the statement most recently started
	depth   int // active call frames
	nested  int // function calls running inside expressions
	globals *env

	inputs  []string
	waiting *ast.InputStmt // set while Suspended

	state State
	err   error

	out        io.Writer
	files      *vfs.Handles
	log        *slog.Logger
	randSource *rand.Rand
	now        func() time.Time
	interact   bool
}

// New creates a Machine positioned before the first statement of prog.
// res must come from a successful semantic.Check of prog.
func New(prog *ast.Program, res *semantic.ResolveResult, config Config) *Machine {
	if config.Output == nil {
		config.Output = io.Discard
	}
	if config.Files == nil {
		config.Files = vfs.New()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	m := &Machine{
		prog:       prog,
		res:        res,
		frames:     make([]*frame, 0, 16),
		globals:    newEnv(),
		out:        config.Output,
		files:      vfs.NewHandles(config.Files),
		log:        config.Logger,
		randSource: rand.New(rand.NewSource(config.Seed)),
		now:        config.Now,
		interact:   config.Interactive,
	}
	m.push(&frame{kind: frameBlock, stmts: prog.Stmts})
	// The top-level list has no call frames, so settling cannot fail.
	_ = m.settle(0)
	return m
}

// State returns the current execution state.
func (m *Machine) State() State {
	return m.state
}

// Err returns the error that moved the machine to Failed.
func (m *Machine) Err() error {
	return m.err
}

// HasMore reports whether another statement can be run.
func (m *Machine) HasMore() bool {
	if m.state.Finished() {
		return false
	}
	_, ok := m.current()
	return ok
}

// Next returns the statement the next Step will run.
func (m *Machine) Next() (ast.Stmt, bool) {
	if m.state.Finished() {
		return nil, false
	}
	return m.current()
}

// Waiting returns the INPUT statement the machine is suspended on.
func (m *Machine) Waiting() (*ast.InputStmt, bool) {
	if m.state != Suspended {
		return nil, false
	}
	return m.waiting, true
}

// AddInput queues one line of input.
func (m *Machine) AddInput(text string) {
	m.inputs = append(m.inputs, text)
}

// ClearInputs drops all queued input.
func (m *Machine) ClearInputs() {
	m.inputs = nil
}

// PendingInputs returns the number of queued input lines.
func (m *Machine) PendingInputs() int {
	return len(m.inputs)
}

func (m *Machine) takeInput() (string, bool) {
	if len(m.inputs) == 0 {
		return "", false
	}
	s := m.inputs[0]
	m.inputs = m.inputs[1:]
	return s, true
}

// Step runs one statement and settles the cursor on the next one.
//
// When the statement is an INPUT with no queued value in interactive mode,
// the machine moves to Suspended and Step returns nil without advancing;
// queue a value with AddInput and call Step again. A runtime error moves
// the machine to Failed and is returned as a *RuntimeError.
func (m *Machine) Step() error {
	if m.state.Finished() {
		return ErrFinished
	}
	if len(m.frames) == 0 {
		m.finish(nil)
		return nil
	}
	m.state = Running
	m.waiting = nil

	if err := m.step(); err != nil {
		return m.finish(err)
	}
	if m.state == Suspended {
		m.log.Debug("suspended", "line", m.waiting.Pos().Line)
		return nil
	}
	if err := m.settle(0); err != nil {
		return m.finish(err)
	}
	if len(m.frames) == 0 {
		m.finish(nil)
	}
	return nil
}

// Line returns the line of the statement most recently started, or 0
// before the first step. After a failure it is the failing statement's
// line, including inside a function called from an expression.
func (m *Machine) Line() int {
	return m.line
}

// Run steps until the program completes, fails or suspends. ctx is checked
// between statements.
func (m *Machine) Run(ctx context.Context) error {
	for !m.state.Finished() {
		if err := ctx.Err(); err != nil {
			return m.finish(err)
		}
		if err := m.Step(); err != nil {
			return err
		}
		if m.state == Suspended {
			return nil
		}
	}
	return m.err
}

// finish moves to Completed (err == nil) or Failed and closes open files.
func (m *Machine) finish(err error) error {
	if open := m.files.OpenFiles(); len(open) > 0 {
		m.log.Debug("closing files", "files", open)
	}
	m.files.CloseAll()
	if err == nil {
		m.state = Completed
		m.log.Debug("completed")
		return nil
	}
	m.state = Failed
	if _, ok := err.(*RuntimeError); !ok && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		pos := m.prog.EndPos
		if m.line > 0 {
			pos = token.Position{Line: m.line, Column: 1}
		}
		err = wrap(pos, err)
	}
	m.err = err
	m.log.Debug("failed", "error", err)
	return err
}

// step runs the statement under the cursor.
func (m *Machine) step() error {
	f := m.top()
	if f.header {
		m.line = f.loop.Pos().Line
		m.log.Debug("exec", "line", f.loop.Pos().Line, "stmt", ast.StmtKind(f.loop), "header", true)
		return m.execHeader(f)
	}

	stmt := f.stmts[f.pc]
	m.line = stmt.Pos().Line
	m.log.Debug("exec", "line", stmt.Pos().Line, "stmt", ast.StmtKind(stmt))
	if in, ok := stmt.(*ast.InputStmt); ok {
		suspended, err := m.execInput(in)
		if err != nil || suspended {
			return err
		}
		f.pc++
		return nil
	}
	f.pc++
	return m.exec(stmt)
}

// runNested runs statements until the frame stack shrinks back to floor.
// Used for function calls inside expressions.
func (m *Machine) runNested(floor int) error {
	m.nested++
	defer func() { m.nested-- }()
	for {
		if err := m.settle(floor); err != nil {
			return err
		}
		if len(m.frames) <= floor {
			return nil
		}
		if err := m.step(); err != nil {
			return err
		}
	}
}

// ValidateInputTarget checks that target is a declared, assignable scalar
// variable that INPUT can store into, and returns its type.
func (m *Machine) ValidateInputTarget(target ast.Expr) (*types.Type, error) {
	r, err := m.resolveRef(target)
	if err != nil {
		return nil, err
	}
	if !r.typ.IsScalar() {
		return nil, errorf(target.Pos(), errInputTarget, "INPUT", r.typ)
	}
	return r.typ, nil
}
