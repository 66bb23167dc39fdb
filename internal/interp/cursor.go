package interp

import (
	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/types"
)

// frameKind distinguishes the statement lists on the cursor stack.
type frameKind uint8

const (
	frameBlock frameKind = iota // program body, IF branch or CASE clause
	frameLoop                   // WHILE, REPEAT or FOR body
	frameCall                   // routine body
)

var frameKindNames = [...]string{
	frameBlock: "block",
	frameLoop:  "loop",
	frameCall:  "call",
}

func (k frameKind) String() string {
	return frameKindNames[k]
}

// frame is one level of the execution cursor: a statement list and the
// index of the next statement to run in it.
type frame struct {
	kind  frameKind
	stmts []ast.Stmt
	pc    int

	// Loop frames. header is set when the body has finished and the next
	// step re-tests the condition (WHILE, REPEAT) or advances the counter
	// (FOR).
	loop    ast.Stmt
	header  bool
	counter *types.Value
	limit   int64
	step    int64

	// Call frames.
	call *activation
}

// activation is the state of one routine call.
type activation struct {
	sym    *semantic.Symbol
	locals *env
	result types.Value
	nested bool // called from an expression; runs to completion in one step
}

func (m *Machine) top() *frame {
	return m.frames[len(m.frames)-1]
}

func (m *Machine) push(f *frame) {
	m.frames = append(m.frames, f)
}

func (m *Machine) pop() *frame {
	f := m.top()
	m.frames[len(m.frames)-1] = nil
	m.frames = m.frames[:len(m.frames)-1]
	if f.kind == frameCall {
		m.depth--
	}
	return f
}

// activation returns the innermost active call, or nil at top level.
func (m *Machine) activation() *activation {
	for i := len(m.frames) - 1; i >= 0; i-- {
		if m.frames[i].call != nil {
			return m.frames[i].call
		}
	}
	return nil
}

// current returns the statement the cursor points at. For a loop frame at
// its header that is the loop statement itself.
func (m *Machine) current() (ast.Stmt, bool) {
	if len(m.frames) == 0 {
		return nil, false
	}
	f := m.top()
	if f.header {
		return f.loop, true
	}
	if f.pc < len(f.stmts) {
		return f.stmts[f.pc], true
	}
	return nil, false
}

// settle advances the cursor until it points at a statement that does
// something: hoisted declarations are skipped, finished branches are
// popped, finished loop bodies move to their header, and routines that ran
// off the end of their body return. Frames below floor are left alone.
func (m *Machine) settle(floor int) error {
	for len(m.frames) > floor {
		f := m.top()
		if f.header {
			return nil
		}
		if f.pc < len(f.stmts) {
			if ast.IsDeclarationOnly(f.stmts[f.pc]) {
				f.pc++
				continue
			}
			return nil
		}
		switch f.kind {
		case frameBlock:
			m.pop()
		case frameLoop:
			f.header = true
			return nil
		case frameCall:
			sym := f.call.sym
			if sym.Kind == semantic.SymbolFunction {
				return errorf(sym.Decl.End(), errNoReturn, sym.Name)
			}
			m.pop()
		}
	}
	return nil
}

// unwind pops frames up to and including the innermost frame of kind k.
func (m *Machine) unwind(k frameKind) *frame {
	for len(m.frames) > 0 {
		if f := m.pop(); f.kind == k {
			return f
		}
	}
	return nil
}

// Cursor is a plain-data snapshot of the execution position, outermost
// frame first.
type Cursor struct {
	Frames []FrameInfo
	Files  []OpenFile // files open at this point, by name
}

// OpenFile is a file opened by the program and not yet closed.
type OpenFile struct {
	Name string
	Mode string // READ, WRITE, APPEND or RANDOM
}

// FrameInfo describes one cursor frame.
type FrameInfo struct {
	Kind    string // "block", "loop" or "call"
	Routine string // routine name for call frames
	Line    int    // line of the statement the frame will run next
	Index   int    // index of that statement in the frame's list
	Len     int    // length of the frame's statement list

	// Loop frames
	Loop     string // WHILE, REPEAT or FOR
	AtHeader bool
	Counter  int64 // FOR only
	Limit    int64
	Step     int64
}

// Cursor returns a snapshot of the execution position.
func (m *Machine) Cursor() Cursor {
	c := Cursor{Frames: make([]FrameInfo, 0, len(m.frames))}
	for _, f := range m.frames {
		fi := FrameInfo{Kind: f.kind.String(), Index: f.pc, Len: len(f.stmts)}
		switch {
		case f.header:
			fi.Line = f.loop.Pos().Line
		case f.pc < len(f.stmts):
			fi.Line = f.stmts[f.pc].Pos().Line
		}
		if f.call != nil {
			fi.Routine = f.call.sym.Name
		}
		if f.kind == frameLoop {
			fi.Loop = ast.StmtKind(f.loop)
			fi.AtHeader = f.header
			if f.counter != nil {
				fi.Counter = f.counter.AsInt()
				fi.Limit = f.limit
				fi.Step = f.step
			}
		}
		c.Frames = append(c.Frames, fi)
	}
	for _, name := range m.files.OpenFiles() {
		mode, _ := m.files.IsOpen(name)
		c.Files = append(c.Files, OpenFile{Name: name, Mode: mode.String()})
	}
	return c
}
