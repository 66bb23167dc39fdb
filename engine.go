package pseudocode

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/interp"
	"github.com/kolkov/pseudocode/internal/langsvc"
	"github.com/kolkov/pseudocode/internal/parser"
	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/vfs"
)

// State is the execution state of a step-wise run.
type State = interp.State

const (
	NotStarted = interp.NotStarted
	Running    = interp.Running
	Suspended  = interp.Suspended
	Completed  = interp.Completed
	Failed     = interp.Failed
)

// Cursor is a snapshot of the step-wise execution position.
type Cursor = interp.Cursor

// FrameInfo describes one frame of a Cursor.
type FrameInfo = interp.FrameInfo

// OpenFile is a virtual file the step-wise run has open.
type OpenFile = interp.OpenFile

// SyntaxResult reports whether a program is ready to run.
type SyntaxResult struct {
	Valid       bool         `json:"valid"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// ExecResult is the outcome of a batch run.
type ExecResult struct {
	Output      string       `json:"output"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// StatementInfo describes the statement the next step will run.
type StatementInfo struct {
	Line          int    `json:"line"`
	Kind          string `json:"kind"`
	IsInput       bool   `json:"is_input"`
	InputVariable string `json:"input_variable,omitempty"`
}

// StepResult is the outcome of one step.
type StepResult struct {
	Output      string       `json:"output"` // text written by this step only
	Diagnostics []Diagnostic `json:"diagnostics"`
	State       string       `json:"state"`

	// Set when the step stopped at an INPUT with nothing queued.
	WaitingForInput bool   `json:"waiting_for_input,omitempty"`
	InputVariable   string `json:"input_variable,omitempty"`
}

var errNotPrepared = errors.New("no program is ready to run; call ParseForExecution first")

// Engine runs pseudocode programs for an embedding such as an editor. It
// owns a virtual file system that lives as long as the Engine and one
// step-wise session at a time.
//
// An Engine is not safe for concurrent use, except that virtual files may
// be read and written from any goroutine.
type Engine struct {
	config Config
	files  *vfs.FS

	// Step-wise session
	res     *semantic.ResolveResult
	machine *interp.Machine
	out     bytes.Buffer
	inputs  []string // queued before ParseForExecution
}

// NewEngine creates an Engine. config may be nil.
func NewEngine(config *Config) *Engine {
	var c Config
	if config != nil {
		c = *config
	}
	c.applyDefaults()
	return &Engine{config: c, files: vfs.New()}
}

// CheckSyntax lexes, parses and checks src without running it. All
// lexical and syntax diagnostics are reported; semantic diagnostics are
// added when the program parses cleanly.
func (e *Engine) CheckSyntax(src string) SyntaxResult {
	_, diags := compile(src)
	e.config.Logger.Debug("check", "diagnostics", len(diags))
	return SyntaxResult{Valid: len(diags) == 0, Diagnostics: nonNil(diags)}
}

// Execute runs src in batch mode with the given input values. Runtime
// failures stop execution; the output produced until then is returned.
func (e *Engine) Execute(src string, inputs []string) ExecResult {
	return e.ExecuteContext(context.Background(), src, inputs)
}

// ExecuteContext is like Execute but stops when ctx is done.
func (e *Engine) ExecuteContext(ctx context.Context, src string, inputs []string) ExecResult {
	prog, diags := compile(src)
	if len(diags) > 0 {
		return ExecResult{Diagnostics: diags}
	}
	out, err := prog.run(ctx, inputs, &e.config, e.files)
	res := ExecResult{Output: out, Diagnostics: []Diagnostic{}}
	var re *RuntimeError
	if errors.As(err, &re) {
		res.Diagnostics = append(res.Diagnostics, re.Diagnostic())
	}
	return res
}

// ParseForExecution prepares a step-wise run of src, discarding any
// previous session. Inputs queued with AddInput while no run was active
// are kept.
func (e *Engine) ParseForExecution(src string) SyntaxResult {
	e.machine = nil
	e.res = nil
	e.out.Reset()

	astProg, errs := parser.ParseTolerant(src)
	if len(errs) > 0 {
		return SyntaxResult{Diagnostics: syntaxDiagnostics(errs)}
	}
	res, err := semantic.Check(astProg)
	e.res = res
	if err != nil {
		return SyntaxResult{Diagnostics: semanticDiagnostics(err)}
	}

	prog := &Program{ast: astProg, res: res, source: src}
	e.machine = prog.newMachine(&e.config, outputWriter(&e.out, e.config.Output), e.files, true)
	for _, in := range e.inputs {
		e.machine.AddInput(in)
	}
	e.inputs = nil
	e.config.Logger.Debug("prepared", "statements", len(astProg.Stmts))
	return SyntaxResult{Valid: true, Diagnostics: []Diagnostic{}}
}

// HasMoreStatements reports whether ExecuteNextStatement has work to do.
func (e *Engine) HasMoreStatements() bool {
	return e.machine != nil && e.machine.HasMore()
}

// NextStatementInfo describes the statement the next step will run. The
// zero value is returned when there is none.
func (e *Engine) NextStatementInfo() StatementInfo {
	if e.machine == nil {
		return StatementInfo{}
	}
	stmt, ok := e.machine.Next()
	if !ok {
		return StatementInfo{}
	}
	info := StatementInfo{Line: stmt.Pos().Line, Kind: ast.StmtKind(stmt)}
	if in, ok := stmt.(*ast.InputStmt); ok {
		info.IsInput = true
		info.InputVariable = ast.ExprString(in.Target)
	}
	return info
}

// ValidateInputVariable checks that name, a variable, array element or
// record field, can receive INPUT at the current position. It returns an
// empty string when it can, and otherwise the reason it cannot. An
// embedding must not prompt for a value when the result is non-empty.
func (e *Engine) ValidateInputVariable(name string) (msg string) {
	target, err := parser.ParseExpr(name)
	if err != nil || !ast.IsLValue(target) {
		return fmt.Sprintf("%q is not a variable", name)
	}
	if e.machine == nil || e.machine.State().Finished() {
		return e.validateStatic(target)
	}
	defer func() {
		if r := recover(); r != nil {
			msg = internalError(r, 0).Message
		}
	}()
	if _, err := e.machine.ValidateInputTarget(target); err != nil {
		var re *interp.RuntimeError
		if errors.As(err, &re) {
			return re.Message
		}
		return err.Error()
	}
	return ""
}

// validateStatic checks an INPUT target against the globals of the last
// program given to ParseForExecution.
func (e *Engine) validateStatic(target ast.Expr) string {
	id := ast.RootIdent(target)
	if e.res == nil || id == nil {
		return errNotPrepared.Error()
	}
	sym, ok := e.res.Globals.Lookup(id.Name)
	if !ok {
		return fmt.Sprintf("undeclared identifier %q", id.Name)
	}
	if sym.Kind != semantic.SymbolVariable && sym.Kind != semantic.SymbolParameter {
		return fmt.Sprintf("%s is a %s, not a variable", sym.Name, sym.Kind)
	}
	if _, isIdent := target.(*ast.Ident); isIdent && !sym.Type.IsScalar() {
		return fmt.Sprintf("cannot INPUT into %s", sym.Type)
	}
	return ""
}

// ExecuteNextStatement runs one statement of the prepared program. When
// the statement is an INPUT and no value is queued, the run suspends:
// queue a value with AddInput and call ExecuteNextStatement again.
func (e *Engine) ExecuteNextStatement() (res StepResult) {
	m := e.machine
	if m == nil {
		return StepResult{
			Diagnostics: []Diagnostic{{Message: errNotPrepared.Error(), Kind: KindRuntime}},
			State:       NotStarted.String(),
		}
	}
	e.out.Reset()
	res.Diagnostics = []Diagnostic{}

	defer func() {
		if r := recover(); r != nil {
			res.Output = e.out.String()
			res.Diagnostics = append(res.Diagnostics, internalError(r, failLine(m)).Diagnostic())
			res.State = Failed.String()
			e.machine = nil
		}
	}()

	err := m.Step()
	res.Output = e.out.String()
	res.State = m.State().String()
	switch {
	case errors.Is(err, interp.ErrFinished):
	case err != nil:
		res.Diagnostics = append(res.Diagnostics, runtimeError(err, failLine(m)).Diagnostic())
	}
	if in, ok := m.Waiting(); ok {
		res.WaitingForInput = true
		res.InputVariable = ast.ExprString(in.Target)
	}
	return res
}

// AddInput queues one input value for INPUT statements.
func (e *Engine) AddInput(value string) {
	if e.machine != nil && !e.machine.State().Finished() {
		e.machine.AddInput(value)
		return
	}
	e.inputs = append(e.inputs, value)
}

// ClearInputs drops all queued input values.
func (e *Engine) ClearInputs() {
	e.inputs = nil
	if e.machine != nil {
		e.machine.ClearInputs()
	}
}

// State returns the state of the step-wise session. Before a successful
// ParseForExecution it is NotStarted.
func (e *Engine) State() State {
	if e.machine == nil {
		return NotStarted
	}
	return e.machine.State()
}

// Cursor returns the step-wise execution position.
func (e *Engine) Cursor() Cursor {
	if e.machine == nil {
		return Cursor{}
	}
	return e.machine.Cursor()
}

// VirtualFile returns the contents of a virtual file.
func (e *Engine) VirtualFile(name string) (string, bool) {
	return e.files.Get(name)
}

// SetVirtualFile creates or replaces a virtual file.
func (e *Engine) SetVirtualFile(name, text string) {
	e.files.Set(name, text)
}

// RemoveVirtualFile deletes a virtual file.
func (e *Engine) RemoveVirtualFile(name string) {
	e.files.Remove(name)
}

// VirtualFiles returns the names of all virtual files, sorted.
func (e *Engine) VirtualFiles() []string {
	return e.files.Names()
}

// Completions returns completion items for the cursor at line and column
// of src. See the package-level Completions.
func (e *Engine) Completions(src string, line, col int) []CompletionItem {
	return Completions(src, line, col)
}

// Hover describes the word at line and column of src.
func (e *Engine) Hover(src string, line, col int) (HoverResult, bool) {
	return Hover(src, line, col)
}

// CompletionItem is one completion suggestion.
type CompletionItem = langsvc.CompletionItem

// ItemKind classifies a CompletionItem.
type ItemKind = langsvc.ItemKind

const (
	ItemKeyword  = langsvc.KindKeyword
	ItemFunction = langsvc.KindFunction
	ItemVariable = langsvc.KindVariable
	ItemConstant = langsvc.KindConstant
	ItemType     = langsvc.KindType
)

// HoverResult is markdown describing the word under the cursor.
type HoverResult = langsvc.HoverResult

func nonNil(diags []Diagnostic) []Diagnostic {
	if diags == nil {
		return []Diagnostic{}
	}
	return diags
}
