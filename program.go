package pseudocode

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/interp"
	"github.com/kolkov/pseudocode/internal/parser"
	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/vfs"
)

// Program represents a checked pseudocode program ready for execution.
// It is safe for concurrent use; each call to Run creates an independent
// execution context.
type Program struct {
	ast    *ast.Program
	res    *semantic.ResolveResult
	source string
}

// Compile parses and checks a program. Every lexical and syntax error is
// reported; semantic checks run only on a program that parsed cleanly.
// The error, if any, is a *SyntaxError.
func Compile(src string) (*Program, error) {
	prog, diags := compile(src)
	if len(diags) > 0 {
		return nil, &SyntaxError{Diagnostics: diags}
	}
	return prog, nil
}

// MustCompile is like Compile but panics if the program cannot be compiled.
func MustCompile(src string) *Program {
	prog, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return prog
}

func compile(src string) (*Program, []Diagnostic) {
	astProg, errs := parser.ParseTolerant(src)
	if len(errs) > 0 {
		return nil, syntaxDiagnostics(errs)
	}
	res, err := semantic.Check(astProg)
	if err != nil {
		return nil, semanticDiagnostics(err)
	}
	return &Program{ast: astProg, res: res, source: src}, nil
}

// Run executes the program in batch mode. inputs are consumed in order
// by INPUT statements; running out of input is a runtime error. Files are
// held in a fresh virtual file system for the duration of the run.
//
// The output produced before a runtime error is returned together with
// the *RuntimeError.
func (p *Program) Run(inputs []string, config *Config) (string, error) {
	return p.RunContext(context.Background(), inputs, config)
}

// RunContext is like Run but stops with a *RuntimeError wrapping ctx.Err()
// when ctx is done. ctx is checked between statements.
func (p *Program) RunContext(ctx context.Context, inputs []string, config *Config) (string, error) {
	return p.run(ctx, inputs, config, vfs.New())
}

func (p *Program) run(ctx context.Context, inputs []string, config *Config, files *vfs.FS) (out string, err error) {
	if config == nil {
		config = &Config{}
	}
	c := *config
	c.applyDefaults()

	var buf bytes.Buffer
	m := p.newMachine(&c, outputWriter(&buf, c.Output), files, false)
	for _, in := range inputs {
		m.AddInput(in)
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = buf.String(), internalError(r, failLine(m))
		}
	}()
	if runErr := m.Run(ctx); runErr != nil {
		return buf.String(), runtimeError(runErr, failLine(m))
	}
	return buf.String(), nil
}

// newMachine creates an interpreter for the program.
func (p *Program) newMachine(c *Config, out io.Writer, files *vfs.FS, interactive bool) *interp.Machine {
	return interp.New(p.ast, p.res, interp.Config{
		Output:      out,
		Files:       files,
		Logger:      c.Logger,
		Seed:        c.Seed,
		Now:         c.Now,
		Interactive: interactive,
	})
}

// String returns the program in canonical form.
func (p *Program) String() string {
	return ast.String(p.ast)
}

// Source returns the original source code.
func (p *Program) Source() string {
	return p.source
}

// outputWriter captures into buf and also streams to extra when set.
func outputWriter(buf *bytes.Buffer, extra io.Writer) io.Writer {
	if extra == nil {
		return buf
	}
	return io.MultiWriter(buf, extra)
}

// failLine returns the line of the statement the machine was running when
// it stopped, or 0.
func failLine(m *interp.Machine) int {
	if m == nil {
		return 0
	}
	return m.Line()
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
