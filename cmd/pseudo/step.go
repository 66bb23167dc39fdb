package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kolkov/pseudocode"
)

var stepTrace bool

var errEndOfInput = errors.New("end of input")

// step: statement-at-a-time execution with interactive INPUT
var stepCmd = &cobra.Command{
	Use:   "step FILE",
	Short: "Run a program one statement at a time",
	Long: `Run a program one statement at a time. When an INPUT statement has no
value queued, pseudo prompts for one. With --trace each statement's line is
written to stderr before it runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}
		e := pseudocode.NewEngine(newConfig(nil))
		if r := e.ParseForExecution(src); !r.Valid {
			printDiagnostics(args[0], r.Diagnostics)
			return &exitError{code: 1}
		}

		p := newPrompter(args[0] == "-")
		defer p.Close()

		for e.HasMoreStatements() {
			info := e.NextStatementInfo()
			if stepTrace {
				fmt.Fprintf(os.Stderr, "-> line %d: %s\n", info.Line, info.Kind)
			}
			if info.IsInput {
				if msg := e.ValidateInputVariable(info.InputVariable); msg != "" {
					printDiagnostics(args[0], []pseudocode.Diagnostic{{Line: info.Line, Message: msg, Kind: pseudocode.KindRuntime}})
					return &exitError{code: 1}
				}
			}

			r := e.ExecuteNextStatement()
			fmt.Print(r.Output)
			if len(r.Diagnostics) > 0 {
				printDiagnostics(args[0], r.Diagnostics)
				return &exitError{code: 1}
			}
			if !r.WaitingForInput {
				continue
			}
			value, err := p.Prompt(r.InputVariable + "? ")
			if errors.Is(err, errEndOfInput) {
				return fmt.Errorf("%w while waiting for INPUT", err)
			}
			if err != nil {
				return err
			}
			e.AddInput(value)
		}
		return nil
	},
}

func init() {
	stepCmd.Flags().BoolVar(&stepTrace, "trace", false, "print each statement's line before it runs")
}

// prompter reads INPUT values, with line editing and history on a
// terminal.
type prompter struct {
	ln *liner.State
	sc *bufio.Scanner
}

// newPrompter uses liner when stdin is a terminal not carrying the
// program itself.
func newPrompter(programOnStdin bool) *prompter {
	if !programOnStdin && term.IsTerminal(int(os.Stdin.Fd())) {
		ln := liner.NewLiner()
		ln.SetCtrlCAborts(true)
		return &prompter{ln: ln}
	}
	return &prompter{sc: bufio.NewScanner(os.Stdin)}
}

// Prompt returns the next input line. Ctrl-C gives an exitError and end of
// input gives errEndOfInput.
func (p *prompter) Prompt(prompt string) (string, error) {
	if p.ln != nil {
		line, err := p.ln.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			return "", &exitError{code: 130}
		case errors.Is(err, io.EOF):
			return "", errEndOfInput
		case err != nil:
			return "", err
		}
		p.ln.AppendHistory(line)
		return line, nil
	}
	fmt.Print(prompt)
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", errEndOfInput
	}
	fmt.Println()
	return strings.TrimRight(p.sc.Text(), "\r"), nil
}

func (p *prompter) Close() {
	if p.ln != nil {
		p.ln.Close()
	}
}
