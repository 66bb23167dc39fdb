package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kolkov/pseudocode"
)

const replHelp = `Commands:
  exit, quit  leave the interpreter
  help        show this help
  clear       forget everything entered so far

Enter any statements. A block such as IF or FOR continues on the next
line until it is closed; an empty line ends the entry early.
`

// repl: interactive session
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Enter statements interactively",
	Long: `Enter statements interactively. Declarations, routines and values
persist from one entry to the next. Each entry is run after replaying the
entries before it with their output hidden, so the replay repeats INPUT
values already given and file contents already written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := newPrompter(false)
		defer p.Close()
		fmt.Println("Pseudocode interactive interpreter. Type help for commands, exit to leave.")
		s := newSession(os.Stdout, os.Stderr, p.Prompt)
		s.color = colorStderr()
		return s.loop()
	},
}

// session holds the entries of a repl run.
type session struct {
	history []string // entries that ran without error
	inputs  []string // INPUT values those entries consumed, in order
	seed    int64

	out, errOut io.Writer
	color       bool
	prompt      func(string) (string, error)
}

// newSession fixes the random seed for the whole session so replays draw
// the same numbers.
func newSession(out, errOut io.Writer, prompt func(string) (string, error)) *session {
	s := &session{out: out, errOut: errOut, prompt: prompt, seed: seed}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	return s
}

// loop reads and runs entries until exit or end of input.
func (s *session) loop() error {
	for {
		entry, err := s.read()
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(entry)) {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Fprint(s.out, replHelp)
			continue
		case "clear":
			s.history, s.inputs = nil, nil
			fmt.Fprintln(s.out, "Session cleared.")
			continue
		}
		if err := s.eval(entry); err != nil {
			return err
		}
	}
}

func isCommand(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit", "help", "clear":
		return true
	}
	return false
}

// read collects one entry. Lines are added while the text so far is only
// missing its end; an empty line ends the entry early.
func (s *session) read() (string, error) {
	var lines []string
	for {
		prompt := ">>> "
		if len(lines) > 0 {
			prompt = "... "
		}
		line, err := s.prompt(prompt)
		if err != nil {
			if len(lines) > 0 && errors.Is(err, errEndOfInput) {
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}
		if strings.TrimSpace(line) == "" {
			if len(lines) == 0 {
				continue
			}
			return strings.Join(lines, "\n"), nil
		}
		if len(lines) == 0 && isCommand(line) {
			return line, nil
		}
		lines = append(lines, line)
		if entry := strings.Join(lines, "\n"); !incomplete(entry) {
			return entry, nil
		}
	}
}

// incomplete reports whether src fails to parse only because input ended
// too early, as in an IF without its ENDIF.
func incomplete(src string) bool {
	for _, d := range pseudocode.NewEngine(nil).CheckSyntax(src).Diagnostics {
		if d.Kind == pseudocode.KindSyntax && strings.HasSuffix(d.Message, "got end of file") {
			return true
		}
	}
	return false
}

// eval runs entry after the session's history. Output is shown from the
// first statement of entry on. An entry that fails is reported and
// dropped.
func (s *session) eval(entry string) error {
	offset := 0
	for _, h := range s.history {
		offset += strings.Count(h, "\n") + 1
	}
	src := strings.Join(append(slices.Clone(s.history), entry), "\n")

	config := newConfig(nil)
	config.Seed = s.seed
	e := pseudocode.NewEngine(config)
	if r := e.ParseForExecution(src); !r.Valid {
		s.report(r.Diagnostics, offset)
		return nil
	}
	for _, in := range s.inputs {
		e.AddInput(in)
	}

	var given []string
	live := false
	for e.HasMoreStatements() {
		if e.NextStatementInfo().Line > offset {
			live = true
		}
		r := e.ExecuteNextStatement()
		if live {
			fmt.Fprint(s.out, r.Output)
		}
		if len(r.Diagnostics) > 0 {
			s.report(r.Diagnostics, offset)
			return nil
		}
		if !r.WaitingForInput {
			continue
		}
		value, err := s.prompt(r.InputVariable + "? ")
		if errors.Is(err, errEndOfInput) {
			return fmt.Errorf("%w while waiting for INPUT", err)
		}
		if err != nil {
			return err
		}
		given = append(given, value)
		e.AddInput(value)
	}
	s.history = append(s.history, entry)
	s.inputs = append(s.inputs, given...)
	return nil
}

// report prints diagnostics with lines counted from the start of the
// current entry.
func (s *session) report(diags []pseudocode.Diagnostic, offset int) {
	shifted := make([]pseudocode.Diagnostic, len(diags))
	for i, d := range diags {
		if d.Line > offset {
			d.Line -= offset
		}
		shifted[i] = d
	}
	writeDiagnostics(s.errOut, "<input>", shifted, s.color)
}
