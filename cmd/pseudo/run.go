package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kolkov/pseudocode"
)

var (
	runInputs  []string
	runFiles   []string
	runTimeout time.Duration
	checkJSON  bool
)

// run: batch execution
var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a program",
	Long: `Run a program in batch mode.

INPUT statements take values from --input flags in order. Without --input,
values are read one per line from stdin when stdin is not a terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}
		inputs := runInputs
		if len(inputs) == 0 && args[0] != "-" && !term.IsTerminal(int(os.Stdin.Fd())) {
			if inputs, err = readLines(os.Stdin); err != nil {
				return err
			}
		}

		stdout := bufio.NewWriter(os.Stdout)
		defer stdout.Flush()
		e := pseudocode.NewEngine(newConfig(stdout))
		if err := seedFiles(e, runFiles); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runTimeout)
			defer cancel()
		}

		res := e.ExecuteContext(ctx, src, inputs)
		if len(res.Diagnostics) > 0 {
			stdout.Flush()
			printDiagnostics(args[0], res.Diagnostics)
			return &exitError{code: 1}
		}
		return nil
	},
}

// check: diagnostics only
var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Report syntax and semantic errors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := pseudocode.NewEngine(newConfig(nil))
		failed := false
		results := make(map[string]pseudocode.SyntaxResult, len(args))
		for _, path := range args {
			src, err := readSource(path)
			if err != nil {
				return err
			}
			r := e.CheckSyntax(src)
			results[path] = r
			if !r.Valid {
				failed = true
				if !checkJSON {
					printDiagnostics(path, r.Diagnostics)
				}
			}
		}
		if checkJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}
		}
		if failed {
			return &exitError{code: 1}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringArrayVarP(&runInputs, "input", "i", nil, "value for the next INPUT statement (repeatable)")
	runCmd.Flags().StringArrayVarP(&runFiles, "file", "f", nil, "seed virtual file NAME from PATH, as NAME=PATH (repeatable)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "stop the program after this long (0 = no limit)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print results as JSON")
}

// readLines reads every line of f, without line endings.
func readLines(f *os.File) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

// seedFiles loads NAME=PATH pairs into the engine's virtual files.
func seedFiles(e *pseudocode.Engine, specs []string) error {
	for _, spec := range specs {
		name, path, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid file %q (expected NAME=PATH)", spec)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read file %s: %w", path, err)
		}
		e.SetVirtualFile(name, string(b))
	}
	return nil
}
