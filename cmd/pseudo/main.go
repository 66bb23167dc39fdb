// pseudo - Cambridge pseudocode interpreter
//
// Runs, checks and steps through pseudocode programs, and answers the
// completion and hover queries an editor would send.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kolkov/pseudocode"
)

// version is set by GoReleaser at build time via -ldflags.
// For development builds, it will be "dev".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbose bool
	noColor bool
	seed    int64
)

var rootCmd = &cobra.Command{
	Use:   "pseudo",
	Short: "pseudo - Cambridge pseudocode interpreter",
	Long: `pseudo runs programs written in Cambridge (CAIE/IGCSE) pseudocode.

Commands:
  run       Run a program, taking INPUT values from --input or stdin
  check     Report every syntax and semantic error in a program
  step      Run a program one statement at a time, prompting at INPUT
  repl      Enter statements interactively
  complete  List completions at a position
  hover     Describe the word at a position
  ast       Print a program in canonical form

Use - as FILE to read the program from stdin.
`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("pseudo version %s\n  commit: %s\n  built:  %s\n", version, commit, date))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each executed statement to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "never colour diagnostics")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "seed for RAND and RANDOM (0 = time based)")

	rootCmd.AddCommand(runCmd, checkCmd, stepCmd, replCmd, completeCmd, hoverCmd, astCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		errorExit(err)
	}
}

// newConfig builds the library configuration from the global flags.
func newConfig(out io.Writer) *pseudocode.Config {
	config := &pseudocode.Config{Output: out, Seed: seed}
	if verbose {
		config.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return config
}

// readSource reads a program from path, or from stdin for "-".
func readSource(path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("cannot read program %s: %w", path, err)
	}
	return string(b), nil
}

// colorStderr reports whether diagnostics on stderr should be coloured.
func colorStderr() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	t := os.Getenv("TERM")
	return t != "" && t != "dumb" && term.IsTerminal(int(os.Stderr.Fd()))
}

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

// printDiagnostics writes one line per diagnostic to stderr, prefixed with
// the program name.
func printDiagnostics(name string, diags []pseudocode.Diagnostic) {
	writeDiagnostics(os.Stderr, name, diags, colorStderr())
}

func writeDiagnostics(w io.Writer, name string, diags []pseudocode.Diagnostic, color bool) {
	for _, d := range diags {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s:%d", name, d.Line)
		if d.Column > 0 {
			fmt.Fprintf(&sb, ":%d", d.Column)
		}
		fmt.Fprintf(&sb, ": %s error: %s", d.Kind, d.Message)
		line := sb.String()
		if color {
			line = red(line)
		}
		fmt.Fprintln(w, line)
	}
}

// exitError carries a process exit code without extra output.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// errorExit prints err and exits with code 1, or with the code carried by
// an exitError.
func errorExit(err error) {
	if e, ok := err.(*exitError); ok {
		os.Exit(e.code)
	}
	fmt.Fprintf(os.Stderr, "pseudo: %v\n", err)
	os.Exit(1)
}
