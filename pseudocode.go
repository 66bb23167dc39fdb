package pseudocode

import (
	"github.com/kolkov/pseudocode/internal/langsvc"
)

// Version is the pseudocode interpreter version string.
const Version = "0.1.0"

// Run compiles and executes a program with the given input values.
// This is a convenience function for one-off execution.
// For repeated execution of the same program, use Compile followed by
// Program.Run.
//
// The error is a *SyntaxError when the program is rejected before it runs
// and a *RuntimeError when it fails while running; in the latter case the
// output produced before the failure is returned too.
//
// Example:
//
//	output, err := pseudocode.Run("DECLARE x : INTEGER\nINPUT x\nOUTPUT x * 2", []string{"21"}, nil)
//	// output: "42\n"
func Run(src string, inputs []string, config *Config) (string, error) {
	prog, err := Compile(src)
	if err != nil {
		return "", err
	}
	return prog.Run(inputs, config)
}

// Completions returns the completion items for the cursor before column
// col (1-based) on line line of src, which may be incomplete. Items are
// filtered by the word being typed and sorted by label.
func Completions(src string, line, col int) []CompletionItem {
	items := langsvc.Completions(src, line, col)
	if items == nil {
		return []CompletionItem{}
	}
	return items
}

// Hover describes the identifier at column col (1-based) on line line of
// src as markdown. It reports false when there is nothing to show.
func Hover(src string, line, col int) (HoverResult, bool) {
	return langsvc.Hover(src, line, col)
}
