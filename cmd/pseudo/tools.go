package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kolkov/pseudocode"
)

var toolJSON bool

// complete: completion items at LINE COL
var completeCmd = &cobra.Command{
	Use:   "complete FILE LINE COL",
	Short: "List completions at a position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, line, col, err := positionArgs(args)
		if err != nil {
			return err
		}
		items := pseudocode.Completions(src, line, col)
		if toolJSON {
			return printJSON(items)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", it.Label, it.Kind, it.Detail)
		}
		return w.Flush()
	},
}

// hover: description of the word at LINE COL
var hoverCmd = &cobra.Command{
	Use:   "hover FILE LINE COL",
	Short: "Describe the word at a position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, line, col, err := positionArgs(args)
		if err != nil {
			return err
		}
		h, ok := pseudocode.Hover(src, line, col)
		if !ok {
			return &exitError{code: 1}
		}
		if toolJSON {
			return printJSON(h)
		}
		fmt.Println(h.Contents)
		return nil
	},
}

// ast: canonical form of a program
var astCmd = &cobra.Command{
	Use:   "ast FILE",
	Short: "Print a program in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}
		prog, err := pseudocode.Compile(src)
		if err != nil {
			if se, ok := err.(*pseudocode.SyntaxError); ok {
				printDiagnostics(args[0], se.Diagnostics)
				return &exitError{code: 1}
			}
			return err
		}
		fmt.Print(prog.String())
		return nil
	},
}

func init() {
	completeCmd.Flags().BoolVar(&toolJSON, "json", false, "print results as JSON")
	hoverCmd.Flags().BoolVar(&toolJSON, "json", false, "print results as JSON")
}

// positionArgs reads FILE LINE COL.
func positionArgs(args []string) (src string, line, col int, err error) {
	if src, err = readSource(args[0]); err != nil {
		return "", 0, 0, err
	}
	if line, err = strconv.Atoi(args[1]); err != nil {
		return "", 0, 0, fmt.Errorf("invalid line %q", args[1])
	}
	if col, err = strconv.Atoi(args[2]); err != nil {
		return "", 0, 0, fmt.Errorf("invalid column %q", args[2])
	}
	return src, line, col, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
