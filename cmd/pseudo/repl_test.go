package main

import (
	"bytes"
	"strings"
	"testing"
)

// script answers prompts from lines, then reports end of input.
type script struct {
	lines   []string
	prompts []string
}

func (s *script) prompt(p string) (string, error) {
	s.prompts = append(s.prompts, p)
	if len(s.lines) == 0 {
		return "", errEndOfInput
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func runSession(t *testing.T, lines ...string) (out, errOut string, sc *script) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	sc = &script{lines: lines}
	s := newSession(&stdout, &stderr, sc.prompt)
	s.seed = 1
	if err := s.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	return stdout.String(), stderr.String(), sc
}

func TestSession(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"output is not repeated", []string{`OUTPUT "a"`, `OUTPUT "b"`}, "a\nb\n"},
		{"variables persist", []string{"DECLARE n : INTEGER", "n <- 4", "OUTPUT n * 2"}, "8\n"},
		{"block continues until closed", []string{"DECLARE i : INTEGER", "FOR i <- 1 TO 3", "  OUTPUT i", "NEXT i"}, "1\n2\n3\n"},
		{"routines persist", []string{
			"FUNCTION Twice(N : INTEGER) RETURNS INTEGER",
			"  RETURN N * 2",
			"ENDFUNCTION",
			"OUTPUT Twice(21)",
		}, "42\n"},
		{"exit stops reading", []string{`OUTPUT "x"`, "exit", `OUTPUT "y"`}, "x\n"},
		{"blank lines are skipped", []string{"", "  ", `OUTPUT 1`}, "1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, _ := runSession(t, tt.lines...)
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
			if errOut != "" {
				t.Errorf("unexpected diagnostics: %s", errOut)
			}
		})
	}
}

func TestSessionFailedEntryIsDropped(t *testing.T) {
	out, errOut, _ := runSession(t,
		"DECLARE a : INTEGER",
		"a <- 5",
		"OUTPUT 1 DIV 0",
		"OUTPUT a",
	)
	if out != "5\n" {
		t.Errorf("output = %q, want %q", out, "5\n")
	}
	if !strings.Contains(errOut, "<input>:1") || !strings.Contains(errOut, "division by zero") {
		t.Errorf("diagnostics = %q, want division by zero on line 1 of the entry", errOut)
	}
}

func TestSessionInput(t *testing.T) {
	out, errOut, sc := runSession(t,
		"DECLARE name : STRING",
		"INPUT name",
		"Ada",
		`OUTPUT "Hi ", name`,
	)
	if out != "Hi Ada\n" {
		t.Errorf("output = %q, want %q", out, "Hi Ada\n")
	}
	if errOut != "" {
		t.Errorf("unexpected diagnostics: %s", errOut)
	}
	asked := 0
	for _, p := range sc.prompts {
		if p == "name? " {
			asked++
		}
	}
	if asked != 1 {
		t.Errorf("prompted for name %d times, want once (prompts %q)", asked, sc.prompts)
	}
}

func TestSessionClear(t *testing.T) {
	out, errOut, _ := runSession(t,
		"DECLARE x : INTEGER",
		"clear",
		"DECLARE x : STRING",
		`x <- "ok"`,
		"OUTPUT x",
	)
	if out != "Session cleared.\nok\n" {
		t.Errorf("output = %q", out)
	}
	if errOut != "" {
		t.Errorf("unexpected diagnostics: %s", errOut)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"OUTPUT 1", false},
		{"IF TRUE THEN", true},
		{"WHILE FALSE DO\n  OUTPUT 1", true},
		{"PROCEDURE P()", true},
		{"OUTPUT 1\nOUTPUT 2", false},
		{"FOR i <- 1 TO 3\n  OUTPUT i\nNEXT i", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := incomplete(tt.src); got != tt.want {
				t.Errorf("incomplete(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}
