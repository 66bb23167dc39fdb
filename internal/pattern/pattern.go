// Package pattern wraps coregex for the fixed patterns the engine matches
// source text and input against: numeric literals for IS_NUM and
// STR_TO_NUM, and the line shapes the language service classifies.
package pattern

import (
	"strings"

	"github.com/coregx/coregex"
)

// Regex is a compiled pattern.
type Regex struct {
	re *coregex.Regexp
}

// Compile compiles pattern. Matching is case-insensitive when fold is true,
// since pseudocode keywords are.
func Compile(pattern string, fold bool) (*Regex, error) {
	src := pattern
	if fold {
		src = "(?i)" + pattern
	}
	re, err := coregex.Compile(src)
	if err != nil {
		return nil, err
	}
	return &Regex{re: re}, nil
}

// MustCompile is like Compile but panics on error. Use for package-level
// patterns.
func MustCompile(pattern string, fold bool) *Regex {
	re, err := Compile(pattern, fold)
	if err != nil {
		panic(err)
	}
	return re
}

// MatchString reports whether s contains a match.
func (r *Regex) MatchString(s string) bool {
	return r.re.MatchString(s)
}

// FindLastIndex returns the location of the rightmost non-overlapping
// match, or nil.
func (r *Regex) FindLastIndex(s string) []int {
	all := r.re.FindAllStringIndex(s, -1)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

// Number matches a whole pseudocode number as typed by a user: optional
// sign, digits, optional fraction.
var Number = MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]+)?|\.[0-9]+)$`, false)

// IsNumber reports whether s, ignoring surrounding blanks, is a number.
func IsNumber(s string) bool {
	return Number.MatchString(strings.TrimSpace(s))
}
