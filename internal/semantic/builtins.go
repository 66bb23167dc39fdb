package semantic

import (
	"sort"
	"strings"

	"github.com/kolkov/pseudocode/internal/types"
)

// BuiltinInfo describes a built-in function.
type BuiltinInfo struct {
	Name    string      // Function name
	Params  []string    // Parameter names, for signatures
	Returns *types.Type // Result type; nil when it follows the argument
	Doc     string      // One-line description
}

// NumArgs returns the required argument count.
func (b BuiltinInfo) NumArgs() int {
	return len(b.Params)
}

// Signature returns NAME(p1, p2).
func (b BuiltinInfo) Signature() string {
	return b.Name + "(" + strings.Join(b.Params, ", ") + ")"
}

// builtinFuncs maps built-in function names to their descriptions.
// Every built-in takes a fixed number of arguments.
var builtinFuncs = map[string]BuiltinInfo{
	// String functions
	"LENGTH":    {Name: "LENGTH", Params: []string{"string"}, Returns: types.IntegerType, Doc: "Returns the number of characters in a string"},
	"UCASE":     {Name: "UCASE", Params: []string{"string"}, Doc: "Converts a string or character to upper case"},
	"LCASE":     {Name: "LCASE", Params: []string{"string"}, Doc: "Converts a string or character to lower case"},
	"TO_UPPER":  {Name: "TO_UPPER", Params: []string{"string"}, Doc: "Converts a string or character to upper case"},
	"TO_LOWER":  {Name: "TO_LOWER", Params: []string{"string"}, Doc: "Converts a string or character to lower case"},
	"SUBSTRING": {Name: "SUBSTRING", Params: []string{"string", "start", "length"}, Returns: types.StringType, Doc: "Extracts length characters starting at position start (1-based)"},
	"MID":       {Name: "MID", Params: []string{"string", "start", "length"}, Returns: types.StringType, Doc: "Extracts length characters starting at position start (1-based)"},
	"LEFT":      {Name: "LEFT", Params: []string{"string", "count"}, Returns: types.StringType, Doc: "Returns the leftmost count characters of a string"},
	"RIGHT":     {Name: "RIGHT", Params: []string{"string", "count"}, Returns: types.StringType, Doc: "Returns the rightmost count characters of a string"},
	"ASC":       {Name: "ASC", Params: []string{"char"}, Returns: types.IntegerType, Doc: "Returns the character code of a character"},
	"CHR":       {Name: "CHR", Params: []string{"code"}, Returns: types.CharType, Doc: "Returns the character with the given code"},

	// Conversion functions
	"NUM_TO_STR": {Name: "NUM_TO_STR", Params: []string{"number"}, Returns: types.StringType, Doc: "Converts a number to its string representation"},
	"STR_TO_NUM": {Name: "STR_TO_NUM", Params: []string{"string"}, Returns: types.RealType, Doc: "Converts a numeric string to a REAL"},
	"IS_NUM":     {Name: "IS_NUM", Params: []string{"string"}, Returns: types.BooleanType, Doc: "Returns TRUE if the string is a valid number"},

	// Math functions
	"INT":    {Name: "INT", Params: []string{"number"}, Returns: types.IntegerType, Doc: "Returns the integer part of a number, rounding down"},
	"ROUND":  {Name: "ROUND", Params: []string{"number", "places"}, Returns: types.RealType, Doc: "Rounds a number to the given number of decimal places"},
	"RAND":   {Name: "RAND", Params: []string{"x"}, Returns: types.RealType, Doc: "Returns a random REAL in the range 0 to x (not inclusive of x)"},
	"RANDOM": {Name: "RANDOM", Params: nil, Returns: types.RealType, Doc: "Returns a random REAL between 0 and 1"},
	"MOD":    {Name: "MOD", Params: []string{"dividend", "divisor"}, Returns: types.IntegerType, Doc: "Returns the remainder of integer division"},
	"DIV":    {Name: "DIV", Params: []string{"dividend", "divisor"}, Returns: types.IntegerType, Doc: "Returns the quotient of integer division"},

	// Date functions
	"DAY":     {Name: "DAY", Params: []string{"date"}, Returns: types.IntegerType, Doc: "Returns the day number of a date"},
	"MONTH":   {Name: "MONTH", Params: []string{"date"}, Returns: types.IntegerType, Doc: "Returns the month number of a date"},
	"YEAR":    {Name: "YEAR", Params: []string{"date"}, Returns: types.IntegerType, Doc: "Returns the year of a date"},
	"SETDATE": {Name: "SETDATE", Params: []string{"day", "month", "year"}, Returns: types.DateType, Doc: "Builds a DATE from day, month and year"},
	"NOW":     {Name: "NOW", Params: nil, Returns: types.DateType, Doc: "Returns the current date"},

	// File functions
	"EOF": {Name: "EOF", Params: []string{"file"}, Returns: types.BooleanType, Doc: "Returns TRUE if there are no more lines to read from the file"},
}

// IsBuiltinFunc returns true if name is a built-in function (any case).
func IsBuiltinFunc(name string) bool {
	_, ok := builtinFuncs[Key(name)]
	return ok
}

// GetBuiltinInfo returns information about a built-in function.
func GetBuiltinInfo(name string) (BuiltinInfo, bool) {
	info, ok := builtinFuncs[Key(name)]
	return info, ok
}

// Builtins returns every built-in sorted by name.
func Builtins() []BuiltinInfo {
	out := make([]BuiltinInfo, 0, len(builtinFuncs))
	for _, b := range builtinFuncs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
