package interp

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/pattern"
	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/token"
	"github.com/kolkov/pseudocode/internal/types"
)

// builtinFunc implements a built-in over evaluated arguments. The argument
// count has already been checked.
type builtinFunc func(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error)

var builtins map[string]builtinFunc

func init() {
	builtins = map[string]builtinFunc{
		"LENGTH":     builtinLength,
		"UCASE":      builtinCase(strings.ToUpper),
		"TO_UPPER":   builtinCase(strings.ToUpper),
		"LCASE":      builtinCase(strings.ToLower),
		"TO_LOWER":   builtinCase(strings.ToLower),
		"SUBSTRING":  builtinSubstring,
		"MID":        builtinSubstring,
		"LEFT":       builtinLeft,
		"RIGHT":      builtinRight,
		"ASC":        builtinAsc,
		"CHR":        builtinChr,
		"NUM_TO_STR": builtinNumToStr,
		"STR_TO_NUM": builtinStrToNum,
		"IS_NUM":     builtinIsNum,
		"INT":        builtinInt,
		"ROUND":      builtinRound,
		"RAND":       builtinRand,
		"RANDOM":     builtinRandom,
		"MOD":        builtinIntOp(token.MOD),
		"DIV":        builtinIntOp(token.DIV),
		"DAY":        builtinDatePart(func(t time.Time) int { return t.Day() }),
		"MONTH":      builtinDatePart(func(t time.Time) int { return int(t.Month()) }),
		"YEAR":       builtinDatePart(func(t time.Time) int { return t.Year() }),
		"SETDATE":    builtinSetDate,
		"NOW":        builtinNow,
		"EOF":        builtinEOF,
	}
}

func (m *Machine) callBuiltin(call *ast.CallExpr) (types.Value, error) {
	info, ok := semantic.GetBuiltinInfo(call.Name)
	fn := builtins[semantic.Key(call.Name)]
	if !ok || fn == nil {
		return types.Value{}, errorf(call.NamePos, errUnknownRoutine, call.Name)
	}
	if len(call.Args) != info.NumArgs() {
		return types.Value{}, errorf(call.NamePos, errArgCount, info.Name, info.NumArgs(), len(call.Args))
	}
	args := make([]types.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := m.eval(a)
		if err != nil {
			return types.Value{}, err
		}
		args[i] = v
	}
	return fn(m, call, args)
}

// argError reports an argument of the wrong type.
func argError(call *ast.CallExpr, n int, want string, got types.Value) error {
	return errorf(call.Args[n].Pos(), "%s: argument %d must be %s, got %s",
		strings.ToUpper(call.Name), n+1, want, got.Type())
}

func textArg(call *ast.CallExpr, args []types.Value, n int) (string, error) {
	k := args[n].Kind()
	if k != types.KindString && k != types.KindChar {
		return "", argError(call, n, "STRING", args[n])
	}
	return args[n].AsString(), nil
}

func intArg(call *ast.CallExpr, args []types.Value, n int) (int64, error) {
	if args[n].Kind() != types.KindInteger {
		return 0, argError(call, n, "INTEGER", args[n])
	}
	return args[n].AsInt(), nil
}

func numArg(call *ast.CallExpr, args []types.Value, n int) (float64, error) {
	if !args[n].IsNumeric() {
		return 0, argError(call, n, "a number", args[n])
	}
	return args[n].AsFloat(), nil
}

func dateArg(call *ast.CallExpr, args []types.Value, n int) (time.Time, error) {
	if args[n].Kind() != types.KindDate {
		return time.Time{}, argError(call, n, "DATE", args[n])
	}
	t := args[n].AsDate()
	if t.IsZero() {
		return time.Time{}, errorf(call.Args[n].Pos(), "%s: date has not been set", strings.ToUpper(call.Name))
	}
	return t, nil
}

// String functions

func builtinLength(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	s, err := textArg(call, args, 0)
	if err != nil {
		return types.Value{}, err
	}
	return types.Int(int64(utf8.RuneCountInString(s))), nil
}

// builtinCase converts case, keeping a CHAR argument a CHAR.
func builtinCase(conv func(string) string) builtinFunc {
	return func(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
		s, err := textArg(call, args, 0)
		if err != nil {
			return types.Value{}, err
		}
		out := conv(s)
		if args[0].Kind() == types.KindChar {
			if r, size := utf8.DecodeRuneInString(out); size == len(out) && size > 0 {
				return types.CharOf(r), nil
			}
			return args[0], nil
		}
		return types.Str(out), nil
	}
}

func builtinSubstring(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	s, err := textArg(call, args, 0)
	if err != nil {
		return types.Value{}, err
	}
	start, err := intArg(call, args, 1)
	if err != nil {
		return types.Value{}, err
	}
	length, err := intArg(call, args, 2)
	if err != nil {
		return types.Value{}, err
	}
	if start < 1 {
		return types.Value{}, errorf(call.Args[1].Pos(), "%s: start position must be at least 1, got %d", strings.ToUpper(call.Name), start)
	}
	if length < 0 {
		return types.Value{}, errorf(call.Args[2].Pos(), "%s: length must not be negative, got %d", strings.ToUpper(call.Name), length)
	}
	r := []rune(s)
	from := start - 1
	if from >= int64(len(r)) {
		return types.Str(""), nil
	}
	length = min(length, int64(len(r))-from)
	return types.Str(string(r[from : from+length])), nil
}

func builtinLeft(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	s, n, err := countArgs(call, args)
	if err != nil {
		return types.Value{}, err
	}
	return types.Str(string(s[:n])), nil
}

func builtinRight(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	s, n, err := countArgs(call, args)
	if err != nil {
		return types.Value{}, err
	}
	return types.Str(string(s[len(s)-n:])), nil
}

// countArgs reads the (string, count) arguments of LEFT and RIGHT,
// clamping count to the string length.
func countArgs(call *ast.CallExpr, args []types.Value) ([]rune, int, error) {
	s, err := textArg(call, args, 0)
	if err != nil {
		return nil, 0, err
	}
	n, err := intArg(call, args, 1)
	if err != nil {
		return nil, 0, err
	}
	if n < 0 {
		return nil, 0, errorf(call.Args[1].Pos(), "%s: count must not be negative, got %d", strings.ToUpper(call.Name), n)
	}
	r := []rune(s)
	return r, int(min(n, int64(len(r)))), nil
}

func builtinAsc(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	s, err := textArg(call, args, 0)
	if err != nil {
		return types.Value{}, err
	}
	if utf8.RuneCountInString(s) != 1 {
		return types.Value{}, errorf(call.Args[0].Pos(), "ASC: argument must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return types.Int(int64(r)), nil
}

func builtinChr(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	code, err := intArg(call, args, 0)
	if err != nil {
		return types.Value{}, err
	}
	if code < 0 || code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
		return types.Value{}, errorf(call.Args[0].Pos(), "CHR: %d is not a valid character code", code)
	}
	return types.CharOf(rune(code)), nil
}

// Conversion functions

func builtinNumToStr(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	if !args[0].IsNumeric() {
		return types.Value{}, argError(call, 0, "a number", args[0])
	}
	return types.Str(args[0].String()), nil
}

func builtinStrToNum(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	s, err := textArg(call, args, 0)
	if err != nil {
		return types.Value{}, err
	}
	if !pattern.IsNumber(s) {
		return types.Value{}, errorf(call.Args[0].Pos(), "STR_TO_NUM: %q is not a number", s)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return types.Value{}, errorf(call.Args[0].Pos(), "STR_TO_NUM: %q is not a number", s)
	}
	return types.Float(f), nil
}

func builtinIsNum(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	s, err := textArg(call, args, 0)
	if err != nil {
		return types.Value{}, err
	}
	return types.Bool(pattern.IsNumber(s)), nil
}

// Math functions

func builtinInt(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	if args[0].Kind() == types.KindInteger {
		return args[0], nil
	}
	x, err := numArg(call, args, 0)
	if err != nil {
		return types.Value{}, err
	}
	return types.Int(int64(math.Floor(x))), nil
}

func builtinRound(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	x, err := numArg(call, args, 0)
	if err != nil {
		return types.Value{}, err
	}
	places, err := intArg(call, args, 1)
	if err != nil {
		return types.Value{}, err
	}
	mult := math.Pow(10, float64(places))
	return types.Float(math.Round(x*mult) / mult), nil
}

func builtinRand(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	x, err := numArg(call, args, 0)
	if err != nil {
		return types.Value{}, err
	}
	if x <= 0 {
		return types.Value{}, errorf(call.Args[0].Pos(), "RAND: upper limit must be positive, got %s", args[0])
	}
	return types.Float(m.randSource.Float64() * x), nil
}

func builtinRandom(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	return types.Float(m.randSource.Float64()), nil
}

// builtinIntOp implements MOD and DIV called as functions.
func builtinIntOp(op token.Token) builtinFunc {
	return func(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
		v, err := types.Arith(op, args[0], args[1])
		return v, wrap(call.Pos(), err)
	}
}

// Date functions

func builtinDatePart(part func(time.Time) int) builtinFunc {
	return func(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
		t, err := dateArg(call, args, 0)
		if err != nil {
			return types.Value{}, err
		}
		return types.Int(int64(part(t))), nil
	}
}

func builtinSetDate(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	var dmy [3]int64
	for i := range dmy {
		n, err := intArg(call, args, i)
		if err != nil {
			return types.Value{}, err
		}
		dmy[i] = n
	}
	day, month, year := dmy[0], dmy[1], dmy[2]
	t := time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range parts; reject instead.
	if month < 1 || month > 12 || t.Day() != int(day) || int64(t.Month()) != month || int64(t.Year()) != year {
		return types.Value{}, errorf(call.Pos(), "SETDATE: %d/%d/%d is not a valid date", day, month, year)
	}
	return types.DateOf(t), nil
}

func builtinNow(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	return types.DateOf(m.now()), nil
}

// File functions

func builtinEOF(m *Machine, call *ast.CallExpr, args []types.Value) (types.Value, error) {
	if args[0].Kind() != types.KindString {
		return types.Value{}, errorf(call.Args[0].Pos(), errFileName, args[0].Type())
	}
	eof, err := m.files.EOF(args[0].AsString())
	if err != nil {
		return types.Value{}, errorf(call.Pos(), "%v", err)
	}
	return types.Bool(eof), nil
}
