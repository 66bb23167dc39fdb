package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the display and input format of DATE values.
const DateLayout = "02/01/2006"

// Value represents a pseudocode runtime value.
// Uses tagged union pattern; scalar values are plain data, arrays and
// records are held by pointer and copied explicitly with Clone.
type Value struct {
	kind Kind
	i    int64 // INTEGER, CHAR (as rune), BOOLEAN (0/1)
	f    float64
	s    string
	t    time.Time
	arr  *Array
	rec  *Record
}

// Array is the backing store of an array value, in row-major order.
type Array struct {
	Type  *Type
	Elems []Value
}

// Record holds the field values of a record, in declaration order.
type Record struct {
	Type   *Type
	Fields []Value
}

// Constructors

// Int creates an INTEGER value.
func Int(n int64) Value {
	return Value{kind: KindInteger, i: n}
}

// Float creates a REAL value.
func Float(f float64) Value {
	return Value{kind: KindReal, f: f}
}

// Str creates a STRING value.
func Str(s string) Value {
	return Value{kind: KindString, s: s}
}

// CharOf creates a CHAR value.
func CharOf(r rune) Value {
	return Value{kind: KindChar, i: int64(r)}
}

// Bool creates a BOOLEAN value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBoolean, i: 1}
	}
	return Value{kind: KindBoolean}
}

// DateOf creates a DATE value, dropping the time of day.
func DateOf(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Zero returns the initial value of a freshly declared variable of type t:
// 0, 0.0, "", the NUL char, FALSE, an unset date, and element-wise zero
// for arrays and records.
func Zero(t *Type) Value {
	switch t.Kind {
	case KindInteger:
		return Int(0)
	case KindReal:
		return Float(0)
	case KindString:
		return Str("")
	case KindChar:
		return CharOf(0)
	case KindBoolean:
		return Bool(false)
	case KindDate:
		return Value{kind: KindDate}
	case KindArray:
		arr := &Array{Type: t, Elems: make([]Value, t.Size())}
		for i := range arr.Elems {
			arr.Elems[i] = Zero(t.Elem)
		}
		return Value{kind: KindArray, arr: arr}
	case KindRecord:
		rec := &Record{Type: t, Fields: make([]Value, len(t.Fields))}
		for i, f := range t.Fields {
			rec.Fields[i] = Zero(f.Type)
		}
		return Value{kind: KindRecord, rec: rec}
	}
	return Value{}
}

// Accessors

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true for the zero Value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsNumeric returns true for INTEGER and REAL values.
func (v Value) IsNumeric() bool {
	return v.kind == KindInteger || v.kind == KindReal
}

// AsInt returns the INTEGER payload.
func (v Value) AsInt() int64 {
	return v.i
}

// AsFloat returns the numeric payload; INTEGER values are widened.
func (v Value) AsFloat() float64 {
	if v.kind == KindInteger {
		return float64(v.i)
	}
	return v.f
}

// AsString returns the STRING payload, or the single character of a CHAR.
func (v Value) AsString() string {
	if v.kind == KindChar {
		return string(rune(v.i))
	}
	return v.s
}

// AsChar returns the CHAR payload.
func (v Value) AsChar() rune {
	return rune(v.i)
}

// AsBool returns the BOOLEAN payload.
func (v Value) AsBool() bool {
	return v.i != 0
}

// AsDate returns the DATE payload.
func (v Value) AsDate() time.Time {
	return v.t
}

// Array returns the backing array, or nil.
func (v Value) Array() *Array {
	return v.arr
}

// Record returns the backing record, or nil.
func (v Value) Record() *Record {
	return v.rec
}

// Type returns the type of the value. Scalars map to the primitive
// singletons.
func (v Value) Type() *Type {
	switch v.kind {
	case KindInteger:
		return IntegerType
	case KindReal:
		return RealType
	case KindString:
		return StringType
	case KindChar:
		return CharType
	case KindBoolean:
		return BooleanType
	case KindDate:
		return DateType
	case KindArray:
		return v.arr.Type
	case KindRecord:
		return v.rec.Type
	}
	return nil
}

// Clone returns a deep copy. Scalars are returned as is.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := &Array{Type: v.arr.Type, Elems: make([]Value, len(v.arr.Elems))}
		for i, e := range v.arr.Elems {
			arr.Elems[i] = e.Clone()
		}
		return Value{kind: KindArray, arr: arr}
	case KindRecord:
		rec := &Record{Type: v.rec.Type, Fields: make([]Value, len(v.rec.Fields))}
		for i, f := range v.rec.Fields {
			rec.Fields[i] = f.Clone()
		}
		return Value{kind: KindRecord, rec: rec}
	}
	return v
}

// AssignTo writes v into *dst. When *dst already holds an array or record
// of the same shape, the elements are overwritten in place so pointers
// into its backing store stay valid. v must not share storage with the
// caller; pass a Clone.
func (v Value) AssignTo(dst *Value) {
	switch {
	case v.kind == KindArray && dst.kind == KindArray && len(dst.arr.Elems) == len(v.arr.Elems):
		for i, e := range v.arr.Elems {
			e.AssignTo(&dst.arr.Elems[i])
		}
	case v.kind == KindRecord && dst.kind == KindRecord && len(dst.rec.Fields) == len(v.rec.Fields):
		for i, f := range v.rec.Fields {
			f.AssignTo(&dst.rec.Fields[i])
		}
	default:
		*dst = v
	}
}

// Offset maps a multi-dimensional index to a position in Elems.
func (a *Array) Offset(index []int64) (int, error) {
	dims := a.Type.Dims
	if len(index) != len(dims) {
		return 0, fmt.Errorf("array has %d dimension(s) but %d index(es) given", len(dims), len(index))
	}
	off := int64(0)
	for i, d := range dims {
		if index[i] < d.Lower || index[i] > d.Upper {
			return 0, fmt.Errorf("index %d out of bounds [%d:%d]", index[i], d.Lower, d.Upper)
		}
		off = off*d.Len() + index[i] - d.Lower
	}
	return int(off), nil
}

// Conversions

// String returns the text OUTPUT prints for the value.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return FormatReal(v.f)
	case KindString:
		return v.s
	case KindChar:
		if v.i == 0 {
			return ""
		}
		return string(rune(v.i))
	case KindBoolean:
		if v.i != 0 {
			return "TRUE"
		}
		return "FALSE"
	case KindDate:
		if v.t.IsZero() {
			return ""
		}
		return v.t.Format(DateLayout)
	case KindArray:
		parts := make([]string, len(v.arr.Elems))
		for i, e := range v.arr.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRecord:
		parts := make([]string, len(v.rec.Fields))
		for i, f := range v.rec.Fields {
			parts[i] = v.rec.Type.Fields[i].Name + ": " + f.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

// FormatReal formats a REAL with the shortest representation that
// round-trips, without exponent.
func FormatReal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Convert adapts v for storage in a slot of type dst, widening INTEGER to
// REAL and deep-copying aggregates.
func Convert(v Value, dst *Type) (Value, error) {
	src := v.Type()
	if !AssignableTo(src, dst) {
		return Value{}, fmt.Errorf("type mismatch: cannot assign %s to %s", src, dst)
	}
	if v.kind == KindInteger && dst.Kind == KindReal {
		return Float(float64(v.i)), nil
	}
	return v.Clone(), nil
}

// ParseInput converts a line of user input to a value of scalar type t.
func ParseInput(text string, t *Type) (Value, error) {
	trimmed := strings.TrimSpace(text)
	switch t.Kind {
	case KindInteger:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid INTEGER", text)
		}
		return Int(n), nil
	case KindReal:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid REAL", text)
		}
		return Float(f), nil
	case KindString:
		return Str(text), nil
	case KindChar:
		r := []rune(text)
		if len(r) != 1 {
			return Value{}, fmt.Errorf("%q is not a single CHAR", text)
		}
		return CharOf(r[0]), nil
	case KindBoolean:
		switch strings.ToLower(trimmed) {
		case "true", "1", "yes":
			return Bool(true), nil
		case "false", "0", "no":
			return Bool(false), nil
		}
		return Value{}, fmt.Errorf("%q is not a valid BOOLEAN", text)
	case KindDate:
		d, err := time.Parse(DateLayout, trimmed)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a valid DATE (expected DD/MM/YYYY)", text)
		}
		return DateOf(d), nil
	}
	return Value{}, fmt.Errorf("cannot input a value of type %s", t)
}
