// Package types defines the pseudocode type descriptors and runtime values.
package types

import (
	"strconv"
	"strings"
)

// Kind is the shape of a type or value.
type Kind uint8

const (
	KindNull    Kind = iota // Unknown type or unset value
	KindInteger             // 64-bit signed integer
	KindReal                // 64-bit float
	KindString              // Text
	KindChar                // Single character
	KindBoolean             // TRUE or FALSE
	KindDate                // Calendar date
	KindArray               // Fixed-bound array
	KindRecord              // User TYPE
)

var kindNames = [...]string{
	KindNull:    "NULL",
	KindInteger: "INTEGER",
	KindReal:    "REAL",
	KindString:  "STRING",
	KindChar:    "CHAR",
	KindBoolean: "BOOLEAN",
	KindDate:    "DATE",
	KindArray:   "ARRAY",
	KindRecord:  "RECORD",
}

// String returns the pseudocode spelling of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Type describes a declared type. Primitive types are shared singletons;
// array and record types are built per declaration.
type Type struct {
	Kind   Kind
	Name   string  // record type name as declared
	Elem   *Type   // array element type
	Dims   []Dim   // array dimensions
	Fields []Field // record fields in declaration order
}

// Dim is an inclusive array bound pair.
type Dim struct {
	Lower, Upper int64
}

// Len returns the number of elements along the dimension.
func (d Dim) Len() int64 {
	return d.Upper - d.Lower + 1
}

// Field is a named record member.
type Field struct {
	Name string
	Type *Type
}

// Primitive types.
var (
	IntegerType = &Type{Kind: KindInteger}
	RealType    = &Type{Kind: KindReal}
	StringType  = &Type{Kind: KindString}
	CharType    = &Type{Kind: KindChar}
	BooleanType = &Type{Kind: KindBoolean}
	DateType    = &Type{Kind: KindDate}
)

var primitives = map[string]*Type{
	"INTEGER": IntegerType,
	"REAL":    RealType,
	"STRING":  StringType,
	"CHAR":    CharType,
	"BOOLEAN": BooleanType,
	"DATE":    DateType,
}

// Primitive returns the primitive type named name (any case), or nil.
func Primitive(name string) *Type {
	return primitives[strings.ToUpper(name)]
}

// PrimitiveNames returns the primitive type names.
func PrimitiveNames() []string {
	return []string{"BOOLEAN", "CHAR", "DATE", "INTEGER", "REAL", "STRING"}
}

// ArrayOf builds an array type.
func ArrayOf(elem *Type, dims ...Dim) *Type {
	return &Type{Kind: KindArray, Elem: elem, Dims: dims}
}

// String returns the type as it would be written in a declaration.
func (t *Type) String() string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind {
	case KindArray:
		var sb strings.Builder
		sb.WriteString("ARRAY[")
		for i, d := range t.Dims {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatInt(d.Lower, 10))
			sb.WriteByte(':')
			sb.WriteString(strconv.FormatInt(d.Upper, 10))
		}
		sb.WriteString("] OF ")
		sb.WriteString(t.Elem.String())
		return sb.String()
	case KindRecord:
		return t.Name
	default:
		return t.Kind.String()
	}
}

// IsScalar returns true for types that hold a single primitive value.
func (t *Type) IsScalar() bool {
	return t != nil && t.Kind >= KindInteger && t.Kind <= KindDate
}

// IsNumeric returns true for INTEGER and REAL.
func (t *Type) IsNumeric() bool {
	return t != nil && (t.Kind == KindInteger || t.Kind == KindReal)
}

// Size returns the total number of array elements.
func (t *Type) Size() int {
	n := int64(1)
	for _, d := range t.Dims {
		n *= d.Len()
	}
	return int(n)
}

// FieldIndex returns the position of the named record field, matching
// case-insensitively, or -1.
func (t *Type) FieldIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, f := range t.Fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// Identical reports whether t and u denote the same type. Record types are
// nominal; array types match on element type and bounds.
func Identical(t, u *Type) bool {
	if t == nil || u == nil {
		return false
	}
	if t == u {
		return true
	}
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case KindRecord:
		return strings.EqualFold(t.Name, u.Name)
	case KindArray:
		if len(t.Dims) != len(u.Dims) {
			return false
		}
		for i := range t.Dims {
			if t.Dims[i] != u.Dims[i] {
				return false
			}
		}
		return Identical(t.Elem, u.Elem)
	}
	return true
}

// AssignableTo reports whether a value of type src may be stored in a slot
// of type dst: exact match, or INTEGER widened to REAL.
func AssignableTo(src, dst *Type) bool {
	if Identical(src, dst) {
		return true
	}
	return src != nil && dst != nil && src.Kind == KindInteger && dst.Kind == KindReal
}
