package types

import (
	"errors"
	"testing"
	"time"

	"github.com/kolkov/pseudocode/internal/token"
)

func TestValueString(t *testing.T) {
	arr := Zero(ArrayOf(IntegerType, Dim{1, 3}))
	arr.Array().Elems[1] = Int(7)

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"int", Int(42), "42"},
		{"negative int", Int(-3), "-3"},
		{"real", Float(2.5), "2.5"},
		{"integral real", Float(3), "3"},
		{"small real", Float(0.1), "0.1"},
		{"string", Str("hi"), "hi"},
		{"char", CharOf('x'), "x"},
		{"zero char", CharOf(0), ""},
		{"true", Bool(true), "TRUE"},
		{"false", Bool(false), "FALSE"},
		{"date", DateOf(time.Date(2024, 3, 9, 15, 4, 0, 0, time.UTC)), "09/03/2024"},
		{"unset date", Zero(DateType), ""},
		{"array", arr, "[0, 7, 0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestZero(t *testing.T) {
	rec := &Type{Kind: KindRecord, Name: "Point", Fields: []Field{
		{Name: "X", Type: IntegerType},
		{Name: "Label", Type: StringType},
	}}

	tests := []struct {
		typ  *Type
		kind Kind
		want string
	}{
		{IntegerType, KindInteger, "0"},
		{RealType, KindReal, "0"},
		{StringType, KindString, ""},
		{BooleanType, KindBoolean, "FALSE"},
		{ArrayOf(RealType, Dim{0, 1}, Dim{1, 2}), KindArray, "[0, 0, 0, 0]"},
		{rec, KindRecord, "{X: 0, Label: }"},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			v := Zero(tt.typ)
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.kind)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	typ := ArrayOf(IntegerType, Dim{1, 2})
	a := Zero(typ)
	b := a.Clone()
	b.Array().Elems[0] = Int(9)

	if a.Array().Elems[0].AsInt() != 0 {
		t.Error("mutating a clone changed the original")
	}
}

func TestAssignToKeepsStorage(t *testing.T) {
	typ := ArrayOf(IntegerType, Dim{1, 2})
	dst := Zero(typ)
	elem := &dst.Array().Elems[1]

	src := Zero(typ)
	src.Array().Elems[1] = Int(4)
	src.Clone().AssignTo(&dst)

	if elem.AsInt() != 4 {
		t.Errorf("element pointer sees %d, want 4", elem.AsInt())
	}
	src.Array().Elems[1] = Int(8)
	if dst.Array().Elems[1].AsInt() != 4 {
		t.Error("assignment shares storage with the source")
	}

	var s Value
	Str("x").AssignTo(&s)
	if s.AsString() != "x" {
		t.Errorf("scalar AssignTo = %q, want %q", s.AsString(), "x")
	}
}

func TestArrayOffset(t *testing.T) {
	arr := Zero(ArrayOf(IntegerType, Dim{1, 3}, Dim{0, 1})).Array()

	tests := []struct {
		index   []int64
		want    int
		wantErr bool
	}{
		{[]int64{1, 0}, 0, false},
		{[]int64{1, 1}, 1, false},
		{[]int64{2, 0}, 2, false},
		{[]int64{3, 1}, 5, false},
		{[]int64{4, 0}, 0, true},
		{[]int64{0, 0}, 0, true},
		{[]int64{1}, 0, true},
	}

	for _, tt := range tests {
		got, err := arr.Offset(tt.index)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Offset(%v) expected error", tt.index)
			}
			continue
		}
		if err != nil {
			t.Errorf("Offset(%v) unexpected error: %v", tt.index, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Offset(%v) = %d, want %d", tt.index, got, tt.want)
		}
	}
}

func TestArith(t *testing.T) {
	tests := []struct {
		name string
		op   token.Token
		l, r Value
		want Value
	}{
		{"int add", token.ADD, Int(2), Int(3), Int(5)},
		{"int sub", token.SUB, Int(2), Int(3), Int(-1)},
		{"int mul", token.MUL, Int(4), Int(3), Int(12)},
		{"mixed add", token.ADD, Int(1), Float(0.5), Float(1.5)},
		{"int divide gives real", token.QUO, Int(7), Int(2), Float(3.5)},
		{"mod", token.MOD, Int(7), Int(3), Int(1)},
		{"mod truncates", token.MOD, Int(-7), Int(3), Int(-1)},
		{"div", token.DIV, Int(7), Int(2), Int(3)},
		{"string plus", token.ADD, Str("ab"), Str("cd"), Str("abcd")},
		{"concat char", token.CONCAT, Str("a"), CharOf('b'), Str("ab")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Arith(tt.op, tt.l, tt.r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind() != tt.want.Kind() || got.String() != tt.want.String() {
				t.Errorf("got %v (%v), want %v (%v)", got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestArithErrors(t *testing.T) {
	tests := []struct {
		name string
		op   token.Token
		l, r Value
		zero bool
	}{
		{"divide by zero", token.QUO, Int(1), Int(0), true},
		{"mod by zero", token.MOD, Int(1), Int(0), true},
		{"div by zero", token.DIV, Int(1), Int(0), true},
		{"mod real", token.MOD, Float(1), Int(2), false},
		{"add string int", token.ADD, Str("a"), Int(1), false},
		{"concat int", token.CONCAT, Int(1), Str("a"), false},
		{"sub bool", token.SUB, Bool(true), Int(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Arith(tt.op, tt.l, tt.r)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrDivisionByZero) != tt.zero {
				t.Errorf("errors.Is(ErrDivisionByZero) = %v, want %v (err: %v)", !tt.zero, tt.zero, err)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	d1 := DateOf(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	d2 := DateOf(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		op   token.Token
		l, r Value
		want bool
	}{
		{"int less", token.LESS, Int(1), Int(2), true},
		{"mixed equal", token.EQUALS, Int(2), Float(2), true},
		{"string less", token.LESS, Str("apple"), Str("banana"), true},
		{"char vs string", token.EQUALS, CharOf('a'), Str("a"), true},
		{"not equal", token.NOT_EQUALS, Int(1), Int(1), false},
		{"gte", token.GTE, Float(2.5), Int(2), true},
		{"bool equal", token.EQUALS, Bool(true), Bool(true), true},
		{"date order", token.LESS, d1, d2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.op, tt.l, tt.r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.AsBool() != tt.want {
				t.Errorf("got %v, want %v", got.AsBool(), tt.want)
			}
		})
	}

	if _, err := Compare(token.LESS, Bool(true), Bool(false)); err == nil {
		t.Error("ordering BOOLEANs should fail")
	}
	if _, err := Compare(token.EQUALS, Int(1), Str("1")); err == nil {
		t.Error("comparing INTEGER with STRING should fail")
	}
}

func TestConvert(t *testing.T) {
	v, err := Convert(Int(3), RealType)
	if err != nil {
		t.Fatalf("INTEGER to REAL: %v", err)
	}
	if v.Kind() != KindReal || v.AsFloat() != 3 {
		t.Errorf("got %v (%v), want REAL 3", v, v.Kind())
	}

	if _, err := Convert(Float(1.5), IntegerType); err == nil {
		t.Error("REAL to INTEGER should fail")
	}
	if _, err := Convert(Str("x"), CharType); err == nil {
		t.Error("STRING to CHAR should fail")
	}

	typ := ArrayOf(IntegerType, Dim{1, 2})
	src := Zero(typ)
	dst, err := Convert(src, ArrayOf(IntegerType, Dim{1, 2}))
	if err != nil {
		t.Fatalf("array convert: %v", err)
	}
	dst.Array().Elems[0] = Int(1)
	if src.Array().Elems[0].AsInt() != 0 {
		t.Error("array assignment must copy the backing store")
	}
	if _, err := Convert(src, ArrayOf(IntegerType, Dim{1, 3})); err == nil {
		t.Error("arrays with different bounds should not be assignable")
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		text    string
		typ     *Type
		want    string
		wantErr bool
	}{
		{"42", IntegerType, "42", false},
		{" 7 ", IntegerType, "7", false},
		{"4.5", IntegerType, "", true},
		{"4.5", RealType, "4.5", false},
		{"abc", RealType, "", true},
		{"hello world", StringType, "hello world", false},
		{"x", CharType, "x", false},
		{"xy", CharType, "", true},
		{"yes", BooleanType, "TRUE", false},
		{"0", BooleanType, "FALSE", false},
		{"False", BooleanType, "FALSE", false},
		{"maybe", BooleanType, "", true},
		{"25/12/2023", DateType, "25/12/2023", false},
		{"2023-12-25", DateType, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.text, func(t *testing.T) {
			v, err := ParseInput(tt.text, tt.typ)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", v)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.String() != tt.want {
				t.Errorf("got %q, want %q", v.String(), tt.want)
			}
		})
	}
}

func TestRecordCodec(t *testing.T) {
	rec := &Type{Kind: KindRecord, Name: "Student", Fields: []Field{
		{Name: "Name", Type: StringType},
		{Name: "Age", Type: IntegerType},
		{Name: "Marks", Type: ArrayOf(RealType, Dim{1, 2})},
		{Name: "Passed", Type: BooleanType},
	}}
	v := Zero(rec)
	r := v.Record()
	r.Fields[0] = Str("Ann")
	r.Fields[1] = Int(15)
	r.Fields[2].Array().Elems[1] = Float(9.5)
	r.Fields[3] = Bool(true)

	text, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(text, rec)
	if err != nil {
		t.Fatalf("Decode(%s): %v", text, err)
	}
	if got.String() != v.String() {
		t.Errorf("decoded %s, want %s", got, v)
	}

	if _, err := Decode(`{"Name":"x"}`, rec); err == nil {
		t.Error("missing field should fail")
	}
	if _, err := Decode("not json", rec); err == nil {
		t.Error("malformed record should fail")
	}
}

func TestScalarCodec(t *testing.T) {
	for _, v := range []Value{Int(3), Float(1.25), Str("a b"), CharOf('z'), Bool(false)} {
		text, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode(%v): %v", v, err)
		}
		got, err := Decode(text, v.Type())
		if err != nil {
			t.Fatalf("Decode(%q): %v", text, err)
		}
		if !Equal(got, v) {
			t.Errorf("round trip of %v gave %v", v, got)
		}
	}
}

func TestResultType(t *testing.T) {
	tests := []struct {
		op   token.Token
		l, r *Type
		want *Type
	}{
		{token.ADD, IntegerType, IntegerType, IntegerType},
		{token.ADD, IntegerType, RealType, RealType},
		{token.QUO, IntegerType, IntegerType, RealType},
		{token.ADD, StringType, CharType, StringType},
		{token.LESS, IntegerType, RealType, BooleanType},
		{token.SUB, StringType, IntegerType, nil},
	}
	for _, tt := range tests {
		got := ResultType(tt.op, tt.l, tt.r)
		if got != tt.want {
			t.Errorf("ResultType(%s, %s, %s) = %s, want %s", tt.op, tt.l, tt.r, got, tt.want)
		}
	}
}
