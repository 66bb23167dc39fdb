package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Encode serializes v as a single file record. Scalars use their OUTPUT
// text (BOOLEAN and DATE round-trip through ParseInput); arrays and
// records are JSON.
func Encode(v Value) (string, error) {
	if v.kind != KindArray && v.kind != KindRecord {
		return v.String(), nil
	}
	b, err := json.Marshal(toJSON(v))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a record produced by Encode into a value of type t.
func Decode(text string, t *Type) (Value, error) {
	if t.IsScalar() {
		if t.Kind == KindChar && text == "" {
			return CharOf(0), nil
		}
		return ParseInput(text, t)
	}
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Value{}, fmt.Errorf("malformed %s record: %v", t, err)
	}
	return fromJSON(raw, t)
}

func toJSON(v Value) any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindReal:
		return v.f
	case KindBoolean:
		return v.i != 0
	case KindArray:
		out := make([]any, len(v.arr.Elems))
		for i, e := range v.arr.Elems {
			out[i] = toJSON(e)
		}
		return out
	case KindRecord:
		out := make(map[string]any, len(v.rec.Fields))
		for i, f := range v.rec.Fields {
			out[v.rec.Type.Fields[i].Name] = toJSON(f)
		}
		return out
	}
	return v.String()
}

func fromJSON(raw any, t *Type) (Value, error) {
	mismatch := func() (Value, error) {
		return Value{}, fmt.Errorf("record field does not match type %s", t)
	}
	switch t.Kind {
	case KindInteger, KindReal:
		f, ok := raw.(float64)
		if !ok {
			return mismatch()
		}
		if t.Kind == KindInteger {
			return Int(int64(f)), nil
		}
		return Float(f), nil
	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return mismatch()
		}
		return Bool(b), nil
	case KindString, KindChar, KindDate:
		s, ok := raw.(string)
		if !ok {
			return mismatch()
		}
		return Decode(s, t)
	case KindArray:
		items, ok := raw.([]any)
		if !ok || len(items) != t.Size() {
			return mismatch()
		}
		v := Zero(t)
		for i, item := range items {
			e, err := fromJSON(item, t.Elem)
			if err != nil {
				return Value{}, err
			}
			v.arr.Elems[i] = e
		}
		return v, nil
	case KindRecord:
		fields, ok := raw.(map[string]any)
		if !ok {
			return mismatch()
		}
		v := Zero(t)
		for i, f := range t.Fields {
			item, ok := fields[f.Name]
			if !ok {
				return Value{}, fmt.Errorf("record is missing field %s", f.Name)
			}
			fv, err := fromJSON(item, f.Type)
			if err != nil {
				return Value{}, err
			}
			v.rec.Fields[i] = fv
		}
		return v, nil
	}
	return Value{}, fmt.Errorf("cannot decode type %s", t)
}

// Quote returns v as a literal, as the language service shows constant
// values.
func Quote(v Value) string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindChar:
		return "'" + string(rune(v.i)) + "'"
	case KindReal:
		s := FormatReal(v.f)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			s += ".0"
		}
		return s
	}
	return v.String()
}
