package payload

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedType is returned by FromNative for values that have no
// Value representation.
var ErrUnsupportedType = errors.New("unsupported value type")

// Kind identifies which member of the Value union is set.
type Kind uint8

const (
	// KindFloat is a 64-bit floating point number.
	KindFloat Kind = iota
	// KindString is an opaque text value.
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a data point value. The zero value is Float(0).
type Value struct {
	kind Kind
	num  float64
	text string
}

// Float returns a numeric value.
func Float(f float64) Value {
	return Value{kind: KindFloat, num: f}
}

// String returns a text value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Kind reports which member is set.
func (v Value) Kind() Kind { return v.kind }

// AsFloat returns the number and true if v is a Float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.num, true
}

// AsString returns the text and true if v is a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Native returns the value as float64 or string.
func (v Value) Native() any {
	if v.kind == KindString {
		return v.text
	}
	return v.num
}

// Equal reports whether both values have the same kind and content.
// NaN floats compare equal to each other.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindString {
		return v.text == other.text
	}
	if math.IsNaN(v.num) && math.IsNaN(other.num) {
		return true
	}
	return v.num == other.num
}

// String formats the value for diagnostics, e.g. float(42.5) or string("on").
func (v Value) String() string {
	if v.kind == KindString {
		return fmt.Sprintf("string(%q)", v.text)
	}
	return fmt.Sprintf("float(%s)", Encode(v))
}

// FromNative converts a value reported by a data endpoint.
func FromNative(x any) (Value, error) {
	switch n := x.(type) {
	case Value:
		return n, nil
	case float64:
		return Float(n), nil
	case float32:
		return Float(float64(n)), nil
	case int:
		return Float(float64(n)), nil
	case int8:
		return Float(float64(n)), nil
	case int16:
		return Float(float64(n)), nil
	case int32:
		return Float(float64(n)), nil
	case int64:
		return Float(float64(n)), nil
	case uint:
		return Float(float64(n)), nil
	case uint8:
		return Float(float64(n)), nil
	case uint16:
		return Float(float64(n)), nil
	case uint32:
		return Float(float64(n)), nil
	case uint64:
		return Float(float64(n)), nil
	case string:
		return String(n), nil
	case bool:
		if n {
			return String("true"), nil
		}
		return String("false"), nil
	case nil:
		return Value{}, fmt.Errorf("%w: nil", ErrUnsupportedType)
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
	}
}
