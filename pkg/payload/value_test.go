package payload

import (
	"errors"
	"testing"
)

func TestValueAccessors(t *testing.T) {
	f := Float(1.5)
	if f.Kind() != KindFloat {
		t.Errorf("Kind() = %v, want float", f.Kind())
	}
	if n, ok := f.AsFloat(); !ok || n != 1.5 {
		t.Errorf("AsFloat() = %v, %v", n, ok)
	}
	if _, ok := f.AsString(); ok {
		t.Error("AsString() on float should report false")
	}

	s := String("on")
	if s.Kind() != KindString {
		t.Errorf("Kind() = %v, want string", s.Kind())
	}
	if text, ok := s.AsString(); !ok || text != "on" {
		t.Errorf("AsString() = %q, %v", text, ok)
	}
	if s.Native() != "on" {
		t.Errorf("Native() = %v, want on", s.Native())
	}
}

func TestValueZeroIsFloatZero(t *testing.T) {
	var v Value
	if !v.Equal(Float(0)) {
		t.Errorf("zero value = %v, want float(0)", v)
	}
}

func TestValueEqualDistinguishesKinds(t *testing.T) {
	if Float(42).Equal(String("42")) {
		t.Error("float(42) should not equal string(\"42\")")
	}
}

func TestValueString(t *testing.T) {
	if got := Float(42.5).String(); got != "float(42.5)" {
		t.Errorf("String() = %q", got)
	}
	if got := String("on").String(); got != `string("on")` {
		t.Errorf("String() = %q", got)
	}
}

func TestFromNative(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{float64(2.5), Float(2.5)},
		{float32(0.5), Float(0.5)},
		{int(7), Float(7)},
		{int8(-3), Float(-3)},
		{int16(300), Float(300)},
		{int32(-70000), Float(-70000)},
		{int64(1 << 40), Float(1 << 40)},
		{uint(9), Float(9)},
		{uint8(255), Float(255)},
		{uint16(65535), Float(65535)},
		{uint32(1), Float(1)},
		{uint64(12), Float(12)},
		{"OK", String("OK")},
		{true, String("true")},
		{false, String("false")},
		{String("x"), String("x")},
	}

	for _, tt := range tests {
		got, err := FromNative(tt.in)
		if err != nil {
			t.Errorf("FromNative(%#v) error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("FromNative(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromNativeUnsupported(t *testing.T) {
	for _, in := range []any{nil, []byte{1}, struct{}{}, map[string]any{}} {
		if _, err := FromNative(in); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("FromNative(%#v) error = %v, want ErrUnsupportedType", in, err)
		}
	}
}
