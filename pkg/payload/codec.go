package payload

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Encode renders a value as a bus payload.
//
// Floats use the shortest text that parses back to the same number. Plain
// decimal notation is used for magnitudes in [1e-6, 1e21) ("42.5",
// "1234567"), exponent notation outside it ("1e+21"). Strings are returned
// unchanged.
func Encode(v Value) string {
	if v.kind == KindString {
		return v.text
	}
	if abs := math.Abs(v.num); abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// Decode converts a bus payload to a value. It tries a numeric parse first
// and falls back to the untouched payload as a string.
func Decode(p string) Value {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return String(p)
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err == nil {
		return Float(f)
	}

	// Out of range: ParseFloat already returned the correctly signed infinity.
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
		return Float(f)
	}

	return String(p)
}
