// Package payload converts between bus message payloads and data point values.
//
// Bus payloads are plain text. Data points hold a [Value], a tagged union of
// a floating point number or a string. The conversion is a best-effort
// coercion with no schema behind it:
//
//	payload.Encode(payload.Float(42.5))  // "42.5"
//	payload.Encode(payload.String("OK")) // "OK"
//
//	payload.Decode("42.5") // Float(42.5)
//	payload.Decode("on")   // String("on")
//
// Decode never fails. A payload that does not parse as a number is carried
// through unchanged as a string value. For every finite float f,
// Decode(Encode(Float(f))) yields Float(f) again.
//
// # Endpoint Values
//
// Data endpoints report values in their own native types. [FromNative]
// folds the Go representations used by endpoint adapters into a Value:
// every integer and float kind becomes a Float, strings stay strings and
// booleans become the strings "true" or "false".
package payload
