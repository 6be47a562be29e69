// Package address implements the static address table that maps bus topics
// to data point node IDs and back.
//
// The table holds two disjoint mapping sets:
//
//   - Outbound: node ID -> topic template, used to forward data point changes
//     to the bus. Lookup is by exact node ID.
//   - Inbound: topic pattern -> node ID, used to forward bus messages to data
//     points. Patterns are tried in declaration order and the first match
//     wins.
//
// Topic patterns follow MQTT filter syntax. Levels are separated by "/",
// "+" matches exactly one level and "#" matches any number of trailing
// levels, including none:
//
//	device1/+/command  matches device1/5/command, not device1/5/extra/command
//	device1/#          matches device1, device1/5/command, device1/5/extra/command
//
// A wildcard in the first level never matches a topic that starts with "$".
//
// Topic templates contain the placeholder {device_id} exactly once. The
// device identifier is supplied by the caller at render time:
//
//	address.RenderTopic("device1/{device_id}/status", "1") // "device1/1/status"
//
// Tables are validated at construction and are immutable afterwards, so a
// *Table can be shared by any number of goroutines without locking.
package address
