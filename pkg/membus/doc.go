// Package membus provides an in-memory publish/subscribe bus implementing
// bridge.Bus. Topic filters follow MQTT wildcard rules. Every publish is
// recorded so tests and the simulator can inspect what the bridge sent.
package membus
