// Package nodespace provides an in-memory data endpoint.
//
// A Space holds a namespace array and a set of variables addressed by OPC UA
// style NodeIds ("ns=2;s=device1_status"). It implements bridge.DataEndpoint
// and is used by the simulator and by end-to-end tests in place of a real
// server. Writes are type checked against the variable's initial value and
// every accepted write notifies the variable's subscribers.
package nodespace
