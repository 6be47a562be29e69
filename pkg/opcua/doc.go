// Package opcua adapts a gopcua client to bridge.DataEndpoint.
//
// All data change subscriptions share one OPC UA subscription. Each
// monitored item gets a client handle, and a single pump goroutine reads
// publish notifications and dispatches DataChangeNotifications to the
// handler registered for that handle. Values are converted with
// payload.FromNative. Writes send Double or String variants and report any
// non-Good status code as an error.
//
// The gopcua client reconnects on its own and restores the subscription,
// so the adapter only retries the initial connect.
package opcua
