// Package mqtt adapts an Eclipse Paho client to bridge.Bus.
//
// The adapter connects with automatic reconnect enabled and re-subscribes
// every topic filter after each reconnect, since sessions are clean.
// Incoming messages are handed to the registered bridge.MessageHandler on
// Paho's delivery goroutine in arrival order. The handler may block for
// backpressure but must not publish.
package mqtt
