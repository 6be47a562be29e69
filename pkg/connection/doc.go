// Package connection retries the initial connect of a capability.
//
// Adapters call Connect with a Policy when the bridge starts. Each failed
// attempt waits for the next exponential backoff delay:
//
//	delay = base + random(0, base * jitter)
//
// starting at Initial and multiplying by Multiplier up to Max. Once a
// session is up, reconnecting is left to the client library.
package connection
