package bridge

import (
	"errors"

	"github.com/tagbridge/tagbridge-go/pkg/address"
)

// Routing errors. They are returned by the Handle methods for callers that
// care; the router has already logged them.
var (
	ErrUnmappedAddress = errors.New("no mapping for address")
	ErrEndpointWrite   = errors.New("endpoint write failed")
	ErrNoDeviceID      = errors.New("no device identifier for event")
)

// Startup errors.
var (
	ErrNamespaceOutOfRange = errors.New("namespace index out of range")
	ErrNamespaceMismatch   = errors.New("namespace uri mismatch")
	ErrAlreadyStarted      = errors.New("controller already started")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// IsConfigurationError reports whether err is a configuration problem that
// must abort startup.
func IsConfigurationError(err error) bool {
	var cfgErr *address.ConfigError
	return errors.As(err, &cfgErr) ||
		errors.Is(err, ErrNamespaceOutOfRange) ||
		errors.Is(err, ErrNamespaceMismatch) ||
		errors.Is(err, ErrInvalidConfig)
}
