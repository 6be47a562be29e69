package address

import (
	"errors"
	"fmt"
)

// Configuration errors. They are always returned wrapped in a *ConfigError.
var (
	ErrInvalidTemplate  = errors.New("invalid topic template")
	ErrInvalidPattern   = errors.New("invalid topic pattern")
	ErrDuplicateMapping = errors.New("duplicate mapping")
	ErrEmptyNodeID      = errors.New("empty node id")
)

// ConfigError describes a mapping entry rejected at table construction.
type ConfigError struct {
	// Set is "outbound" or "inbound".
	Set string

	// Index is the position of the entry within its set.
	Index int

	// Entry is the offending node ID, template or pattern.
	Entry string

	// Err is one of the sentinel errors above, possibly wrapped with detail.
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s mapping %d (%q): %v", e.Set, e.Index, e.Entry, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
