package config

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrRequired     = errors.New("required")
	ErrOutOfRange   = errors.New("out of range")
	ErrInvalidValue = errors.New("invalid value")
)

// Error reports a problem with one configuration field.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
