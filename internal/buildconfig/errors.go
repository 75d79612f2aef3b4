package buildconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrSelfLocation indicates the configuration file could not determine its own path
	ErrSelfLocation = errors.New("unable to resolve configuration file location")
	// ErrNilPlugin indicates a plugin factory returned no descriptor
	ErrNilPlugin = errors.New("plugin factory returned nil")
)

// ConfigurationError is returned when a configuration cannot be produced. It is fatal,
// no partial configuration is ever returned alongside it.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
