package primitives

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every error produced while loading or
// validating a machine configuration.
var ErrConfiguration = errors.New("configuration error")

// ConfigError reports a configuration source that could not be read, decoded
// or validated. Source names where the config came from (a path, "static", ...).
type ConfigError struct {
	Source string
	Err    error
}

// NewConfigError wraps err with the given source. A nil err yields nil.
func NewConfigError(source string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return err
	}
	return &ConfigError{Source: source, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error (%s): %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConfiguration) hold for any *ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// IsConfigError reports whether err is, or wraps, a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
