package shaper

import "github.com/pkg/errors"

// Kind classifies a configuration failure (spec §7).
type Kind int

const (
	UnknownType Kind = iota
	ArityMismatch
	OutOfRange
)

// ConfigError is returned by Configure/synthesize. UnknownType and
// ArityMismatch leave the configurator holding a none-type table
// (spec §4.B); OutOfRange rejects the change outright and the
// previously active table is left untouched.
type ConfigError struct {
	Kind Kind
	Err  error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

func newUnknownTypeError(name string) *ConfigError {
	return &ConfigError{Kind: UnknownType, Err: errors.Errorf("Unsupported input shaper type '%s'", name)}
}

func newArityMismatchError() *ConfigError {
	return &ConfigError{Kind: ArityMismatch, Err: errors.New("Too few durations given")}
}

func newOutOfRangeError(field string, value, lo, hi float32) *ConfigError {
	return &ConfigError{
		Kind: OutOfRange,
		Err:  errors.Errorf("%s value %v out of range [%v, %v]", field, value, lo, hi),
	}
}
