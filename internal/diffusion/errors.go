package diffusion

import (
	"errors"
	"fmt"
)

// Domain errors for the diffusion core.
var (
	// ErrConfiguration indicates a non-positive spacing, diffusivity or safety
	// divisor, or a time range that runs backwards.
	ErrConfiguration = errors.New("diffusion: invalid configuration")

	// ErrShape indicates initial values that do not match the declared grid.
	ErrShape = errors.New("diffusion: shape mismatch")

	// ErrDriverState indicates Start on a driver that is not idle.
	ErrDriverState = errors.New("diffusion: driver is not idle")
)

// ConfigurationError records which run parameter was rejected.
type ConfigurationError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s=%g %s", ErrConfiguration, e.Param, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// ShapeError records the expected and received grid layout.
type ShapeError struct {
	Want string
	Got  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: want %s, got %s", ErrShape, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}

func positive(param string, v float64) error {
	if !(v > 0) || isInf(v) {
		return &ConfigurationError{Param: param, Value: v, Reason: "must be positive and finite"}
	}
	return nil
}
