package pdk

import "github.com/pkg/errors"

// Geometric errors. They are raised as soon as an impossible request is
// detected and are never clamped.
var (
	ErrInvalidContact    = errors.New("invalid contact parameters")
	ErrInsufficientSpace = errors.New("insufficient space for contact")

	ErrNoDevices         = errors.New("no devices to draw")
	ErrInvalidNumFingers = errors.New("invalid number of fingers")
	ErrMismatchedLengths = errors.New("mismatched lengths (not all devices have the same channel length)")
	ErrMismatchedFingers = errors.New("mismatched number of fingers (not all devices have the same number of fingers)")
	ErrBadParams         = errors.New("invalid MOS params")
)
