package array

import "github.com/pkg/errors"

var (
	ErrSizeMismatch = errors.New("grid entry size mismatch")
	ErrEmptyTrack   = errors.New("grid row or column is empty")
	ErrEmptyArray   = errors.New("array has no entries")
	ErrBadPitch     = errors.New("invalid array pitch")
)
