package layout

import "github.com/pkg/errors"

var (
	ErrDuplicateCell = errors.New("duplicate cell name")
	ErrNoSuchPort    = errors.New("no such port")
)
