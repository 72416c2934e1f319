package route

import "github.com/pkg/errors"

var (
	ErrInvalidGrid       = errors.New("invalid track grid")
	ErrDegenerateOverlap = errors.New("degenerate overlap")
	ErrNoLayer           = errors.New("no routing layer")
	ErrInvalidWidth      = errors.New("invalid trace width")
	ErrInvalidBus        = errors.New("invalid bus")
)
