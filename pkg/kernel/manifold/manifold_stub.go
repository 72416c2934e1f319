//go:build !manifold

// Package manifold extrudes layer stacks with the Manifold library. This
// build was made without the manifold tag, so New always fails; rebuild
// with -tags=manifold and manifoldc installed to use it.
package manifold

import (
	"github.com/pkg/errors"

	"github.com/chazu/sramlay/pkg/kernel"
)

// New reports that the Manifold kernel was not compiled in.
func New() (kernel.Kernel, error) {
	return nil, errors.New("manifold kernel not available: build with -tags=manifold")
}
