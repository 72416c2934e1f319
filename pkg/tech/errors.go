package tech

import "github.com/pkg/errors"

// Configuration errors. They indicate a broken rule deck or a generator
// asking for something the deck does not define, and are never retried.
var (
	ErrUnknownLayer    = errors.New("unknown layer")
	ErrUnknownStack    = errors.New("unknown contact stack")
	ErrMalformedStack  = errors.New("malformed contact stack")
	ErrMalformedConfig = errors.New("malformed design-rule config")
)
