package tiledef

import "errors"

// ErrInvalidMagic is returned when a stream's first four bytes are not the
// ASCII "tdef" magic.
var ErrInvalidMagic = errors.New("tiledef: invalid magic")

// ErrMalformedPropertyBlock is returned when a tile's property_count is
// negative.
var ErrMalformedPropertyBlock = errors.New("tiledef: malformed property block")
