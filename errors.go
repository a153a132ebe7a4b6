package tmap

import "errors"

// Loading errors. Every error returned while loading a map wraps exactly one
// of these, with enough context (layer, attribute, value) to find the defect
// in the source file.
var (
	ErrMalformedInput      = errors.New("tmap: malformed input")
	ErrSizeMismatch        = errors.New("tmap: tile count does not match layer size")
	ErrMissingAttribute    = errors.New("tmap: missing attribute")
	ErrNonIntegerAttribute = errors.New("tmap: attribute is not an integer")
	ErrOutOfRange          = errors.New("tmap: out of range")
	ErrUnsupportedFormat   = errors.New("tmap: unsupported format")
	ErrResourceLoad        = errors.New("tmap: unable to load resource")
	ErrCompression         = errors.New("tmap: decompression failed")
	ErrTilesetOverlap      = errors.New("tmap: tileset gid ranges overlap")
)

// Effect errors.
var (
	ErrNilEffect = errors.New("tmap: nil tile effect")
	ErrNoMatch   = errors.New("tmap: cursor is not on a tile")
)
