package geometry

import "errors"

// Construction errors. They are returned wrapped with the name of the
// component and the index of the offending segment.
var (
	ErrEmptyComponent    = errors.New("boundary component has no segments")
	ErrDegenerateSegment = errors.New("segment has zero length")
	ErrInvalidRadius     = errors.New("arc radius must be positive and finite")
	ErrArcSweep          = errors.New("arc sweeps more than one full turn")
	ErrNonFinite         = errors.New("segment coordinates must be finite")
	ErrComponentIndex    = errors.New("component index out of range")
	ErrOpenLoop          = errors.New("boundary component does not close")
	ErrUnknownSegment    = errors.New("unknown segment kind")
)
