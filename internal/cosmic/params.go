package cosmic

import (
	"errors"
	"fmt"
)

// DefaultBoundaryMargin is the distance from a detector face within which an
// endpoint counts as near that face, when no margin is configured.
const DefaultBoundaryMargin = 5.0

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid tagger params")

// Detector holds the sensitive volume extents. X runs from 0 to Width,
// Y is centred on 0 and Z runs from 0 to Length.
type Detector struct {
	Width      float64
	HalfHeight float64
	Length     float64
}

// Margins are the per-dimension boundary distances.
type Margins struct {
	X float64
	Y float64
	Z float64
}

// DefaultMargins returns DefaultBoundaryMargin in every dimension.
func DefaultMargins() Margins {
	return Margins{X: DefaultBoundaryMargin, Y: DefaultBoundaryMargin, Z: DefaultBoundaryMargin}
}

// Params are the immutable inputs shared by every object of a pass.
type Params struct {
	Detector Detector
	Margins  Margins

	// DriftWindowTicks is the readout time taken by a full-width drift.
	// Hits are in time between one and two windows.
	DriftWindowTicks int

	// Workers bounds concurrent classification; <= 0 means GOMAXPROCS.
	Workers int
}

// Validate checks that the geometry is usable.
func (p Params) Validate() error {
	d := p.Detector
	if d.Width <= 0 || d.HalfHeight <= 0 || d.Length <= 0 {
		return fmt.Errorf("%w: detector extents must be positive, got width=%g half_height=%g length=%g",
			ErrInvalidParams, d.Width, d.HalfHeight, d.Length)
	}
	m := p.Margins
	if m.X < 0 || m.Y < 0 || m.Z < 0 {
		return fmt.Errorf("%w: boundary margins must be non-negative, got x=%g y=%g z=%g",
			ErrInvalidParams, m.X, m.Y, m.Z)
	}
	if p.DriftWindowTicks <= 0 {
		return fmt.Errorf("%w: drift window must be positive, got %d ticks", ErrInvalidParams, p.DriftWindowTicks)
	}
	return nil
}
