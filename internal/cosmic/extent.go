package cosmic

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// axisSigmas is how many standard deviations of the dominant spread the
// axis-derived endpoints sit from the mean.
const axisSigmas = 3.0

// Extent is the estimated start and end of an object's trajectory.
type Extent struct {
	Start r3.Vec
	End   r3.Vec

	// Projected is true when Start and End are extremal space points rather
	// than the axis-derived estimate. Boundary checks only run on projected
	// extents.
	Projected bool
}

// AxisEndpoints returns mean ∓ 3·sqrt(e0)·direction. A negative dominant
// eigenvalue is treated as zero.
func AxisEndpoints(axis PrincipalAxis) (start, end r3.Vec) {
	half := axisSigmas * math.Sqrt(math.Max(axis.EigenValues[0], 0))
	step := r3.Scale(half, axis.Direction())
	return r3.Sub(axis.Mean, step), r3.Add(axis.Mean, step)
}

// ProjectExtent finds the space points with the smallest and largest signed
// arc length along the principal direction, measured from the axis mean.
//
// Projection is skipped, leaving the AxisEndpoints estimate, when timing
// already flagged the object, when there are no space points, or when the
// axis is degenerate. Equal arc lengths keep the earlier point.
func ProjectExtent(axis PrincipalAxis, points []SpacePoint, timing TimingResult) Extent {
	start, end := AxisEndpoints(axis)
	ext := Extent{Start: start, End: end}

	if timing.OutOfTime() || len(points) == 0 {
		return ext
	}

	e0 := axis.EigenValues[0]
	// The second eigenvalue enters twice; the third is not used.
	e1 := axis.EigenValues[1]
	transverse := math.Sqrt(e1*e1 + e1*e1)
	if !(e0 > 0 && transverse > 0) {
		return ext
	}

	dir := axis.Direction()
	minArc, maxArc := math.Inf(1), math.Inf(-1)
	for _, sp := range points {
		arc := r3.Dot(r3.Sub(sp.Position, axis.Mean), dir)
		if arc < minArc {
			minArc = arc
			ext.Start = sp.Position
		}
		if arc > maxArc {
			maxArc = arc
			ext.End = sp.Position
		}
	}
	ext.Projected = true
	return ext
}
