package cosmic

import "gonum.org/v1/gonum/spatial/r3"

// EndpointFlags records which detector faces an endpoint is near.
type EndpointFlags struct {
	NearX bool
	NearY bool
	NearZ bool
}

// Exit reports whether the endpoint is near an X or Y face.
func (f EndpointFlags) Exit() bool {
	return f.NearX || f.NearY
}

// Any reports whether the endpoint is near any face.
func (f EndpointFlags) Any() bool {
	return f.NearX || f.NearY || f.NearZ
}

// EndpointProximity tests p against each pair of detector faces.
func EndpointProximity(p r3.Vec, det Detector, m Margins) EndpointFlags {
	return EndpointFlags{
		NearX: det.Width-p.X < m.X || p.X < m.X,
		NearY: det.HalfHeight-p.Y < m.Y || det.HalfHeight+p.Y < m.Y,
		NearZ: det.Length-p.Z < m.Z || p.Z < m.Z,
	}
}

// BoundaryFlags holds the proximity flags of both endpoints.
type BoundaryFlags struct {
	Start EndpointFlags
	End   EndpointFlags
}

// ComputeBoundaryFlags evaluates EndpointProximity for both ends of ext.
func ComputeBoundaryFlags(ext Extent, det Detector, m Margins) BoundaryFlags {
	return BoundaryFlags{
		Start: EndpointProximity(ext.Start, det, m),
		End:   EndpointProximity(ext.End, det, m),
	}
}

// ExitZ1 is true when the start leaves through X/Y and the end is near Z.
func (b BoundaryFlags) ExitZ1() bool {
	return b.Start.Exit() && b.End.NearZ
}

// ExitZ2 is true when the start leaves through X/Y and is also near Z.
// Both cross terms are gated on the start endpoint.
func (b BoundaryFlags) ExitZ2() bool {
	return b.Start.Exit() && b.Start.NearZ
}

// Decision is the classifier verdict for one object.
type Decision struct {
	Level Level
	Kind  TagKind
	Score float32
}

func decide(level Level, kind TagKind) Decision {
	return Decision{Level: level, Kind: kind, Score: ScoreFor(kind)}
}

// DecideBoundary applies the geometric rules in priority order. ok is false
// when no boundary rule matched.
func DecideBoundary(b BoundaryFlags) (d Decision, ok bool) {
	s, e := b.Start, b.End
	anyX := s.NearX || e.NearX
	anyY := s.NearY || e.NearY
	anyZ := s.NearZ || e.NearZ

	// Enters and exits. Entering and exiting the same face still counts once
	// per endpoint, so a track skimming one face is not through-going.
	if (s.Exit() && e.Exit()) || b.ExitZ1() || b.ExitZ2() {
		switch {
		case s.NearX && e.NearX:
			return decide(LevelThroughGoing, TagGeometryXX), true
		case s.NearY && e.NearY:
			return decide(LevelThroughGoing, TagGeometryYY), true
		case anyX && anyY:
			return decide(LevelThroughGoing, TagGeometryXY), true
		case anyX && anyZ:
			return decide(LevelThroughGoing, TagGeometryXZ), true
		default:
			return decide(LevelThroughGoing, TagGeometryYZ), true
		}
	}

	if s.NearZ && e.NearZ {
		return decide(LevelBothZ, TagGeometryZZ), true
	}

	// One end on a boundary, the other contained.
	if s.Any() != e.Any() {
		switch {
		case anyX:
			return decide(LevelSingleBoundary, TagGeometryX), true
		case anyY:
			return decide(LevelSingleBoundary, TagGeometryY), true
		default:
			return decide(LevelSingleBoundary, TagGeometryZ), true
		}
	}

	return Decision{}, false
}

// ClassifyBoundary turns an extent and timing result into a Decision.
// Geometric rules are evaluated only for projected extents; otherwise, or
// when no rule matches, the timing verdict stands.
func ClassifyBoundary(ext Extent, timing TimingResult, det Detector, m Margins) (Decision, BoundaryFlags) {
	var flags BoundaryFlags
	if ext.Projected {
		flags = ComputeBoundaryFlags(ext, det, m)
		if d, ok := DecideBoundary(flags); ok {
			return d, flags
		}
	}
	if timing.OutOfTime() {
		return decide(LevelOutOfTime, TagOutsideDriftPartial), flags
	}
	return decide(LevelNone, TagNotTagged), flags
}
