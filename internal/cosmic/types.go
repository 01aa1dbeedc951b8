package cosmic

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// PrincipalAxis is the centroid and eigen decomposition of an object's
// 3D point cloud. Eigenvalues are ordered with the dominant spread first and
// row 0 of EigenVectors is the principal direction. Any mat.Matrix with at
// least one row of three columns is accepted, so a transposed view of a
// column-eigenvector matrix can be used without copying.
type PrincipalAxis struct {
	ID           int64
	Mean         r3.Vec
	EigenValues  [3]float64
	EigenVectors mat.Matrix
}

// NewPrincipalAxis builds an axis from plain arrays. Rows of vectors are
// eigenvectors in eigenvalue order.
func NewPrincipalAxis(id int64, mean r3.Vec, values [3]float64, vectors [3][3]float64) PrincipalAxis {
	data := make([]float64, 0, 9)
	for _, row := range vectors {
		data = append(data, row[:]...)
	}
	return PrincipalAxis{
		ID:           id,
		Mean:         mean,
		EigenValues:  values,
		EigenVectors: mat.NewDense(3, 3, data),
	}
}

// Direction returns the principal direction (eigenvector row 0). An axis
// without a usable eigenvector matrix has a zero direction.
func (a PrincipalAxis) Direction() r3.Vec {
	if a.EigenVectors == nil {
		return r3.Vec{}
	}
	if r, c := a.EigenVectors.Dims(); r < 1 || c < 3 {
		return r3.Vec{}
	}
	row := mat.Row(nil, 0, a.EigenVectors)
	return r3.Vec{X: row[0], Y: row[1], Z: row[2]}
}

// Hit is a reconstructed 2D hit. Times are in readout ticks.
type Hit struct {
	ID               int64
	PeakTime         float64
	PeakTimeMinusRMS float64
	PeakTimePlusRMS  float64
}

// Cluster is an ordered set of hits.
type Cluster struct {
	ID   int64
	Hits []Hit
}

// SpacePoint is a reconstructed 3D position.
type SpacePoint struct {
	ID       int64
	Position r3.Vec
}

// Candidate is one reconstructed object with everything associated to it,
// in association order.
type Candidate struct {
	ObjectID    int64
	Axes        []PrincipalAxis
	Clusters    []Cluster
	SpacePoints []SpacePoint
}

// TagKind enumerates the reasons an object was (or was not) tagged.
type TagKind string

const (
	TagNotTagged           TagKind = "NotTagged"
	TagOutsideDriftPartial TagKind = "OutsideDrift_Partial"
	TagGeometryXX          TagKind = "Geometry_XX"
	TagGeometryYY          TagKind = "Geometry_YY"
	TagGeometryXY          TagKind = "Geometry_XY"
	TagGeometryXZ          TagKind = "Geometry_XZ"
	TagGeometryYZ          TagKind = "Geometry_YZ"
	TagGeometryZZ          TagKind = "Geometry_ZZ"
	TagGeometryX           TagKind = "Geometry_X"
	TagGeometryY           TagKind = "Geometry_Y"
	TagGeometryZ           TagKind = "Geometry_Z"
)

// AllTagKinds lists every tag kind in report order.
var AllTagKinds = []TagKind{
	TagNotTagged,
	TagOutsideDriftPartial,
	TagGeometryXX,
	TagGeometryYY,
	TagGeometryXY,
	TagGeometryXZ,
	TagGeometryYZ,
	TagGeometryZZ,
	TagGeometryX,
	TagGeometryY,
	TagGeometryZ,
}

// Valid reports whether k is one of the known tag kinds.
func (k TagKind) Valid() bool {
	for _, known := range AllTagKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Scores attached to each tag kind.
const (
	ScoreNotTagged      float32 = 0.0
	ScoreCosmic         float32 = 1.0
	ScoreBothZ          float32 = 0.4
	ScoreSingleBoundary float32 = 0.5
)

// ScoreFor returns the score carried by a tag of kind k.
func ScoreFor(k TagKind) float32 {
	switch k {
	case TagOutsideDriftPartial,
		TagGeometryXX, TagGeometryYY, TagGeometryXY, TagGeometryXZ, TagGeometryYZ:
		return ScoreCosmic
	case TagGeometryZZ:
		return ScoreBothZ
	case TagGeometryX, TagGeometryY, TagGeometryZ:
		return ScoreSingleBoundary
	default:
		return ScoreNotTagged
	}
}

// Level is the cosmic level reached by the classifier.
type Level int

const (
	LevelNone Level = iota
	LevelOutOfTime
	LevelThroughGoing
	LevelBothZ
	LevelSingleBoundary
)

// CosmicTag is the classifier output for one object.
type CosmicTag struct {
	EndPoint1 r3.Vec
	EndPoint2 r3.Vec
	Score     float32
	Kind      TagKind
	Level     Level
}

// ObjectTag associates an object with a tag, by index into Result.Tags.
type ObjectTag struct {
	ObjectID int64
	TagIndex int
}

// AxisTag associates a principal axis with a tag, by index into Result.Tags.
type AxisTag struct {
	AxisID   int64
	TagIndex int
}
