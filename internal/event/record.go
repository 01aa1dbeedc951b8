package event

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/cosmictag/internal/cosmic"
)

// Both resolution errors wrap cosmic.ErrInvalidEvent, so the tagger emits
// empty output for the event instead of failing.
var (
	// ErrDanglingAssociation is returned when an association references an
	// id missing from its collection.
	ErrDanglingAssociation = fmt.Errorf("%w: association references unknown id", cosmic.ErrInvalidEvent)

	// ErrDuplicateID is returned when a collection holds the same id twice.
	ErrDuplicateID = fmt.Errorf("%w: duplicate id in collection", cosmic.ErrInvalidEvent)
)

// Object is a reconstructed particle-flow object.
type Object struct {
	ID int64 `json:"id" yaml:"id"`
}

// Axis is a stored principal axis.
type Axis struct {
	ID           int64         `json:"id" yaml:"id"`
	Mean         [3]float64    `json:"mean" yaml:"mean"`
	EigenValues  [3]float64    `json:"eigenvalues" yaml:"eigenvalues"`
	EigenVectors [3][3]float64 `json:"eigenvectors" yaml:"eigenvectors"`
}

// Cluster is a stored cluster; its hits are listed in ClusterHits.
type Cluster struct {
	ID int64 `json:"id" yaml:"id"`
}

// Hit is a stored hit. Times are in ticks.
type Hit struct {
	ID               int64   `json:"id" yaml:"id"`
	PeakTime         float64 `json:"peak_time" yaml:"peak_time"`
	PeakTimeMinusRMS float64 `json:"peak_time_minus_rms" yaml:"peak_time_minus_rms"`
	PeakTimePlusRMS  float64 `json:"peak_time_plus_rms" yaml:"peak_time_plus_rms"`
}

// SpacePoint is a stored 3D point.
type SpacePoint struct {
	ID  int64      `json:"id" yaml:"id"`
	XYZ [3]float64 `json:"xyz" yaml:"xyz"`
}

// Association links two ids. Order within a table is significant.
type Association struct {
	From int64 `json:"from" yaml:"from"`
	To   int64 `json:"to" yaml:"to"`
}

// Record is one event. A nil collection means the producer did not write it;
// an empty one means it wrote nothing.
type Record struct {
	ID string `json:"event_id" yaml:"event_id"`

	Objects     []Object     `json:"objects" yaml:"objects"`
	Axes        []Axis       `json:"axes" yaml:"axes"`
	Clusters    []Cluster    `json:"clusters" yaml:"clusters"`
	Hits        []Hit        `json:"hits" yaml:"hits"`
	SpacePoints []SpacePoint `json:"space_points" yaml:"space_points"`

	ObjectAxes        []Association `json:"object_axes" yaml:"object_axes"`
	ObjectClusters    []Association `json:"object_clusters,omitempty" yaml:"object_clusters,omitempty"`
	ClusterHits       []Association `json:"cluster_hits,omitempty" yaml:"cluster_hits,omitempty"`
	ObjectSpacePoints []Association `json:"object_space_points" yaml:"object_space_points"`
}

// EventID returns the event identifier.
func (r *Record) EventID() string {
	return r.ID
}

// Valid reports whether the object, axis, cluster and space point
// collections are present, along with the object to axis and object to
// space point tables. Cluster and hit tables may be absent.
func (r *Record) Valid() bool {
	return r.Objects != nil && r.Axes != nil && r.Clusters != nil && r.SpacePoints != nil &&
		r.ObjectAxes != nil && r.ObjectSpacePoints != nil
}

// Candidates resolves the association tables into one candidate per object,
// in object order. Associated items keep association-table order.
func (r *Record) Candidates() ([]cosmic.Candidate, error) {
	axes := make(map[int64]cosmic.PrincipalAxis, len(r.Axes))
	for _, a := range r.Axes {
		if _, dup := axes[a.ID]; dup {
			return nil, fmt.Errorf("axes: %w: %d", ErrDuplicateID, a.ID)
		}
		axes[a.ID] = cosmic.NewPrincipalAxis(a.ID, vec(a.Mean), a.EigenValues, a.EigenVectors)
	}

	hits := make(map[int64]cosmic.Hit, len(r.Hits))
	for _, h := range r.Hits {
		if _, dup := hits[h.ID]; dup {
			return nil, fmt.Errorf("hits: %w: %d", ErrDuplicateID, h.ID)
		}
		hits[h.ID] = cosmic.Hit{
			ID:               h.ID,
			PeakTime:         h.PeakTime,
			PeakTimeMinusRMS: h.PeakTimeMinusRMS,
			PeakTimePlusRMS:  h.PeakTimePlusRMS,
		}
	}

	clusters := make(map[int64]*cosmic.Cluster, len(r.Clusters))
	for _, c := range r.Clusters {
		if _, dup := clusters[c.ID]; dup {
			return nil, fmt.Errorf("clusters: %w: %d", ErrDuplicateID, c.ID)
		}
		clusters[c.ID] = &cosmic.Cluster{ID: c.ID}
	}
	for _, a := range r.ClusterHits {
		cl, ok := clusters[a.From]
		if !ok {
			return nil, fmt.Errorf("cluster_hits: %w: cluster %d", ErrDanglingAssociation, a.From)
		}
		h, ok := hits[a.To]
		if !ok {
			return nil, fmt.Errorf("cluster_hits: %w: hit %d", ErrDanglingAssociation, a.To)
		}
		cl.Hits = append(cl.Hits, h)
	}

	points := make(map[int64]cosmic.SpacePoint, len(r.SpacePoints))
	for _, sp := range r.SpacePoints {
		if _, dup := points[sp.ID]; dup {
			return nil, fmt.Errorf("space_points: %w: %d", ErrDuplicateID, sp.ID)
		}
		points[sp.ID] = cosmic.SpacePoint{ID: sp.ID, Position: vec(sp.XYZ)}
	}

	candidates := make([]cosmic.Candidate, len(r.Objects))
	index := make(map[int64]int, len(r.Objects))
	for i, o := range r.Objects {
		if _, dup := index[o.ID]; dup {
			return nil, fmt.Errorf("objects: %w: %d", ErrDuplicateID, o.ID)
		}
		index[o.ID] = i
		candidates[i].ObjectID = o.ID
	}

	for _, a := range r.ObjectAxes {
		i, ok := index[a.From]
		if !ok {
			return nil, fmt.Errorf("object_axes: %w: object %d", ErrDanglingAssociation, a.From)
		}
		axis, ok := axes[a.To]
		if !ok {
			return nil, fmt.Errorf("object_axes: %w: axis %d", ErrDanglingAssociation, a.To)
		}
		candidates[i].Axes = append(candidates[i].Axes, axis)
	}

	for _, a := range r.ObjectClusters {
		i, ok := index[a.From]
		if !ok {
			return nil, fmt.Errorf("object_clusters: %w: object %d", ErrDanglingAssociation, a.From)
		}
		cl, ok := clusters[a.To]
		if !ok {
			return nil, fmt.Errorf("object_clusters: %w: cluster %d", ErrDanglingAssociation, a.To)
		}
		candidates[i].Clusters = append(candidates[i].Clusters, *cl)
	}

	for _, a := range r.ObjectSpacePoints {
		i, ok := index[a.From]
		if !ok {
			return nil, fmt.Errorf("object_space_points: %w: object %d", ErrDanglingAssociation, a.From)
		}
		sp, ok := points[a.To]
		if !ok {
			return nil, fmt.Errorf("object_space_points: %w: space point %d", ErrDanglingAssociation, a.To)
		}
		candidates[i].SpacePoints = append(candidates[i].SpacePoints, sp)
	}

	return candidates, nil
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
