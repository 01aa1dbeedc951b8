package cosmic

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/cosmictag/internal/monitoring"
)

// Classification is the full per-object outcome, including the
// intermediate results used for diagnostics.
type Classification struct {
	ObjectID int64
	Tag      CosmicTag

	// Axes are the object's axes in selector order; Axes[0] is canonical.
	Axes   []PrincipalAxis
	Timing TimingResult
	Extent Extent
	Flags  BoundaryFlags
}

// Classify runs every stage for one candidate. ok is false when the
// candidate has no principal axis, in which case it produces no tag.
func Classify(c Candidate, p Params) (Classification, bool) {
	axis, ordered, ok := SelectAxis(c.Axes)
	if !ok {
		return Classification{}, false
	}

	timing := CheckTiming(c.Clusters, p.DriftWindowTicks)
	ext := ProjectExtent(axis, c.SpacePoints, timing)
	decision, flags := ClassifyBoundary(ext, timing, p.Detector, p.Margins)

	return Classification{
		ObjectID: c.ObjectID,
		Tag: CosmicTag{
			EndPoint1: ext.Start,
			EndPoint2: ext.End,
			Score:     decision.Score,
			Kind:      decision.Kind,
			Level:     decision.Level,
		},
		Axes:   ordered,
		Timing: timing,
		Extent: ext,
		Flags:  flags,
	}, true
}

// ErrInvalidEvent marks a Candidates error caused by malformed input
// collections. TagEvent treats such an event like one with a missing
// collection.
var ErrInvalidEvent = errors.New("invalid event collections")

// EventSource supplies the candidates of one event.
type EventSource interface {
	EventID() string
	// Valid is false when a required input collection is missing.
	Valid() bool
	Candidates() ([]Candidate, error)
}

// Tagger classifies every object of an event.
type Tagger struct {
	params Params
}

// NewTagger validates p and returns a Tagger using it for every pass.
func NewTagger(p Params) (*Tagger, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Tagger{params: p}, nil
}

// Params returns the pass parameters.
func (t *Tagger) Params() Params {
	return t.params
}

// Tag classifies candidates concurrently and emits their tags in input
// order, so the result does not depend on the worker count.
func (t *Tagger) Tag(eventID string, candidates []Candidate) Result {
	workers := t.params.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	slots := make([]Classification, len(candidates))
	tagged := make([]bool, len(candidates))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range candidates {
		g.Go(func() error {
			slots[i], tagged[i] = Classify(candidates[i], t.params)
			return nil
		})
	}
	// Classify never fails, so Wait has no error to report.
	_ = g.Wait()

	em := NewEmitter(eventID)
	for i := range slots {
		if !tagged[i] {
			continue
		}
		c := slots[i]
		idx := em.Emit(c)
		monitoring.Debugf("[cosmic] event %s object %d -> tag %d: kind=%s level=%d score=%.1f axes=%d out_of_time_clusters=%d",
			eventID, c.ObjectID, idx, c.Tag.Kind, c.Tag.Level, c.Tag.Score, len(c.Axes), c.Timing.OutOfTimeClusters)
	}
	return em.Result()
}

// TagEvent tags an event source. An event missing a required collection,
// or whose collections fail resolution with ErrInvalidEvent, yields an
// empty result and no error.
func (t *Tagger) TagEvent(src EventSource) (Result, error) {
	id := src.EventID()
	if !src.Valid() {
		monitoring.Logf("[cosmic] event %s: missing input collections, emitting empty output", id)
		return EmptyResult(id), nil
	}
	candidates, err := src.Candidates()
	if errors.Is(err, ErrInvalidEvent) {
		monitoring.Logf("[cosmic] event %s: %v, emitting empty output", id, err)
		return EmptyResult(id), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("resolve candidates for event %s: %w", id, err)
	}
	return t.Tag(id, candidates), nil
}
