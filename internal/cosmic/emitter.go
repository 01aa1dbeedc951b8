package cosmic

// Result is the output of one tagging pass over an event.
type Result struct {
	EventID    string
	Tags       []CosmicTag
	ObjectTags []ObjectTag
	AxisTags   []AxisTag
}

// EmptyResult returns a Result with zero-length output collections.
func EmptyResult(eventID string) Result {
	return Result{
		EventID:    eventID,
		Tags:       []CosmicTag{},
		ObjectTags: []ObjectTag{},
		AxisTags:   []AxisTag{},
	}
}

// CountByKind tallies the tags of r by kind.
func (r Result) CountByKind() map[TagKind]int {
	counts := make(map[TagKind]int, len(AllTagKinds))
	for _, tag := range r.Tags {
		counts[tag.Kind]++
	}
	return counts
}

// Emitter accumulates classifications into a Result.
type Emitter struct {
	result Result
}

// NewEmitter creates an Emitter for one event.
func NewEmitter(eventID string) *Emitter {
	return &Emitter{result: EmptyResult(eventID)}
}

// Emit appends c's tag and registers the object association plus one axis
// association per axis of the object, canonical or not. It returns the tag's
// index.
func (e *Emitter) Emit(c Classification) int {
	idx := len(e.result.Tags)
	e.result.Tags = append(e.result.Tags, c.Tag)
	e.result.ObjectTags = append(e.result.ObjectTags, ObjectTag{ObjectID: c.ObjectID, TagIndex: idx})
	for _, axis := range c.Axes {
		e.result.AxisTags = append(e.result.AxisTags, AxisTag{AxisID: axis.ID, TagIndex: idx})
	}
	return idx
}

// Result returns the accumulated output.
func (e *Emitter) Result() Result {
	return e.result
}
