package event

import (
	"encoding/json"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/cosmictag/internal/cosmic"
)

// TagRecord is the stored form of a cosmic tag.
type TagRecord struct {
	EndPoint1 [3]float64     `json:"end_point_1" yaml:"end_point_1"`
	EndPoint2 [3]float64     `json:"end_point_2" yaml:"end_point_2"`
	Score     float32        `json:"score" yaml:"score"`
	Kind      cosmic.TagKind `json:"kind" yaml:"kind"`
	Level     int            `json:"cosmic_level" yaml:"cosmic_level"`
}

// TagAssociation links an object or axis id to a tag index.
type TagAssociation struct {
	ID       int64 `json:"id" yaml:"id"`
	TagIndex int   `json:"tag" yaml:"tag"`
}

// Output is the stored form of one tagging pass.
type Output struct {
	EventID    string           `json:"event_id" yaml:"event_id"`
	Tags       []TagRecord      `json:"tags" yaml:"tags"`
	ObjectTags []TagAssociation `json:"object_tags" yaml:"object_tags"`
	AxisTags   []TagAssociation `json:"axis_tags" yaml:"axis_tags"`
}

// NewOutput converts a tagger result into its stored form.
func NewOutput(res cosmic.Result) Output {
	out := Output{
		EventID:    res.EventID,
		Tags:       make([]TagRecord, len(res.Tags)),
		ObjectTags: make([]TagAssociation, len(res.ObjectTags)),
		AxisTags:   make([]TagAssociation, len(res.AxisTags)),
	}
	for i, t := range res.Tags {
		out.Tags[i] = TagRecord{
			EndPoint1: arr(t.EndPoint1),
			EndPoint2: arr(t.EndPoint2),
			Score:     t.Score,
			Kind:      t.Kind,
			Level:     int(t.Level),
		}
	}
	for i, a := range res.ObjectTags {
		out.ObjectTags[i] = TagAssociation{ID: a.ObjectID, TagIndex: a.TagIndex}
	}
	for i, a := range res.AxisTags {
		out.AxisTags[i] = TagAssociation{ID: a.AxisID, TagIndex: a.TagIndex}
	}
	return out
}

// WriteJSON writes outputs as an indented JSON array.
func WriteJSON(w io.Writer, outputs []Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}

func arr(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
