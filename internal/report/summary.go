// Package report summarises tagging results by tag kind and renders the
// summary as text, a PNG bar chart or an HTML page.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/banshee-data/cosmictag/internal/cosmic"
)

// Summary counts tags by kind over one or more events.
type Summary struct {
	Events int
	Tagged int
	Counts map[cosmic.TagKind]int
}

// Row is one line of a summary.
type Row struct {
	Kind  cosmic.TagKind
	Score float32
	Count int
}

// Summarise tallies every tag in results.
func Summarise(results []cosmic.Result) Summary {
	s := FromCounts(nil)
	s.Events = len(results)
	for _, res := range results {
		for kind, n := range res.CountByKind() {
			s.Counts[kind] += n
			s.Tagged += n
		}
	}
	return s
}

// FromCounts builds a summary from precomputed counts, such as those
// returned by the tag store.
func FromCounts(counts map[cosmic.TagKind]int) Summary {
	s := Summary{Counts: make(map[cosmic.TagKind]int, len(cosmic.AllTagKinds))}
	for kind, n := range counts {
		s.Counts[kind] = n
		s.Tagged += n
	}
	return s
}

// Rows returns one row per known tag kind in cosmic.AllTagKinds order,
// including kinds with no tags.
func (s Summary) Rows() []Row {
	rows := make([]Row, 0, len(cosmic.AllTagKinds))
	for _, kind := range cosmic.AllTagKinds {
		rows = append(rows, Row{Kind: kind, Score: cosmic.ScoreFor(kind), Count: s.Counts[kind]})
	}
	return rows
}

// CosmicFraction is the share of tags with a non-zero score.
func (s Summary) CosmicFraction() float64 {
	if s.Tagged == 0 {
		return 0
	}
	cosmicTags := 0
	for kind, n := range s.Counts {
		if cosmic.ScoreFor(kind) > 0 {
			cosmicTags += n
		}
	}
	return float64(cosmicTags) / float64(s.Tagged)
}

// WriteText writes the summary as an aligned table.
func WriteText(w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "KIND\tSCORE\tCOUNT\n")
	for _, r := range s.Rows() {
		fmt.Fprintf(tw, "%s\t%.1f\t%d\n", r.Kind, r.Score, r.Count)
	}
	fmt.Fprintf(tw, "total\t\t%d\n", s.Tagged)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "events=%d cosmic_fraction=%.3f\n", s.Events, s.CosmicFraction())
	return err
}
