package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/cosmictag/internal/cosmic"
)

func results() []cosmic.Result {
	return []cosmic.Result{
		{EventID: "a", Tags: []cosmic.CosmicTag{
			{Kind: cosmic.TagGeometryXX, Score: 1},
			{Kind: cosmic.TagNotTagged},
		}},
		{EventID: "b", Tags: []cosmic.CosmicTag{
			{Kind: cosmic.TagGeometryXX, Score: 1},
			{Kind: cosmic.TagGeometryZZ, Score: 0.4},
		}},
		cosmic.EmptyResult("c"),
	}
}

func TestSummarise(t *testing.T) {
	s := Summarise(results())

	assert.Equal(t, 3, s.Events)
	assert.Equal(t, 4, s.Tagged)
	assert.Equal(t, 2, s.Counts[cosmic.TagGeometryXX])
	assert.InDelta(t, 0.75, s.CosmicFraction(), 1e-9)

	rows := s.Rows()
	require.Len(t, rows, len(cosmic.AllTagKinds))
	assert.Equal(t, cosmic.TagNotTagged, rows[0].Kind)
	assert.Equal(t, 1, rows[0].Count)
	for _, r := range rows {
		assert.Equal(t, cosmic.ScoreFor(r.Kind), r.Score)
	}
}

func TestFromCounts(t *testing.T) {
	s := FromCounts(map[cosmic.TagKind]int{cosmic.TagGeometryX: 3, cosmic.TagNotTagged: 1})
	assert.Equal(t, 4, s.Tagged)
	assert.InDelta(t, 0.75, s.CosmicFraction(), 1e-9)

	assert.Zero(t, FromCounts(nil).CosmicFraction())
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Summarise(results())))

	out := buf.String()
	assert.Contains(t, out, "Geometry_XX")
	assert.Contains(t, out, "events=3")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header + one row per kind + total + footer
	assert.Len(t, lines, len(cosmic.AllTagKinds)+3)
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.png")
	require.NoError(t, WritePNG(path, Summarise(results())))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWritePNG_EmptySummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, WritePNG(path, Summarise(nil)))
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Summarise(results())))

	html := buf.String()
	assert.Contains(t, html, "Cosmic tags by kind")
	assert.Contains(t, html, "Geometry_ZZ")
}
