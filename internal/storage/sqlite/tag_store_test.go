package sqlite

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/cosmictag/internal/cosmic"
	"github.com/banshee-data/cosmictag/internal/monitoring"
	"github.com/banshee-data/cosmictag/internal/timeutil"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	monitoring.SetLogger(t.Logf)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResult(eventID string) cosmic.Result {
	return cosmic.Result{
		EventID: eventID,
		Tags: []cosmic.CosmicTag{
			{
				EndPoint1: r3.Vec{X: 2, Y: 0, Z: 500},
				EndPoint2: r3.Vec{X: 254, Y: 0, Z: 500},
				Score:     cosmic.ScoreCosmic,
				Kind:      cosmic.TagGeometryXX,
				Level:     cosmic.LevelThroughGoing,
			},
			{
				EndPoint1: r3.Vec{X: 128, Y: 0.25, Z: 2},
				EndPoint2: r3.Vec{X: 128, Y: -0.5, Z: 1034},
				Score:     cosmic.ScoreBothZ,
				Kind:      cosmic.TagGeometryZZ,
				Level:     cosmic.LevelBothZ,
			},
		},
		ObjectTags: []cosmic.ObjectTag{{ObjectID: 1, TagIndex: 0}, {ObjectID: 4, TagIndex: 1}},
		AxisTags: []cosmic.AxisTag{
			{AxisID: 3, TagIndex: 0},
			{AxisID: 5, TagIndex: 0},
			{AxisID: 11, TagIndex: 1},
		},
	}
}

func testParams() cosmic.Params {
	return cosmic.Params{
		Detector:         cosmic.Detector{Width: 256, HalfHeight: 116, Length: 1036},
		Margins:          cosmic.DefaultMargins(),
		DriftWindowTicks: 3200,
	}
}

func TestOpen_AppliesMigrations(t *testing.T) {
	db := setupTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Running again is a no-op.
	require.NoError(t, db.MigrateUp())

	for _, table := range []string{"cosmic_runs", "cosmic_tags", "cosmic_object_tags", "cosmic_axis_tags"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestTagStore_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	store := NewTagStore(db.DB)

	want := sampleResult("evt-1")
	run, err := store.InsertResult(want, testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, 2, run.TagCount)

	got, err := store.LoadResult(run.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stored result mismatch (-want +got):\n%s", diff)
	}

	stored, err := store.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", stored.EventID)
	assert.Equal(t, 2, stored.TagCount)

	var params cosmic.Params
	require.NoError(t, json.Unmarshal(stored.ParamsJSON, &params))
	assert.Equal(t, testParams(), params)
}

func TestTagStore_EmptyResult(t *testing.T) {
	db := setupTestDB(t)
	store := NewTagStore(db.DB)

	run, err := store.InsertResult(cosmic.EmptyResult("evt-empty"), testParams())
	require.NoError(t, err)

	got, err := store.LoadResult(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, "evt-empty", got.EventID)
	assert.Len(t, got.Tags, 0)
	assert.Len(t, got.ObjectTags, 0)
	assert.Len(t, got.AxisTags, 0)
}

func TestTagStore_ListRunsAndCounts(t *testing.T) {
	db := setupTestDB(t)
	base := time.Unix(1700000000, 0)
	store := NewTagStoreWithClock(db.DB, timeutil.NewSteppingClock(base, time.Second))

	first, err := store.InsertResult(sampleResult("evt-a"), testParams())
	require.NoError(t, err)
	second, err := store.InsertResult(sampleResult("evt-b"), testParams())
	require.NoError(t, err)
	third, err := store.InsertResult(sampleResult("evt-a"), testParams())
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Second).UnixNano(), first.CreatedAtNs)
	assert.Equal(t, base.Add(3*time.Second).UnixNano(), third.CreatedAtNs)

	all, err := store.ListRuns("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{first.RunID, second.RunID, third.RunID},
		[]string{all[0].RunID, all[1].RunID, all[2].RunID})

	runsA, err := store.ListRuns("evt-a")
	require.NoError(t, err)
	require.Len(t, runsA, 2)
	assert.Equal(t, third.RunID, runsA[1].RunID)

	counts, err := store.CountByKind(first.RunID)
	require.NoError(t, err)
	assert.Equal(t, map[cosmic.TagKind]int{cosmic.TagGeometryXX: 1, cosmic.TagGeometryZZ: 1}, counts)

	total, err := store.CountByKind("")
	require.NoError(t, err)
	assert.Equal(t, 3, total[cosmic.TagGeometryXX])
}

func TestTagStore_DeleteRun(t *testing.T) {
	db := setupTestDB(t)
	store := NewTagStore(db.DB)

	run, err := store.InsertResult(sampleResult("evt"), testParams())
	require.NoError(t, err)

	require.NoError(t, store.DeleteRun(run.RunID))

	_, err = store.GetRun(run.RunID)
	assert.True(t, errors.Is(err, ErrRunNotFound))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cosmic_axis_tags`).Scan(&n))
	assert.Zero(t, n)

	err = store.DeleteRun(run.RunID)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestTagStore_LoadMissingRun(t *testing.T) {
	db := setupTestDB(t)
	store := NewTagStore(db.DB)

	_, err := store.LoadResult("no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
