package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/cosmictag/internal/cosmic"
	"github.com/banshee-data/cosmictag/internal/timeutil"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one stored tagging pass over an event.
type Run struct {
	RunID       string          `json:"run_id"`
	EventID     string          `json:"event_id"`
	CreatedAtNs int64           `json:"created_at_ns"`
	ParamsJSON  json.RawMessage `json:"params_json,omitempty"`
	TagCount    int             `json:"tag_count"`
}

// TagStore provides persistence for tagging runs.
type TagStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewTagStore creates a new TagStore using the wall clock.
func NewTagStore(db *sql.DB) *TagStore {
	return NewTagStoreWithClock(db, timeutil.RealClock{})
}

// NewTagStoreWithClock creates a TagStore that stamps runs using clock.
func NewTagStoreWithClock(db *sql.DB, clock timeutil.Clock) *TagStore {
	return &TagStore{db: db, clock: clock}
}

// InsertResult stores res and the params that produced it as a new run.
// The tags and both association tables are written in one transaction.
func (s *TagStore) InsertResult(res cosmic.Result, params cosmic.Params) (*Run, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	run := &Run{
		RunID:       uuid.New().String(),
		EventID:     res.EventID,
		CreatedAtNs: s.clock.Now().UnixNano(),
		ParamsJSON:  paramsJSON,
		TagCount:    len(res.Tags),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO cosmic_runs (run_id, event_id, created_at_ns, params_json)
		VALUES (?, ?, ?, ?)
	`, run.RunID, run.EventID, run.CreatedAtNs, string(run.ParamsJSON)); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	tagStmt, err := tx.Prepare(`
		INSERT INTO cosmic_tags (
			run_id, tag_index, end1_x, end1_y, end1_z, end2_x, end2_y, end2_z,
			score, kind, cosmic_level
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare tag insert: %w", err)
	}
	defer tagStmt.Close()

	for i, tag := range res.Tags {
		if _, err := tagStmt.Exec(run.RunID, i,
			tag.EndPoint1.X, tag.EndPoint1.Y, tag.EndPoint1.Z,
			tag.EndPoint2.X, tag.EndPoint2.Y, tag.EndPoint2.Z,
			float64(tag.Score), string(tag.Kind), int(tag.Level),
		); err != nil {
			return nil, fmt.Errorf("insert tag %d: %w", i, err)
		}
	}

	for i, a := range res.ObjectTags {
		if _, err := tx.Exec(`
			INSERT INTO cosmic_object_tags (run_id, seq, object_id, tag_index) VALUES (?, ?, ?, ?)
		`, run.RunID, i, a.ObjectID, a.TagIndex); err != nil {
			return nil, fmt.Errorf("insert object tag %d: %w", i, err)
		}
	}

	for i, a := range res.AxisTags {
		if _, err := tx.Exec(`
			INSERT INTO cosmic_axis_tags (run_id, seq, axis_id, tag_index) VALUES (?, ?, ?, ?)
		`, run.RunID, i, a.AxisID, a.TagIndex); err != nil {
			return nil, fmt.Errorf("insert axis tag %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

const runColumns = `
	r.run_id, r.event_id, r.created_at_ns, r.params_json,
	(SELECT COUNT(*) FROM cosmic_tags t WHERE t.run_id = r.run_id)
`

func scanRun(row interface{ Scan(...interface{}) error }) (*Run, error) {
	var run Run
	var paramsJSON sql.NullString
	if err := row.Scan(&run.RunID, &run.EventID, &run.CreatedAtNs, &paramsJSON, &run.TagCount); err != nil {
		return nil, err
	}
	if paramsJSON.Valid && paramsJSON.String != "" {
		run.ParamsJSON = json.RawMessage(paramsJSON.String)
	}
	return &run, nil
}

// GetRun retrieves a run by ID.
func (s *TagStore) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM cosmic_runs r WHERE r.run_id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves runs ordered by creation time, optionally filtered by
// event id.
func (s *TagStore) ListRuns(eventID string) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM cosmic_runs r`
	var args []interface{}
	if eventID != "" {
		query += ` WHERE r.event_id = ?`
		args = append(args, eventID)
	}
	query += ` ORDER BY r.created_at_ns, r.run_id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadResult rebuilds the cosmic.Result stored for a run.
func (s *TagStore) LoadResult(runID string) (cosmic.Result, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return cosmic.Result{}, err
	}
	res := cosmic.EmptyResult(run.EventID)

	rows, err := s.db.Query(`
		SELECT end1_x, end1_y, end1_z, end2_x, end2_y, end2_z, score, kind, cosmic_level
		FROM cosmic_tags WHERE run_id = ? ORDER BY tag_index
	`, runID)
	if err != nil {
		return cosmic.Result{}, fmt.Errorf("query tags: %w", err)
	}
	for rows.Next() {
		var tag cosmic.CosmicTag
		var e1, e2 r3.Vec
		var score float64
		var kind string
		var level int
		if err := rows.Scan(&e1.X, &e1.Y, &e1.Z, &e2.X, &e2.Y, &e2.Z, &score, &kind, &level); err != nil {
			rows.Close()
			return cosmic.Result{}, fmt.Errorf("scan tag: %w", err)
		}
		tag.EndPoint1, tag.EndPoint2 = e1, e2
		tag.Score = float32(score)
		tag.Kind = cosmic.TagKind(kind)
		tag.Level = cosmic.Level(level)
		res.Tags = append(res.Tags, tag)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return cosmic.Result{}, fmt.Errorf("iterate tags: %w", err)
	}

	objectTags, err := s.loadAssociations(`SELECT object_id, tag_index FROM cosmic_object_tags WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return cosmic.Result{}, fmt.Errorf("query object tags: %w", err)
	}
	for _, a := range objectTags {
		res.ObjectTags = append(res.ObjectTags, cosmic.ObjectTag{ObjectID: a[0], TagIndex: int(a[1])})
	}

	axisTags, err := s.loadAssociations(`SELECT axis_id, tag_index FROM cosmic_axis_tags WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return cosmic.Result{}, fmt.Errorf("query axis tags: %w", err)
	}
	for _, a := range axisTags {
		res.AxisTags = append(res.AxisTags, cosmic.AxisTag{AxisID: a[0], TagIndex: int(a[1])})
	}

	return res, nil
}

func (s *TagStore) loadAssociations(query, runID string) ([][2]int64, error) {
	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][2]int64
	for rows.Next() {
		var pair [2]int64
		if err := rows.Scan(&pair[0], &pair[1]); err != nil {
			return nil, err
		}
		out = append(out, pair)
	}
	return out, rows.Err()
}

// CountByKind tallies stored tags by kind for one run, or across every run
// when runID is empty.
func (s *TagStore) CountByKind(runID string) (map[cosmic.TagKind]int, error) {
	query := `SELECT kind, COUNT(*) FROM cosmic_tags`
	var args []interface{}
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` GROUP BY kind`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("count tags: %w", err)
	}
	defer rows.Close()

	counts := make(map[cosmic.TagKind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[cosmic.TagKind(kind)] = n
	}
	return counts, rows.Err()
}

// DeleteRun removes a run and everything stored under it.
func (s *TagStore) DeleteRun(runID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"cosmic_axis_tags", "cosmic_object_tags", "cosmic_tags"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	result, err := tx.Exec(`DELETE FROM cosmic_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return tx.Commit()
}
