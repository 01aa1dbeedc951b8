// Package sqlite persists tagging passes in SQLite.
//
// Each pass over an event is stored as a run: the run row, its ordered
// cosmic tags, and the object→tag and axis→tag association tables. Tags are
// referenced by their index within the run, matching cosmic.Result. The
// schema is managed by the migrations embedded in this package.
package sqlite
