package stopsindex

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aubryio/raptorgo/internal/raptor"
	"github.com/aubryio/raptorgo/internal/timetable"
)

// SQLiteIndex is an optional disk-backed StopsIndex, for deployments that
// want the equivalence/name index to outlive the process without holding
// every stop's metadata in memory. The default MemoryIndex needs no
// database; this exists purely so a caller can swap it in.
type SQLiteIndex struct {
	db *sql.DB
}

// OpenSQLiteIndex opens (and, if needed, creates) a stops index at path.
// Use ":memory:" for a throwaway in-process database.
func OpenSQLiteIndex(path string) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening stops index database")
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS stop (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	parent_id INTEGER
);

CREATE TABLE IF NOT EXISTS sibling (
	stop_id    INTEGER NOT NULL,
	sibling_id INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS stop_parent_id_idx ON stop (parent_id);
CREATE INDEX IF NOT EXISTS stop_name_idx ON stop (name);
CREATE INDEX IF NOT EXISTS sibling_stop_id_idx ON sibling (stop_id);
`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating stops index schema")
	}

	return &SQLiteIndex{db: db}, nil
}

// Close releases the underlying database handle.
func (idx *SQLiteIndex) Close() error {
	return idx.db.Close()
}

// PutStop registers a stop, its rider-facing name, and its parent station
// (0 if it has none).
func (idx *SQLiteIndex) PutStop(id timetable.StopId, name string, parentID timetable.StopId) error {
	_, err := idx.db.Exec(
		`INSERT OR REPLACE INTO stop (id, name, parent_id) VALUES (?, ?, ?)`,
		id, name, parentID,
	)
	return errors.Wrapf(err, "putting stop %d", id)
}

// PutSibling declares id and sibling as equivalent stops (symmetrically).
func (idx *SQLiteIndex) PutSibling(id, sibling timetable.StopId) error {
	_, err := idx.db.Exec(`INSERT INTO sibling (stop_id, sibling_id) VALUES (?, ?), (?, ?)`,
		id, sibling, sibling, id)
	return errors.Wrapf(err, "putting sibling %d <-> %d", id, sibling)
}

// Expand implements raptor.StopsIndex by querying children and siblings
// from the database. A failed query contributes no stops, so the result
// always holds at least {id}, since Expand has no error return in the
// StopsIndex contract and a domain miss is never itself an error (spec §7).
func (idx *SQLiteIndex) Expand(id raptor.SourceStopId) []timetable.StopId {
	stop := timetable.StopId(id)
	seen := map[timetable.StopId]struct{}{stop: {}}

	children, err := idx.db.Query(`SELECT id FROM stop WHERE parent_id = ?`, stop)
	if err == nil {
		for children.Next() {
			var c timetable.StopId
			if children.Scan(&c) == nil {
				seen[c] = struct{}{}
			}
		}
		children.Close()
	}

	siblings, err := idx.db.Query(`SELECT sibling_id FROM sibling WHERE stop_id = ?`, stop)
	if err == nil {
		for siblings.Next() {
			var s timetable.StopId
			if siblings.Scan(&s) == nil {
				seen[s] = struct{}{}
			}
		}
		siblings.Close()
	}

	out := make([]timetable.StopId, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	return out
}

// Lookup returns every stop registered under name.
func (idx *SQLiteIndex) Lookup(name string) ([]timetable.StopId, error) {
	rows, err := idx.db.Query(`SELECT id FROM stop WHERE name = ?`, name)
	if err != nil {
		return nil, errors.Wrapf(err, "looking up stop name %q", name)
	}
	defer rows.Close()

	var out []timetable.StopId
	for rows.Next() {
		var id timetable.StopId
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scanning stop id")
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
