// Package stopsindex implements the "equivalent stops" collaborator the
// router depends on (spec §1/§6): expanding a caller-supplied source stop
// id into every concrete timetable.StopId it denotes — itself, its child
// platforms if it is a station, and any stops declared as siblings (e.g.
// the same physical stop shared by two feeds/agencies under different
// ids) — plus a rider-facing name lookup.
package stopsindex

import (
	"sort"

	"github.com/aubryio/raptorgo/internal/raptor"
	"github.com/aubryio/raptorgo/internal/timetable"
)

// MemoryIndex is the default, in-memory StopsIndex: three dense lookup
// maps built once by a caller (typically alongside a Timetable) and never
// mutated afterward.
type MemoryIndex struct {
	children map[timetable.StopId][]timetable.StopId
	siblings map[timetable.StopId][]timetable.StopId
	names    map[string][]timetable.StopId
}

// NewMemoryIndex builds a MemoryIndex from its constituent maps. Any of
// the three may be nil, treated as empty.
func NewMemoryIndex(
	children map[timetable.StopId][]timetable.StopId,
	siblings map[timetable.StopId][]timetable.StopId,
	names map[string][]timetable.StopId,
) *MemoryIndex {
	return &MemoryIndex{children: children, siblings: siblings, names: names}
}

// Expand returns {id} ∪ children[id] ∪ siblings[id], deduplicated and
// sorted for deterministic callers (tie-breaking in Result.BestRoute
// depends on stable StopId ordering, not on this method's order, but
// deterministic output still makes router_test.go-style fixtures
// reproducible).
func (idx *MemoryIndex) Expand(id raptor.SourceStopId) []timetable.StopId {
	stop := timetable.StopId(id)
	seen := map[timetable.StopId]struct{}{stop: {}}
	for _, c := range idx.children[stop] {
		seen[c] = struct{}{}
	}
	for _, s := range idx.siblings[stop] {
		seen[s] = struct{}{}
	}
	out := make([]timetable.StopId, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup returns every stop registered under a rider-facing name, or nil
// if the name is unknown.
func (idx *MemoryIndex) Lookup(name string) []timetable.StopId {
	return idx.names[name]
}
