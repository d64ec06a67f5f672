package raptor

import (
	"github.com/aubryio/raptorgo/internal/timetable"
)

// roundEdges is the per-stop edge map for a single round. Edges are kept
// in an append-only arena so that a ContinuationOf back-reference, taken
// at the moment an edge is written, stays valid even if a later
// improvement in the same round overwrites that stop's current-best entry
// — multiple continuation chains may fan in to the same prior edge, and
// none of them should observe a stop's edge changing out from under them.
type roundEdges struct {
	arena  []RoutingEdge
	byStop map[timetable.StopId]int
}

func newRoundEdges() *roundEdges {
	return &roundEdges{byStop: map[timetable.StopId]int{}}
}

// set records edge as the current-best edge reaching stop in this round
// and returns its stable arena index.
func (re *roundEdges) set(stop timetable.StopId, edge RoutingEdge) int {
	idx := len(re.arena)
	re.arena = append(re.arena, edge)
	re.byStop[stop] = idx
	return idx
}

// get returns the current-best edge reaching stop in this round, if any.
func (re *roundEdges) get(stop timetable.StopId) (RoutingEdge, bool) {
	idx, ok := re.byStop[stop]
	if !ok {
		return RoutingEdge{}, false
	}
	return re.arena[idx], true
}

// at dereferences a stable arena index obtained from set or from another
// edge's ContinuationOf field.
func (re *roundEdges) at(idx int) RoutingEdge {
	return re.arena[idx]
}
