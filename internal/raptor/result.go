package raptor

import (
	"fmt"

	"github.com/aubryio/raptorgo/internal/raptortime"
	"github.com/aubryio/raptorgo/internal/timetable"
)

// Arrival is the best reach recorded at a stop across all rounds so far.
type Arrival struct {
	Arrival   raptortime.Time
	LegNumber int
}

// VehicleSegment is one in-seat-chained piece of a Vehicle leg: board
// RouteID's TripIndex at FromIndex (stop FromStop), ride to ToIndex (stop
// ToStop).
type VehicleSegment struct {
	RouteID   timetable.RouteId
	TripIndex timetable.TripRouteIndex
	FromStop  timetable.StopId
	ToStop    timetable.StopId
	FromIndex timetable.StopRouteIndex
	ToIndex   timetable.StopRouteIndex
}

// Leg is one rider-visible leg of a reconstructed journey: either a ride
// (possibly chaining several in-seat continuations into a single Segments
// list) or a single walking/in-seat Transfer.
type Leg struct {
	IsVehicle bool
	From      timetable.StopId
	To        timetable.StopId
	Arrival   raptortime.Time

	// Populated when IsVehicle: earliest segment first.
	Segments []VehicleSegment

	// Populated when !IsVehicle.
	TransferType    timetable.TransferType
	MinTransferTime *raptortime.Duration
}

// RouteResult is a fully reconstructed journey to one destination.
type RouteResult struct {
	Destination timetable.StopId
	Arrival     raptortime.Time
	LegNumber   int
	Legs        []Leg
}

// Result is the router's output: the best-known arrival at every reached
// stop, the round-by-round predecessor edge graph, and the expanded
// destination set. It is owned exclusively by the caller that received it
// — nothing in the Timetable references it.
type Result struct {
	earliestArrivals map[timetable.StopId]Arrival
	graph            []*roundEdges
	destinations     map[timetable.StopId]struct{}
	stopsIndex       StopsIndex
}

// EarliestArrivals returns the best reach across all rounds, keyed by
// stop. Callers must not mutate the returned map.
func (r *Result) EarliestArrivals() map[timetable.StopId]Arrival {
	return r.earliestArrivals
}

// RoundCount returns the number of rounds actually recorded, including
// round 0 (the origin round).
func (r *Result) RoundCount() int {
	return len(r.graph)
}

// EdgeAt returns the edge recorded for stop in round k, if any.
func (r *Result) EdgeAt(k int, stop timetable.StopId) (RoutingEdge, bool) {
	if k < 0 || k >= len(r.graph) {
		return RoutingEdge{}, false
	}
	return r.graph[k].get(stop)
}

// EdgesInRound returns every edge recorded in round k, keyed by the stop
// it arrives at. It exists for callers that need to walk the whole
// predecessor graph (e.g. a DOT dump), not just reconstruct one journey.
func (r *Result) EdgesInRound(k int) map[timetable.StopId]RoutingEdge {
	if k < 0 || k >= len(r.graph) {
		return nil
	}
	round := r.graph[k]
	out := make(map[timetable.StopId]RoutingEdge, len(round.byStop))
	for stop, idx := range round.byStop {
		out[stop] = round.arena[idx]
	}
	return out
}

// Destinations returns the expanded destination stop set.
func (r *Result) Destinations() map[timetable.StopId]struct{} {
	return r.destinations
}

// destinationStops expands a to argument the way the Router did for the
// original query: nil means "use the query's own destinations".
func (r *Result) destinationStops(to []SourceStopId) map[timetable.StopId]struct{} {
	if to == nil {
		return r.destinations
	}
	stops := map[timetable.StopId]struct{}{}
	for _, source := range to {
		for _, stop := range r.stopsIndex.Expand(source) {
			stops[stop] = struct{}{}
		}
	}
	return stops
}

// BestRoute picks the destination (among to, or the query's own
// destinations if to is nil) with the smallest recorded arrival, breaking
// ties by the smallest StopId, and reconstructs the journey that reaches
// it. Returns false if no destination was reached.
func (r *Result) BestRoute(to []SourceStopId) (RouteResult, bool) {
	stops := r.destinationStops(to)
	best, ok := r.pickBestDestination(stops)
	if !ok {
		return RouteResult{}, false
	}
	arrival := r.earliestArrivals[best]
	legs := r.reconstruct(best, arrival.LegNumber)
	return RouteResult{
		Destination: best,
		Arrival:     arrival.Arrival,
		LegNumber:   arrival.LegNumber,
		Legs:        legs,
	}, true
}

func (r *Result) pickBestDestination(stops map[timetable.StopId]struct{}) (timetable.StopId, bool) {
	var best timetable.StopId
	var bestArrival Arrival
	found := false
	for stop := range stops {
		arrival, ok := r.earliestArrivals[stop]
		if !ok {
			continue
		}
		if !found ||
			arrival.Arrival.IsBefore(bestArrival.Arrival) ||
			(arrival.Arrival.Equals(bestArrival.Arrival) && stop < best) {
			best = stop
			bestArrival = arrival
			found = true
		}
	}
	return best, found
}

// reconstruct walks the predecessor graph backward from (stop, round k),
// chaining in-seat continuations into a single leg, and returns the legs
// in travel order.
func (r *Result) reconstruct(stop timetable.StopId, k int) []Leg {
	var legs []Leg
	for k > 0 {
		edge, ok := r.graph[k].get(stop)
		if !ok {
			panic(fmt.Sprintf("raptor: reconstruction inconsistency: no edge at round %d for stop %d", k, stop))
		}
		switch edge.Kind {
		case EdgeVehicle:
			leg, origin := r.collapseVehicleChain(r.graph[k], edge)
			leg.From = origin
			leg.To = stop
			legs = append(legs, leg)
			stop = origin
			k--
		case EdgeTransfer:
			legs = append(legs, Leg{
				IsVehicle:       false,
				From:            edge.From,
				To:              stop,
				Arrival:         edge.Arrival,
				TransferType:    edge.TransferType,
				MinTransferTime: edge.MinTransferTime,
			})
			stop = edge.From
			// A transfer does not consume a round.
		case EdgeOrigin:
			panic("raptor: reconstruction inconsistency: encountered Origin edge at non-zero round")
		}
	}
	reverse(legs)
	return legs
}

// collapseVehicleChain follows ContinuationOf links backward from edge,
// accumulating every in-seat-chained segment into one rider-visible leg,
// and returns that leg plus the stop the chain ultimately boarded from.
func (r *Result) collapseVehicleChain(round *roundEdges, edge RoutingEdge) (Leg, timetable.StopId) {
	var segments []VehicleSegment
	current := edge
	for {
		segments = append(segments, VehicleSegment{
			RouteID:   current.RouteID,
			TripIndex: current.TripIndex,
			FromStop:  current.FromStop,
			ToStop:    current.ToStop,
			FromIndex: current.FromIndex,
			ToIndex:   current.ToIndex,
		})
		if !current.IsContinuation() {
			break
		}
		current = round.at(current.ContinuationOf)
	}
	reverseSegments(segments)
	return Leg{IsVehicle: true, Arrival: edge.Arrival, Segments: segments}, segments[0].FromStop
}

func reverse(legs []Leg) {
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}
}

func reverseSegments(segments []VehicleSegment) {
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
}

// ArrivalAt returns the best arrival at a source stop. Without maxTransfers
// it reads EarliestArrivals. With a bound B, it scans graph[B+1] down to
// graph[0] and returns the smallest arrival recorded at the first round
// (from the top) where any equivalent stop has an edge.
func (r *Result) ArrivalAt(stop SourceStopId, maxTransfers *int) (raptortime.Time, bool) {
	equivalents := r.stopsIndex.Expand(stop)
	if maxTransfers == nil {
		best := raptortime.Unreached
		found := false
		for _, s := range equivalents {
			arrival, ok := r.earliestArrivals[s]
			if !ok {
				continue
			}
			found = true
			best = best.Min(arrival.Arrival)
		}
		return best, found
	}

	for i := *maxTransfers + 1; i >= 0; i-- {
		if i >= len(r.graph) {
			continue
		}
		best := raptortime.Unreached
		found := false
		for _, s := range equivalents {
			edge, ok := r.graph[i].get(s)
			if !ok {
				continue
			}
			found = true
			best = best.Min(edge.Arrival)
		}
		if found {
			return best, true
		}
	}
	return raptortime.Unreached, false
}
