// Package raptor implements the round-based earliest-arrival routing core
// (RAPTOR): the Query/Result contract and the Router that scans a
// timetable.Timetable to produce a reconstructible predecessor graph.
package raptor

import (
	"github.com/aubryio/raptorgo/internal/raptortime"
	"github.com/aubryio/raptorgo/internal/timetable"
)

// Router executes routing queries against a fixed, shared, read-only
// Timetable. A single query is single-threaded and synchronous; different
// queries may run concurrently against the same Router since neither the
// Timetable nor the Router's own fields are mutated by Route.
type Router struct {
	timetable  *timetable.Timetable
	stopsIndex StopsIndex
}

// NewRouter builds a Router over tt, resolving Query.From/To through idx.
func NewRouter(tt *timetable.Timetable, idx StopsIndex) *Router {
	return &Router{timetable: tt, stopsIndex: idx}
}

// activeTrip is the trip a walk has currently boarded, and where.
type activeTrip struct {
	tripIndex  timetable.TripRouteIndex
	hopOnIndex timetable.StopRouteIndex
}

// vehicleMark queues a newly-written Vehicle edge for the in-seat
// continuation fixpoint pass.
type vehicleMark struct {
	edgeIdx int
}

// Route runs the round-based scan for q and returns the reconstructible
// Result. An unknown origin (no equivalent stops) is not an error: Route
// still runs to completion, simply with nothing marked.
func (rt *Router) Route(q Query) *Result {
	origins := rt.expandAll([]SourceStopId{q.From})
	destinations := rt.expandAll(q.To)

	earliestArrivals := map[timetable.StopId]Arrival{}
	round0 := newRoundEdges()
	originStops := make([]timetable.StopId, 0, len(origins))
	for o := range origins {
		earliestArrivals[o] = Arrival{Arrival: q.DepartureTime, LegNumber: 0}
		round0.set(o, RoutingEdge{Kind: EdgeOrigin, Arrival: q.DepartureTime, ContinuationOf: noContinuation})
		originStops = append(originStops, o)
	}

	markedStops := map[timetable.StopId]struct{}{}
	for o := range origins {
		markedStops[o] = struct{}{}
	}

	// Relax transfers from round 0 so initial walks to siblings of the
	// origin count as reached without any leg (spec §4.3 Initialisation).
	rt.relaxTransfers(round0, earliestArrivals, markedStops, originStops, 0, q.Options.MinTransferTime)

	graph := []*roundEdges{round0}

	maxRounds := q.Options.MaxTransfers + 1
	for k := 1; k <= maxRounds; k++ {
		if len(markedStops) == 0 {
			break
		}
		prevRound := graph[k-1]
		curRound := newRoundEdges()

		reachableRoutes := rt.timetable.FindReachableRoutes(markedStops, q.Options.TransportModes)
		markedStops = map[timetable.StopId]struct{}{}
		bestTargetArrival := rt.bestTargetArrival(earliestArrivals, destinations)

		var queue []vehicleMark
		for route, hopOnIndex := range reachableRoutes {
			marks := rt.scanRoute(
				route, hopOnIndex, nil, true, noContinuation, k,
				prevRound, curRound, earliestArrivals, bestTargetArrival, markedStops,
			)
			queue = append(queue, marks...)
		}

		for len(queue) > 0 {
			mark := queue[0]
			queue = queue[1:]
			edge := curRound.at(mark.edgeIdx)
			continuations := rt.timetable.GetContinuousTrips(edge.ToIndex, edge.RouteID, edge.TripIndex)
			for _, cont := range continuations {
				route, ok := rt.timetable.GetRoute(cont.RouteID)
				if !ok {
					continue
				}
				preset := &activeTrip{tripIndex: cont.TripIndex, hopOnIndex: cont.HopOnStopIndex}
				marks := rt.scanRoute(
					route, cont.HopOnStopIndex, preset, false, mark.edgeIdx, k,
					prevRound, curRound, earliestArrivals, bestTargetArrival, markedStops,
				)
				queue = append(queue, marks...)
			}
		}

		var vehicleStops []timetable.StopId
		for stop, idx := range curRound.byStop {
			if curRound.arena[idx].Kind == EdgeVehicle {
				vehicleStops = append(vehicleStops, stop)
			}
		}
		rt.relaxTransfers(curRound, earliestArrivals, markedStops, vehicleStops, k, q.Options.MinTransferTime)

		graph = append(graph, curRound)
	}

	return &Result{
		earliestArrivals: earliestArrivals,
		graph:            graph,
		destinations:     destinations,
		stopsIndex:       rt.stopsIndex,
	}
}

// scanRoute walks route from startIndex to its last stop, maintaining a
// single active trip, recording a Vehicle edge into curRound at every
// stop where alighting strictly improves on both the current best arrival
// there and the best destination arrival (local and target pruning). When
// preset is non-nil the walk starts already boarded and never tries to
// catch an earlier trip (the continuation case); otherwise it starts
// unboarded and may catch a trip at any stop (the base scan case).
// continuationRoot, when not noContinuation, is stamped onto every edge
// this call writes.
func (rt *Router) scanRoute(
	route *timetable.Route,
	startIndex timetable.StopRouteIndex,
	preset *activeTrip,
	allowCatchUp bool,
	continuationRoot int,
	k int,
	prevRound, curRound *roundEdges,
	earliestArrivals map[timetable.StopId]Arrival,
	bestTargetArrival raptortime.Time,
	markedStops map[timetable.StopId]struct{},
) []vehicleMark {
	var marks []vehicleMark
	active := preset

	for j := int(startIndex); j < route.StopCount(); j++ {
		stopIndex := timetable.StopRouteIndex(j)
		c := route.StopAt(stopIndex)

		if active != nil {
			arrival := route.ArrivalAt(stopIndex, active.tripIndex)
			dropOff := route.DropOffTypeAt(stopIndex, active.tripIndex)
			if dropOff != timetable.PickupDropOffNotAvailable &&
				arrival.IsBefore(arrivalOf(earliestArrivals, c)) &&
				arrival.IsBefore(bestTargetArrival) {
				edge := RoutingEdge{
					Kind:           EdgeVehicle,
					Arrival:        arrival,
					FromStop:       route.StopAt(active.hopOnIndex),
					ToStop:         c,
					FromIndex:      active.hopOnIndex,
					ToIndex:        stopIndex,
					RouteID:        route.ID(),
					TripIndex:      active.tripIndex,
					ContinuationOf: continuationRoot,
				}
				idx := curRound.set(c, edge)
				earliestArrivals[c] = Arrival{Arrival: arrival, LegNumber: k}
				markedStops[c] = struct{}{}
				marks = append(marks, vehicleMark{edgeIdx: idx})
			}
		}

		if allowCatchUp {
			if prevEdge, hasPrev := prevRound.get(c); hasPrev {
				prev := prevEdge.Arrival
				if active == nil || !prev.IsAfter(route.DepartureFrom(stopIndex, active.tripIndex)) {
					var beforeTrip *timetable.TripRouteIndex
					if active != nil {
						t := active.tripIndex
						beforeTrip = &t
					}
					if caught, ok := route.FindEarliestTrip(stopIndex, prev, beforeTrip); ok {
						active = &activeTrip{tripIndex: caught, hopOnIndex: stopIndex}
					}
				}
			}
		}
	}
	return marks
}

// relaxTransfers writes a Transfer edge into round for every transfer out
// of every stop in sources whose arrival strictly improves the
// destination's GLOBAL best arrival recorded so far across all rounds
// (earliestArrivals), the same gate the vehicle step uses. A round-local
// comparison alone is not enough: a stop reached better in an earlier
// round must never be regressed by a worse transfer arriving in a later
// one (spec §8's "earliest_arrivals is monotone across rounds"). A source
// whose edge in this round is already a Transfer is skipped, so transfers
// never chain.
func (rt *Router) relaxTransfers(
	round *roundEdges,
	earliestArrivals map[timetable.StopId]Arrival,
	markedStops map[timetable.StopId]struct{},
	sources []timetable.StopId,
	k int,
	minTransferTimeDefault raptortime.Duration,
) {
	for _, s := range sources {
		edge, ok := round.get(s)
		if !ok || edge.Kind == EdgeTransfer {
			continue
		}
		for _, transfer := range rt.timetable.GetTransfers(s) {
			dwell := transferDwell(transfer, minTransferTimeDefault)
			arrival := edge.Arrival.Plus(dwell)
			if arrival.IsBefore(arrivalOf(earliestArrivals, transfer.Destination)) {
				round.set(transfer.Destination, RoutingEdge{
					Kind:            EdgeTransfer,
					Arrival:         arrival,
					From:            s,
					To:              transfer.Destination,
					TransferType:    transfer.Type,
					MinTransferTime: transfer.MinTransferTime,
					ContinuationOf:  noContinuation,
				})
				earliestArrivals[transfer.Destination] = Arrival{Arrival: arrival, LegNumber: k}
				markedStops[transfer.Destination] = struct{}{}
			}
		}
	}
}

// transferDwell resolves the dwell time a transfer imposes: an explicit
// MinTransferTime always wins; otherwise IN_SEAT transfers are zero-dwell
// and every other type falls back to the query's MinTransferTime option.
func transferDwell(t timetable.Transfer, fallback raptortime.Duration) raptortime.Duration {
	if t.MinTransferTime != nil {
		return *t.MinTransferTime
	}
	if t.Type == timetable.TransferInSeat {
		return 0
	}
	return fallback
}

func (rt *Router) expandAll(sources []SourceStopId) map[timetable.StopId]struct{} {
	out := map[timetable.StopId]struct{}{}
	for _, s := range sources {
		for _, stop := range rt.stopsIndex.Expand(s) {
			out[stop] = struct{}{}
		}
	}
	return out
}

func (rt *Router) bestTargetArrival(
	earliestArrivals map[timetable.StopId]Arrival,
	destinations map[timetable.StopId]struct{},
) raptortime.Time {
	best := raptortime.Unreached
	for d := range destinations {
		best = best.Min(arrivalOf(earliestArrivals, d))
	}
	return best
}

func arrivalOf(earliestArrivals map[timetable.StopId]Arrival, stop timetable.StopId) raptortime.Time {
	a, ok := earliestArrivals[stop]
	if !ok {
		return raptortime.Unreached
	}
	return a.Arrival
}
