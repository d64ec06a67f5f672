package timetable

import (
	"sort"

	"github.com/aubryio/raptorgo/internal/raptortime"
)

// StopTimeEntry is the arrival/departure/pickup/drop-off data for one
// (trip, stop) pair, as supplied when building a Route.
type StopTimeEntry struct {
	Arrival  raptortime.Time
	Departure raptortime.Time
	Pickup   PickupDropOffType
	DropOff  PickupDropOffType
}

// Route is a columnar store of one route's stops, stop-times, and
// pick-up/drop-off types. It is immutable after construction: every
// method below is a total, pure function over the packed arrays built at
// construction time. Out-of-range indices panic — the Timetable that
// built this Route is the source of truth about its extent.
type Route struct {
	id             RouteId
	serviceRouteID ServiceRouteId
	stops          []StopId
	stopCount      int
	tripCount      int
	// stopTimes holds 2*stopCount*tripCount entries: for trip t, stop i,
	// arrival is at (t*stopCount+i)*2, departure at (t*stopCount+i)*2+1.
	stopTimes []raptortime.Time
	// pickupDropOff is the 2-bit-per-value packed byte array described in
	// pickupdropoff.go, indexed by g = t*stopCount+i.
	pickupDropOff []byte
	// stopIndices maps a stop id to the first (primary) index at which it
	// occurs on this route.
	stopIndices map[StopId]StopRouteIndex
	// allIndices maps a stop id to every index at which it occurs, for
	// routes that revisit a stop.
	allIndices map[StopId][]StopRouteIndex
}

// NewRoute builds a Route from its ordered stop list and per-trip
// stop-time rows. trips must already be sorted by first departure time,
// strictly monotone per stop index, per the Timetable construction
// invariant (spec §3) — NewRoute does not re-sort or validate this, since
// Route is consumed read-only and the external ingester is the source of
// truth for ordering.
func NewRoute(id RouteId, serviceRouteID ServiceRouteId, stops []StopId, trips [][]StopTimeEntry) *Route {
	stopCount := len(stops)
	tripCount := len(trips)

	stopTimes := make([]raptortime.Time, 2*stopCount*tripCount)
	pairs := make([][2]PickupDropOffType, stopCount*tripCount)

	for t, row := range trips {
		for i, entry := range row {
			g := t*stopCount + i
			stopTimes[g*2] = entry.Arrival
			stopTimes[g*2+1] = entry.Departure
			pairs[g] = [2]PickupDropOffType{entry.Pickup, entry.DropOff}
		}
	}

	stopIndices := make(map[StopId]StopRouteIndex, stopCount)
	allIndices := make(map[StopId][]StopRouteIndex, stopCount)
	for i, stopID := range stops {
		idx := StopRouteIndex(i)
		if _, exists := stopIndices[stopID]; !exists {
			stopIndices[stopID] = idx
		}
		allIndices[stopID] = append(allIndices[stopID], idx)
	}

	return &Route{
		id:             id,
		serviceRouteID: serviceRouteID,
		stops:          stops,
		stopCount:      stopCount,
		tripCount:      tripCount,
		stopTimes:      stopTimes,
		pickupDropOff:  packPickupDropOff(pairs),
		stopIndices:    stopIndices,
		allIndices:     allIndices,
	}
}

// ID returns the route's internal identifier.
func (r *Route) ID() RouteId { return r.id }

// StopCount returns the number of stops on the route.
func (r *Route) StopCount() int { return r.stopCount }

// TripCount returns the number of trips on the route.
func (r *Route) TripCount() int { return r.tripCount }

// ServiceRoute returns the owning service route's id.
func (r *Route) ServiceRoute() ServiceRouteId { return r.serviceRouteID }

// StopAt returns the stop id at a given position on the route.
func (r *Route) StopAt(stopIndex StopRouteIndex) StopId {
	return r.stops[stopIndex]
}

func (r *Route) offset(stopIndex StopRouteIndex, tripIndex TripRouteIndex) int {
	return int(tripIndex)*r.stopCount + int(stopIndex)
}

// ArrivalAt returns the arrival time at stopIndex for tripIndex.
func (r *Route) ArrivalAt(stopIndex StopRouteIndex, tripIndex TripRouteIndex) raptortime.Time {
	g := r.offset(stopIndex, tripIndex)
	return r.stopTimes[g*2]
}

// DepartureFrom returns the departure time from stopIndex for tripIndex.
func (r *Route) DepartureFrom(stopIndex StopRouteIndex, tripIndex TripRouteIndex) raptortime.Time {
	g := r.offset(stopIndex, tripIndex)
	return r.stopTimes[g*2+1]
}

// PickupTypeFrom returns the pickup type at stopIndex for tripIndex.
func (r *Route) PickupTypeFrom(stopIndex StopRouteIndex, tripIndex TripRouteIndex) PickupDropOffType {
	return unpackPickupAt(r.pickupDropOff, r.offset(stopIndex, tripIndex))
}

// DropOffTypeAt returns the drop-off type at stopIndex for tripIndex.
func (r *Route) DropOffTypeAt(stopIndex StopRouteIndex, tripIndex TripRouteIndex) PickupDropOffType {
	return unpackDropOffAt(r.pickupDropOff, r.offset(stopIndex, tripIndex))
}

// StopRouteIndices returns every index at which stopID occurs on this
// route, for routes that revisit a stop. Returns nil if the stop does not
// occur on this route.
func (r *Route) StopRouteIndices(stopID StopId) []StopRouteIndex {
	return r.allIndices[stopID]
}

// PrimaryStopRouteIndex returns the representative (first) index at which
// stopID occurs on this route, and whether it occurs at all.
func (r *Route) PrimaryStopRouteIndex(stopID StopId) (StopRouteIndex, bool) {
	idx, ok := r.stopIndices[stopID]
	return idx, ok
}

// FindEarliestTrip returns the earliest trip t such that:
//   - DepartureFrom(stopIndex, t) >= after,
//   - t < beforeTrip, if beforeTrip is non-nil,
//   - PickupTypeFrom(stopIndex, t) != NotAvailable.
//
// Trips are sorted by first departure and same-stop departures preserve
// that order, so the lower bound of `after` is located by binary search;
// the scan then moves forward skipping NotAvailable trips until either the
// first admissible trip or the upper bound. Returns false if none exists.
func (r *Route) FindEarliestTrip(
	stopIndex StopRouteIndex,
	after raptortime.Time,
	beforeTrip *TripRouteIndex,
) (TripRouteIndex, bool) {
	if r.tripCount == 0 {
		return 0, false
	}
	upper := r.tripCount
	if beforeTrip != nil {
		if *beforeTrip == 0 {
			return 0, false
		}
		upper = int(*beforeTrip)
	}

	lowerBound := sort.Search(upper, func(t int) bool {
		return !r.DepartureFrom(stopIndex, TripRouteIndex(t)).IsBefore(after)
	})

	for t := lowerBound; t < upper; t++ {
		tripIndex := TripRouteIndex(t)
		if r.PickupTypeFrom(stopIndex, tripIndex) != PickupDropOffNotAvailable {
			return tripIndex, true
		}
	}
	return 0, false
}
