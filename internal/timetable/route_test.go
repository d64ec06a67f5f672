package timetable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aubryio/raptorgo/internal/raptortime"
)

func buildThreeTripRoute() *Route {
	// One route, two stops, three trips departing stop 0 at 480, 500, 520.
	trips := [][]StopTimeEntry{
		{
			{Arrival: 480, Departure: 480, Pickup: PickupDropOffRegular, DropOff: PickupDropOffNotAvailable},
			{Arrival: 490, Departure: 490, Pickup: PickupDropOffNotAvailable, DropOff: PickupDropOffRegular},
		},
		{
			{Arrival: 500, Departure: 500, Pickup: PickupDropOffNotAvailable, DropOff: PickupDropOffNotAvailable},
			{Arrival: 510, Departure: 510, Pickup: PickupDropOffNotAvailable, DropOff: PickupDropOffRegular},
		},
		{
			{Arrival: 520, Departure: 520, Pickup: PickupDropOffRegular, DropOff: PickupDropOffNotAvailable},
			{Arrival: 530, Departure: 530, Pickup: PickupDropOffNotAvailable, DropOff: PickupDropOffRegular},
		},
	}
	return NewRoute(0, 0, []StopId{10, 20}, trips)
}

func TestRouteAccessors(t *testing.T) {
	route := buildThreeTripRoute()
	require.Equal(t, RouteId(0), route.ID())
	require.Equal(t, 2, route.StopCount())
	require.Equal(t, 3, route.TripCount())
	require.Equal(t, StopId(10), route.StopAt(0))
	require.Equal(t, StopId(20), route.StopAt(1))
	require.Equal(t, raptortime.Time(500), route.ArrivalAt(0, 1))
	require.Equal(t, raptortime.Time(510), route.DepartureFrom(1, 1))
}

func TestFindEarliestTripSkipsNotAvailablePickup(t *testing.T) {
	route := buildThreeTripRoute()
	// Trip 1 (departing 500) has NotAvailable pickup at stop 0; the
	// earliest admissible trip after 490 is trip 2, departing 520.
	trip, ok := route.FindEarliestTrip(0, 490, nil)
	require.True(t, ok)
	require.Equal(t, TripRouteIndex(2), trip)
}

func TestFindEarliestTripRespectsUpperBound(t *testing.T) {
	route := buildThreeTripRoute()
	before := TripRouteIndex(2)
	_, ok := route.FindEarliestTrip(0, 490, &before)
	require.False(t, ok, "trip 2 is excluded by beforeTrip and trip 1 has no pickup here")
}

func TestFindEarliestTripNoneAfterLastDeparture(t *testing.T) {
	route := buildThreeTripRoute()
	_, ok := route.FindEarliestTrip(0, 521, nil)
	require.False(t, ok)
}

func TestStopRouteIndicesForRevisitedStop(t *testing.T) {
	// A loop route visiting stop 10 twice.
	trips := [][]StopTimeEntry{
		{
			{Arrival: 0, Departure: 0, Pickup: PickupDropOffRegular, DropOff: PickupDropOffNotAvailable},
			{Arrival: 10, Departure: 10, Pickup: PickupDropOffRegular, DropOff: PickupDropOffRegular},
			{Arrival: 20, Departure: 20, Pickup: PickupDropOffNotAvailable, DropOff: PickupDropOffRegular},
		},
	}
	route := NewRoute(0, 0, []StopId{10, 20, 10}, trips)

	indices := route.StopRouteIndices(10)
	require.Equal(t, []StopRouteIndex{0, 2}, indices)

	primary, ok := route.PrimaryStopRouteIndex(10)
	require.True(t, ok)
	require.Equal(t, StopRouteIndex(0), primary)
}
