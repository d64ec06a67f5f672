package timetable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aubryio/raptorgo/internal/packedid"
)

func singleTripRoute(id RouteId, serviceRoute ServiceRouteId, stops []StopId) *Route {
	row := make([]StopTimeEntry, len(stops))
	for i := range stops {
		row[i] = StopTimeEntry{
			Arrival:   0,
			Departure: 0,
			Pickup:    PickupDropOffRegular,
			DropOff:   PickupDropOffRegular,
		}
	}
	return NewRoute(id, serviceRoute, stops, [][]StopTimeEntry{row})
}

func TestFindReachableRoutesFiltersByMode(t *testing.T) {
	bus := singleTripRoute(0, 0, []StopId{1, 2})
	rail := singleTripRoute(1, 1, []StopId{1, 3})
	adjacency := []StopAdjacency{
		{}, // stop 0 unused
		{Routes: []RouteId{0, 1}},
		{Routes: []RouteId{0}},
		{Routes: []RouteId{1}},
	}
	tt := New(
		[]*Route{bus, rail},
		[]ServiceRouteInfo{
			{Type: RouteTypeBus, Name: "Bus"},
			{Type: RouteTypeRail, Name: "Rail"},
		},
		adjacency,
		nil,
	)

	fromStops := map[StopId]struct{}{1: {}}

	all := tt.FindReachableRoutes(fromStops, nil)
	require.Len(t, all, 2)

	busOnly := tt.FindReachableRoutes(fromStops, map[RouteType]struct{}{RouteTypeBus: {}})
	require.Len(t, busOnly, 1)
	require.Contains(t, busOnly, bus)
}

func TestFindReachableRoutesPicksEarliestHopOnIndex(t *testing.T) {
	// A loop route visiting stop 5 at index 0 and index 2.
	row := []StopTimeEntry{
		{Pickup: PickupDropOffRegular, DropOff: PickupDropOffRegular},
		{Pickup: PickupDropOffRegular, DropOff: PickupDropOffRegular},
		{Pickup: PickupDropOffRegular, DropOff: PickupDropOffRegular},
	}
	route := NewRoute(0, 0, []StopId{5, 6, 5}, [][]StopTimeEntry{row})
	adjacency := []StopAdjacency{
		{}, {}, {}, {}, {},
		{Routes: []RouteId{0}},
		{Routes: []RouteId{0}},
	}
	tt := New(
		[]*Route{route},
		[]ServiceRouteInfo{{Type: RouteTypeBus, Name: "Loop"}},
		adjacency,
		nil,
	)

	result := tt.FindReachableRoutes(map[StopId]struct{}{5: {}}, nil)
	require.Equal(t, StopRouteIndex(0), result[route])
}

func TestGetContinuousTripsRoundTripsThroughPackedId(t *testing.T) {
	key, err := packedid.Encode(2, 0, 1)
	require.NoError(t, err)
	boarding := TripBoarding{RouteID: 3, HopOnStopIndex: 0, TripIndex: 5}
	tt := New(nil, nil, nil, map[packedid.TripStopId][]TripBoarding{key: {boarding}})

	got := tt.GetContinuousTrips(2, 0, 1)
	require.Equal(t, []TripBoarding{boarding}, got)

	none := tt.GetContinuousTrips(9, 9, 9)
	require.Nil(t, none)
}

func TestGetTransfersReturnsEmptyNotNilForUnknownStop(t *testing.T) {
	tt := New(nil, nil, []StopAdjacency{{}}, nil)
	require.Empty(t, tt.GetTransfers(0))
	require.NotNil(t, tt.GetTransfers(0))
	require.Empty(t, tt.GetTransfers(100))
	require.NotNil(t, tt.GetTransfers(100))
}

func TestIsActive(t *testing.T) {
	adjacency := []StopAdjacency{
		{Routes: []RouteId{0}},
		{Transfers: []Transfer{{Destination: 0, Type: TransferRecommended}}},
		{},
	}
	tt := New(nil, nil, adjacency, nil)
	require.True(t, tt.IsActive(0))
	require.True(t, tt.IsActive(1))
	require.False(t, tt.IsActive(2))
	require.False(t, tt.IsActive(100))
}
