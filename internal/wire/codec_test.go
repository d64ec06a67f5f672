package wire_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aubryio/raptorgo/internal/feed"
	"github.com/aubryio/raptorgo/internal/timetable"
	"github.com/aubryio/raptorgo/internal/wire"
)

func buildSampleTimetable(t *testing.T) *timetable.Timetable {
	t.Helper()
	serviceRoutes := "service_route_id,type,name\n0,3,Bus A\n1,2,Rail B\n"
	routes := "route_id,service_route_id,stop_ids\n0,0,1|2\n1,1,2|3\n"
	stopTimes := "route_id,trip_index,stop_index,arrival_minutes,departure_minutes,pickup_type,drop_off_type\n" +
		"0,0,0,480,480,0,1\n" +
		"0,0,1,490,490,1,0\n" +
		"1,0,0,495,495,0,1\n" +
		"1,0,1,520,520,1,0\n"
	transfers := "from_stop_id,to_stop_id,type,min_transfer_time_minutes\n2,2,3,0\n"
	continuations := "from_stop_index,from_route_id,from_trip_index,to_route_id,to_trip_index,to_hop_on_index\n" +
		"1,0,0,1,0,0\n"

	tt, err := feed.Load(feed.Tables{
		ServiceRoutes: strings.NewReader(serviceRoutes),
		Routes:        strings.NewReader(routes),
		StopTimes:     strings.NewReader(stopTimes),
		Transfers:     strings.NewReader(transfers),
		Continuations: strings.NewReader(continuations),
	})
	require.NoError(t, err)
	return tt
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tt := buildSampleTimetable(t)

	var buf bytes.Buffer
	require.NoError(t, wire.Encode(tt, &buf))

	decoded, err := wire.Decode(&buf)
	require.NoError(t, err)

	original, ok := tt.GetRoute(0)
	require.True(t, ok)
	route0, ok := decoded.GetRoute(0)
	require.True(t, ok)
	require.Equal(t, 2, route0.StopCount())
	require.Equal(t, 1, route0.TripCount())
	require.Equal(t, original.StopAt(0), route0.StopAt(0))
	require.Equal(t, original.ArrivalAt(1, 0), route0.ArrivalAt(1, 0))
	require.Equal(t, original.PickupTypeFrom(0, 0), route0.PickupTypeFrom(0, 0))
	require.Equal(t, original.DropOffTypeAt(1, 0), route0.DropOffTypeAt(1, 0))

	info := decoded.GetServiceRouteInfo(route0)
	require.Equal(t, "Bus A", info.Name)

	transfers := decoded.GetTransfers(2)
	require.Len(t, transfers, 1)

	continuations := decoded.GetContinuousTrips(1, 0, 0)
	require.Len(t, continuations, 1)
	require.Equal(t, uint32(1), uint32(continuations[0].RouteID))
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0}) // zero-length payload: no version field at all.
	_, err := wire.Decode(&buf)
	require.Error(t, err)
}
