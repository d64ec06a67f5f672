package feed_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aubryio/raptorgo/internal/feed"
	"github.com/aubryio/raptorgo/internal/timetable"
)

func TestLoadBuildsARunnableTimetable(t *testing.T) {
	serviceRoutes := "service_route_id,type,name\n0,3,Bus A\n"
	routes := "route_id,service_route_id,stop_ids\n0,0,1|2|3\n"
	stopTimes := "route_id,trip_index,stop_index,arrival_minutes,departure_minutes,pickup_type,drop_off_type\n" +
		"0,0,0,480,480,0,1\n" +
		"0,0,1,490,491,0,0\n" +
		"0,0,2,500,500,1,0\n"
	transfers := "from_stop_id,to_stop_id,type,min_transfer_time_minutes\n3,10,2,5\n"
	continuations := "from_stop_index,from_route_id,from_trip_index,to_route_id,to_trip_index,to_hop_on_index\n"

	tt, err := feed.Load(feed.Tables{
		ServiceRoutes: strings.NewReader(serviceRoutes),
		Routes:        strings.NewReader(routes),
		StopTimes:     strings.NewReader(stopTimes),
		Transfers:     strings.NewReader(transfers),
		Continuations: strings.NewReader(continuations),
	})
	require.NoError(t, err)

	route, ok := tt.GetRoute(0)
	require.True(t, ok)
	require.Equal(t, 3, route.StopCount())
	require.Equal(t, 1, route.TripCount())
	require.Equal(t, timetable.StopId(1), route.StopAt(0))
	require.Equal(t, timetable.StopId(3), route.StopAt(2))

	info := tt.GetServiceRouteInfo(route)
	require.Equal(t, timetable.RouteTypeBus, info.Type)
	require.Equal(t, "Bus A", info.Name)

	routesAtStop1 := tt.RoutesPassingThrough(1)
	require.Len(t, routesAtStop1, 1)

	transfersAtStop3 := tt.GetTransfers(3)
	require.Len(t, transfersAtStop3, 1)
	require.Equal(t, timetable.StopId(10), transfersAtStop3[0].Destination)
	require.NotNil(t, transfersAtStop3[0].MinTransferTime)
	require.Equal(t, 5, int(*transfersAtStop3[0].MinTransferTime))
}

func TestLoadRejectsUnknownServiceRoute(t *testing.T) {
	serviceRoutes := "service_route_id,type,name\n0,3,Bus A\n"
	routes := "route_id,service_route_id,stop_ids\n0,7,1|2\n"

	_, err := feed.Load(feed.Tables{
		ServiceRoutes: strings.NewReader(serviceRoutes),
		Routes:        strings.NewReader(routes),
	})
	require.Error(t, err)
}
