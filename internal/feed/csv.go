// Package feed is a reference ingester that builds a timetable.Timetable
// from a small set of flat CSV tables. It is intentionally not a GTFS
// importer: a real feed importer would resolve calendars, timezones, and
// shapes before ever producing the rows this package expects. Its one job
// is to give the core something concrete to scan, the way a real importer
// would hand it a Timetable after much more work upstream.
package feed

import (
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/aubryio/raptorgo/internal/packedid"
	"github.com/aubryio/raptorgo/internal/raptortime"
	"github.com/aubryio/raptorgo/internal/timetable"
)

// serviceRouteCSV is one row of service_routes.csv: a user-visible line.
type serviceRouteCSV struct {
	ServiceRouteID int    `csv:"service_route_id"`
	Type           int    `csv:"type"`
	Name           string `csv:"name"`
}

// routeCSV is one row of routes.csv: a route belongs to a service route
// and visits an ordered, pipe-separated list of stop ids.
type routeCSV struct {
	RouteID        int    `csv:"route_id"`
	ServiceRouteID int    `csv:"service_route_id"`
	StopIDs        string `csv:"stop_ids"`
}

// stopTimeCSV is one row of stop_times.csv: one (route, trip, stop) cell
// of the columnar stop-time arrays. PickupType/DropOffType reuse the GTFS
// pickup_type/drop_off_type integer codes directly, since they already
// line up with timetable.PickupDropOffType's own ordering.
type stopTimeCSV struct {
	RouteID     int `csv:"route_id"`
	TripIndex   int `csv:"trip_index"`
	StopIndex   int `csv:"stop_index"`
	Arrival     int `csv:"arrival_minutes"`
	Departure   int `csv:"departure_minutes"`
	PickupType  int `csv:"pickup_type"`
	DropOffType int `csv:"drop_off_type"`
}

// transferCSV is one row of transfers.csv. MinTransferTimeMinutes is
// empty ("") when the transfer declares no override.
type transferCSV struct {
	FromStopID             int    `csv:"from_stop_id"`
	ToStopID               int    `csv:"to_stop_id"`
	Type                    int    `csv:"type"`
	MinTransferTimeMinutes string `csv:"min_transfer_time_minutes"`
}

// continuationCSV is one row of continuations.csv: an in-seat boarding
// reachable on alighting from (FromRouteID, FromTripIndex) at FromStopIndex.
type continuationCSV struct {
	FromStopIndex int `csv:"from_stop_index"`
	FromRouteID   int `csv:"from_route_id"`
	FromTripIndex int `csv:"from_trip_index"`
	ToRouteID     int `csv:"to_route_id"`
	ToTripIndex   int `csv:"to_trip_index"`
	ToHopOnIndex  int `csv:"to_hop_on_index"`
}

// Tables bundles the five CSV readers a feed is split across. A reader may
// be nil for transfers.csv and continuations.csv, treated as "no rows".
type Tables struct {
	ServiceRoutes io.Reader
	Routes        io.Reader
	StopTimes     io.Reader
	Transfers     io.Reader
	Continuations io.Reader
}

// Load builds a timetable.Timetable from Tables. Rows referencing an
// unknown route_id/service_route_id are a hard error: the feed is
// internally inconsistent and that is not something the core should ever
// have to tolerate.
func Load(t Tables) (*timetable.Timetable, error) {
	serviceRoutes, err := loadServiceRoutes(t.ServiceRoutes)
	if err != nil {
		return nil, errors.Wrap(err, "loading service_routes.csv")
	}

	routeRows, stopsByRoute, err := loadRoutes(t.Routes, len(serviceRoutes))
	if err != nil {
		return nil, errors.Wrap(err, "loading routes.csv")
	}

	tripsByRoute, err := loadStopTimes(t.StopTimes, stopsByRoute)
	if err != nil {
		return nil, errors.Wrap(err, "loading stop_times.csv")
	}

	routes := make([]*timetable.Route, len(routeRows))
	var maxStopID int
	for id, row := range routeRows {
		if row == nil {
			return nil, errors.Errorf("routes.csv has no row for route_id %d", id)
		}
		stops := stopsByRoute[id]
		for _, s := range stops {
			if s > maxStopID {
				maxStopID = s
			}
		}
		routes[id] = timetable.NewRoute(
			timetable.RouteId(id),
			timetable.ServiceRouteId(row.ServiceRouteID),
			toStopIDs(stops),
			tripsByRoute[id],
		)
	}

	adjacency := make([]timetable.StopAdjacency, maxStopID+1)
	for id := range routes {
		seen := map[timetable.StopId]struct{}{}
		for _, s := range toStopIDs(stopsByRoute[id]) {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			adjacency[s].Routes = append(adjacency[s].Routes, timetable.RouteId(id))
		}
	}

	if err := loadTransfers(t.Transfers, adjacency); err != nil {
		return nil, errors.Wrap(err, "loading transfers.csv")
	}

	continuousTrips, err := loadContinuations(t.Continuations, len(routes))
	if err != nil {
		return nil, errors.Wrap(err, "loading continuations.csv")
	}

	return timetable.New(routes, serviceRoutes, adjacency, continuousTrips), nil
}

func toStopIDs(stops []int) []timetable.StopId {
	out := make([]timetable.StopId, len(stops))
	for i, s := range stops {
		out[i] = timetable.StopId(s)
	}
	return out
}

func loadServiceRoutes(r io.Reader) ([]timetable.ServiceRouteInfo, error) {
	if r == nil {
		return nil, nil
	}
	var rows []*serviceRouteCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	infos := make([]timetable.ServiceRouteInfo, len(rows))
	for _, row := range rows {
		if row.ServiceRouteID < 0 || row.ServiceRouteID >= len(rows) {
			return nil, errors.Errorf("service_route_id %d out of dense range [0,%d)", row.ServiceRouteID, len(rows))
		}
		infos[row.ServiceRouteID] = timetable.ServiceRouteInfo{
			Type: timetable.RouteType(row.Type),
			Name: row.Name,
		}
	}
	return infos, nil
}

func loadRoutes(r io.Reader, serviceRouteCount int) ([]*routeCSV, map[int][]int, error) {
	if r == nil {
		return nil, nil, nil
	}
	var rows []*routeCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, nil, err
	}
	dense := make([]*routeCSV, len(rows))
	stops := make(map[int][]int, len(rows))
	for _, row := range rows {
		if row.RouteID < 0 || row.RouteID >= len(rows) {
			return nil, nil, errors.Errorf("route_id %d out of dense range [0,%d)", row.RouteID, len(rows))
		}
		if row.ServiceRouteID < 0 || row.ServiceRouteID >= serviceRouteCount {
			return nil, nil, errors.Errorf("route_id %d references unknown service_route_id %d", row.RouteID, row.ServiceRouteID)
		}
		dense[row.RouteID] = row
		stops[row.RouteID] = parsePipedInts(row.StopIDs)
	}
	return dense, stops, nil
}

func parsePipedInts(s string) []int {
	parts := strings.Split(s, "|")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func loadStopTimes(r io.Reader, stopsByRoute map[int][]int) (map[int][][]timetable.StopTimeEntry, error) {
	tripsByRoute := map[int][][]timetable.StopTimeEntry{}
	if r == nil {
		return tripsByRoute, nil
	}
	var rows []*stopTimeCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		stopCount := len(stopsByRoute[row.RouteID])
		if row.StopIndex < 0 || row.StopIndex >= stopCount {
			return nil, errors.Errorf(
				"route_id %d stop_index %d out of range [0,%d)", row.RouteID, row.StopIndex, stopCount,
			)
		}
		trips := tripsByRoute[row.RouteID]
		for len(trips) <= row.TripIndex {
			trips = append(trips, make([]timetable.StopTimeEntry, stopCount))
		}
		trips[row.TripIndex][row.StopIndex] = timetable.StopTimeEntry{
			Arrival:   raptortime.Time(row.Arrival),
			Departure: raptortime.Time(row.Departure),
			Pickup:    timetable.PickupDropOffType(row.PickupType),
			DropOff:   timetable.PickupDropOffType(row.DropOffType),
		}
		tripsByRoute[row.RouteID] = trips
	}
	return tripsByRoute, nil
}

func loadTransfers(r io.Reader, adjacency []timetable.StopAdjacency) error {
	if r == nil {
		return nil
	}
	var rows []*transferCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return err
	}
	for _, row := range rows {
		if row.FromStopID < 0 || row.FromStopID >= len(adjacency) {
			return errors.Errorf("transfer from unknown stop_id %d", row.FromStopID)
		}
		var minTransferTime *raptortime.Duration
		if row.MinTransferTimeMinutes != "" {
			v, err := strconv.Atoi(row.MinTransferTimeMinutes)
			if err != nil {
				return errors.Wrapf(err, "parsing min_transfer_time_minutes for stop_id %d", row.FromStopID)
			}
			d := raptortime.Duration(v)
			minTransferTime = &d
		}
		adjacency[row.FromStopID].Transfers = append(adjacency[row.FromStopID].Transfers, timetable.Transfer{
			Destination:     timetable.StopId(row.ToStopID),
			Type:            timetable.TransferType(row.Type),
			MinTransferTime: minTransferTime,
		})
	}
	return nil
}

func loadContinuations(r io.Reader, routeCount int) (map[packedid.TripStopId][]timetable.TripBoarding, error) {
	out := map[packedid.TripStopId][]timetable.TripBoarding{}
	if r == nil {
		return out, nil
	}
	var rows []*continuationCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.FromRouteID < 0 || row.FromRouteID >= routeCount || row.ToRouteID < 0 || row.ToRouteID >= routeCount {
			return nil, errors.Errorf("continuation references unknown route_id (from %d, to %d)", row.FromRouteID, row.ToRouteID)
		}
		key, err := packedid.Encode(row.FromStopIndex, row.FromRouteID, row.FromTripIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding continuation key for route_id %d trip_index %d", row.FromRouteID, row.FromTripIndex)
		}
		out[key] = append(out[key], timetable.TripBoarding{
			RouteID:        timetable.RouteId(row.ToRouteID),
			HopOnStopIndex: timetable.StopRouteIndex(row.ToHopOnIndex),
			TripIndex:      timetable.TripRouteIndex(row.ToTripIndex),
		})
	}
	return out, nil
}
