package timetable

import (
	"github.com/aubryio/raptorgo/internal/packedid"
	"github.com/aubryio/raptorgo/internal/raptortime"
)

// Transfer is a walking (or in-seat) connection from one stop to another.
type Transfer struct {
	Destination      StopId
	Type             TransferType
	MinTransferTime  *raptortime.Duration
}

// TripBoarding names "board trip TripIndex of route RouteID at
// HopOnStopIndex" — the shape of an in-seat continuation target.
type TripBoarding struct {
	RouteID        RouteId
	HopOnStopIndex StopRouteIndex
	TripIndex      TripRouteIndex
}

// StopAdjacency is everything attached to a stop: the routes through it
// and its walking transfers. In-seat continuations are stored separately
// on the Timetable, keyed by TripStopId.
type StopAdjacency struct {
	Routes    []RouteId
	Transfers []Transfer
}

var noTransfers = []Transfer{}

// Timetable is the immutable, read-only collection of Routes plus
// per-stop adjacency that the Router scans. It is built once by an
// external ingester and consumed read-only; no method here mutates it.
type Timetable struct {
	adjacency       []StopAdjacency
	routes          []*Route
	serviceRoutes   []ServiceRouteInfo
	continuousTrips map[packedid.TripStopId][]TripBoarding
}

// New builds a Timetable from its constituent parts. adjacency and routes
// are expected to be dense vectors indexed by StopId and RouteId
// respectively, as built by an external ingester (see internal/feed).
func New(
	routes []*Route,
	serviceRoutes []ServiceRouteInfo,
	adjacency []StopAdjacency,
	continuousTrips map[packedid.TripStopId][]TripBoarding,
) *Timetable {
	if continuousTrips == nil {
		continuousTrips = map[packedid.TripStopId][]TripBoarding{}
	}
	return &Timetable{
		adjacency:       adjacency,
		routes:          routes,
		serviceRoutes:   serviceRoutes,
		continuousTrips: continuousTrips,
	}
}

// RouteCount returns the number of routes, for callers that need to
// enumerate every route (e.g. a serializer).
func (tt *Timetable) RouteCount() int { return len(tt.routes) }

// StopCount returns the dense extent of the adjacency vector, i.e. one
// past the largest StopId this Timetable knows about.
func (tt *Timetable) StopCount() int { return len(tt.adjacency) }

// ServiceRouteCount returns the number of service routes.
func (tt *Timetable) ServiceRouteCount() int { return len(tt.serviceRoutes) }

// ServiceRouteInfoAt returns the line metadata for a ServiceRouteId
// directly, without going through a Route.
func (tt *Timetable) ServiceRouteInfoAt(id ServiceRouteId) ServiceRouteInfo {
	return tt.serviceRoutes[id]
}

// AllContinuousTrips returns the full in-seat continuation map. Callers
// must not mutate it; it exists for enumeration (e.g. a serializer), not
// for routing, which goes through GetContinuousTrips.
func (tt *Timetable) AllContinuousTrips() map[packedid.TripStopId][]TripBoarding {
	return tt.continuousTrips
}

// GetRoute returns the route with the given id, or false if out of range.
func (tt *Timetable) GetRoute(id RouteId) (*Route, bool) {
	if int(id) < 0 || int(id) >= len(tt.routes) {
		return nil, false
	}
	return tt.routes[id], true
}

// GetTransfers returns the transfers declared from stopID, or an empty
// slice if it has none. Never fails for any valid StopId.
func (tt *Timetable) GetTransfers(stopID StopId) []Transfer {
	if int(stopID) < 0 || int(stopID) >= len(tt.adjacency) {
		return noTransfers
	}
	transfers := tt.adjacency[stopID].Transfers
	if transfers == nil {
		return noTransfers
	}
	return transfers
}

// GetContinuousTrips returns the in-seat continuations a passenger
// alighting from tripIndex of routeID at stopIndex may board without a
// transfer.
func (tt *Timetable) GetContinuousTrips(
	stopIndex StopRouteIndex,
	routeID RouteId,
	tripIndex TripRouteIndex,
) []TripBoarding {
	id, err := packedid.Encode(int(stopIndex), int(routeID), int(tripIndex))
	if err != nil {
		return nil
	}
	return tt.continuousTrips[id]
}

// GetServiceRouteInfo returns the line metadata owning route.
func (tt *Timetable) GetServiceRouteInfo(route *Route) ServiceRouteInfo {
	return tt.serviceRoutes[route.ServiceRoute()]
}

// RoutesPassingThrough returns every route that visits stopID.
func (tt *Timetable) RoutesPassingThrough(stopID StopId) []*Route {
	if int(stopID) < 0 || int(stopID) >= len(tt.adjacency) {
		return nil
	}
	routeIDs := tt.adjacency[stopID].Routes
	routes := make([]*Route, 0, len(routeIDs))
	for _, id := range routeIDs {
		if route, ok := tt.GetRoute(id); ok {
			routes = append(routes, route)
		}
	}
	return routes
}

// IsActive reports whether stopID appears on some route or has some
// transfer/continuation.
func (tt *Timetable) IsActive(stopID StopId) bool {
	if int(stopID) < 0 || int(stopID) >= len(tt.adjacency) {
		return false
	}
	adj := tt.adjacency[stopID]
	return len(adj.Routes) > 0 || len(adj.Transfers) > 0
}

// FindReachableRoutes finds, for each route passing through any stop in
// fromStops whose service-route type is in modes, the smallest
// StopRouteIndex among occurrences of stops in fromStops — the earliest
// hop-on point, since scanning from an earlier boarding point dominates
// later ones. An empty modes set is interpreted as "all modes".
func (tt *Timetable) FindReachableRoutes(
	fromStops map[StopId]struct{},
	modes map[RouteType]struct{},
) map[*Route]StopRouteIndex {
	allModes := len(modes) == 0
	result := map[*Route]StopRouteIndex{}

	for stopID := range fromStops {
		for _, route := range tt.RoutesPassingThrough(stopID) {
			if !allModes {
				info := tt.GetServiceRouteInfo(route)
				if _, ok := modes[info.Type]; !ok {
					continue
				}
			}
			hopOnIndex, ok := route.PrimaryStopRouteIndex(stopID)
			if !ok {
				continue
			}
			if existing, seen := result[route]; !seen || hopOnIndex < existing {
				result[route] = hopOnIndex
			}
		}
	}
	return result
}
