// Package timetable holds the pre-built, read-only timetable the Router
// scans: the columnar Route store, per-stop adjacency, and the identifiers
// that tie them together.
package timetable

// StopId is a global stop identifier.
type StopId int32

// RouteId is an internal route identifier. A "route" is the set of trips
// sharing an identical ordered stop list within a user-visible line.
type RouteId int32

// ServiceRouteId is a user-visible line identifier. A route belongs to one
// service route; a service route contains one or more routes.
type ServiceRouteId int32

// TripRouteIndex is the 0-based position of a trip within its route.
type TripRouteIndex int

// StopRouteIndex is the 0-based position of a stop within its route.
type StopRouteIndex int

// RouteType enumerates rider-visible vehicle modes.
type RouteType int

const (
	RouteTypeTram RouteType = iota
	RouteTypeSubway
	RouteTypeRail
	RouteTypeBus
	RouteTypeFerry
	RouteTypeCableTram
	RouteTypeAerialLift
	RouteTypeFunicular
	RouteTypeTrolleybus
	RouteTypeMonorail
)

// PickupDropOffType enumerates whether a rider may board or alight at a
// given (trip, stop), packed at 2 bits per value.
type PickupDropOffType uint8

const (
	PickupDropOffRegular PickupDropOffType = iota
	PickupDropOffNotAvailable
	PickupDropOffMustPhoneAgency
	PickupDropOffMustCoordinateWithDriver
)

// TransferType enumerates the kind of walking connection between stops.
type TransferType int

const (
	TransferRecommended TransferType = iota
	TransferGuaranteed
	TransferRequiresMinimalTime
	TransferInSeat
)

// ServiceRouteInfo is the line metadata for a ServiceRouteId: its vehicle
// type and rider-visible name.
type ServiceRouteInfo struct {
	Type RouteType
	Name string
}
