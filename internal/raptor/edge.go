package raptor

import (
	"github.com/aubryio/raptorgo/internal/raptortime"
	"github.com/aubryio/raptorgo/internal/timetable"
)

// EdgeKind tags which variant a RoutingEdge holds.
type EdgeKind int

const (
	// EdgeOrigin marks a stop reached "as-is" at the query's departure
	// time, before any round has run.
	EdgeOrigin EdgeKind = iota
	// EdgeVehicle marks a stop reached by boarding a trip.
	EdgeVehicle
	// EdgeTransfer marks a stop reached by walking (or an in-seat
	// transfer) from another stop reached earlier in the same round.
	EdgeTransfer
)

// noContinuation is the ContinuationOf sentinel meaning "this Vehicle edge
// was not produced by an in-seat continuation".
const noContinuation = -1

// RoutingEdge is a tagged variant recording how a stop was reached during
// one round of the scan: exactly one of Origin, Vehicle, or Transfer.
type RoutingEdge struct {
	Kind    EdgeKind
	Arrival raptortime.Time

	// Vehicle fields.
	FromStop  timetable.StopId
	ToStop    timetable.StopId
	FromIndex timetable.StopRouteIndex
	ToIndex   timetable.StopRouteIndex
	RouteID   timetable.RouteId
	TripIndex timetable.TripRouteIndex
	// ContinuationOf is an arena index (see round.go) of the prior
	// Vehicle edge in the same round that this edge continues from
	// in-seat, or noContinuation if this edge was not produced by a
	// continuation.
	ContinuationOf int

	// Transfer fields.
	From            timetable.StopId
	To              timetable.StopId
	TransferType    timetable.TransferType
	MinTransferTime *raptortime.Duration
}

// IsContinuation reports whether this Vehicle edge was produced by an
// in-seat continuation from a prior edge in the same round.
func (e RoutingEdge) IsContinuation() bool {
	return e.Kind == EdgeVehicle && e.ContinuationOf != noContinuation
}
