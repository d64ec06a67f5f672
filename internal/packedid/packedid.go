// Package packedid bijectively packs (stop-in-route, route, trip-in-route)
// triples into a single fixed-width integer for use as a map key, the way
// the router looks up in-seat continuations by TripStopId.
package packedid

import "github.com/pkg/errors"

// fieldBits is the width of each of the three packed fields.
const fieldBits = 20

// fieldMax is the exclusive upper bound a field value must stay under.
const fieldMax = 1 << fieldBits

// TripStopId is a 60-bit value packing (StopRouteIndex, RouteId,
// TripRouteIndex) as three 20-bit fields.
type TripStopId uint64

// ErrOutOfRange is returned when a field does not fit in [0, 2^20).
var ErrOutOfRange = errors.New("packedid: field out of range [0, 2^20)")

// Encode packs stopIndex, routeID, and tripIndex into a TripStopId. It
// fails if any component is outside [0, 2^20) — this is the one bounds
// check in this encoding, surfaced to the caller assembling the Timetable,
// never during routing.
func Encode(stopIndex, routeID, tripIndex int) (TripStopId, error) {
	if err := checkField(stopIndex, "stopIndex"); err != nil {
		return 0, err
	}
	if err := checkField(routeID, "routeID"); err != nil {
		return 0, err
	}
	if err := checkField(tripIndex, "tripIndex"); err != nil {
		return 0, err
	}
	packed := TripStopId(stopIndex)
	packed |= TripStopId(routeID) << fieldBits
	packed |= TripStopId(tripIndex) << (2 * fieldBits)
	return packed, nil
}

// Decode unpacks a TripStopId back into (stopIndex, routeID, tripIndex).
// It is the exact inverse of Encode for any value Encode could have
// produced.
func Decode(id TripStopId) (stopIndex, routeID, tripIndex int) {
	const mask = fieldMax - 1
	stopIndex = int(id & mask)
	routeID = int((id >> fieldBits) & mask)
	tripIndex = int((id >> (2 * fieldBits)) & mask)
	return
}

func checkField(v int, name string) error {
	if v < 0 || v >= fieldMax {
		return errors.Wrapf(ErrOutOfRange, "%s=%d", name, v)
	}
	return nil
}
