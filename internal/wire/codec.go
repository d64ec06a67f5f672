// Package wire is the versioned, length-prefixed (de)serialization of a
// timetable.Timetable described in spec §6: a u32 little-endian length
// prefix followed by a payload. The payload is framed as a small number of
// protobuf length-delimited fields (via google.golang.org/protobuf's
// low-level protowire primitives) — the version string first, then one
// field per Timetable section (service routes, routes, adjacency,
// continuations) — rather than a
// fully code-generated message: no .proto compiler runs in this tree, and
// a hand-rolled nested-message schema would buy nothing over one flat
// sub-encoding per section. Within each section, arrays that spec §6
// calls out explicitly (u16 LE stop-times, u32 LE stop ids, the 2-bit
// packed pickup/drop-off byte sequence) are written exactly that way.
package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/aubryio/raptorgo/internal/packedid"
	"github.com/aubryio/raptorgo/internal/raptortime"
	"github.com/aubryio/raptorgo/internal/timetable"
)

// Version is stamped into every record this package writes. Decode
// rejects any other version outright.
const Version = "raptorgo-timetable-v1"

const (
	fieldVersion       = protowire.Number(1)
	fieldServiceRoutes = protowire.Number(2)
	fieldRoutes        = protowire.Number(3)
	fieldAdjacency     = protowire.Number(4)
	fieldContinuations = protowire.Number(5)
)

// ErrVersionMismatch is returned by Decode when the record's version
// string does not match Version.
var ErrVersionMismatch = errors.New("wire: version mismatch")

// Encode writes tt to w as a length-prefixed versioned record.
func Encode(tt *timetable.Timetable, w io.Writer) error {
	var payload []byte
	payload = protowire.AppendTag(payload, fieldVersion, protowire.BytesType)
	payload = protowire.AppendBytes(payload, []byte(Version))

	payload = protowire.AppendTag(payload, fieldServiceRoutes, protowire.BytesType)
	payload = protowire.AppendBytes(payload, encodeServiceRoutes(tt))

	payload = protowire.AppendTag(payload, fieldRoutes, protowire.BytesType)
	routesBlob, err := encodeRoutes(tt)
	if err != nil {
		return errors.Wrap(err, "encoding routes")
	}
	payload = protowire.AppendBytes(payload, routesBlob)

	payload = protowire.AppendTag(payload, fieldAdjacency, protowire.BytesType)
	payload = protowire.AppendBytes(payload, encodeAdjacency(tt))

	payload = protowire.AppendTag(payload, fieldContinuations, protowire.BytesType)
	payload = protowire.AppendBytes(payload, encodeContinuations(tt))

	var lengthPrefix [4]byte
	binary.LittleEndian.PutUint32(lengthPrefix[:], uint32(len(payload)))
	if _, err := w.Write(lengthPrefix[:]); err != nil {
		return errors.Wrap(err, "writing length prefix")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "writing payload")
	}
	return nil
}

// Decode reads a record written by Encode and rebuilds its Timetable.
func Decode(r io.Reader) (*timetable.Timetable, error) {
	var lengthPrefix [4]byte
	if _, err := io.ReadFull(r, lengthPrefix[:]); err != nil {
		return nil, errors.Wrap(err, "reading length prefix")
	}
	length := binary.LittleEndian.Uint32(lengthPrefix[:])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrap(err, "reading payload")
	}

	var version string
	var serviceRoutesBlob, routesBlob, adjacencyBlob, continuationsBlob []byte

	b := payload
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "consuming field tag")
		}
		b = b[n:]
		value, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, errors.Wrap(protowire.ParseError(n), "consuming field value")
		}
		b = b[n:]

		if typ != protowire.BytesType {
			continue
		}
		switch protowire.Number(num) {
		case fieldVersion:
			version = string(value)
		case fieldServiceRoutes:
			serviceRoutesBlob = value
		case fieldRoutes:
			routesBlob = value
		case fieldAdjacency:
			adjacencyBlob = value
		case fieldContinuations:
			continuationsBlob = value
		}
	}

	if version != Version {
		return nil, errors.Wrapf(ErrVersionMismatch, "got %q, want %q", version, Version)
	}

	serviceRoutes, err := decodeServiceRoutes(serviceRoutesBlob)
	if err != nil {
		return nil, errors.Wrap(err, "decoding service routes")
	}
	routes, err := decodeRoutes(routesBlob)
	if err != nil {
		return nil, errors.Wrap(err, "decoding routes")
	}
	adjacency, err := decodeAdjacency(adjacencyBlob)
	if err != nil {
		return nil, errors.Wrap(err, "decoding adjacency")
	}
	continuousTrips, err := decodeContinuations(continuationsBlob)
	if err != nil {
		return nil, errors.Wrap(err, "decoding continuations")
	}

	return timetable.New(routes, serviceRoutes, adjacency, continuousTrips), nil
}

func encodeServiceRoutes(tt *timetable.Timetable) []byte {
	var buf bytes.Buffer
	count := tt.ServiceRouteCount()
	_ = binary.Write(&buf, binary.LittleEndian, uint32(count))
	for i := 0; i < count; i++ {
		info := tt.ServiceRouteInfoAt(timetable.ServiceRouteId(i))
		_ = binary.Write(&buf, binary.LittleEndian, uint8(info.Type))
		writeString(&buf, info.Name)
	}
	return buf.Bytes()
}

func decodeServiceRoutes(blob []byte) ([]timetable.ServiceRouteInfo, error) {
	r := bytes.NewReader(blob)
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	infos := make([]timetable.ServiceRouteInfo, count)
	for i := range infos {
		var routeType uint8
		if err := binary.Read(r, binary.LittleEndian, &routeType); err != nil {
			return nil, err
		}
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		infos[i] = timetable.ServiceRouteInfo{Type: timetable.RouteType(routeType), Name: name}
	}
	return infos, nil
}

func encodeRoutes(tt *timetable.Timetable) ([]byte, error) {
	var buf bytes.Buffer
	count := tt.RouteCount()
	_ = binary.Write(&buf, binary.LittleEndian, uint32(count))
	for i := 0; i < count; i++ {
		route, _ := tt.GetRoute(timetable.RouteId(i))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(route.ServiceRoute()))
		stopCount := route.StopCount()
		tripCount := route.TripCount()
		_ = binary.Write(&buf, binary.LittleEndian, uint32(stopCount))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(tripCount))
		for s := 0; s < stopCount; s++ {
			_ = binary.Write(&buf, binary.LittleEndian, uint32(route.StopAt(timetable.StopRouteIndex(s))))
		}
		pickupDropOff := make([]byte, 0, (stopCount*tripCount+1)/2)
		var pending byte
		var havePending bool
		for tIdx := 0; tIdx < tripCount; tIdx++ {
			for s := 0; s < stopCount; s++ {
				si := timetable.StopRouteIndex(s)
				ti := timetable.TripRouteIndex(tIdx)
				arrival := route.ArrivalAt(si, ti)
				departure := route.DepartureFrom(si, ti)
				if arrival > 0xFFFF || departure > 0xFFFF {
					return nil, errors.Errorf("route %d stop %d trip %d: time exceeds u16 range", i, s, tIdx)
				}
				_ = binary.Write(&buf, binary.LittleEndian, uint16(arrival))
				_ = binary.Write(&buf, binary.LittleEndian, uint16(departure))

				pickup := route.PickupTypeFrom(si, ti)
				dropOff := route.DropOffTypeAt(si, ti)
				nibble := byte(dropOff) | byte(pickup)<<2
				if !havePending {
					pending = nibble
					havePending = true
				} else {
					pending |= nibble << 4
					pickupDropOff = append(pickupDropOff, pending)
					havePending = false
				}
			}
		}
		if havePending {
			pickupDropOff = append(pickupDropOff, pending)
		}
		writeBytes(&buf, pickupDropOff)
	}
	return buf.Bytes(), nil
}

func decodeRoutes(blob []byte) ([]*timetable.Route, error) {
	r := bytes.NewReader(blob)
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	routes := make([]*timetable.Route, count)
	for i := range routes {
		var serviceRouteID, stopCount, tripCount uint32
		if err := binary.Read(r, binary.LittleEndian, &serviceRouteID); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &stopCount); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &tripCount); err != nil {
			return nil, err
		}
		stops := make([]timetable.StopId, stopCount)
		for s := range stops {
			var id uint32
			if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
				return nil, err
			}
			stops[s] = timetable.StopId(id)
		}

		trips := make([][]timetable.StopTimeEntry, tripCount)
		for t := range trips {
			trips[t] = make([]timetable.StopTimeEntry, stopCount)
		}
		for t := 0; t < int(tripCount); t++ {
			for s := 0; s < int(stopCount); s++ {
				var arrival, departure uint16
				if err := binary.Read(r, binary.LittleEndian, &arrival); err != nil {
					return nil, err
				}
				if err := binary.Read(r, binary.LittleEndian, &departure); err != nil {
					return nil, err
				}
				trips[t][s].Arrival = raptortime.Time(arrival)
				trips[t][s].Departure = raptortime.Time(departure)
			}
		}
		blobLen, err := readBytesLen(r)
		if err != nil {
			return nil, err
		}
		pdoBytes := make([]byte, blobLen)
		if _, err := io.ReadFull(r, pdoBytes); err != nil {
			return nil, err
		}
		g := 0
		for t := 0; t < int(tripCount); t++ {
			for s := 0; s < int(stopCount); s++ {
				b := pdoBytes[g/2]
				var nibble byte
				if g%2 == 0 {
					nibble = b & 0x0F
				} else {
					nibble = b >> 4
				}
				trips[t][s].DropOff = timetable.PickupDropOffType(nibble & 0b11)
				trips[t][s].Pickup = timetable.PickupDropOffType(nibble >> 2 & 0b11)
				g++
			}
		}

		routes[i] = timetable.NewRoute(timetable.RouteId(i), timetable.ServiceRouteId(serviceRouteID), stops, trips)
	}
	return routes, nil
}

func encodeAdjacency(tt *timetable.Timetable) []byte {
	var buf bytes.Buffer
	stopCount := tt.StopCount()
	_ = binary.Write(&buf, binary.LittleEndian, uint32(stopCount))
	for s := 0; s < stopCount; s++ {
		routes := tt.RoutesPassingThrough(timetable.StopId(s))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(routes)))
		for _, route := range routes {
			_ = binary.Write(&buf, binary.LittleEndian, uint32(route.ID()))
		}
		transfers := tt.GetTransfers(timetable.StopId(s))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(transfers)))
		for _, transfer := range transfers {
			_ = binary.Write(&buf, binary.LittleEndian, uint32(transfer.Destination))
			_ = binary.Write(&buf, binary.LittleEndian, uint8(transfer.Type))
			if transfer.MinTransferTime != nil {
				_ = binary.Write(&buf, binary.LittleEndian, uint8(1))
				_ = binary.Write(&buf, binary.LittleEndian, uint32(*transfer.MinTransferTime))
			} else {
				_ = binary.Write(&buf, binary.LittleEndian, uint8(0))
				_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
			}
		}
	}
	return buf.Bytes()
}

func decodeAdjacency(blob []byte) ([]timetable.StopAdjacency, error) {
	r := bytes.NewReader(blob)
	var stopCount uint32
	if err := binary.Read(r, binary.LittleEndian, &stopCount); err != nil {
		return nil, err
	}
	adjacency := make([]timetable.StopAdjacency, stopCount)
	for s := range adjacency {
		var routeCount uint32
		if err := binary.Read(r, binary.LittleEndian, &routeCount); err != nil {
			return nil, err
		}
		routes := make([]timetable.RouteId, routeCount)
		for i := range routes {
			var id uint32
			if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
				return nil, err
			}
			routes[i] = timetable.RouteId(id)
		}
		var transferCount uint32
		if err := binary.Read(r, binary.LittleEndian, &transferCount); err != nil {
			return nil, err
		}
		transfers := make([]timetable.Transfer, transferCount)
		for i := range transfers {
			var destination uint32
			var transferType uint8
			var hasMin uint8
			var minTransferTime uint32
			if err := binary.Read(r, binary.LittleEndian, &destination); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &transferType); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &hasMin); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &minTransferTime); err != nil {
				return nil, err
			}
			var ptr *raptortime.Duration
			if hasMin == 1 {
				d := raptortime.Duration(minTransferTime)
				ptr = &d
			}
			transfers[i] = timetable.Transfer{
				Destination:     timetable.StopId(destination),
				Type:            timetable.TransferType(transferType),
				MinTransferTime: ptr,
			}
		}
		adjacency[s] = timetable.StopAdjacency{Routes: routes, Transfers: transfers}
	}
	return adjacency, nil
}

func encodeContinuations(tt *timetable.Timetable) []byte {
	var buf bytes.Buffer
	all := tt.AllContinuousTrips()
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(all)))
	for key, boardings := range all {
		_ = binary.Write(&buf, binary.LittleEndian, uint64(key))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(boardings)))
		for _, b := range boardings {
			_ = binary.Write(&buf, binary.LittleEndian, uint32(b.RouteID))
			_ = binary.Write(&buf, binary.LittleEndian, uint32(b.HopOnStopIndex))
			_ = binary.Write(&buf, binary.LittleEndian, uint32(b.TripIndex))
		}
	}
	return buf.Bytes()
}

func decodeContinuations(blob []byte) (map[packedid.TripStopId][]timetable.TripBoarding, error) {
	r := bytes.NewReader(blob)
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make(map[packedid.TripStopId][]timetable.TripBoarding, count)
	for i := uint32(0); i < count; i++ {
		var key uint64
		var boardingCount uint32
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &boardingCount); err != nil {
			return nil, err
		}
		boardings := make([]timetable.TripBoarding, boardingCount)
		for j := range boardings {
			var routeID, hopOnStopIndex, tripIndex uint32
			if err := binary.Read(r, binary.LittleEndian, &routeID); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &hopOnStopIndex); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &tripIndex); err != nil {
				return nil, err
			}
			boardings[j] = timetable.TripBoarding{
				RouteID:        timetable.RouteId(routeID),
				HopOnStopIndex: timetable.StopRouteIndex(hopOnStopIndex),
				TripIndex:      timetable.TripRouteIndex(tripIndex),
			}
		}
		out[packedid.TripStopId(key)] = boardings
	}
	return out, nil
}

func writeString(buf *bytes.Buffer, s string) {
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	b := make([]byte, length)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(b)))
	buf.Write(b)
}

func readBytesLen(r *bytes.Reader) (uint32, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return 0, err
	}
	return length, nil
}
