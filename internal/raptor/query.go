package raptor

import (
	"github.com/google/uuid"

	"github.com/aubryio/raptorgo/internal/raptortime"
	"github.com/aubryio/raptorgo/internal/timetable"
)

// SourceStopId is a stop id as named by a caller — a station, a platform,
// or any id the StopsIndex knows how to expand to one or more concrete
// timetable.StopId values.
type SourceStopId timetable.StopId

// StopsIndex expands a caller-supplied source stop into the set of
// concrete stops it denotes (e.g. a station and its platforms, or
// declared siblings). It is an external collaborator (spec §1); the
// router never constructs one itself.
type StopsIndex interface {
	Expand(id SourceStopId) []timetable.StopId
}

const (
	// DefaultMaxTransfers is the K in "at most K+1 rounds".
	DefaultMaxTransfers = 4
	// DefaultMinTransferTime is applied to transfers that declare no
	// MinTransferTime of their own and are not IN_SEAT.
	DefaultMinTransferTime raptortime.Duration = 2
)

// Options are the tunables of a routing Query.
type Options struct {
	MaxTransfers    int
	MinTransferTime raptortime.Duration
	// TransportModes restricts route scanning to these modes. An empty
	// set means "all modes" (spec.md pins this interpretation).
	TransportModes map[timetable.RouteType]struct{}
}

// DefaultOptions returns the spec's default Options: 4 max transfers, a 2
// minute minimum transfer time, and all transport modes.
func DefaultOptions() Options {
	return Options{
		MaxTransfers:    DefaultMaxTransfers,
		MinTransferTime: DefaultMinTransferTime,
		TransportModes:  map[timetable.RouteType]struct{}{},
	}
}

// Query is the input to a single routing call: an origin, one or more
// destinations, a departure time, and tuning Options.
type Query struct {
	From          SourceStopId
	To            []SourceStopId
	DepartureTime raptortime.Time
	Options       Options
	// RequestID correlates this query across logs and CLI output; it
	// never participates in routing semantics.
	RequestID uuid.UUID
}

// NewQuery builds a Query with DefaultOptions and a fresh RequestID.
func NewQuery(from SourceStopId, to []SourceStopId, departureTime raptortime.Time) Query {
	return Query{
		From:          from,
		To:            to,
		DepartureTime: departureTime,
		Options:       DefaultOptions(),
		RequestID:     uuid.New(),
	}
}
