package stopsindex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aubryio/raptorgo/internal/raptor"
	"github.com/aubryio/raptorgo/internal/stopsindex"
	"github.com/aubryio/raptorgo/internal/timetable"
)

func TestExpandIncludesSelfChildrenAndSiblings(t *testing.T) {
	idx := stopsindex.NewMemoryIndex(
		map[timetable.StopId][]timetable.StopId{1: {10, 11}},
		map[timetable.StopId][]timetable.StopId{1: {20}},
		nil,
	)

	got := idx.Expand(raptor.SourceStopId(1))
	require.Equal(t, []timetable.StopId{1, 10, 11, 20}, got)
}

func TestExpandWithNoRelationsReturnsJustItself(t *testing.T) {
	idx := stopsindex.NewMemoryIndex(nil, nil, nil)
	got := idx.Expand(raptor.SourceStopId(5))
	require.Equal(t, []timetable.StopId{5}, got)
}

func TestLookupByName(t *testing.T) {
	idx := stopsindex.NewMemoryIndex(nil, nil, map[string][]timetable.StopId{
		"Central Station": {1, 2},
	})
	require.Equal(t, []timetable.StopId{1, 2}, idx.Lookup("Central Station"))
	require.Nil(t, idx.Lookup("Nowhere"))
}
