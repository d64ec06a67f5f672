package raptortime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlus(t *testing.T) {
	require.Equal(t, Time(490), Time(480).Plus(Duration(10)))
}

func TestPlusUnreachedStaysUnreached(t *testing.T) {
	require.Equal(t, Unreached, Unreached.Plus(Duration(10)))
}

func TestComparisons(t *testing.T) {
	require.True(t, Time(480).IsBefore(Time(490)))
	require.True(t, Time(490).IsAfter(Time(480)))
	require.True(t, Time(480).Equals(Time(480)))
	require.False(t, Time(480).IsBefore(Time(480)))
}

func TestUnreachedComparesGreater(t *testing.T) {
	require.True(t, Time(1440).IsBefore(Unreached))
	require.False(t, Unreached.IsBefore(Time(1440)))
}

func TestMin(t *testing.T) {
	require.Equal(t, Time(480), Time(480).Min(Time(500)))
	require.Equal(t, Time(480), Time(500).Min(Time(480)))
	require.Equal(t, Time(480), Time(480).Min(Unreached))
}

func TestReached(t *testing.T) {
	require.True(t, Time(0).Reached())
	require.False(t, Unreached.Reached())
}
