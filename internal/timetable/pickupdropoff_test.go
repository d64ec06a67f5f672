package timetable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPickupDropOffRoundTrip(t *testing.T) {
	pairs := [][2]PickupDropOffType{
		{PickupDropOffRegular, PickupDropOffNotAvailable},
		{PickupDropOffMustPhoneAgency, PickupDropOffMustCoordinateWithDriver},
		{PickupDropOffNotAvailable, PickupDropOffRegular},
		{PickupDropOffMustCoordinateWithDriver, PickupDropOffMustPhoneAgency},
		{PickupDropOffRegular, PickupDropOffRegular},
	}
	packed := packPickupDropOff(pairs)
	require.Len(t, packed, (len(pairs)+1)/2)

	for g, pair := range pairs {
		require.Equal(t, pair[0], unpackPickupAt(packed, g), "pickup at %d", g)
		require.Equal(t, pair[1], unpackDropOffAt(packed, g), "drop-off at %d", g)
	}
}

func TestPickupDropOffOddLengthPacksToCeilHalf(t *testing.T) {
	pairs := [][2]PickupDropOffType{
		{PickupDropOffRegular, PickupDropOffRegular},
		{PickupDropOffNotAvailable, PickupDropOffNotAvailable},
		{PickupDropOffMustPhoneAgency, PickupDropOffMustCoordinateWithDriver},
	}
	packed := packPickupDropOff(pairs)
	require.Len(t, packed, 2)
	require.Equal(t, PickupDropOffMustPhoneAgency, unpackPickupAt(packed, 2))
	require.Equal(t, PickupDropOffMustCoordinateWithDriver, unpackDropOffAt(packed, 2))
}
