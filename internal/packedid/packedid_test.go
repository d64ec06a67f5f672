package packedid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][3]int{
		{0, 0, 0},
		{1, 2, 3},
		{fieldMax - 1, fieldMax - 1, fieldMax - 1},
		{5, fieldMax - 1, 0},
	}
	for _, c := range cases {
		id, err := Encode(c[0], c[1], c[2])
		require.NoError(t, err)
		stopIndex, routeID, tripIndex := Decode(id)
		require.Equal(t, c[0], stopIndex)
		require.Equal(t, c[1], routeID)
		require.Equal(t, c[2], tripIndex)
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	_, err := Encode(-1, 0, 0)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = Encode(0, fieldMax, 0)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = Encode(0, 0, fieldMax)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestEncodeDistinctTriplesDistinctIds(t *testing.T) {
	a, err := Encode(1, 2, 3)
	require.NoError(t, err)
	b, err := Encode(3, 2, 1)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
