package dbtypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringListRoundTripsThroughText(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["Gol G5","Fox"]`)))
	require.Equal(t, StringList{"Gol G5", "Fox"}, l)

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	require.Equal(t, "[]", v)

	require.NoError(t, l.Scan(nil))
	require.Empty(t, l)
	require.Error(t, l.Scan(42))
}

func TestStringMapScan(t *testing.T) {
	var m StringMap
	require.NoError(t, m.Scan(`{"Cilindradas":"1.6"}`))
	require.Equal(t, "1.6", m["Cilindradas"])
	require.Error(t, m.Scan("not json"))

	v, err := StringMap(nil).Value()
	require.NoError(t, err)
	require.Equal(t, "{}", v)
}
