package instance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetIDPrefersDyno(t *testing.T) {
	t.Setenv("DYNO", "web.1")
	t.Setenv("HOSTNAME", "box")
	require.Equal(t, "web.1", GetID())
}

func TestGetIDFallsBack(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("HOSTNAME", "")
	require.Equal(t, "local", GetID())
}
