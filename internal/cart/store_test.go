package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreGetCreatesOncePerSession(t *testing.T) {
	s := NewStore(nil)
	a := s.Get("s1")
	require.Same(t, a, s.Get("s1"))
	require.NotSame(t, a, s.Get("s2"))
	require.Equal(t, 2, s.Len())

	s.Drop("s1")
	_, ok := s.Peek("s1")
	require.False(t, ok)
}

func TestStoreSweepIdle(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := now
	s := NewStore(func() time.Time { return clock })

	s.Get("old")
	clock = now.Add(90 * time.Minute)
	s.Get("recent")

	removed := s.SweepIdle(now.Add(2*time.Hour+time.Minute), 2*time.Hour)
	require.Equal(t, 1, removed)
	_, ok := s.Peek("recent")
	require.True(t, ok)

	require.Zero(t, s.SweepIdle(now, 0))
}

func TestPeekDoesNotTouch(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := now
	s := NewStore(func() time.Time { return clock })
	s.Get("a")

	clock = now.Add(3 * time.Hour)
	_, _ = s.Peek("a")

	require.Equal(t, 1, s.SweepIdle(clock, time.Hour))
}
