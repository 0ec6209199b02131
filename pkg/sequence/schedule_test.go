package sequence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchedule_PopDue(t *testing.T) {
	s := NewSchedule[string]()
	s.Push(5, "late")
	s.Push(1, "first")
	s.Push(1, "second")
	s.Push(3, "middle")

	at, ok := s.Peek()
	require.True(t, ok)
	require.Equal(t, uint64(1), at)

	require.Empty(t, s.PopDue(0))
	require.Equal(t, []string{"first", "second"}, s.PopDue(1))
	require.Equal(t, []string{"middle"}, s.PopDue(4))
	require.Equal(t, 1, s.Len())
	require.Equal(t, []string{"late"}, s.PopDue(10))
	require.True(t, s.IsEmpty())

	_, ok = s.Peek()
	require.False(t, ok)
}
