package concurrent

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcurrent(t *testing.T) {
	var sum atomic.Int64
	err := Concurrent(slices.Values([]int64{1, 2, 3, 4}), func(v int64) error {
		sum.Add(v)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(10), sum.Load())

	boom := errors.New("boom")
	err = Concurrent(slices.Values([]int{1, 2}), func(v int) error {
		if v == 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestThrottle_Limit(t *testing.T) {
	var running, peak atomic.Int32
	err := Throttle(context.Background(), slices.Values(make([]int, 32)), 3, func(context.Context, int) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return nil
	})
	require.NoError(t, err)
	require.LessOrEqual(t, peak.Load(), int32(3))
}

func TestThrottle_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := Throttle(ctx, slices.Values([]int{1, 2, 3}), 0, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, calls.Load())
}
