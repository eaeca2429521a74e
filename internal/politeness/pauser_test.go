package politeness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextWithinBounds(t *testing.T) {
	t.Parallel()

	p := NewRandomPauser(10*time.Millisecond, 20*time.Millisecond)
	for i := 0; i < 200; i++ {
		d := p.Next()
		require.GreaterOrEqual(t, d, 10*time.Millisecond)
		require.LessOrEqual(t, d, 20*time.Millisecond)
	}
}

func TestNextEdges(t *testing.T) {
	t.Parallel()

	p := NewRandomPauser(time.Second, 2*time.Second)
	p.draw = func(int64) int64 { return 0 }
	require.Equal(t, time.Second, p.Next())
	p.draw = func(n int64) int64 { return n }
	require.Equal(t, 2*time.Second, p.Next())

	require.Equal(t, 5*time.Millisecond, NewRandomPauser(5*time.Millisecond, 5*time.Millisecond).Next())
	require.Zero(t, NewRandomPauser(0, 0).Next())

	swapped := NewRandomPauser(3*time.Second, time.Second)
	require.Equal(t, time.Second, swapped.Min)
	require.Equal(t, 3*time.Second, swapped.Max)
}

func TestPauseSleeps(t *testing.T) {
	t.Parallel()

	p := NewRandomPauser(20*time.Millisecond, 30*time.Millisecond)
	start := time.Now()
	d := p.Pause(context.Background())
	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, d)
	require.GreaterOrEqual(t, d, 20*time.Millisecond)
}

func TestPauseHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewRandomPauser(5*time.Second, 5*time.Second)
	start := time.Now()
	slept := p.Pause(ctx)
	require.Less(t, time.Since(start), time.Second, "pause should exit immediately when context is done")
	require.Less(t, slept, time.Second)
}

func TestPauseReportsTimeSleptOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	p := NewRandomPauser(5*time.Second, 5*time.Second)
	slept := p.Pause(ctx)
	require.GreaterOrEqual(t, slept, 20*time.Millisecond)
	require.Less(t, slept, time.Second)
}

func TestZeroPauseReturnsImmediately(t *testing.T) {
	t.Parallel()

	start := time.Now()
	require.Zero(t, NewRandomPauser(0, 0).Pause(context.Background()))
	require.Less(t, time.Since(start), 100*time.Millisecond)
}
