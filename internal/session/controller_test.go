package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/rallybot/internal/clock"
	"github.com/verte-zerg/rallybot/internal/model"
	"github.com/verte-zerg/rallybot/internal/sampler"
	"github.com/verte-zerg/rallybot/internal/testutil"
)

const fireWait = 2 * time.Second

func newTestController(t *testing.T, minutes int, src *testutil.ScriptedSource) (*Controller, *clock.Manual) {
	t.Helper()
	cfg := model.DefaultSessionConfig()
	cfg.DurationMinutes = minutes
	if src == nil {
		src = testutil.NewScriptedSource(nil, nil)
	}
	clk := clock.NewManual()
	c, err := New(cfg, WithClock(clk), WithSampler(sampler.NewWithSource(src)), WithID("test-session"))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, clk
}

func waitFor(t *testing.T, c *Controller, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(fireWait)
	for {
		select {
		case snap := <-c.Changes():
			if cond(snap) {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for snapshot; last state %+v", c.Snapshot())
			return Snapshot{}
		}
	}
}

func fire(t *testing.T, tk *clock.ManualTicker) {
	t.Helper()
	require.NotNil(t, tk)
	require.True(t, tk.Fire(fireWait), "ticker was not consumed")
}

func remainingIs(n int) func(Snapshot) bool {
	return func(s Snapshot) bool { return s.SecondsRemaining == n }
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	base := model.DefaultSessionConfig()
	cases := map[string]func(*model.SessionConfig){
		"zero duration":     func(c *model.SessionConfig) { c.DurationMinutes = 0 },
		"negative duration": func(c *model.SessionConfig) { c.DurationMinutes = -3 },
		"absurd duration":   func(c *model.SessionConfig) { c.DurationMinutes = MaxDurationMinutes + 1 },
		"unknown mode":      func(c *model.SessionConfig) { c.Mode = "volley" },
		"intensity high":    func(c *model.SessionConfig) { c.Intensity = 101 },
		"direction low":     func(c *model.SessionConfig) { c.Direction = -1 },
		"frequency high":    func(c *model.SessionConfig) { c.Frequency = 150 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			c, err := New(cfg)
			assert.Nil(t, c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New(model.DefaultSessionConfig())
	require.NoError(t, err)
	defer c.Close()

	snap := c.Snapshot()
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, c.ID(), snap.ID)
	assert.Equal(t, Idle, snap.RunState)
	assert.Equal(t, 1200, snap.SecondsRemaining)
	assert.Equal(t, "20:00", snap.FormattedTime)
	assert.Equal(t, model.ModeServe, snap.Mode)
	assert.False(t, snap.Ended)
}

func TestControllerTicksWhileRunning(t *testing.T) {
	c, clk := newTestController(t, 20, nil)
	assert.Nil(t, clk.Last(), "no ticker before start")

	require.True(t, c.Start())
	tk := clk.Last()
	require.NotNil(t, tk)
	assert.Equal(t, time.Second, tk.Interval)

	fire(t, tk)
	snap := waitFor(t, c, remainingIs(1199))
	assert.Equal(t, Running, snap.RunState)
	assert.Equal(t, "19:59", snap.FormattedTime)
	assert.InDelta(t, 100.0/1200.0, snap.ProgressPercent, 1e-9)
}

func TestControllerPauseCancelsTicker(t *testing.T) {
	c, clk := newTestController(t, 20, nil)
	require.True(t, c.Start())
	tk := clk.Last()
	fire(t, tk)
	waitFor(t, c, remainingIs(1199))

	require.True(t, c.Pause())
	assert.True(t, tk.Stopped())

	// Whether or not the goroutine is still selecting, the tick must not land.
	tk.Fire(20 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	snap := c.Snapshot()
	assert.Equal(t, Paused, snap.RunState)
	assert.Equal(t, 1199, snap.SecondsRemaining)

	assert.False(t, c.Pause(), "second pause is a no-op")
	assert.Equal(t, snap, c.Snapshot())
}

func TestControllerResumeUsesFreshTicker(t *testing.T) {
	c, clk := newTestController(t, 20, nil)
	require.True(t, c.Start())
	first := clk.Last()
	fire(t, first)
	waitFor(t, c, remainingIs(1199))

	require.True(t, c.Pause())
	require.True(t, c.Resume())
	assert.Equal(t, 1199, c.Snapshot().SecondsRemaining, "no catch-up on resume")

	second := clk.Last()
	require.NotSame(t, first, second)
	assert.False(t, second.Stopped())
	fire(t, second)
	waitFor(t, c, remainingIs(1198))
	assert.Len(t, clk.Tickers(), 2)
}

func TestControllerIgnoresInvalidActions(t *testing.T) {
	c, clk := newTestController(t, 5, nil)
	assert.False(t, c.Pause())
	assert.False(t, c.Resume())
	assert.Nil(t, clk.Last())

	require.True(t, c.Start())
	assert.False(t, c.Start())
	assert.False(t, c.Resume())
	assert.Len(t, clk.Tickers(), 1)
	assert.Equal(t, Running, c.Snapshot().RunState)
}

func TestControllerCompletes(t *testing.T) {
	c, clk := newTestController(t, 1, nil)
	require.True(t, c.Start())
	tk := clk.Last()
	for i := 0; i < 60; i++ {
		fire(t, tk)
	}
	snap := waitFor(t, c, func(s Snapshot) bool { return s.RunState == Completed })
	assert.Equal(t, 0, snap.SecondsRemaining)
	assert.Equal(t, "00:00", snap.FormattedTime)
	assert.Equal(t, 100.0, snap.ProgressPercent)
	assert.True(t, tk.Stopped())

	assert.False(t, tk.Fire(20*time.Millisecond), "ticking stops after completion")
	assert.Equal(t, snap, c.Snapshot())
	assert.False(t, c.Start())
	assert.False(t, c.Pause())
}

func TestControllerResetReturnsToIdle(t *testing.T) {
	src := testutil.NewScriptedSource([]float64{0.01}, []int{3, 4})
	c, clk := newTestController(t, 2, src)
	require.True(t, c.Start())
	tk := clk.Last()
	fire(t, tk)
	waitFor(t, c, remainingIs(119))
	require.Equal(t, 1, c.Snapshot().TotalServes)
	require.Len(t, c.Samples(), 1)

	require.True(t, c.Reset())
	assert.True(t, tk.Stopped())
	snap := c.Snapshot()
	assert.Equal(t, Idle, snap.RunState)
	assert.Equal(t, 120, snap.SecondsRemaining)
	assert.Zero(t, snap.TotalServes)
	assert.Zero(t, snap.AccuracyPercent)
	assert.Zero(t, snap.AvgSpeedKmh)
	assert.Zero(t, snap.ProgressPercent)
	assert.Empty(t, c.Samples())

	assert.False(t, c.Resume())
	require.True(t, c.Start())
	assert.Len(t, clk.Tickers(), 2)
}

func TestControllerMetricsChangeTogether(t *testing.T) {
	src := testutil.NewScriptedSource([]float64{0.5, 0.02}, []int{15, 40})
	c, clk := newTestController(t, 5, src)
	require.True(t, c.Start())
	tk := clk.Last()

	fire(t, tk)
	snap := waitFor(t, c, remainingIs(299))
	assert.Zero(t, snap.TotalServes)
	assert.Zero(t, snap.AccuracyPercent)
	assert.Zero(t, snap.AvgSpeedKmh)

	fire(t, tk)
	snap = waitFor(t, c, remainingIs(298))
	assert.Equal(t, 1, snap.TotalServes)
	assert.Equal(t, 95, snap.AccuracyPercent)
	assert.Equal(t, 160, snap.AvgSpeedKmh)
}

func TestControllerEnd(t *testing.T) {
	c, clk := newTestController(t, 5, nil)
	require.True(t, c.Start())
	tk := clk.Last()

	require.True(t, c.End())
	assert.True(t, tk.Stopped())
	snap := waitFor(t, c, func(s Snapshot) bool { return s.Ended })
	assert.Equal(t, Running, snap.RunState, "end does not rewrite the run state")

	assert.False(t, c.End())
	assert.False(t, c.Pause())
	assert.False(t, c.Reset())
}

func TestControllerCloseReleasesTicker(t *testing.T) {
	c, clk := newTestController(t, 5, nil)
	require.True(t, c.Start())
	tk := clk.Last()

	c.Close()
	assert.True(t, tk.Stopped())
	assert.False(t, tk.Fire(20*time.Millisecond), "tick goroutine exited")
	assert.False(t, c.Start())
	c.Close()
}

func TestControllerVersionGrowsWithChanges(t *testing.T) {
	c, clk := newTestController(t, 5, nil)
	idle := c.Snapshot().Version

	require.True(t, c.Start())
	started := c.Snapshot().Version
	assert.Greater(t, started, idle)

	fire(t, clk.Last())
	ticked := waitFor(t, c, remainingIs(299))
	assert.Greater(t, ticked.Version, started)

	require.True(t, c.Pause())
	paused := c.Snapshot()
	assert.Greater(t, paused.Version, ticked.Version)

	assert.False(t, c.Pause())
	assert.Equal(t, paused.Version, c.Snapshot().Version, "refused actions publish nothing")
}

func TestControllerCloseClosesDone(t *testing.T) {
	c, _ := newTestController(t, 5, nil)
	select {
	case <-c.Done():
		t.Fatal("done closed before Close")
	default:
	}
	c.Close()
	select {
	case <-c.Done():
	case <-time.After(fireWait):
		t.Fatal("done not closed after Close")
	}
	c.Close()
}
