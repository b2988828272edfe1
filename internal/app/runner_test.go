package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-pixelnut/internal/config"
	"github.com/coreman2200/funtimes-pixelnut/internal/engine"
	"github.com/coreman2200/funtimes-pixelnut/internal/led"
	"github.com/coreman2200/funtimes-pixelnut/internal/sequence"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
)

type failDriver struct{ n int }

func (d *failDriver) Write([]byte) error { d.n++; return errors.New("bus error") }
func (d *failDriver) Close() error       { return nil }

func newRunner(t *testing.T, mod func(c *config.Config)) (*Runner, *led.Sim, *support.StepClock) {
	t.Helper()
	cfg := config.Default()
	cfg.Driver = led.KindSim
	cfg.Pixels = 10
	cfg.FPS = 100
	if mod != nil {
		mod(cfg)
	}
	sim := led.NewSim(cfg.Pixels, zerolog.Nop())
	clock := &support.StepClock{Now: 1}
	r, err := New(Options{Config: cfg, Driver: sim, Clock: clock, Log: zerolog.Nop()})
	require.NoError(t, err)
	return r, sim, clock
}

func solid(n int, rgb ...byte) []byte { return bytes.Repeat(rgb, n) }

func TestRunnerStartupPattern(t *testing.T) {
	r, sim, clock := newRunner(t, nil)

	require.True(t, r.Tick(10*time.Millisecond))
	assert.Equal(t, solid(10, 0, 255, 0), sim.Last())
	assert.False(t, r.Tick(0), "nothing due")

	clock.Advance(1)
	assert.True(t, r.Tick(time.Millisecond))
	assert.Equal(t, 2, sim.Frames())
}

func TestRunnerBadStartupPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Pixels = 4
	cfg.Pattern = "E0 Z"
	_, err := New(Options{Config: cfg, Driver: led.NewSim(4, zerolog.Nop()), Log: zerolog.Nop()})
	assert.Error(t, err)

	_, err = New(Options{Config: config.Default(), Log: zerolog.Nop()})
	assert.Error(t, err, "driver required")
}

func TestRunnerExecReportsStatus(t *testing.T) {
	r, _, _ := newRunner(t, func(c *config.Config) { c.Tracks = 1 })

	err := r.Exec("E1")
	require.Error(t, err)
	assert.Equal(t, engine.OutOfMemory, engine.StatusOf(err))

	err = r.Exec("E300")
	assert.Equal(t, engine.InvalidValue, engine.StatusOf(err))

	st := r.Stats()
	assert.Equal(t, uint64(2), st["cmd_errors"])
	assert.Equal(t, 1, st["layers"])
	assert.Equal(t, 30, st["buffer_bytes"])
}

func TestRunnerBufferBudget(t *testing.T) {
	r, _, _ := newRunner(t, func(c *config.Config) {
		c.Pixels = 400 // 1200 bytes per full track
		c.BufferKB = 2
	})
	err := r.Exec("E1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrOutOfMemory))
}

func TestRunnerLimitsPower(t *testing.T) {
	r, sim, _ := newRunner(t, func(c *config.Config) {
		c.Pattern = "E0 W100 T G"
		c.Power.BudgetMA = 300 // white draws 600
	})

	require.True(t, r.Tick(0))
	frame := sim.Last()
	assert.Equal(t, solid(10, 127, 127, 127), frame)
	assert.Equal(t, uint64(1), r.Stats()["limited_frames"])
}

func TestRunnerTestPattern(t *testing.T) {
	r, sim, _ := newRunner(t, nil)
	require.True(t, r.Tick(0))

	require.NoError(t, r.Handle("!test rgb_channels"))
	for _, want := range [][]byte{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}} {
		require.True(t, r.Tick(0))
		assert.Equal(t, solid(10, want...), sim.Last())
	}
	require.True(t, r.Tick(0), "engine output restored")
	assert.Equal(t, solid(10, 0, 255, 0), sim.Last())

	assert.Error(t, r.Handle("!test plane_z"))
}

func TestRunnerControl(t *testing.T) {
	r, sim, _ := newRunner(t, func(c *config.Config) { c.Pattern = "E0 Q3 T G" })

	require.NoError(t, r.Handle("!props on"))
	require.NoError(t, r.Handle("!color 240 0"))
	require.NoError(t, r.Handle("!bright 50"))
	require.NoError(t, r.Handle("!delay -10"))
	require.NoError(t, r.Handle("!count 100"))
	require.NoError(t, r.Handle("!force 10"))
	require.NoError(t, r.Handle("!disable 0 off"))

	require.True(t, r.Tick(0))
	r0, g0, b0 := support.ColorVals(240, 0, 50)
	assert.Equal(t, solid(10, r0, g0, b0), sim.Last())

	st := r.Stats()
	assert.Equal(t, 50, st["brightness"])
	assert.Equal(t, -10, st["delay_offset"])
	assert.Equal(t, true, st["extern"])
	assert.Equal(t, []int{240, 0, 100}, st["extern_props"])

	for _, bad := range []string{"!", "!bright", "!bright x", "!color 1", "!warp 9", "!props maybe", "!disable 7 on", "!seq start"} {
		assert.Error(t, r.Handle(bad), bad)
	}
}

func TestRunnerSequence(t *testing.T) {
	r, sim, clock := newRunner(t, func(c *config.Config) {
		c.Pattern = ""
		c.Sequence = &sequence.Program{
			Version: "seq.v1",
			Clips: []sequence.Clip{
				{Name: "green", Pattern: "E0 H120 T G", DurationS: 1},
				{Name: "blue", Pattern: "E0 H240 T G", DurationS: 1},
			},
		}
	})

	require.NoError(t, r.Handle("!seq start"))
	require.True(t, r.Tick(0))
	assert.Equal(t, solid(10, 0, 255, 0), sim.Last())

	clock.Advance(1000)
	require.True(t, r.Tick(time.Second))
	assert.Equal(t, solid(10, 0, 0, 255), sim.Last())

	seq := r.Stats()["sequence"].(map[string]any)
	assert.Equal(t, 1, seq["clip"])

	require.NoError(t, r.Sequence("pause"))
	require.NoError(t, r.Sequence("resume"))
	require.NoError(t, r.Sequence("stop"))
	assert.Error(t, r.Sequence("rewind"))

	assert.Error(t, r.SetSequence(sequence.Program{}))
	require.NoError(t, r.SetSequence(sequence.Program{Clips: []sequence.Clip{{Pattern: "E1 T G", DurationS: 1}}}))
}

func TestRunnerDriverErrorsDoNotStopLoop(t *testing.T) {
	cfg := config.Default()
	cfg.Pixels = 4
	d := &failDriver{}
	r, err := New(Options{Config: cfg, Driver: d, Clock: &support.StepClock{Now: 1}, Log: zerolog.Nop()})
	require.NoError(t, err)

	assert.True(t, r.Tick(0))
	assert.Equal(t, 1, d.n)
}

func TestRunnerRunBlanksOnExit(t *testing.T) {
	r, sim, _ := newRunner(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return sim.Frames() > 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}
	assert.Equal(t, make([]byte, 30), sim.Last())
}
