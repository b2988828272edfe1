// Package app wires the pattern engine to its output driver, the preview
// hub and the sequence player, and runs the frame loop.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-pixelnut/internal/config"
	diag "github.com/coreman2200/funtimes-pixelnut/internal/diagnostics"
	"github.com/coreman2200/funtimes-pixelnut/internal/engine"
	"github.com/coreman2200/funtimes-pixelnut/internal/led"
	"github.com/coreman2200/funtimes-pixelnut/internal/plugin/effects"
	"github.com/coreman2200/funtimes-pixelnut/internal/power"
	"github.com/coreman2200/funtimes-pixelnut/internal/sequence"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
	"github.com/coreman2200/funtimes-pixelnut/internal/ws"
)

type Options struct {
	Config *config.Config
	Driver led.Driver
	Hub    *ws.Hub // optional
	Clock  support.Clock
	Log    zerolog.Logger
}

// Runner owns the engine and serializes every call into it.
type Runner struct {
	mu      sync.Mutex
	eng     *engine.Engine
	alloc   *engine.HeapAllocator
	pixels  []byte // engine output
	frame   []byte // limited copy sent out
	drv     led.Driver
	hub     *ws.Hub
	limiter power.Limiter
	player  *sequence.Player
	pattern *diag.Pattern
	fps     int
	log     zerolog.Logger

	frames  uint64
	limited uint64
	errors  uint64
}

func New(o Options) (*Runner, error) {
	cfg := o.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if o.Driver == nil {
		return nil, fmt.Errorf("no output driver")
	}

	r := &Runner{
		alloc:  &engine.HeapAllocator{Limit: cfg.BufferKB * 1024},
		pixels: make([]byte, cfg.Pixels*3),
		frame:  make([]byte, cfg.Pixels*3),
		drv:    o.Driver,
		hub:    o.Hub,
		limiter: power.Limiter{
			ChanMA:   cfg.Power.ChanMA,
			BudgetMA: cfg.Power.BudgetMA,
			Knee:     cfg.Power.Knee,
			WhiteCap: cfg.Power.WhiteCap,
		},
		fps: cfg.FPS,
		log: o.Log,
	}

	elog := o.Log.With().Str("component", "engine").Logger()
	eng, err := engine.New(engine.Config{
		Pixels:    r.pixels,
		NumPixels: cfg.Pixels,
		Reverse:   cfg.Reverse,
		MaxLayers: cfg.Layers,
		MaxTracks: cfg.Tracks,
		Plugins:   effects.NewRegistry(),
		Clock:     o.Clock,
		Alloc:     r.alloc,
		Log:       &elog,
	})
	if err != nil {
		return nil, err
	}
	eng.SetMaxBrightness(cfg.Brightness)
	eng.SetDelayOffset(cfg.DelayMs)
	r.eng = eng

	if cfg.Sequence != nil {
		r.player = sequence.NewPlayer(r.hooks())
		if err := r.player.Load(*cfg.Sequence); err != nil {
			return nil, fmt.Errorf("sequence: %w", err)
		}
	}
	if r.hub != nil {
		r.hub.Stats = r.Stats
	}

	if cfg.Pattern != "" {
		if err := r.Exec(cfg.Pattern); err != nil {
			return nil, fmt.Errorf("startup pattern: %w", err)
		}
	}
	return r, nil
}

// hooks connect the player to the engine; they run with r.mu held.
func (r *Runner) hooks() sequence.Hooks {
	return sequence.Hooks{
		Exec: func(line string) {
			if err := r.eng.Exec(line); err != nil {
				r.reportCmd(line, err)
			}
		},
		SetPropertyMode: r.eng.SetPropertyMode,
		SetColor:        r.eng.SetColorProperty,
		SetCount:        r.eng.SetCountProperty,
		TriggerForce:    r.eng.TriggerForce,
		ClipStarted: func(i int, c sequence.Clip) {
			r.log.Info().Int("clip", i).Str("name", c.Name).Str("pattern", c.Pattern).Msg("clip started")
			r.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: diag.CodeSeqClip, Summary: "Clip started", Detail: c.Name})
		},
	}
}

// Exec runs one command line against the engine.
func (r *Runner) Exec(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.eng.Exec(line)
	if err != nil {
		r.reportCmd(line, err)
	}
	return err
}

func (r *Runner) reportCmd(line string, err error) {
	r.errors++
	st := engine.StatusOf(err)
	r.log.Warn().Err(err).Str("line", line).Str("status", st.String()).Msg("command failed")

	d := diag.Diagnostic{
		Severity: diag.Warn,
		Summary:  "Command failed",
		Detail:   err.Error(),
		Evidence: map[string]any{"line": line, "status": st.String()},
	}
	switch st {
	case engine.InvalidValue:
		d.Code = diag.CodeCmdInvalidValue
		d.SuggestedFixes = []string{"check the plugin id and argument ranges"}
	case engine.OutOfMemory:
		d.Code = diag.CodeCmdOutOfMemory
		d.Severity = diag.Err
		d.LikelyCauses = []string{"layer or track stack full", "pixel buffer budget exhausted"}
		d.SuggestedFixes = []string{"send P to clear the stack", "raise layers, tracks or buffer_kb"}
	default:
		d.Code = diag.CodeCmdInvalidCommand
		d.LikelyCauses = []string{"unknown opcode", "drawing command before any E"}
	}
	r.pushDiag(d)
}

func (r *Runner) pushDiag(d diag.Diagnostic) {
	if r.hub != nil {
		r.hub.PushDiag(d)
	}
}

// Tick advances the player by dt and renders one frame. It returns true
// when a frame was sent to the driver.
func (r *Runner) Tick(dt time.Duration) bool {
	r.mu.Lock()
	if r.player != nil {
		r.player.Tick(dt.Seconds())
	}

	show := false
	if r.pattern != nil {
		if r.pattern.Step(r.frame) {
			show = true
		} else {
			r.log.Info().Str("test", string(r.pattern.Kind())).Msg("test pattern complete")
			r.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: diag.CodeTestDone, Summary: "Test complete"})
			r.pattern = nil
			r.eng.Update()
			copy(r.frame, r.pixels)
			show = true
		}
	} else if r.eng.Update() {
		copy(r.frame, r.pixels)
		show = true
	}

	if show {
		r.frames++
		if s := r.limiter.Apply(r.frame); s < 1 {
			r.limited++
			r.log.Debug().Float64("scale", s).Msg("frame limited")
		}
	}
	r.mu.Unlock()

	if !show {
		return false
	}
	if err := r.drv.Write(r.frame); err != nil {
		r.log.Error().Err(err).Msg("driver write")
		r.pushDiag(diag.Diagnostic{Severity: diag.Err, Code: diag.CodeDriverWrite, Summary: "Driver write failed", Detail: err.Error()})
	}
	if r.hub != nil {
		r.hub.BroadcastFrame(r.frame)
	}
	return true
}

// Run ticks at the configured rate until ctx is done, then blanks the strip.
func (r *Runner) Run(ctx context.Context) error {
	delta := time.Second / time.Duration(max(1, r.fps))
	ticker := time.NewTicker(delta)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			r.Tick(now.Sub(last))
			last = now
		case <-ctx.Done():
			r.mu.Lock()
			clear(r.frame)
			r.mu.Unlock()
			if err := r.drv.Write(r.frame); err != nil {
				r.log.Warn().Err(err).Msg("blank on exit")
			}
			return nil
		}
	}
}

// RunTest shows a wiring test pattern in place of the engine until it
// completes.
func (r *Runner) RunTest(kind diag.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pattern = diag.NewPattern(kind)
	r.log.Info().Str("test", string(kind)).Msg("test pattern")
	r.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: diag.CodeTestRunning, Summary: "Running test", Detail: string(kind)})
}

// Stats is a snapshot of the engine and loop counters.
func (r *Runner) Stats() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	hue, white, count := r.eng.ExternProperties()
	st := map[string]any{
		"layers":         r.eng.LayerCount(),
		"tracks":         r.eng.TrackCount(),
		"enabled":        r.eng.EnabledTracks(),
		"brightness":     r.eng.MaxBrightness(),
		"delay_offset":   r.eng.DelayOffset(),
		"extern":         r.eng.PropertyMode(),
		"extern_props":   []int{hue, white, count},
		"buffer_bytes":   r.alloc.InUse(),
		"frames":         r.frames,
		"limited_frames": r.limited,
		"cmd_errors":     r.errors,
	}
	if r.player != nil {
		idx, at := r.player.Clip()
		st["sequence"] = map[string]any{"state": r.player.State, "clip": idx, "at_s": at}
	}
	return st
}
