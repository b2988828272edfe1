// Package engine composes independently timed plugin effects into a single
// RGB pixel buffer. Effect layers and their drawing tracks live on two
// coupled fixed-capacity stacks, mutated by a line-oriented command language
// and advanced by a periodic Update call.
//
// The engine is single-threaded: Exec, Update and the property setters must
// be called from one goroutine or serialized by the caller.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-pixelnut/internal/plugin"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
)

const (
	MaxPluginID = support.MaxByte
	// NoSource disables cross-layer triggering for a layer.
	NoSource = support.MaxByte
	// MaxStack bounds either stack's capacity.
	MaxStack = 255

	DefaultLayers = 4
	DefaultTracks = 3

	maxDelayOffset = support.MaxDelay
	maxForceDepth  = 8
)

// Config holds the construction parameters; all are fixed for the engine's
// lifetime.
type Config struct {
	// Pixels is the output buffer, 3 bytes per pixel. It is borrowed.
	Pixels    []byte
	NumPixels int
	// Reverse makes new tracks draw from the end of their window.
	Reverse bool

	MaxLayers int
	MaxTracks int

	Plugins plugin.Maker

	Clock support.Clock
	Rand  support.Random
	Alloc Allocator
	Log   *zerolog.Logger
}

type Engine struct {
	display   []byte
	numPixels int
	upwards   bool

	layers  []layer
	tracks  []track
	enabled int // highest active track, -1 for none

	// scratch segment used by the next push
	segOffset int
	segCount  int

	pcentBright int
	delayOffset int

	externMode  bool
	externHue   int
	externWhite int
	externCount int

	curForce   int
	timePrev   uint32
	refresh    bool
	forceDepth int

	plugins plugin.Maker
	clock   support.Clock
	rand    support.Random
	alloc   Allocator
	log     zerolog.Logger
}

func New(cfg Config) (*Engine, error) {
	if cfg.Pixels == nil {
		return nil, errors.New("engine: no pixel buffer")
	}
	if cfg.NumPixels <= 0 {
		return nil, errors.New("engine: pixel count must be positive")
	}
	if len(cfg.Pixels) < cfg.NumPixels*3 {
		return nil, fmt.Errorf("engine: pixel buffer holds %d bytes, need %d", len(cfg.Pixels), cfg.NumPixels*3)
	}
	if cfg.MaxLayers <= 0 || cfg.MaxLayers > MaxStack || cfg.MaxTracks <= 0 || cfg.MaxTracks > MaxStack {
		return nil, fmt.Errorf("engine: stack sizes %d/%d outside 1..%d", cfg.MaxLayers, cfg.MaxTracks, MaxStack)
	}
	if cfg.Plugins == nil {
		return nil, errors.New("engine: no plugin registry")
	}

	e := &Engine{
		display:     cfg.Pixels[:cfg.NumPixels*3],
		numPixels:   cfg.NumPixels,
		upwards:     !cfg.Reverse,
		layers:      make([]layer, 0, cfg.MaxLayers),
		tracks:      make([]track, 0, cfg.MaxTracks),
		enabled:     -1,
		segCount:    cfg.NumPixels,
		pcentBright: support.MaxPercent,
		curForce:    support.MaxForce / 2,
		refresh:     true,
		plugins:     cfg.Plugins,
		clock:       cfg.Clock,
		rand:        cfg.Rand,
		alloc:       cfg.Alloc,
		log:         zerolog.Nop(),
	}
	if e.clock == nil {
		e.clock = support.NewSystemClock()
	}
	if e.rand == nil {
		e.rand = support.NewRand(time.Now().UnixNano())
	}
	if e.alloc == nil {
		e.alloc = &HeapAllocator{}
	}
	if cfg.Log != nil {
		e.log = *cfg.Log
	}
	return e, nil
}

func (e *Engine) NumPixels() int { return e.numPixels }

func (e *Engine) SetMaxBrightness(pct int) {
	e.pcentBright = support.ClipValue(pct, 0, support.MaxPercent)
	for i := range e.tracks {
		e.MakeColorVals(&e.tracks[i].props)
	}
}

func (e *Engine) MaxBrightness() int { return e.pcentBright }

// SetDelayOffset adds ms to every track's step delay.
func (e *Engine) SetDelayOffset(ms int) {
	e.delayOffset = support.ClipValue(ms, -maxDelayOffset, maxDelayOffset)
}

func (e *Engine) DelayOffset() int { return e.delayOffset }

// Host surface handed to plugins.

func (e *Engine) MakeColorVals(p *plugin.DrawProps) {
	bright := p.PcentBright * e.pcentBright / support.MaxPercent
	p.R, p.G, p.B = support.ColorVals(p.DegreeHue, p.PcentWhite, bright)
}

func (e *Engine) Msecs() uint32 { return e.clock.Msecs() }

func (e *Engine) Random(min, max int) int { return e.rand.Random(min, max) }

// Introspection.

// TrackInfo is a copy of one track's state.
type TrackInfo struct {
	Layer     int
	SegIndex  int
	SegOffset int
	SegCount  int
	CtrlBits  uint8
	Disabled  bool
	Props     plugin.DrawProps
}

// LayerInfo is a copy of one layer's trigger state.
type LayerInfo struct {
	Track      int
	Traits     plugin.Traits
	Active     bool
	Extern     bool
	Source     int
	Force      int // -1: random
	Count      int // -1: forever
	TrigTime   uint32
	DelayMin   int
	DelayRange int
}

func (e *Engine) LayerCount() int { return len(e.layers) }

func (e *Engine) TrackCount() int { return len(e.tracks) }

// EnabledTracks is the number of tracks activated with G.
func (e *Engine) EnabledTracks() int { return e.enabled + 1 }

func (e *Engine) Track(i int) (TrackInfo, bool) {
	if i < 0 || i >= len(e.tracks) {
		return TrackInfo{}, false
	}
	t := &e.tracks[i]
	return TrackInfo{
		Layer:     t.layer,
		SegIndex:  t.segIndex,
		SegOffset: t.segOffset,
		SegCount:  t.segCount,
		CtrlBits:  t.ctrlBits,
		Disabled:  t.disabled,
		Props:     t.props,
	}, true
}

func (e *Engine) Layer(i int) (LayerInfo, bool) {
	if i < 0 || i >= len(e.layers) {
		return LayerInfo{}, false
	}
	l := &e.layers[i]
	return LayerInfo{
		Track:      l.track,
		Traits:     l.traits,
		Active:     l.trigActive,
		Extern:     l.trigExtern,
		Source:     l.trigSource,
		Force:      l.trigForce,
		Count:      l.trigCount,
		TrigTime:   l.trigTime,
		DelayMin:   l.delayMin,
		DelayRange: l.delayRange,
	}, true
}

// SetTrackDisabled excludes a track from external property control.
func (e *Engine) SetTrackDisabled(i int, disabled bool) error {
	if i < 0 || i >= len(e.tracks) {
		return fmt.Errorf("track %d: %w", i, InvalidValue)
	}
	e.tracks[i].disabled = disabled
	return nil
}
