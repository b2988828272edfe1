package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-pixelnut/internal/plugin"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
)

const (
	idFill    = 0  // fills its buffer with the track color
	idPattern = 1  // pixel i = (i+1, 0, 0)
	idSparse  = 2  // even pixels in the track color, odd pixels black
	idRotate  = 10 // predraw: hue += 30 per step
	idSender  = 11 // predraw: sends its force on when triggered
	idHueSet  = 12 // predraw: hue = force % 360 on trigger
	idNone    = 99 // not registered
)

type trigCall struct {
	at    uint32
	force int
	drew  bool // had a draw target
}

type fake struct {
	id     int
	traits plugin.Traits
	layer  int
	pixels int

	triggers []trigCall
	steps    int
	stepDrew []bool

	h *harness
}

func (f *fake) Traits() plugin.Traits { return f.traits }

func (f *fake) Begin(layer, pixels int) {
	f.layer = layer
	f.pixels = pixels
}

func (f *fake) Trigger(ctx *plugin.Context, p *plugin.DrawProps, force int) {
	f.triggers = append(f.triggers, trigCall{at: ctx.Host.Msecs(), force: force, drew: ctx.Pixels != nil})
	switch f.id {
	case idSender:
		ctx.Host.SendForce(f.layer, force)
	case idHueSet:
		p.DegreeHue = force % 360
		ctx.Host.MakeColorVals(p)
	}
}

func (f *fake) Step(ctx *plugin.Context, p *plugin.DrawProps) {
	f.steps++
	f.stepDrew = append(f.stepDrew, ctx.Pixels != nil)
	buf := ctx.Pixels
	switch f.id {
	case idFill:
		for i := 0; i+2 < len(buf); i += 3 {
			buf[i], buf[i+1], buf[i+2] = p.R, p.G, p.B
		}
	case idPattern:
		for i := 0; i*3 < len(buf); i++ {
			buf[i*3], buf[i*3+1], buf[i*3+2] = byte(i+1), 0, 0
		}
	case idSparse:
		for i := 0; i*3 < len(buf); i++ {
			if i%2 == 0 {
				buf[i*3], buf[i*3+1], buf[i*3+2] = p.R, p.G, p.B
			} else {
				buf[i*3], buf[i*3+1], buf[i*3+2] = 0, 0, 0
			}
		}
	case idRotate:
		p.DegreeHue = (p.DegreeHue + 30) % 360
		ctx.Host.MakeColorVals(p)
	}
}

func (f *fake) Release() { f.h.released = append(f.h.released, f) }

type harness struct {
	eng   *Engine
	out   []byte
	clock *support.StepClock
	alloc *HeapAllocator

	made     []*fake
	released []*fake
}

func newHarness(t *testing.T, pixels, layers, tracks int) *harness {
	t.Helper()
	h := &harness{
		out:   make([]byte, pixels*3),
		clock: &support.StepClock{Now: 1000},
		alloc: &HeapAllocator{},
	}

	reg := plugin.NewRegistry()
	add := func(id int, traits plugin.Traits) {
		reg.Register(id, func() plugin.Plugin {
			f := &fake{id: id, traits: traits, h: h}
			h.made = append(h.made, f)
			return f
		})
	}
	add(idFill, plugin.Redraw)
	add(idPattern, plugin.Redraw)
	add(idSparse, plugin.Redraw)
	add(idRotate, 0)
	add(idSender, plugin.Trigger|plugin.SendForce)
	add(idHueSet, plugin.Trigger)

	eng, err := New(Config{
		Pixels:    h.out,
		NumPixels: pixels,
		MaxLayers: layers,
		MaxTracks: tracks,
		Plugins:   reg,
		Clock:     h.clock,
		Rand:      support.NewRand(42),
		Alloc:     h.alloc,
	})
	require.NoError(t, err)
	h.eng = eng
	return h
}

func (h *harness) exec(t *testing.T, line string) {
	t.Helper()
	require.NoError(t, h.eng.Exec(line), "exec %q", line)
}

// pixel returns the output triple at index i.
func (h *harness) pixel(i int) [3]byte {
	return [3]byte{h.out[i*3], h.out[i*3+1], h.out[i*3+2]}
}

func rgb(hue, white, bright int) [3]byte {
	r, g, b := support.ColorVals(hue, white, bright)
	return [3]byte{r, g, b}
}
