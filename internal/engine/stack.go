package engine

import (
	"fmt"

	"github.com/coreman2200/funtimes-pixelnut/internal/plugin"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
)

type layer struct {
	track  int
	plugin plugin.Plugin
	traits plugin.Traits

	trigActive bool // triggered at least once
	trigExtern bool
	trigSource int
	trigForce  int    // -1: random each time
	trigCount  int    // -1: forever
	trigTime   uint32 // next auto trigger, 0 if not scheduled
	delayMin   int    // seconds
	delayRange int    // seconds
}

func (l *layer) redraw() bool { return l.traits.Has(plugin.Redraw) }

type track struct {
	layer      int // the drawing layer
	buf        []byte
	props      plugin.DrawProps
	nextRedraw uint32
	ctrlBits   uint8
	disabled   bool

	segIndex  int
	segOffset int
	segCount  int
}

func release(p plugin.Plugin) {
	if r, ok := p.(plugin.Releaser); ok {
		r.Release()
	}
}

// Push creates plugin id as a new layer on the segment selected by the
// scratch offset and length. A drawing plugin also opens a new track with
// its own pixel buffer. It returns the new layer index.
func (e *Engine) Push(id, segIndex int) (int, error) {
	if len(e.layers) == cap(e.layers) {
		return -1, fmt.Errorf("layer %d: %w", len(e.layers), ErrOutOfCapacity)
	}
	p, ok := e.plugins.Make(id)
	if !ok {
		return -1, fmt.Errorf("plugin %d: %w", id, InvalidValue)
	}
	traits := p.Traits()
	redraw := traits.Has(plugin.Redraw)

	if !redraw && len(e.tracks) == 0 {
		release(p)
		return -1, fmt.Errorf("plugin %d: first layer must be a drawing effect: %w", id, InvalidCommand)
	}
	if redraw && len(e.tracks) == cap(e.tracks) {
		release(p)
		return -1, fmt.Errorf("track %d: %w", len(e.tracks), ErrOutOfCapacity)
	}

	li := len(e.layers)
	if redraw {
		t := track{
			layer:     li,
			segIndex:  segIndex,
			segOffset: e.segOffset,
			segCount:  e.segCount,
			props: plugin.DrawProps{
				PixLen:        e.segCount,
				PixCount:      1,
				PcentBright:   support.MaxPercent,
				GoUpwards:     e.upwards,
				OrPixelValues: true,
			},
		}
		e.MakeColorVals(&t.props)
		e.tracks = append(e.tracks, t)
	}
	e.layers = append(e.layers, layer{
		track:      len(e.tracks) - 1,
		plugin:     p,
		traits:     traits,
		trigSource: NoSource,
		trigForce:  e.curForce,
		trigCount:  -1,
		delayMin:   1,
	})

	// not drawn until triggered
	p.Begin(li, e.segCount)

	if redraw {
		n := e.segCount * 3
		buf, err := e.alloc.Alloc(n)
		if err != nil {
			e.tracks[len(e.tracks)-1] = track{}
			e.tracks = e.tracks[:len(e.tracks)-1]
			e.layers[li] = layer{}
			e.layers = e.layers[:li]
			release(p)
			e.log.Warn().Err(err).Int("plugin", id).Int("bytes", n).Msg("pixel buffer refused, push rolled back")
			return -1, fmt.Errorf("plugin %d: %w (%v)", id, ErrOutOfMemory, err)
		}
		clear(buf)
		e.tracks[len(e.tracks)-1].buf = buf
	}

	e.log.Debug().
		Int("plugin", id).
		Uint8("traits", uint8(traits)).
		Int("layer", li).
		Int("track", len(e.tracks)-1).
		Msg("layer pushed")
	return li, nil
}

// PopAll tears down every layer and track, innermost layers of the topmost
// track first, and clears the output buffer. The next Update redraws.
func (e *Engine) PopAll() {
	e.log.Debug().Int("layers", len(e.layers)).Int("tracks", len(e.tracks)).Msg("clearing stack")

	for i := len(e.tracks) - 1; i >= 0; i-- {
		first := e.tracks[i].layer
		for j := len(e.layers) - 1; j >= first; j-- {
			release(e.layers[j].plugin)
			e.layers[j] = layer{}
		}
		e.layers = e.layers[:first]

		if e.tracks[i].buf != nil {
			e.alloc.Free(e.tracks[i].buf)
		}
		e.tracks[i] = track{}
	}
	e.layers = e.layers[:0]
	e.tracks = e.tracks[:0]
	e.enabled = -1

	e.segOffset = 0
	e.segCount = e.numPixels

	clear(e.display)
	e.refresh = true
}
