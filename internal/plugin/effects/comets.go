package effects

import "github.com/coreman2200/funtimes-pixelnut/internal/plugin"

const (
	pixelsPerHead = 8
	maxHeads      = 12
)

type head struct {
	pos    int
	repeat bool
}

// CometHeads moves comets down the segment: a head in the track color with
// a tail of PixCount pixels fading toward the end. Repeating heads wrap
// around; the others fall off the end, and each time one does the plugin
// sends its last trigger force on to listening layers.
//
// The first trigger picks the mode. Force 0 creates no head and makes every
// later head single-shot; any other force creates a repeating head. After
// that a negative force creates a single-shot head in repeat mode and is
// ignored otherwise.
type CometHeads struct {
	layer  int
	pixels int
	heads  []head

	first   bool
	repMode bool
	force   int
}

func (*CometHeads) Traits() plugin.Traits {
	return plugin.Redraw | plugin.Trigger | plugin.SendForce | plugin.Direction
}

func (c *CometHeads) Begin(layer, pixels int) {
	c.layer, c.pixels = layer, pixels
	n := min(max(pixels/pixelsPerHead, 1), maxHeads)
	c.heads = make([]head, 0, n)
	c.first = true
}

func (c *CometHeads) Trigger(_ *plugin.Context, _ *plugin.DrawProps, force int) {
	add, repeat := true, true
	switch {
	case c.first:
		c.first = false
		c.repMode = force != 0
		if !c.repMode {
			add, repeat = false, false
		}
	case c.repMode:
		repeat = force >= 0
	case force >= 0:
		repeat = false
	default:
		add = false
	}
	c.force = force

	if add && len(c.heads) < cap(c.heads) {
		c.heads = append(c.heads, head{repeat: repeat})
	}
}

func (c *CometHeads) Step(ctx *plugin.Context, p *plugin.DrawProps) {
	fill(ctx.Pixels, 0, 0, 0)
	tail := max(p.PixCount, 1)

	// brightest last so overlapping tails keep the head visible
	shade := *p
	for k := tail - 1; k >= 0; k-- {
		shade.PcentBright = p.PcentBright * (tail - k) / tail
		ctx.Host.MakeColorVals(&shade)
		for _, h := range c.heads {
			pos := h.pos - k
			if h.repeat {
				pos = (pos%c.pixels + c.pixels) % c.pixels
			}
			if pos >= 0 && pos < c.pixels {
				setPixel(ctx.Pixels, pos, shade.R, shade.G, shade.B)
			}
		}
	}

	kept := c.heads[:0]
	for _, h := range c.heads {
		h.pos++
		if h.repeat {
			h.pos %= c.pixels
		} else if h.pos-tail >= c.pixels {
			continue
		}
		kept = append(kept, h)
	}
	dropped := len(c.heads) - len(kept)
	c.heads = kept

	if dropped > 0 {
		ctx.Host.SendForce(c.layer, c.force)
	}
}

// Heads is the number of comets in flight.
func (c *CometHeads) Heads() int { return len(c.heads) }
