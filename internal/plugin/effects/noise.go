package effects

import (
	"github.com/coreman2200/funtimes-pixelnut/internal/plugin"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
)

// Noise redraws the segment every step, lighting a random half of the
// pixels in the track color at random brightness.
type Noise struct{}

func (*Noise) Traits() plugin.Traits { return plugin.Redraw }

func (*Noise) Begin(int, int) {}

func (*Noise) Trigger(*plugin.Context, *plugin.DrawProps, int) {}

func (*Noise) Step(ctx *plugin.Context, p *plugin.DrawProps) {
	buf := ctx.Pixels
	for i := 0; i*3+2 < len(buf); i++ {
		if ctx.Host.Random(0, 2) == 0 {
			setPixel(buf, i, 0, 0, 0)
			continue
		}
		pct := ctx.Host.Random(1, support.MaxPercent+1)
		setPixel(buf, i, scale(p.R, pct), scale(p.G, pct), scale(p.B, pct))
	}
}

func scale(c uint8, pct int) uint8 {
	return uint8(int(c) * pct / support.MaxPercent)
}
