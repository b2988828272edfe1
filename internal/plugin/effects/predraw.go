package effects

import (
	"github.com/coreman2200/funtimes-pixelnut/internal/plugin"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
)

// HueSet maps the trigger force onto the track hue.
type HueSet struct{}

func (*HueSet) Traits() plugin.Traits { return plugin.Trigger }

func (*HueSet) Begin(int, int) {}

func (*HueSet) Trigger(ctx *plugin.Context, p *plugin.DrawProps, force int) {
	p.DegreeHue = support.MapValue(support.ClipValue(force, 0, support.MaxForce), 0, support.MaxForce, 0, support.MaxDegreesHue)
	ctx.Host.MakeColorVals(p)
}

func (*HueSet) Step(*plugin.Context, *plugin.DrawProps) {}

const maxHueStep = 30

// HueRotate advances the hue every step. The trigger force sets the step
// size, up to 30 degrees; untriggered it moves one degree.
type HueRotate struct {
	step int
}

func (*HueRotate) Traits() plugin.Traits { return plugin.Trigger }

func (h *HueRotate) Begin(int, int) { h.step = 1 }

func (h *HueRotate) Trigger(_ *plugin.Context, _ *plugin.DrawProps, force int) {
	h.step = max(support.MapValue(support.ClipValue(force, 0, support.MaxForce), 0, support.MaxForce, 0, maxHueStep), 1)
}

func (h *HueRotate) Step(ctx *plugin.Context, p *plugin.DrawProps) {
	p.DegreeHue = (p.DegreeHue + h.step) % (support.MaxDegreesHue + 1)
	ctx.Host.MakeColorVals(p)
}

// ColorRandom picks a new random hue and whiteness every step.
type ColorRandom struct{}

func (*ColorRandom) Traits() plugin.Traits { return 0 }

func (*ColorRandom) Begin(int, int) {}

func (*ColorRandom) Trigger(*plugin.Context, *plugin.DrawProps, int) {}

func (*ColorRandom) Step(ctx *plugin.Context, p *plugin.DrawProps) {
	p.DegreeHue = ctx.Host.Random(0, support.MaxDegreesHue+1)
	p.PcentWhite = ctx.Host.Random(0, support.MaxPercent/2+1)
	ctx.Host.MakeColorVals(p)
}

// CountSet maps the trigger force onto the pixel count of the segment.
type CountSet struct {
	pixels int
}

func (*CountSet) Traits() plugin.Traits { return plugin.Trigger }

func (c *CountSet) Begin(_, pixels int) { c.pixels = pixels }

func (c *CountSet) Trigger(_ *plugin.Context, p *plugin.DrawProps, force int) {
	pct := support.MapValue(support.ClipValue(force, 0, support.MaxForce), 0, support.MaxForce, 0, support.MaxPercent)
	p.PixCount = support.CountFromPercent(pct, c.pixels)
}

func (*CountSet) Step(*plugin.Context, *plugin.DrawProps) {}

// FlipDirection reverses the drawing direction on every trigger.
type FlipDirection struct{}

func (*FlipDirection) Traits() plugin.Traits { return plugin.Trigger | plugin.Direction }

func (*FlipDirection) Begin(int, int) {}

func (*FlipDirection) Trigger(_ *plugin.Context, p *plugin.DrawProps, _ int) {
	p.GoUpwards = !p.GoUpwards
}

func (*FlipDirection) Step(*plugin.Context, *plugin.DrawProps) {}
