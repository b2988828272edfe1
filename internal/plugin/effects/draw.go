package effects

import "github.com/coreman2200/funtimes-pixelnut/internal/plugin"

// DrawAll paints the whole segment in the track color.
type DrawAll struct{}

func (*DrawAll) Traits() plugin.Traits { return plugin.Redraw }

func (*DrawAll) Begin(int, int) {}

func (*DrawAll) Trigger(*plugin.Context, *plugin.DrawProps, int) {}

func (*DrawAll) Step(ctx *plugin.Context, p *plugin.DrawProps) {
	fill(ctx.Pixels, p.R, p.G, p.B)
}

// DrawPush inserts a pixel at the head each step and shifts the rest toward
// the tail. It alternates runs of PixCount colored pixels with runs of
// PixCount dark ones.
type DrawPush struct {
	run int
	on  bool
}

func (*DrawPush) Traits() plugin.Traits { return plugin.Redraw }

func (d *DrawPush) Begin(int, int) {
	d.run, d.on = 0, true
}

func (*DrawPush) Trigger(*plugin.Context, *plugin.DrawProps, int) {}

func (d *DrawPush) Step(ctx *plugin.Context, p *plugin.DrawProps) {
	buf := ctx.Pixels
	if len(buf) < 3 {
		return
	}
	copy(buf[3:], buf[:len(buf)-3])
	if d.on {
		setPixel(buf, 0, p.R, p.G, p.B)
	} else {
		setPixel(buf, 0, 0, 0, 0)
	}
	if d.run++; d.run >= max(p.PixCount, 1) {
		d.run = 0
		d.on = !d.on
	}
}

// DrawStep lights one more pixel per step, starting over from a dark
// segment once every pixel is lit.
type DrawStep struct {
	next   int
	pixels int
}

func (*DrawStep) Traits() plugin.Traits { return plugin.Redraw }

func (d *DrawStep) Begin(_, pixels int) {
	d.next, d.pixels = 0, pixels
}

// Trigger restarts the fill.
func (d *DrawStep) Trigger(ctx *plugin.Context, _ *plugin.DrawProps, _ int) {
	d.next = 0
	fill(ctx.Pixels, 0, 0, 0)
}

func (d *DrawStep) Step(ctx *plugin.Context, p *plugin.DrawProps) {
	if d.next >= d.pixels {
		d.next = 0
		fill(ctx.Pixels, 0, 0, 0)
		return
	}
	setPixel(ctx.Pixels, d.next, p.R, p.G, p.B)
	d.next++
}
