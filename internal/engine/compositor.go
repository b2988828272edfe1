package engine

import "github.com/coreman2200/funtimes-pixelnut/internal/plugin"

// Update runs one frame: auto triggers, then the predraw and drawing steps
// of every active track that is due, then merges the track buffers into the
// output. It returns true when the output buffer changed and should be
// shown.
func (e *Engine) Update() bool {
	show := e.refresh
	e.refresh = false

	now := e.clock.Msecs()
	rollover := now < e.timePrev
	e.timePrev = now

	e.checkAutoTrigger(now, rollover)

	for i := range e.tracks {
		if i > e.enabled {
			break
		}
		t := &e.tracks[i]
		top := &e.layers[t.layer]
		if !top.redraw() {
			continue
		}
		if rollover {
			t.nextRedraw = now
		}
		if !top.trigActive || t.nextRedraw > now {
			continue
		}

		snap := e.snapshot(t)
		pre := &plugin.Context{Host: e}
		for j := t.layer + 1; j < len(e.layers) && e.layers[j].track == i; j++ {
			if l := &e.layers[j]; l.trigActive && !l.redraw() {
				l.plugin.Step(pre, &t.props)
			}
		}
		e.restore(t, snap)

		top.plugin.Step(&plugin.Context{Pixels: t.buf, Host: e}, &t.props)

		delay := t.props.MsecsDelay + e.delayOffset
		if delay <= 0 {
			delay = 1
		}
		t.nextRedraw = now + uint32(delay)
		show = true
	}

	if show {
		e.composite()
	}
	return show
}

// composite rebuilds the output from every active track buffer.
func (e *Engine) composite() {
	clear(e.display)
	for i := range e.tracks {
		if i > e.enabled {
			break
		}
		t := &e.tracks[i]
		if !e.layers[t.layer].redraw() || t.buf == nil {
			continue
		}
		e.blit(t)
	}
}

// blit copies a track's window into the output. The window starts at
// segOffset+PixStart and wraps at the end of the strip; a reversed track
// writes it from its trailing edge back. The source index walks the track
// buffer from PixStart, wrapping at the buffer's end.
func (e *Engine) blit(t *track) {
	n := e.numPixels
	seg := len(t.buf) / 3
	if seg == 0 {
		return
	}

	w := min(max(t.props.PixLen, 1), n)
	start := mod(t.segOffset+t.props.PixStart, n)
	end := (start + w - 1) % n

	pix, step := start, 1
	if !t.props.GoUpwards {
		pix, step = end, -1
	}
	src := mod(t.props.PixStart, seg)
	out := e.display

	for k := 0; k < w; k++ {
		x, y := pix*3, src*3
		if t.props.OrPixelValues {
			out[x] |= t.buf[y]
			out[x+1] |= t.buf[y+1]
			out[x+2] |= t.buf[y+2]
		} else if t.buf[y] != 0 || t.buf[y+1] != 0 || t.buf[y+2] != 0 {
			out[x] = t.buf[y]
			out[x+1] = t.buf[y+1]
			out[x+2] = t.buf[y+2]
		}

		pix = (pix + step + n) % n
		if src++; src == seg {
			src = 0
		}
	}
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
