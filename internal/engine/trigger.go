package engine

import (
	"github.com/coreman2200/funtimes-pixelnut/internal/plugin"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
)

// layerForce resolves a layer's configured force, drawing a random one when
// none is set.
func (e *Engine) layerForce(l *layer) int {
	if l.trigForce >= 0 {
		return l.trigForce
	}
	return e.rand.Random(0, support.MaxForce+1)
}

// nextFire picks the next auto trigger time, between delayMin and
// delayMin+delayRange seconds from now.
func (e *Engine) nextFire(now uint32, l *layer) uint32 {
	secs := e.rand.Random(l.delayMin, l.delayMin+l.delayRange+1)
	t := now + uint32(secs)*1000
	if t == 0 {
		t = 1
	}
	return t
}

// TriggerLayer fires one layer with force. Only a track's drawing layer is
// given the track buffer; every other layer is denied output.
func (e *Engine) TriggerLayer(index, force int) {
	if index < 0 || index >= len(e.layers) {
		return
	}
	l := &e.layers[index]
	t := &e.tracks[l.track]

	snap := e.snapshot(t)
	ctx := &plugin.Context{Host: e}
	if l.redraw() {
		ctx.Pixels = t.buf
	}
	l.plugin.Trigger(ctx, &t.props, force)
	e.restore(t, snap)

	// a drawing layer redraws right away
	if l.redraw() {
		t.nextRedraw = e.clock.Msecs()
	}
	l.trigActive = true
}

// TriggerForce fires every layer with external triggering enabled and keeps
// force as the default for layers pushed later.
func (e *Engine) TriggerForce(force int) {
	e.curForce = force
	for i := range e.layers {
		if e.layers[i].trigExtern {
			e.TriggerLayer(i, force)
		}
	}
}

// SendForce fires every layer whose trigger source is layer. Plugins reach
// it through their Host.
func (e *Engine) SendForce(layer, force int) {
	if e.forceDepth >= maxForceDepth {
		e.log.Warn().Int("layer", layer).Msg("force propagation too deep, dropped")
		return
	}
	e.forceDepth++
	defer func() { e.forceDepth-- }()

	for i := range e.layers {
		if e.layers[i].trigSource == layer {
			e.TriggerLayer(i, force)
		}
	}
}

// checkAutoTrigger fires every active layer whose timer has expired.
func (e *Engine) checkAutoTrigger(now uint32, rollover bool) {
	for i := range e.layers {
		l := &e.layers[i]
		if l.track > e.enabled {
			break
		}

		// 0 means unscheduled
		if rollover && l.trigTime > 0 {
			l.trigTime = max(now, 1)
		}

		if l.trigActive && l.trigCount != 0 && l.trigTime > 0 && l.trigTime <= now {
			e.TriggerLayer(i, e.layerForce(l))
			l.trigTime = e.nextFire(now, l)
			if l.trigCount > 0 {
				l.trigCount--
			}
		}
	}
}
