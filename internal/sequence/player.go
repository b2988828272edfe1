// Package sequence plays a timeline of pattern clips, automating the
// engine's external properties while each clip runs.
package sequence

import (
	"errors"
	"fmt"
	"math"
)

// NewPlayer constructs a Player with provided hooks.
func NewPlayer(h Hooks) *Player {
	return &Player{State: Idle, hooks: h}
}

// Load replaces the current program. Resets time and state to Idle.
func (p *Player) Load(prog Program) error {
	if len(prog.Clips) == 0 {
		return errors.New("program has no clips")
	}
	for i, c := range prog.Clips {
		if c.DurationS <= 0 {
			return fmt.Errorf("clip %d %q: duration must be positive", i, c.Name)
		}
		for _, env := range c.Params {
			env.Sort()
		}
	}
	p.prog = prog
	p.nowS = 0
	p.idx = 0
	p.State = Idle
	return nil
}

// Start moves to Running and starts the current clip.
func (p *Player) Start() {
	if p.State == Running || len(p.prog.Clips) == 0 {
		return
	}
	p.State = Running
	p.enterClip()
}

// Pause pauses playback.
func (p *Player) Pause() {
	if p.State == Running {
		p.State = Paused
	}
}

// Resume resumes playback.
func (p *Player) Resume() {
	if p.State == Paused {
		p.State = Running
	}
}

// Stop stops and resets to start, handing properties back to the effects.
func (p *Player) Stop() {
	p.State = Idle
	p.nowS = 0
	p.idx = 0
	if p.hooks.SetPropertyMode != nil {
		p.hooks.SetPropertyMode(false)
	}
}

// Seek jumps to absolute program time t. Clamps into [0, totalDur).
func (p *Player) Seek(t float64) {
	if len(p.prog.Clips) == 0 {
		return
	}
	if t < 0 {
		t = 0
	}
	total := p.totalDuration()
	if t >= total {
		t = math.Nextafter(total, -1)
	}
	acc := 0.0
	idx := 0
	for i, c := range p.prog.Clips {
		if t < acc+c.DurationS {
			idx = i
			break
		}
		acc += c.DurationS
	}
	changed := idx != p.idx
	p.idx = idx
	p.nowS = t
	if changed && p.State != Idle {
		p.enterClip()
	}
}

// Tick advances the sequencer by dt seconds and emits control hooks.
func (p *Player) Tick(dt float64) {
	if p.State != Running || len(p.prog.Clips) == 0 || dt <= 0 {
		return
	}
	p.nowS += dt

	clip, localT := p.currentClipAndLocalT()
	p.apply(clip, localT)

	if localT >= clip.DurationS {
		p.advanceClip()
	}
}

// Clip returns the index of the current clip and the time into it.
func (p *Player) Clip() (int, float64) {
	if len(p.prog.Clips) == 0 {
		return -1, 0
	}
	_, t := p.currentClipAndLocalT()
	return p.idx, t
}

func (p *Player) enterClip() {
	clip := p.prog.Clips[p.idx]
	p.sent = false
	if p.hooks.Exec != nil {
		p.hooks.Exec("P " + clip.Pattern)
	}
	if p.hooks.SetPropertyMode != nil {
		p.hooks.SetPropertyMode(clip.external())
	}
	if p.hooks.ClipStarted != nil {
		p.hooks.ClipStarted(p.idx, clip)
	}
	_, t := p.currentClipAndLocalT()
	p.apply(clip, t)
}

// apply evaluates the clip's envelopes at t and sends what changed.
func (p *Player) apply(clip Clip, t float64) {
	hue, white, count := p.hue, p.white, p.count
	envHue, hasHue := clip.Params[ParamHue]
	envWhite, hasWhite := clip.Params[ParamWhite]
	if hasHue {
		hue = int(math.Round(envHue.Eval(t)))
	}
	if hasWhite {
		white = int(math.Round(envWhite.Eval(t)))
	}
	if (hasHue || hasWhite) && p.hooks.SetColor != nil && (!p.sent || hue != p.hue || white != p.white) {
		p.hooks.SetColor(hue, white)
	}
	if env, ok := clip.Params[ParamCount]; ok {
		count = int(math.Round(env.Eval(t)))
		if p.hooks.SetCount != nil && (!p.sent || count != p.count) {
			p.hooks.SetCount(count)
		}
	}
	if env, ok := clip.Params[ParamForce]; ok {
		force := int(math.Round(env.Eval(t)))
		if p.hooks.TriggerForce != nil && (!p.sent || force != p.lastForce) {
			p.hooks.TriggerForce(force)
		}
		p.lastForce = force
	}
	p.hue, p.white, p.count = hue, white, count
	p.sent = true
}

func (p *Player) currentClipAndLocalT() (Clip, float64) {
	acc := 0.0
	for i := 0; i < p.idx; i++ {
		acc += p.prog.Clips[i].DurationS
	}
	return p.prog.Clips[p.idx], p.nowS - acc
}

func (p *Player) totalDuration() float64 {
	total := 0.0
	for _, c := range p.prog.Clips {
		total += c.DurationS
	}
	return total
}

func (p *Player) nextIndex() int {
	ni := p.idx + 1
	if ni >= len(p.prog.Clips) {
		if p.prog.Loop {
			return 0
		}
		return -1
	}
	return ni
}

func (p *Player) advanceClip() {
	next := p.nextIndex()
	if next == -1 {
		// end of program, the last pattern keeps running
		p.State = Idle
		return
	}
	if next == 0 {
		p.nowS -= p.totalDuration()
	}
	p.idx = next
	p.enterClip()
}
