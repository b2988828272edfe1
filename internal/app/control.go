package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	diag "github.com/coreman2200/funtimes-pixelnut/internal/diagnostics"
	"github.com/coreman2200/funtimes-pixelnut/internal/sequence"
)

// ControlPrefix marks an input line as a runner control instead of an
// engine command line.
const ControlPrefix = "!"

var errNoSequence = errors.New("no sequence loaded")

// Handle routes one input line: control lines to Control, anything else to
// Exec.
func (r *Runner) Handle(line string) error {
	line = strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(line, ControlPrefix); ok {
		return r.Control(rest)
	}
	return r.Exec(line)
}

// Control applies a runner setting:
//
//	force N          fire external trigger layers
//	bright PCT       global brightness
//	delay MS         global delay offset
//	props on|off     external property mode
//	color HUE WHITE  external color
//	count PCT        external pixel count
//	disable TRACK on|off
//	test KIND        wiring test pattern
//	seq start|stop|pause|resume
func (r *Runner) Control(line string) error {
	f := strings.Fields(line)
	if len(f) == 0 {
		return errors.New("empty control")
	}
	args, err := ints(f[1:])

	switch f[0] {
	case "test":
		if len(f) != 2 {
			return errors.New("usage: test KIND")
		}
		kind, err := diag.ParseKind(f[1])
		if err != nil {
			return err
		}
		r.RunTest(kind)
		return nil
	case "seq":
		if len(f) != 2 {
			return errors.New("usage: seq start|stop|pause|resume")
		}
		return r.Sequence(f[1])
	case "props":
		if len(f) != 2 || (f[1] != "on" && f[1] != "off") {
			return errors.New("usage: props on|off")
		}
		r.mu.Lock()
		r.eng.SetPropertyMode(f[1] == "on")
		r.mu.Unlock()
		return nil
	case "disable":
		if len(f) != 3 || (f[2] != "on" && f[2] != "off") {
			return errors.New("usage: disable TRACK on|off")
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			return err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.eng.SetTrackDisabled(n, f[2] == "on")
	}

	if err != nil {
		return err
	}
	want := map[string]int{"force": 1, "bright": 1, "delay": 1, "color": 2, "count": 1}
	n, ok := want[f[0]]
	if !ok {
		return fmt.Errorf("unknown control %q", f[0])
	}
	if len(args) != n {
		return fmt.Errorf("%s takes %d argument(s)", f[0], n)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	switch f[0] {
	case "force":
		r.eng.TriggerForce(args[0])
	case "bright":
		r.eng.SetMaxBrightness(args[0])
	case "delay":
		r.eng.SetDelayOffset(args[0])
	case "color":
		r.eng.SetColorProperty(args[0], args[1])
	case "count":
		r.eng.SetCountProperty(args[0])
	}
	return nil
}

// Sequence drives the loaded sequence player.
func (r *Runner) Sequence(action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.player == nil {
		return errNoSequence
	}
	switch action {
	case "start":
		r.player.Start()
	case "stop":
		r.player.Stop()
	case "pause":
		r.player.Pause()
	case "resume":
		r.player.Resume()
	default:
		return fmt.Errorf("unknown sequence action %q", action)
	}
	r.log.Info().Str("action", action).Str("state", string(r.player.State)).Msg("sequence")
	return nil
}

// SetSequence replaces the loaded program; the player starts idle.
func (r *Runner) SetSequence(prog sequence.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := sequence.NewPlayer(r.hooks())
	if err := p.Load(prog); err != nil {
		return err
	}
	r.player = p
	return nil
}

func ints(s []string) ([]int, error) {
	out := make([]int, len(s))
	for i, v := range s {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", v, err)
		}
		out[i] = n
	}
	return out, nil
}
