package engine

import (
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-pixelnut/internal/support"
)

// Exec parses and runs one command line of space separated tokens, each an
// opcode letter with an optional decimal argument. Processing stops at the
// first failing token; the returned error is a *CmdError whose status is
// available through StatusOf. An empty line is a no-op.
func (e *Engine) Exec(line string) error {
	segIndex := -1
	for i, tok := range strings.Fields(strings.ToUpper(line)) {
		if err := e.execToken(tok, &segIndex); err != nil {
			return &CmdError{Token: tok, Index: i, Err: err}
		}
	}
	return nil
}

func (e *Engine) execToken(tok string, segIndex *int) error {
	op, arg := tok[0], tok[1:]

	switch op {
	case 'X': // segment offset for the next push
		if pos, ok := rangeValue(arg, e.numPixels-1); ok {
			e.segOffset = pos
		} else {
			e.segOffset = 0
		}
		return nil

	case 'Y': // segment length for the next push
		if n, ok := rangeValue(arg, e.numPixels-e.segOffset); ok && n > 0 {
			e.segCount = n
			*segIndex++
		} else {
			e.segCount = e.numPixels - e.segOffset
		}
		return nil

	case 'E':
		id, ok := rangeValue(arg, MaxPluginID)
		if !ok {
			return fmt.Errorf("plugin id %q: %w", arg, InvalidValue)
		}
		_, err := e.Push(id, max(*segIndex, 0))
		return err

	case 'P':
		e.PopAll()
		return nil
	}

	if len(e.tracks) == 0 {
		return fmt.Errorf("no track to apply %q to: %w", op, InvalidCommand)
	}
	return e.execTrackToken(op, arg)
}

// execTrackToken handles the opcodes that act on the top track and layer.
func (e *Engine) execTrackToken(op byte, arg string) error {
	ti := len(e.tracks) - 1
	t := &e.tracks[ti]
	p := &t.props
	li := len(e.layers) - 1
	l := &e.layers[li]

	switch op {
	case 'J':
		p.PixStart = clipValue(arg, 0, support.MaxPercent) * (t.segCount - 1) / support.MaxPercent
	case 'K':
		p.PixLen = clipValue(arg, 0, support.MaxPercent)*(t.segCount-1)/support.MaxPercent + 1
	case 'U':
		p.GoUpwards = boolValue(arg, p.GoUpwards)
	case 'V':
		p.OrPixelValues = !boolValue(arg, !p.OrPixelValues)
	case 'H':
		p.DegreeHue = clipValue(arg, p.DegreeHue, support.MaxDegreesHue)
		e.MakeColorVals(p)
	case 'W':
		p.PcentWhite = clipValue(arg, p.PcentWhite, support.MaxPercent)
		e.MakeColorVals(p)
	case 'B':
		p.PcentBright = clipValue(arg, p.PcentBright, support.MaxPercent)
		e.MakeColorVals(p)
	case 'C':
		if hasDigit(arg) {
			p.PixCount = support.CountFromPercent(clipValue(arg, 0, support.MaxPercent), t.segCount)
		}
	case 'D':
		p.MsecsDelay = clipValue(arg, p.MsecsDelay, support.MaxDelay)
	case 'Q':
		if bits, ok := rangeValue(arg, int(CtrlAll)); ok {
			t.ctrlBits = uint8(bits)
			if e.externMode {
				e.applyExtern(t, t.ctrlBits)
			}
		}

	case 'I':
		if hasDigit(arg) {
			l.trigExtern = boolValue(arg, false)
		} else {
			l.trigExtern = true
		}
	case 'A':
		l.trigSource = clipValue(arg, 0, support.MaxByte)
	case 'F':
		if hasDigit(arg) {
			l.trigForce = clipValue(arg, 0, support.MaxForce)
		} else {
			l.trigForce = -1
		}
	case 'N': // does not count the initial T
		l.trigCount = clipValue(arg, 0, support.MaxWord)
		if l.trigCount == 0 {
			l.trigCount = -1
		}
	case 'O':
		l.delayMin = clipValue(arg, 1, support.MaxWord)
		if l.delayMin == 0 {
			l.delayMin = 1
		}
	case 'T':
		force := e.layerForce(l)
		if hasDigit(arg) {
			l.delayRange = clipValue(arg, 0, support.MaxWord)
			l.trigTime = e.nextFire(e.clock.Msecs(), l)
			e.log.Debug().
				Int("layer", li).
				Int("delay_min", l.delayMin).
				Int("delay_range", l.delayRange).
				Int("count", l.trigCount).
				Msg("auto trigger armed")
		}
		e.TriggerLayer(li, force)
	case 'G':
		if e.enabled != ti {
			e.log.Debug().Int("from", e.enabled+1).Int("to", ti).Msg("activating tracks")
			e.enabled = ti
		}

	default:
		return fmt.Errorf("unknown opcode %q: %w", op, InvalidCommand)
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func hasDigit(s string) bool { return s != "" && isDigit(s[0]) }

// leadingNum parses the decimal digits at the start of s, ignoring anything
// after them. Large values saturate.
func leadingNum(s string) (int, bool) {
	if !hasDigit(s) {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s) && isDigit(s[i]); i++ {
		if n < 1<<24 {
			n = n*10 + int(s[i]-'0')
		}
	}
	return n, true
}

// rangeValue reports the argument only when present and within [0, max].
func rangeValue(s string, max int) (int, bool) {
	n, ok := leadingNum(s)
	if !ok || n > max {
		return 0, false
	}
	return n, true
}

// clipValue returns the argument clipped to max, or cur when absent.
func clipValue(s string, cur, max int) int {
	n, ok := leadingNum(s)
	if !ok {
		return cur
	}
	return min(n, max)
}

// boolValue reads 0 or 1, and toggles cur for anything else.
func boolValue(s string, cur bool) bool {
	if s != "" {
		switch s[0] {
		case '0':
			return false
		case '1':
			return true
		}
	}
	return !cur
}
