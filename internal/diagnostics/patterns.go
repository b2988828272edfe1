package diagnostics

import "fmt"

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
)

// ParseKind accepts the pattern names used on the command line.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case None, IndexSweep, RGBTest:
		return k, nil
	}
	return None, fmt.Errorf("unknown test pattern %q", s)
}

// Pattern steps a wiring test over a strip, one frame per call.
type Pattern struct {
	kind Kind
	step int
}

func NewPattern(kind Kind) *Pattern { return &Pattern{kind: kind} }

func (p *Pattern) Kind() Kind { return p.kind }

// Step fills rgb with the next frame; returns false when complete.
func (p *Pattern) Step(rgb []byte) bool {
	n := len(rgb) / 3
	clear(rgb)

	switch p.kind {
	case IndexSweep:
		// one white pixel walking the strip
		if p.step >= n {
			return false
		}
		i := p.step * 3
		rgb[i], rgb[i+1], rgb[i+2] = 255, 255, 255
	case RGBTest:
		// red, green, blue, once each
		if p.step >= 3 {
			return false
		}
		for i := 0; i < n; i++ {
			rgb[i*3+p.step] = 255
		}
	default:
		return false
	}
	p.step++
	return true
}
