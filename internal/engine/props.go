package engine

import "github.com/coreman2200/funtimes-pixelnut/internal/support"

// Q command bits: which drawing properties of a track follow the external
// values. While the external mode is on, predraw effects cannot change a
// property whose bit is set.
const (
	CtrlHue   uint8 = 1
	CtrlWhite uint8 = 2
	CtrlCount uint8 = 4
	CtrlAll         = CtrlHue | CtrlWhite | CtrlCount
)

func (e *Engine) SetPropertyMode(enable bool) {
	e.log.Debug().Bool("enable", enable).Msg("external property mode")
	e.externMode = enable
}

func (e *Engine) PropertyMode() bool { return e.externMode }

// ExternProperties returns the externally held hue, whiteness and count
// percent.
func (e *Engine) ExternProperties() (hue, white, count int) {
	return e.externHue, e.externWhite, e.externCount
}

// SetColorProperty sets the external hue and whiteness, applied to tracks
// with the matching Q bits while the external mode is on.
func (e *Engine) SetColorProperty(hue, white int) {
	e.externHue = support.ClipValue(hue, 0, support.MaxDegreesHue)
	e.externWhite = support.ClipValue(white, 0, support.MaxPercent)
	if e.externMode {
		for i := range e.tracks {
			if !e.tracks[i].disabled {
				e.applyExtern(&e.tracks[i], e.tracks[i].ctrlBits&(CtrlHue|CtrlWhite))
			}
		}
	}
}

// SetCountProperty sets the external pixel count as a percent of each
// track's segment.
func (e *Engine) SetCountProperty(pct int) {
	e.externCount = support.ClipValue(pct, 0, support.MaxPercent)
	if e.externMode {
		for i := range e.tracks {
			if !e.tracks[i].disabled {
				e.applyExtern(&e.tracks[i], e.tracks[i].ctrlBits&CtrlCount)
			}
		}
	}
}

func (e *Engine) applyExtern(t *track, bits uint8) {
	if bits&CtrlHue != 0 {
		t.props.DegreeHue = e.externHue
	}
	if bits&CtrlWhite != 0 {
		t.props.PcentWhite = e.externWhite
	}
	if bits&CtrlCount != 0 {
		t.props.PixCount = support.CountFromPercent(e.externCount, t.segCount)
	}
	if bits&(CtrlHue|CtrlWhite) != 0 {
		e.MakeColorVals(&t.props)
	}
}

type propSnapshot struct {
	valid bool
	count int
	hue   int
	white int
}

func (e *Engine) snapshot(t *track) propSnapshot {
	if !e.externMode {
		return propSnapshot{}
	}
	return propSnapshot{
		valid: true,
		count: t.props.PixCount,
		hue:   t.props.DegreeHue,
		white: t.props.PcentWhite,
	}
}

// restore undoes changes a plugin made to externally controlled properties.
func (e *Engine) restore(t *track, s propSnapshot) {
	if !s.valid || t.disabled {
		return
	}
	if t.ctrlBits&CtrlCount != 0 {
		t.props.PixCount = s.count
	}
	recolor := false
	if t.ctrlBits&CtrlHue != 0 && t.props.DegreeHue != s.hue {
		t.props.DegreeHue = s.hue
		recolor = true
	}
	if t.ctrlBits&CtrlWhite != 0 && t.props.PcentWhite != s.white {
		t.props.PcentWhite = s.white
		recolor = true
	}
	if recolor {
		e.MakeColorVals(&t.props)
	}
}
