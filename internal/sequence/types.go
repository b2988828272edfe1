package sequence

// Keyframe represents a value at time T (seconds) with an easing function
// that applies to the segment starting at this keyframe.
type Keyframe struct {
	T    float64 `yaml:"t" json:"t"`
	V    float64 `yaml:"v" json:"v"`
	Ease string  `yaml:"ease,omitempty" json:"ease,omitempty"` // "linear","smooth","cubic"
}

// Envelope is a sorted list of keyframes; Eval(t) interpolates a value.
type Envelope struct {
	Keys []Keyframe `yaml:"keys" json:"keys"`
}

// Envelope names a clip may automate.
const (
	ParamHue   = "hue"   // degrees
	ParamWhite = "white" // percent
	ParamCount = "count" // percent of each segment
	ParamForce = "force" // trigger force, fired on every change
)

// Clip is one segment of a show: a pattern command line run from a cleared
// stack, its duration, and the property automation while it plays.
type Clip struct {
	Name      string              `yaml:"name" json:"name"`
	Pattern   string              `yaml:"pattern" json:"pattern"`
	DurationS float64             `yaml:"duration_s" json:"durationS"`
	Params    map[string]Envelope `yaml:"params,omitempty" json:"params,omitempty"`
}

// external reports whether the clip drives any external property.
func (c Clip) external() bool {
	for _, k := range []string{ParamHue, ParamWhite, ParamCount} {
		if _, ok := c.Params[k]; ok {
			return true
		}
	}
	return false
}

// Program is a full sequence of clips.
type Program struct {
	Version string `yaml:"version" json:"version"` // e.g., "seq.v1"
	Loop    bool   `yaml:"loop,omitempty" json:"loop,omitempty"`
	Clips   []Clip `yaml:"clips" json:"clips"`
}

// PlayerState enumerates sequencer states.
type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks are dependency-injected callbacks into the pattern engine.
type Hooks struct {
	// Exec runs a command line.
	Exec func(line string)
	// External property control.
	SetPropertyMode func(enable bool)
	SetColor        func(hue, white int)
	SetCount        func(pct int)
	TriggerForce    func(force int)
	// ClipStarted is called after a clip's pattern has been run.
	ClipStarted func(index int, c Clip)
}

// Player owns the current Program timeline and uses Hooks to drive the engine.
type Player struct {
	State PlayerState

	prog Program
	nowS float64 // position within program
	idx  int     // current clip index

	// last values sent, to skip repeats
	hue, white, count int
	lastForce         int
	sent              bool

	hooks Hooks
}
