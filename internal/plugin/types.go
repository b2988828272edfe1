package plugin

import "sort"

// Traits classifies a plugin.
type Traits uint8

const (
	Redraw    Traits = 1 << iota // owns pixel output for a track
	Trigger                      // reacts to trigger force
	SendForce                    // emits force events to other layers
	Direction                    // honors the drawing direction
)

func (t Traits) Has(b Traits) bool { return t&b != 0 }

// Host is the engine surface reachable from inside a plugin call.
type Host interface {
	// SendForce fires every layer whose trigger source is layer.
	SendForce(layer, force int)
	MakeColorVals(p *DrawProps)
	Msecs() uint32
	// Random returns a value in [min, max).
	Random(min, max int) int
}

// Context carries the draw target for one plugin call. Pixels is nil when
// the plugin is not allowed to draw.
type Context struct {
	Pixels []byte
	Host   Host
}

// Plugin is one visual effect instance.
type Plugin interface {
	Traits() Traits
	// Begin is called once after creation with the owning layer index and
	// the segment length in pixels.
	Begin(layer, pixels int)
	Trigger(ctx *Context, p *DrawProps, force int)
	Step(ctx *Context, p *DrawProps)
}

// Releaser is implemented by plugins holding resources that must be
// released when their layer is torn down.
type Releaser interface {
	Release()
}

// Maker creates plugin instances by numeric id.
type Maker interface {
	Make(id int) (Plugin, bool)
}

type Factory func() Plugin

type Registry struct{ m map[int]Factory }

func NewRegistry() *Registry { return &Registry{m: map[int]Factory{}} }

func (r *Registry) Register(id int, f Factory) {
	if f == nil {
		return
	}
	r.m[id] = f
}

func (r *Registry) Make(id int) (Plugin, bool) {
	f, ok := r.m[id]
	if !ok {
		return nil, false
	}
	p := f()
	return p, p != nil
}

// IDs lists registered ids in ascending order.
func (r *Registry) IDs() []int {
	out := make([]int, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
