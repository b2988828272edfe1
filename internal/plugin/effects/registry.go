// Package effects holds the built-in plugins. Ids below 100 draw into a
// track buffer; ids from 100 up are predraw effects that only modify the
// drawing properties of the track they sit on.
package effects

import "github.com/coreman2200/funtimes-pixelnut/internal/plugin"

const (
	IDDrawAll       = 0
	IDDrawPush      = 1
	IDDrawStep      = 2
	IDCometHeads    = 20
	IDNoise         = 52
	IDHueSet        = 100
	IDHueRotate     = 101
	IDColorRandom   = 112
	IDCountSet      = 120
	IDFlipDirection = 160
)

var names = map[int]string{
	IDDrawAll:       "DrawAll",
	IDDrawPush:      "DrawPush",
	IDDrawStep:      "DrawStep",
	IDCometHeads:    "CometHeads",
	IDNoise:         "Noise",
	IDHueSet:        "HueSet",
	IDHueRotate:     "HueRotate",
	IDColorRandom:   "ColorRandom",
	IDCountSet:      "CountSet",
	IDFlipDirection: "FlipDirection",
}

// Name returns the display name of a built-in plugin id, or "" if unknown.
func Name(id int) string { return names[id] }

// NewRegistry returns a registry holding every built-in plugin.
func NewRegistry() *plugin.Registry {
	r := plugin.NewRegistry()
	Register(r)
	return r
}

// Register adds the built-in plugins to r.
func Register(r *plugin.Registry) {
	r.Register(IDDrawAll, func() plugin.Plugin { return &DrawAll{} })
	r.Register(IDDrawPush, func() plugin.Plugin { return &DrawPush{} })
	r.Register(IDDrawStep, func() plugin.Plugin { return &DrawStep{} })
	r.Register(IDCometHeads, func() plugin.Plugin { return &CometHeads{} })
	r.Register(IDNoise, func() plugin.Plugin { return &Noise{} })
	r.Register(IDHueSet, func() plugin.Plugin { return &HueSet{} })
	r.Register(IDHueRotate, func() plugin.Plugin { return &HueRotate{} })
	r.Register(IDColorRandom, func() plugin.Plugin { return &ColorRandom{} })
	r.Register(IDCountSet, func() plugin.Plugin { return &CountSet{} })
	r.Register(IDFlipDirection, func() plugin.Plugin { return &FlipDirection{} })
}

// fill sets every pixel of buf to r, g, b.
func fill(buf []byte, r, g, b uint8) {
	for i := 0; i+2 < len(buf); i += 3 {
		buf[i], buf[i+1], buf[i+2] = r, g, b
	}
}

func setPixel(buf []byte, i int, r, g, b uint8) {
	x := i * 3
	if i < 0 || x+2 >= len(buf) {
		return
	}
	buf[x], buf[x+1], buf[x+2] = r, g, b
}
