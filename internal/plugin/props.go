package plugin

// DrawProps are the per-track rendering parameters shared by every layer
// that feeds one track. R, G and B are derived from the hue, whiteness and
// brightness; call Host.MakeColorVals after changing any of those.
type DrawProps struct {
	PixStart int // window offset within the segment
	PixLen   int // window length
	PixCount int // pixels to light, effect specific

	DegreeHue   int
	PcentWhite  int
	PcentBright int
	MsecsDelay  int

	GoUpwards     bool
	OrPixelValues bool // false: overwrite with non-black pixels

	R, G, B uint8
}
