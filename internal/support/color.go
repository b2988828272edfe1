package support

import colorful "github.com/lucasb-eyer/go-colorful"

// ColorVals derives the RGB bytes for a hue in degrees, a whiteness percent
// and a brightness percent. Whiteness lowers saturation; brightness scales
// the value channel.
func ColorVals(hue, white, bright int) (r, g, b uint8) {
	h := float64(ClipValue(hue, 0, MaxDegreesHue))
	s := 1 - float64(ClipValue(white, 0, MaxPercent))/MaxPercent
	v := float64(ClipValue(bright, 0, MaxPercent)) / MaxPercent
	return colorful.Hsv(h, s, v).RGB255()
}
