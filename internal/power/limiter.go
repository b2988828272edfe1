// Package power keeps an RGB frame inside a supply budget before it is sent
// to the strip.
package power

// Limiter applies two stages to a frame of 8-bit RGB triplets:
//  1. Per-LED white cap: scales (R,G,B) so R+G+B <= WhiteCap (in full-scale
//     channel units, 3 = no cap)
//  2. Global current budget: estimates the frame current and scales every
//     pixel to stay under BudgetMA, easing in from Knee*BudgetMA
//
// A zero BudgetMA disables the second stage.
type Limiter struct {
	ChanMA   float64 // mA per channel at full scale; WS2812 is about 20
	BudgetMA float64
	Knee     float64 // fraction of budget where soft limiting begins
	WhiteCap float64
}

func Default() Limiter {
	return Limiter{ChanMA: 20, Knee: 0.9, WhiteCap: 3}
}

func (l Limiter) withDefaults() Limiter {
	if l.ChanMA <= 0 {
		l.ChanMA = 20
	}
	if l.Knee <= 0 || l.Knee >= 1 {
		l.Knee = 0.9
	}
	if l.WhiteCap <= 0 || l.WhiteCap > 3 {
		l.WhiteCap = 3
	}
	return l
}

// Current estimates the draw of a frame in mA.
func (l Limiter) Current(buf []byte) float64 {
	l = l.withDefaults()
	var sum int
	for _, c := range buf {
		sum += int(c)
	}
	return float64(sum) / 255 * l.ChanMA
}

// Apply limits buf in place and returns the overall scale it applied to
// the budget stage (1 when untouched).
func (l Limiter) Apply(buf []byte) float64 {
	l = l.withDefaults()

	if l.WhiteCap < 3 {
		limit := l.WhiteCap * 255
		for i := 0; i+2 < len(buf); i += 3 {
			s := float64(buf[i]) + float64(buf[i+1]) + float64(buf[i+2])
			if s > limit {
				scalePixel(buf[i:i+3], limit/s)
			}
		}
	}

	if l.BudgetMA <= 0 {
		return 1
	}
	total := l.Current(buf)
	if total <= 0 {
		return 1
	}

	ratio := total / l.BudgetMA
	var s float64
	switch {
	case ratio <= l.Knee:
		return 1
	case ratio <= 1:
		// map ratio in [knee,1] to scale in [1, budget/total]
		minS := l.BudgetMA / total
		t := (ratio - l.Knee) / (1 - l.Knee)
		s = 1 - t*(1-minS)
	default:
		s = l.BudgetMA / total
	}
	if s >= 1 {
		return 1
	}
	for i := range buf {
		buf[i] = uint8(float64(buf[i]) * s)
	}
	return s
}

func scalePixel(px []byte, s float64) {
	for i := range px {
		px[i] = uint8(float64(px[i]) * s)
	}
}
