package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClipValue(t *testing.T) {
	assert.Equal(t, 0, ClipValue(-5, 0, 10))
	assert.Equal(t, 10, ClipValue(50, 0, 10))
	assert.Equal(t, 7, ClipValue(7, 0, 10))
}

func TestMapValue(t *testing.T) {
	assert.Equal(t, 1, MapValue(0, 0, 100, 1, 10))
	assert.Equal(t, 10, MapValue(100, 0, 100, 1, 10))
	assert.Equal(t, 5, MapValue(50, 0, 100, 1, 10))
	assert.Equal(t, 3, MapValue(3, 5, 5, 3, 9), "degenerate input range")
}

func TestCountFromPercentBounds(t *testing.T) {
	for _, n := range []int{1, 2, 10, 60, 300} {
		assert.Equal(t, 1, CountFromPercent(0, n))
		assert.Equal(t, n, CountFromPercent(100, n))
		assert.Equal(t, n, CountFromPercent(250, n), "clipped above 100%%")
	}
}

func TestPercentRoundTrip(t *testing.T) {
	for _, n := range []int{2, 7, 10, 33, 101, 144, 1000} {
		for p := 0; p <= MaxPercent; p++ {
			c := CountFromPercent(p, n)
			q := PercentFromCount(c, n)
			assert.InDelta(t, c, CountFromPercent(q, n), 1, "n=%d p=%d", n, p)
			if n > MaxPercent {
				assert.InDelta(t, p, q, 1, "n=%d p=%d", n, p)
			}
		}
	}
}

var TestColorValsIsExpectedRGB = []struct {
	Hue, White, Bright int
	R, G, B            uint8
}{
	{0, 0, 100, 255, 0, 0},
	{120, 0, 100, 0, 255, 0},
	{240, 0, 100, 0, 0, 255},
	{0, 100, 100, 255, 255, 255},
	{120, 0, 0, 0, 0, 0},
	{60, 0, 100, 255, 255, 0},
}

func TestColorVals(t *testing.T) {
	for _, v := range TestColorValsIsExpectedRGB {
		r, g, b := ColorVals(v.Hue, v.White, v.Bright)
		assert.Equal(t, []uint8{v.R, v.G, v.B}, []uint8{r, g, b}, "hue=%d white=%d bright=%d", v.Hue, v.White, v.Bright)
	}
}

func TestStepClockWraps(t *testing.T) {
	c := &StepClock{Now: ^uint32(0) - 5}
	c.Advance(10)
	assert.Equal(t, uint32(4), c.Msecs())
}

func TestRandRange(t *testing.T) {
	r := NewRand(1)
	for i := 0; i < 200; i++ {
		v := r.Random(3, 8)
		assert.GreaterOrEqual(t, v, 3)
		assert.Less(t, v, 8)
	}
	assert.Equal(t, 4, r.Random(4, 4))
}
