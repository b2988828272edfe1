package support

const (
	MaxPercent    = 100
	MaxDegreesHue = 359
	MaxForce      = 1000
	MaxDelay      = 1000
	MaxByte       = 255
	MaxWord       = 65535
)

// ClipValue limits v to [lo, hi].
func ClipValue(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MapValue linearly re-maps v from [inMin, inMax] onto [outMin, outMax]
// using integer arithmetic.
func MapValue(v, inMin, inMax, outMin, outMax int) int {
	if inMax == inMin {
		return outMin
	}
	return (v-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// CountFromPercent converts a percentage of a segment into a pixel count in
// [1, pixels].
func CountFromPercent(pct, pixels int) int {
	if pixels <= 1 {
		return 1
	}
	pct = ClipValue(pct, 0, MaxPercent)
	return MapValue(pct, 0, MaxPercent, 1, pixels)
}

// PercentFromCount is the rounded inverse of CountFromPercent.
func PercentFromCount(count, pixels int) int {
	if pixels <= 1 {
		return 0
	}
	count = ClipValue(count, 1, pixels)
	span := pixels - 1
	return ((count-1)*MaxPercent + span/2) / span
}
