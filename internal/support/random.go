package support

import "math/rand"

// Random returns a uniform value in [min, max).
type Random interface {
	Random(min, max int) int
}

type Rand struct {
	r *rand.Rand
}

func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Random(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.r.Intn(max-min)
}
