package led

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sim keeps the last frame in memory and logs a compact summary of each
// one (first pixel and channel averages); useful headless.
type Sim struct {
	mu    sync.Mutex
	log   zerolog.Logger
	count int
	n     int
	last  []byte
}

func NewSim(count int, log zerolog.Logger) *Sim {
	return &Sim{log: log, count: count, last: make([]byte, count*3)}
}

func (d *Sim) Write(rgb []byte) error {
	if err := checkFrame(rgb, d.count); err != nil {
		return err
	}
	d.mu.Lock()
	d.n++
	copy(d.last, rgb)
	n := d.n
	d.mu.Unlock()

	if e := d.log.Debug(); e.Enabled() {
		var r, g, b int
		for i := 0; i+2 < len(rgb); i += 3 {
			r += int(rgb[i])
			g += int(rgb[i+1])
			b += int(rgb[i+2])
		}
		px := max(d.count, 1)
		e.Int("frame", n).
			Ints("avg", []int{r / px, g / px, b / px}).
			Bytes("first", rgb[:min(3, len(rgb))]).
			Msg("sim frame")
	}
	return nil
}

func (d *Sim) Close() error { return nil }

// Frames is the number of frames written.
func (d *Sim) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.n
}

// Last returns a copy of the most recent frame.
func (d *Sim) Last() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.last...)
}
