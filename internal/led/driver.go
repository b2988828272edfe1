// Package led sends finished RGB frames to a strip, the console or nowhere.
package led

import (
	"fmt"
	"strings"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Order maps output channels onto the R, G and B input channels. It is
// applied on top of the encoder's native wire order, so "RGB" leaves the
// frame untouched.
type Order [3]byte

var RGB = Order{'R', 'G', 'B'}

// ParseOrder accepts any permutation of "RGB", case-insensitive. An empty
// string is RGB.
func ParseOrder(s string) (Order, error) {
	if s == "" {
		return RGB, nil
	}
	s = strings.ToUpper(s)
	if len(s) != 3 || !strings.ContainsRune(s, 'R') || !strings.ContainsRune(s, 'G') || !strings.ContainsRune(s, 'B') {
		return Order{}, fmt.Errorf("invalid color order %q", s)
	}
	return Order{s[0], s[1], s[2]}, nil
}

func (o Order) String() string { return string(o[:]) }

// Remap writes src into dst in this channel order. dst must be at least as
// long as src.
func (o Order) Remap(dst, src []byte) {
	if o == RGB {
		copy(dst, src)
		return
	}
	for i := 0; i+2 < len(src); i += 3 {
		for c := 0; c < 3; c++ {
			switch o[c] {
			case 'R':
				dst[i+c] = src[i]
			case 'G':
				dst[i+c] = src[i+1]
			default:
				dst[i+c] = src[i+2]
			}
		}
	}
}

func checkFrame(rgb []byte, count int) error {
	if len(rgb) != count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), count)
	}
	return nil
}
