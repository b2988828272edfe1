package led

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

const DefaultSpeedHz = 2_500_000

// SPI drives a WS2812 style strip through an SPI port with the NRZ encoder.
type SPI struct {
	mu    sync.Mutex
	dev   *nrzled.Dev
	port  spi.PortCloser
	count int
	order Order
	frame []byte
}

// OpenSPI initializes the host drivers and opens the named SPI port; an
// empty name picks the first one available.
func OpenSPI(port string, count int, order Order, speedHz int) (*SPI, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", port, err)
	}
	s, err := NewSPI(p, count, order, speedHz)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// NewSPI wraps an already open port.
func NewSPI(p spi.PortCloser, count int, order Order, speedHz int) (*SPI, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if speedHz <= 0 {
		speedHz = DefaultSpeedHz
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      physic.Frequency(speedHz) * physic.Hertz,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &SPI{
		dev:   d,
		port:  p,
		count: count,
		order: order,
		frame: make([]byte, count*3),
	}, nil
}

func (s *SPI) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dev == nil {
		return errors.New("SPI closed")
	}
	if err := checkFrame(rgb, s.count); err != nil {
		return err
	}
	s.order.Remap(s.frame, rgb)
	if _, err := s.dev.Write(s.frame); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return nil
	}
	err := s.dev.Halt()
	s.dev = nil
	if cerr := s.port.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *SPI) String() string {
	if s.dev == nil {
		return "spi{closed}"
	}
	return s.dev.String()
}
