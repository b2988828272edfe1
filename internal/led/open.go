package led

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	KindSPI     = "spi"
	KindConsole = "console"
	KindSim     = "sim"
)

type Config struct {
	Kind    string
	Port    string
	Pixels  int
	SpeedHz int
	Order   string
}

// Open builds the driver named by cfg.Kind. When no SPI port can be opened
// it falls back to printing frames on the console.
func Open(cfg Config, log zerolog.Logger) (Driver, error) {
	if cfg.Pixels <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", cfg.Pixels)
	}
	order, err := ParseOrder(cfg.Order)
	if err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindSPI, "":
		s, err := OpenSPI(cfg.Port, cfg.Pixels, order, cfg.SpeedHz)
		if err != nil {
			log.Warn().Err(err).Msg("failed to find a SPI port, printing at the console")
			return NewConsole(cfg.Pixels), nil
		}
		log.Info().Str("dev", s.String()).Str("order", order.String()).Msg("spi driver ready")
		return s, nil
	case KindConsole:
		return NewConsole(cfg.Pixels), nil
	case KindSim:
		return NewSim(cfg.Pixels, log), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Kind)
	}
}
