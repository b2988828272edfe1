package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelnut/internal/app"
	"github.com/coreman2200/funtimes-pixelnut/internal/config"
	diag "github.com/coreman2200/funtimes-pixelnut/internal/diagnostics"
	"github.com/coreman2200/funtimes-pixelnut/internal/led"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
	"github.com/coreman2200/funtimes-pixelnut/internal/ws"
)

// openFunc builds the output driver; tests swap it for a fake.
type openFunc func(led.Config, zerolog.Logger) (led.Driver, error)

func main() {
	// flags; a readable config.yaml overrides them
	var (
		pixels     = flag.Int("pixels", 60, "number of pixels on the strip")
		fps        = flag.Int("fps", 60, "frames per second")
		brightness = flag.Int("brightness", 100, "max brightness percent")
		driver     = flag.String("driver", "spi", "driver: spi | console | sim")
		colorOrder = flag.String("color", "RGB", "LED color order (e.g. GRB, RGB)")
		port       = flag.String("port", "", "SPI port, empty for the first one")
		pattern    = flag.String("pattern", "", "startup command line")
		addr       = flag.String("addr", "", "preview listen address, empty to disable")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		test       = flag.String("test", "", "run a wiring test first: index_sweep | rgb_channels")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	cfg.Pixels = *pixels
	cfg.FPS = *fps
	cfg.Brightness = *brightness
	cfg.Driver = *driver
	cfg.ColorOrder = *colorOrder
	cfg.SPI.Port = *port
	cfg.HTTPAddr = *addr
	if *pattern != "" {
		cfg.Pattern = *pattern
	}
	loaded, err := config.Overlay(*configPath, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("config")
	}
	if loaded {
		log.Info().Str("path", *configPath).Msg("config loaded")
	} else if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *test, led.Open, os.Stdin, log.Logger); err != nil {
		stop()
		log.Fatal().Err(err).Msg("pixelnut")
	}
	log.Info().Msg("shutting down")
}

// run drives the strip until ctx is done. The driver is closed on every
// return path once it has been opened.
func run(ctx context.Context, cfg *config.Config, test string, open openFunc, in io.Reader, logger zerolog.Logger) error {
	drv, err := open(led.Config{
		Kind:    cfg.Driver,
		Port:    cfg.SPI.Port,
		Pixels:  cfg.Pixels,
		SpeedHz: cfg.SPI.SpeedHz,
		Order:   cfg.ColorOrder,
	}, logger.With().Str("component", "led").Logger())
	if err != nil {
		return err
	}
	defer func() {
		if err := drv.Close(); err != nil {
			logger.Warn().Err(err).Msg("driver close")
		}
	}()

	var kind diag.Kind
	if test != "" {
		if kind, err = diag.ParseKind(test); err != nil {
			return err
		}
	}

	var hub *ws.Hub
	if cfg.HTTPAddr != "" {
		hub = ws.NewHub(cfg.Pixels, cfg.FPS, cfg.Driver, logger.With().Str("component", "ws").Logger())
		go func() {
			if err := hub.Serve(ctx, cfg.HTTPAddr); err != nil {
				logger.Error().Err(err).Msg("preview server")
			}
		}()
	}

	r, err := app.New(app.Options{
		Config: cfg,
		Driver: drv,
		Hub:    hub,
		Clock:  support.NewSystemClock(),
		Log:    logger,
	})
	if err != nil {
		return err
	}

	if kind != "" {
		r.RunTest(kind)
	}
	if cfg.Sequence != nil {
		if err := r.Sequence("start"); err != nil {
			logger.Warn().Err(err).Msg("sequence")
		}
	}

	go readCommands(r, in, logger)

	logger.Info().Int("pixels", cfg.Pixels).Str("driver", cfg.Driver).Int("fps", cfg.FPS).Msg("running")
	return r.Run(ctx)
}

// readCommands feeds input lines to the runner until EOF.
func readCommands(r *app.Runner, in io.Reader, logger zerolog.Logger) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if err := r.Handle(line); err != nil {
			logger.Warn().Err(err).Str("line", line).Msg("rejected")
			continue
		}
		logger.Debug().Str("line", line).Msg("ok")
	}
}
