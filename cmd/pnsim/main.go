// Command pnsim runs patterns headless on a stepped clock and prints the
// frames they produce.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-pixelnut/internal/app"
	"github.com/coreman2200/funtimes-pixelnut/internal/config"
	"github.com/coreman2200/funtimes-pixelnut/internal/led"
	"github.com/coreman2200/funtimes-pixelnut/internal/support"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional config.yaml")
		pixels     = flag.Int("pixels", 16, "number of pixels")
		pattern    = flag.String("pattern", "E0 H120 T G", "command lines, separated by ';'")
		duration   = flag.Int("ms", 5000, "simulated run time in milliseconds")
		step       = flag.Int("step", 10, "clock step in milliseconds")
		frames     = flag.Bool("frames", false, "print every frame as hex")
		seq        = flag.Bool("seq", false, "start the configured sequence")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config")
		}
		cfg = c
	} else {
		cfg.Pixels = *pixels
	}
	cfg.Driver = led.KindSim
	cfg.Pattern = ""

	sim := led.NewSim(cfg.Pixels, log.Logger)
	clock := &support.StepClock{Now: 1}
	r, err := app.New(app.Options{Config: cfg, Driver: sim, Clock: clock, Log: log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}

	for _, line := range strings.Split(*pattern, ";") {
		if err := r.Handle(line); err != nil {
			log.Fatal().Err(err).Str("line", line).Msg("command")
		}
	}
	if *seq {
		if err := r.Sequence("start"); err != nil {
			log.Fatal().Err(err).Msg("sequence")
		}
	}

	dt := time.Duration(max(1, *step)) * time.Millisecond
	for t := 0; t < *duration; t += max(1, *step) {
		if r.Tick(dt) && *frames {
			fmt.Printf("%6d %s\n", t, hex.EncodeToString(sim.Last()))
		}
		clock.Advance(uint32(max(1, *step)))
	}

	out, _ := json.MarshalIndent(r.Stats(), "", "  ")
	fmt.Println(string(out))
}
