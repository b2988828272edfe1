// Package config reads and writes the YAML runtime configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-pixelnut/internal/power"
	"github.com/coreman2200/funtimes-pixelnut/internal/sequence"
)

type PowerCfg struct {
	ChanMA   float64 `yaml:"chan_ma"`
	BudgetMA float64 `yaml:"budget_ma"`
	Knee     float64 `yaml:"knee"`
	WhiteCap float64 `yaml:"white_cap"`
}

type SPI struct {
	Port    string `yaml:"port"`     // e.g. /dev/spidev0.0, empty for the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Config struct {
	Driver     string `yaml:"driver"` // "spi" | "console" | "sim"
	ColorOrder string `yaml:"color_order"`
	Pixels     int    `yaml:"pixels"`
	Reverse    bool   `yaml:"reverse"`
	Layers     int    `yaml:"layers"`
	Tracks     int    `yaml:"tracks"`
	FPS        int    `yaml:"fps"`
	Brightness int    `yaml:"brightness"`   // percent
	DelayMs    int    `yaml:"delay_offset"` // added to every track delay
	BufferKB   int    `yaml:"buffer_kb"`    // pixel buffer budget, 0 for none

	Pattern  string            `yaml:"pattern"` // startup command line
	HTTPAddr string            `yaml:"http_addr,omitempty"`
	Power    PowerCfg          `yaml:"power"`
	SPI      SPI               `yaml:"spi,omitempty"`
	Sequence *sequence.Program `yaml:"sequence,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	lim := power.Default()
	return &Config{
		Driver:     "spi",
		ColorOrder: "RGB",
		Pixels:     60,
		Layers:     4,
		Tracks:     3,
		FPS:        60,
		Brightness: 100,
		Pattern:    "E0 H120 T G",
		Power:      PowerCfg{ChanMA: lim.ChanMA, Knee: lim.Knee, WhiteCap: lim.WhiteCap},
	}
}

func Load(path string) (*Config, error) {
	c := Default()
	if err := LoadInto(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadInto overlays the file at path onto c; keys absent from the file keep
// their current values.
func LoadInto(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return c.Validate()
}

// Overlay is LoadInto for an optional file: a missing file leaves c
// untouched and reports false.
func Overlay(path string, c *Config) (bool, error) {
	if err := LoadInto(path, c); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Pixels <= 0:
		return fmt.Errorf("pixels must be positive, got %d", c.Pixels)
	case c.Layers <= 0 || c.Layers > 255:
		return fmt.Errorf("layers must be in 1..255, got %d", c.Layers)
	case c.Tracks <= 0 || c.Tracks > 255:
		return fmt.Errorf("tracks must be in 1..255, got %d", c.Tracks)
	case c.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	case c.Brightness < 0 || c.Brightness > 100:
		return fmt.Errorf("brightness must be a percent, got %d", c.Brightness)
	}
	return nil
}
