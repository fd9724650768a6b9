// Package config loads the blink effect settings from YAML, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/esimov/blinkfade/blink"
	"github.com/esimov/blinkfade/effect"
	"github.com/esimov/blinkfade/render"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Effect is the tunable core of the blink effect.
type Effect struct {
	EARThreshold float64 `yaml:"earThreshold"`
	BlurStep     int     `yaml:"blurStep"`
	MaxBlur      int     `yaml:"maxBlur"`
	FadeStep     float64 `yaml:"fadeStep"`
}

// Accumulator returns the step sizes for the effect accumulator.
func (e Effect) Accumulator() effect.Config {
	return effect.Config{
		BlurStep: e.BlurStep,
		MaxBlur:  e.MaxBlur,
		FadeStep: e.FadeStep,
	}
}

// Render configures the Go side renderer.
type Render struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Blur   string `yaml:"blur"`
}

// Gate configures the optional pigo face gate.
type Gate struct {
	Enabled    bool    `yaml:"enabled"`
	Cascade    string  `yaml:"cascade"` // file path or http(s) URL of the pigo facefinder cascade
	MinQuality float32 `yaml:"minQuality"`
}

// Config is the complete configuration.
type Config struct {
	Variant  string `yaml:"variant"`
	LogLevel string `yaml:"logLevel"`
	Effect   Effect `yaml:"effect"`
	Render   Render `yaml:"render"`
	Gate     Gate   `yaml:"gate"`
}

var variants = map[string]Effect{
	"classic": {
		EARThreshold: blink.DefaultThreshold,
		BlurStep:     effect.DefaultBlurStep,
		MaxBlur:      effect.DefaultMaxBlur,
		FadeStep:     effect.DefaultFadeStep,
	},
	"gentle": {
		EARThreshold: blink.DefaultThreshold,
		BlurStep:     effect.DefaultBlurStep,
		MaxBlur:      effect.DefaultMaxBlur,
		FadeStep:     0.05,
	},
}

// Variants returns the names of the built-in effect variants.
func Variants() []string {
	return []string{"classic", "gentle"}
}

// Variant returns the effect settings of a named variant.
func Variant(name string) (Effect, error) {
	e, ok := variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Effect{}, fmt.Errorf("%w: unknown variant %q", ErrInvalid, name)
	}
	return e, nil
}

// Default returns the classic variant with the default renderer settings.
func Default() *Config {
	return &Config{
		Variant:  "classic",
		LogLevel: "info",
		Effect:   variants["classic"],
		Render: Render{
			Width:  640,
			Height: 480,
			FPS:    30,
			Blur:   render.BlurStack,
		},
		Gate: Gate{
			Cascade:    "https://raw.githubusercontent.com/esimov/pigo/master/cascade/facefinder",
			MinQuality: 5,
		},
	}
}

// Load reads a YAML file on top of the defaults. If the file sets a variant
// without effect values, the variant's values are used.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading the config file: %w", err)
	}
	if err := cfg.decode(b); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(b []byte) error {
	var probe struct {
		Variant string `yaml:"variant"`
	}
	if err := yaml.Unmarshal(b, &probe); err != nil {
		return fmt.Errorf("failed parsing the config file: %w", err)
	}
	if probe.Variant != "" {
		e, err := Variant(probe.Variant)
		if err != nil {
			return err
		}
		c.Effect = e
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("failed parsing the config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from BLINKFADE_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("BLINKFADE_VARIANT"); v != "" {
		e, err := Variant(v)
		if err != nil {
			return err
		}
		c.Variant, c.Effect = v, e
	}
	if v := os.Getenv("BLINKFADE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	floats := map[string]*float64{
		"BLINKFADE_EAR_THRESHOLD": &c.Effect.EARThreshold,
		"BLINKFADE_FADE_STEP":     &c.Effect.FadeStep,
	}
	for key, dst := range floats {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"BLINKFADE_BLUR_STEP": &c.Effect.BlurStep,
		"BLINKFADE_MAX_BLUR":  &c.Effect.MaxBlur,
		"BLINKFADE_FPS":       &c.Render.FPS,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
			}
			*dst = n
		}
	}
	return nil
}

// Validate checks the ranges of every setting.
func (c *Config) Validate() error {
	e := c.Effect
	switch {
	case !(e.EARThreshold > 0):
		return fmt.Errorf("%w: earThreshold must be positive, got %v", ErrInvalid, e.EARThreshold)
	case e.BlurStep <= 0:
		return fmt.Errorf("%w: blurStep must be positive, got %d", ErrInvalid, e.BlurStep)
	case e.MaxBlur < 0:
		return fmt.Errorf("%w: maxBlur must not be negative, got %d", ErrInvalid, e.MaxBlur)
	case !(e.FadeStep > 0 && e.FadeStep <= effect.MaxFade):
		return fmt.Errorf("%w: fadeStep must be in (0, 1], got %v", ErrInvalid, e.FadeStep)
	}

	r := c.Render
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: render size must be positive, got %dx%d", ErrInvalid, r.Width, r.Height)
	case r.FPS <= 0:
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalid, r.FPS)
	}
	if _, err := render.BlurBackend(r.Blur); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if c.Gate.Enabled && c.Gate.Cascade == "" {
		return fmt.Errorf("%w: the face gate needs a cascade", ErrInvalid)
	}
	return nil
}
