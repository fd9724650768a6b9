// Package effect accumulates the blur and fade levels driven by blink events.
package effect

import (
	"sync"

	"golang.org/x/exp/constraints"
)

// Default step sizes.
const (
	DefaultBlurStep = 4
	DefaultMaxBlur  = 40
	DefaultFadeStep = 0.08

	// MaxFade is the fully black overlay.
	MaxFade = 1.0
)

// Config holds the ratchet step sizes.
type Config struct {
	BlurStep int     // blur radius in pixels per level
	MaxBlur  int     // blur radius cap in pixels
	FadeStep float64 // overlay opacity added per blink
}

// DefaultConfig returns the step sizes of the classic variant.
func DefaultConfig() Config {
	return Config{
		BlurStep: DefaultBlurStep,
		MaxBlur:  DefaultMaxBlur,
		FadeStep: DefaultFadeStep,
	}
}

// BlurLevels returns the number of blur levels before the blur is capped.
func (c Config) BlurLevels() int {
	if c.BlurStep <= 0 {
		return 0
	}
	return c.MaxBlur / c.BlurStep
}

// State is a snapshot of the two ratchets.
type State struct {
	BlurLevel    int
	FadeProgress float64
}

// Accumulator ratchets the blur level and fade progress. Both values only grow.
// It is safe for concurrent use: readers never observe a half applied step.
type Accumulator struct {
	mu    sync.RWMutex
	cfg   Config
	state State
}

// NewAccumulator returns an accumulator with both values at zero.
func NewAccumulator(cfg Config) *Accumulator {
	return &Accumulator{cfg: cfg}
}

// Config returns the step sizes of the accumulator.
func (a *Accumulator) Config() Config {
	return a.cfg
}

// Advance applies one blink step and returns the new state.
func (a *Accumulator) Advance() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.BlurLevel = clamp(a.state.BlurLevel+1, 0, a.cfg.BlurLevels())
	a.state.FadeProgress = clamp(a.state.FadeProgress+a.cfg.FadeStep, 0, MaxFade)
	return a.state
}

// State returns the latest committed state.
func (a *Accumulator) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.state
}

// BlurRadius returns the blur radius in pixels for the current level.
func (a *Accumulator) BlurRadius() int {
	return a.State().BlurLevel * a.cfg.BlurStep
}

// Opacity returns the fade overlay opacity.
func (a *Accumulator) Opacity() float64 {
	return a.State().FadeProgress
}

// clamp bounds the value to the [lo, hi] interval.
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
