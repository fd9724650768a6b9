// Package session ties a blink detector to an effect accumulator.
package session

import (
	"context"
	"sync"

	"github.com/esimov/blinkfade/blink"
	"github.com/esimov/blinkfade/config"
	"github.com/esimov/blinkfade/effect"
	"github.com/esimov/blinkfade/landmark"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"
)

// Session is one viewer's blink effect. The detector state and the
// accumulator are updated under a single lock, so the paint side always
// reads a committed state.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	detector *blink.Detector
	acc      *effect.Accumulator
}

// New validates the effect settings and returns a fresh session.
func New(cfg config.Effect) (*Session, error) {
	c := config.Default()
	c.Effect = cfg
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		ID:       uuid.New(),
		detector: blink.NewDetector(cfg.EARThreshold),
		acc:      effect.NewAccumulator(cfg.Accumulator()),
	}, nil
}

// Evaluate feeds the landmarks of one frame (nil if no face was found) and
// returns the blink event the frame fired, if any.
func (s *Session) Evaluate(ctx context.Context, landmarks []landmark.Point) (blink.Event, bool) {
	s.mu.Lock()
	ev, ok := s.detector.Evaluate(landmarks)
	var st effect.State
	if ok {
		st = s.acc.Advance()
	}
	s.mu.Unlock()

	if ok {
		logger.Infof(ctx, "blink detected: #%d ear=%.3f blur=%d fade=%.2f", ev.Seq, ev.EAR, st.BlurLevel, st.FadeProgress)
	}
	return ev, ok
}

// State returns the latest effect state.
func (s *Session) State() effect.State {
	return s.acc.State()
}

// BlurRadius returns the blur radius in pixels to paint with.
func (s *Session) BlurRadius() int {
	return s.acc.BlurRadius()
}

// Opacity returns the fade overlay opacity to paint with.
func (s *Session) Opacity() float64 {
	return s.acc.Opacity()
}

// IsClosed reports whether the eyes were closed on the last evaluated frame.
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.detector.IsClosed()
}

// Stats returns the detector counters.
func (s *Session) Stats() blink.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.detector.Stats()
}
