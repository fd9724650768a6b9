// Package blink turns per-frame facial landmarks into blink events.
package blink

import (
	"errors"

	"github.com/esimov/blinkfade/landmark"
)

// DefaultThreshold is the eye aspect ratio under which the eyes count as closed.
const DefaultThreshold = 0.25

// Event is emitted once per open-to-closed transition.
type Event struct {
	Seq uint64  // 1-based blink number within the detector lifetime
	EAR float64 // frame EAR that fired the event
}

// Stats counts what the detector has seen so far.
type Stats struct {
	Frames     uint64
	Skipped    uint64
	Degenerate uint64
	Blinks     uint64
	LastEAR    float64
}

// Detector is the blink edge state machine. It is not safe for concurrent use.
type Detector struct {
	threshold float64
	closed    bool
	stats     Stats
}

// NewDetector returns a detector with the eyes assumed open.
func NewDetector(threshold float64) *Detector {
	return &Detector{threshold: threshold}
}

// Threshold returns the EAR threshold of the detector.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// IsClosed reports whether the eyes were below threshold on the last evaluated frame.
func (d *Detector) IsClosed() bool {
	return d.closed
}

// Stats returns a copy of the detector counters.
func (d *Detector) Stats() Stats {
	return d.stats
}

// Evaluate feeds the landmarks of one frame to the detector. A nil or short
// landmark set means no face and leaves the state untouched. It reports a
// blink event only on the frame where the eyes go from open to closed.
func (d *Detector) Evaluate(landmarks []landmark.Point) (Event, bool) {
	if len(landmarks) == 0 {
		d.stats.Skipped++
		return Event{}, false
	}

	ear, err := landmark.FrameEAR(landmarks)
	switch {
	case errors.Is(err, landmark.ErrMissingLandmarks):
		d.stats.Skipped++
		return Event{}, false
	case err != nil:
		// Zero width eyes never count as a blink.
		d.stats.Frames++
		d.stats.Degenerate++
		d.closed = false
		return Event{}, false
	}

	d.stats.Frames++
	d.stats.LastEAR = ear

	if ear < d.threshold && !d.closed {
		d.closed = true
		d.stats.Blinks++
		return Event{Seq: d.stats.Blinks, EAR: ear}, true
	}
	if ear >= d.threshold {
		d.closed = false
	}
	return Event{}, false
}
