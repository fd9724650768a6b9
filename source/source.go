// Package source defines the video frames flowing into a blink session.
package source

import (
	"context"
	"image"
	"io"
	"sync"
)

// Frame is one video frame. Image may be nil when the source only carries
// landmarks, as recorded traces do.
type Frame struct {
	Seq   uint64
	Image image.Image
}

// Slice is an in-memory frame source, mostly useful in tests.
type Slice struct {
	mu     sync.Mutex
	frames []Frame
	next   int
}

// NewSlice returns a source replaying the given frames once.
func NewSlice(frames ...Frame) *Slice {
	return &Slice{frames: frames}
}

// Next returns the next frame or io.EOF once every frame was delivered.
func (s *Slice) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.frames) {
		return Frame{}, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}
