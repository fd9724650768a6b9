package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/esimov/blinkfade/landmark"
	"github.com/esimov/blinkfade/render"
	"github.com/esimov/blinkfade/source"
	"github.com/facebookincubator/go-belt/tool/logger"
	"golang.org/x/sync/errgroup"
)

// FrameSource delivers video frames at its own pace. It returns io.EOF when
// there are no more frames.
type FrameSource interface {
	Next(ctx context.Context) (source.Frame, error)
}

// LandmarkProvider returns the landmarks of the single considered face, or
// nil when no face is found.
type LandmarkProvider interface {
	Detect(ctx context.Context, frame source.Frame) ([]landmark.Point, error)
}

// RunParams wires a session to its collaborators.
type RunParams struct {
	Source   FrameSource
	Provider LandmarkProvider
	Surface  render.Surface
	FPS      int

	// OnPaint is called after every paint with the frame that was drawn.
	OnPaint func(ctx context.Context, frame source.Frame) error
}

// Run drives the detection stream and the render stream until the source is
// exhausted, ctx is cancelled, or one of the streams fails. The two streams
// run at independent rates; the render stream always paints the latest
// frame with the latest committed effect state.
func (s *Session) Run(ctx context.Context, p RunParams) error {
	if p.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", p.FPS)
	}

	var (
		mu     sync.Mutex
		latest source.Frame
	)
	snapshot := func() source.Frame {
		mu.Lock()
		defer mu.Unlock()
		return latest
	}

	paint := func(ctx context.Context, frame source.Frame) error {
		if err := render.Paint(p.Surface, frame.Image, s.BlurRadius(), s.Opacity()); err != nil {
			return fmt.Errorf("failed painting frame %d: %w", frame.Seq, err)
		}
		if p.OnPaint != nil {
			return p.OnPaint(ctx, frame)
		}
		return nil
	}

	detectDone := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(detectDone)
		for {
			frame, err := p.Source.Next(ctx)
			if errors.Is(err, io.EOF) {
				logger.Debugf(ctx, "session %s: frame source exhausted", s.ID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed reading the next frame: %w", err)
			}

			landmarks, err := p.Provider.Detect(ctx, frame)
			if err != nil {
				return fmt.Errorf("landmark detection failed on frame %d: %w", frame.Seq, err)
			}
			s.Evaluate(ctx, landmarks)

			mu.Lock()
			latest = frame
			mu.Unlock()
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Second / time.Duration(p.FPS))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-detectDone:
				// One last paint so the final state is always on screen.
				return paint(ctx, snapshot())
			case <-ticker.C:
				if err := paint(ctx, snapshot()); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}
