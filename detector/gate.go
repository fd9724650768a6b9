package detector

import (
	"context"
	"fmt"
	"image"

	"github.com/esimov/blinkfade/landmark"
	"github.com/esimov/blinkfade/source"
	pigo "github.com/esimov/pigo/core"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// FaceFinder finds faces on an image.
type FaceFinder interface {
	DetectImage(img image.Image) ([]pigo.Detection, error)
}

// LandmarkProvider returns the face landmarks of a frame, or nil if there is no face.
type LandmarkProvider interface {
	Detect(ctx context.Context, frame source.Frame) ([]landmark.Point, error)
}

// Gate only lets landmarks through on frames where pigo sees a face. Trackers
// keep reporting the last landmarks for a moment after the face left the
// frame; the gate turns those frames into "no face".
type Gate struct {
	Finder     FaceFinder
	Provider   LandmarkProvider
	MinQuality float32
}

var _ LandmarkProvider = (*Gate)(nil)

// Detect implements LandmarkProvider. Frames without an image are passed through.
func (g *Gate) Detect(ctx context.Context, frame source.Frame) ([]landmark.Point, error) {
	if frame.Image != nil {
		dets, err := g.Finder.DetectImage(frame.Image)
		if err != nil {
			return nil, fmt.Errorf("face gate: %w", err)
		}
		det, ok := Best(dets, g.MinQuality)
		if !ok {
			logger.Tracef(ctx, "frame %d: no face above quality %v", frame.Seq, g.MinQuality)
			return nil, nil
		}
		logger.Tracef(ctx, "frame %d: face at %d,%d scale %d q %v", frame.Seq, det.Col, det.Row, det.Scale, det.Q)
	}
	return g.Provider.Detect(ctx, frame)
}
