package detector

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"

	"github.com/esimov/blinkfade/blink"
	"github.com/esimov/blinkfade/landmark"
	"github.com/esimov/blinkfade/source"
	"github.com/esimov/blinkfade/trace"
	pigo "github.com/esimov/pigo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	dets []pigo.Detection
	err  error
}

func (f fakeFinder) DetectImage(image.Image) ([]pigo.Detection, error) {
	return f.dets, f.err
}

type fakeProvider struct {
	calls int
}

func (p *fakeProvider) Detect(context.Context, source.Frame) ([]landmark.Point, error) {
	p.calls++
	return landmark.Synthetic(0.3), nil
}

func TestBest(t *testing.T) {
	t.Parallel()

	dets := []pigo.Detection{
		{Row: 10, Col: 10, Scale: 50, Q: 3},
		{Row: 20, Col: 20, Scale: 80, Q: 12},
		{Row: 30, Col: 30, Scale: 60, Q: 7},
	}

	det, ok := Best(dets, 5)
	require.True(t, ok)
	assert.Equal(t, 80, det.Scale)

	_, ok = Best(dets, 20)
	assert.False(t, ok)

	_, ok = Best(nil, 0)
	assert.False(t, ok)
}

func TestGate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	frame := source.Frame{Seq: 1, Image: image.NewGray(image.Rect(0, 0, 8, 8))}

	tests := []struct {
		name      string
		finder    fakeFinder
		frame     source.Frame
		wantFace  bool
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "face found",
			finder:    fakeFinder{dets: []pigo.Detection{{Q: 9}}},
			frame:     frame,
			wantFace:  true,
			wantCalls: 1,
		},
		{
			name:   "low quality",
			finder: fakeFinder{dets: []pigo.Detection{{Q: 1}}},
			frame:  frame,
		},
		{
			name:   "no detection",
			finder: fakeFinder{},
			frame:  frame,
		},
		{
			name:      "frame without image",
			finder:    fakeFinder{},
			frame:     source.Frame{Seq: 2},
			wantFace:  true,
			wantCalls: 1,
		},
		{
			name:    "finder error",
			finder:  fakeFinder{err: errors.New("boom")},
			frame:   frame,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &fakeProvider{}
			g := &Gate{Finder: tt.finder, Provider: p, MinQuality: 5}
			points, err := g.Detect(ctx, tt.frame)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFace, points != nil)
			assert.Equal(t, tt.wantCalls, p.calls)
		})
	}
}

func TestDetectBeforeUnpack(t *testing.T) {
	t.Parallel()

	_, err := NewDetector().DetectImage(image.NewGray(image.Rect(0, 0, 4, 4)))
	require.ErrorIs(t, err, ErrNotUnpacked)
}

type countingFinder struct {
	calls int
}

func (f *countingFinder) DetectImage(image.Image) ([]pigo.Detection, error) {
	f.calls++
	return nil, nil
}

func TestGateReplaysImagelessTrace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	player := trace.NewPlayer(trace.Synthesize([]float64{0.3, 0.1, 0.1, -1, 0.3, 0.1}), t.TempDir())
	finder := &countingFinder{}
	g := &Gate{Finder: finder, Provider: player, MinQuality: 5}
	det := blink.NewDetector(blink.DefaultThreshold)

	for {
		frame, err := player.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)

		points, err := g.Detect(ctx, frame)
		require.NoError(t, err)
		det.Evaluate(points)
	}

	assert.Zero(t, finder.calls)
	stats := det.Stats()
	assert.EqualValues(t, 2, stats.Blinks)
	assert.EqualValues(t, 1, stats.Skipped)
}
