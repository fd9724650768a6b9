package landmark

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAspectRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		eye     EyeSet
		want    float64
		wantErr error
	}{
		{
			name: "open eye",
			eye: EyeSet{
				{X: 0, Y: 0}, {X: 1, Y: -1}, {X: 2, Y: -1},
				{X: 3, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1},
			},
			want: (2.0 + 2.0) / (2 * 3.0),
		},
		{
			name: "closed eye",
			eye: EyeSet{
				{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
				{X: 4, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0},
			},
			want: 0,
		},
		{
			name: "zero width",
			eye: EyeSet{
				{X: 1, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 0},
				{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 2},
			},
			wantErr: ErrDegenerateEye,
		},
		{
			name: "nan coordinate",
			eye: EyeSet{
				{X: math.NaN(), Y: 0}, {X: 1, Y: -1}, {X: 2, Y: -1},
				{X: 3, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1},
			},
			wantErr: ErrDegenerateEye,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.eye.AspectRatio()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestFrameEARIsMeanOfBothEyes(t *testing.T) {
	t.Parallel()

	points := Synthetic(0.3)
	// Narrow the right eye so both eyes differ.
	right, err := Eye(points, RightEye)
	require.NoError(t, err)
	for _, i := range []int{1, 2} {
		points[RightEye[i]].Y = right[i].Y + (right[0].Y-right[i].Y)/2
	}
	for _, i := range []int{4, 5} {
		points[RightEye[i]].Y = right[i].Y - (right[i].Y-right[0].Y)/2
	}

	ear, err := FrameEAR(points)
	require.NoError(t, err)
	assert.InDelta(t, (0.3+0.15)/2, ear, 1e-9)
}

func TestFrameEARMissingLandmarks(t *testing.T) {
	t.Parallel()

	_, err := FrameEAR(make([]Point, 300))
	require.ErrorIs(t, err, ErrMissingLandmarks)

	_, err = FrameEAR(nil)
	require.ErrorIs(t, err, ErrMissingLandmarks)
}

func TestSynthetic(t *testing.T) {
	t.Parallel()

	for _, want := range []float64{0, 0.1, 0.2, 0.25, 0.3, 0.45} {
		points := Synthetic(want)
		require.Len(t, points, MeshSize)

		got, err := FrameEAR(points)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9, "ear %v", want)
	}
}
