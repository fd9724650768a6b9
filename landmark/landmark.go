// Package landmark holds the facial landmark types and the eye aspect ratio math.
package landmark

import (
	"errors"
	"math"
)

// Eye contour indices into the 468/478 point face mesh layout. The order
// matters: p0 and p3 are the horizontal corners, (p1, p5) and (p2, p4) the
// vertical pairs.
var (
	LeftEye  = [6]int{33, 160, 158, 133, 153, 144}
	RightEye = [6]int{362, 385, 387, 263, 373, 380}
)

// MeshSize is the number of points in a refined face mesh.
const MeshSize = 478

// MinEyeWidth is the smallest corner to corner distance accepted as a real eye.
const MinEyeWidth = 1e-9

var (
	// ErrMissingLandmarks is returned when the landmark set is too short to hold the eye indices.
	ErrMissingLandmarks = errors.New("landmark set does not cover the eye indices")
	// ErrDegenerateEye is returned when the eye width is (close to) zero.
	ErrDegenerateEye = errors.New("degenerate eye geometry")
)

// Point is a 2D coordinate in normalized image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EyeSet is the six point eye contour used by the EAR formula.
type EyeSet [6]Point

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Eye selects the contour points at the given indices.
func Eye(landmarks []Point, indices [6]int) (EyeSet, error) {
	var eye EyeSet
	for i, idx := range indices {
		if idx < 0 || idx >= len(landmarks) {
			return eye, ErrMissingLandmarks
		}
		eye[i] = landmarks[idx]
	}
	return eye, nil
}

// AspectRatio computes the eye aspect ratio of a single eye.
func (e EyeSet) AspectRatio() (float64, error) {
	a := Distance(e[1], e[5])
	b := Distance(e[2], e[4])
	c := Distance(e[0], e[3])
	if !(c >= MinEyeWidth) {
		return 0, ErrDegenerateEye
	}

	ear := (a + b) / (2 * c)
	if math.IsNaN(ear) || math.IsInf(ear, 0) {
		return 0, ErrDegenerateEye
	}
	return ear, nil
}

// FrameEAR returns the mean eye aspect ratio of the left and right eye.
func FrameEAR(landmarks []Point) (float64, error) {
	left, err := Eye(landmarks, LeftEye)
	if err != nil {
		return 0, err
	}
	right, err := Eye(landmarks, RightEye)
	if err != nil {
		return 0, err
	}

	l, err := left.AspectRatio()
	if err != nil {
		return 0, err
	}
	r, err := right.AspectRatio()
	if err != nil {
		return 0, err
	}
	return (l + r) / 2, nil
}
