package landmark

import "math"

// Synthetic eye placement in normalized image space.
const (
	syntheticEyeWidth = 0.08
	syntheticEyeY     = 0.42
	syntheticLeftX    = 0.40
	syntheticRightX   = 0.60
)

// Synthetic builds a full face mesh whose eyes have exactly the given aspect ratio.
// The remaining points are spread over the face oval so the set looks like a face
// to anything that inspects more than the eye contours.
func Synthetic(ear float64) []Point {
	points := make([]Point, MeshSize)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / MeshSize
		points[i] = Point{
			X: 0.5 + 0.18*math.Cos(angle),
			Y: 0.5 + 0.25*math.Sin(angle),
		}
	}
	placeEye(points, LeftEye, syntheticLeftX, ear)
	placeEye(points, RightEye, syntheticRightX, ear)
	return points
}

func placeEye(points []Point, indices [6]int, cx, ear float64) {
	w := syntheticEyeWidth
	h := ear * w
	eye := EyeSet{
		{X: cx - w/2, Y: syntheticEyeY},
		{X: cx - w/6, Y: syntheticEyeY - h/2},
		{X: cx + w/6, Y: syntheticEyeY - h/2},
		{X: cx + w/2, Y: syntheticEyeY},
		{X: cx + w/6, Y: syntheticEyeY + h/2},
		{X: cx - w/6, Y: syntheticEyeY + h/2},
	}
	for i, idx := range indices {
		points[idx] = eye[i]
	}
}
