// Package render paints the blink effect on top of a video frame.
package render

import (
	"image"
	"math"
)

// Surface is a display surface the effect is painted on.
type Surface interface {
	// DrawScaledCentered draws the frame scaled to cover the surface,
	// blurred by the current blur radius.
	DrawScaledCentered(frame image.Image) error
	// SetBlurRadius sets the blur radius in pixels used by the next draw.
	SetBlurRadius(px int)
	// CompositeOverlay covers the whole surface with black at the given opacity.
	CompositeOverlay(opacity float64)
}

// Cover returns the rectangle inside dst the src frame is drawn to: the
// uniform scale is the larger of the width and height ratios, so the frame
// fills dst and the overflow is split evenly on both sides.
func Cover(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw <= 0 || sh <= 0 {
		return dst
	}

	scale := math.Max(float64(dw)/float64(sw), float64(dh)/float64(sh))
	w := int(math.Round(float64(sw) * scale))
	h := int(math.Round(float64(sh) * scale))
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2

	return image.Rect(x, y, x+w, y+h)
}

// Paint renders one frame: blur is set first, the frame is drawn, then the
// fade overlay is composited over the whole surface.
func Paint(s Surface, frame image.Image, blurRadius int, opacity float64) error {
	s.SetBlurRadius(blurRadius)
	if err := s.DrawScaledCentered(frame); err != nil {
		return err
	}
	s.CompositeOverlay(opacity)
	return nil
}
