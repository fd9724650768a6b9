package pixels

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImgToPixRoundTrip(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(2, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{G: 200, B: 10, A: 255})

	pix := ImgToPix(src)
	require.Len(t, pix, 3*2*4)
	// Pixel (2, 0) is the third in row-major order.
	assert.Equal(t, []uint8{255, 0, 0, 255}, pix[8:12])

	dst := PixToImage(pix, src.Bounds())
	assert.Equal(t, src.Pix, dst.Pix)
}

func TestGrayscale(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})

	gray := Grayscale(img)
	assert.Equal(t, []uint8{255, 182}, gray)
}

func TestRgbaToGrayscaleShortBuffer(t *testing.T) {
	t.Parallel()

	gray := RgbaToGrayscale([]uint8{10, 10, 10, 255}, 2, 2)
	assert.Equal(t, []uint8{10, 0, 0, 0}, gray)
}
