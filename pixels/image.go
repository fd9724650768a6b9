// Package pixels converts between canvas pixel buffers and Go images.
package pixels

import (
	"image"
	"image/color"
	"math"
)

// ImgToPix converts an image to row-major RGBA pixel data.
func ImgToPix(img image.Image) []uint8 {
	bounds := img.Bounds()
	pixels := make([]uint8, 0, bounds.Dx()*bounds.Dy()*4)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, c.R, c.G, c.B, c.A)
		}
	}
	return pixels
}

// PixToImage converts row-major RGBA pixel data, as returned by getImageData, to an image.
func PixToImage(pixels []uint8, rect image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(rect)
	copy(img.Pix, pixels)
	return img
}

// RgbaToGrayscale converts row-major RGBA pixel data to one luma byte per pixel.
func RgbaToGrayscale(data []uint8, width, height int) []uint8 {
	gray := make([]uint8, width*height)
	for i := range gray {
		if 4*i+2 >= len(data) {
			break
		}
		// gray = 0.2*red + 0.7*green + 0.1*blue
		gray[i] = uint8(math.Round(
			0.2126*float64(data[4*i+0]) +
				0.7152*float64(data[4*i+1]) +
				0.0722*float64(data[4*i+2])))
	}
	return gray
}

// Grayscale converts any image to the luma buffer pigo works on.
func Grayscale(img image.Image) []uint8 {
	bounds := img.Bounds()
	return RgbaToGrayscale(ImgToPix(img), bounds.Dx(), bounds.Dy())
}
