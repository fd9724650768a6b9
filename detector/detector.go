// Package detector wraps the pigo face detector.
package detector

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/esimov/blinkfade/pixels"
	pigo "github.com/esimov/pigo/core"
	"github.com/facebookincubator/go-belt/tool/logger"
)

// ErrNotUnpacked is returned when detection runs before the cascade is unpacked.
var ErrNotUnpacked = errors.New("the face cascade is not unpacked")

// Detector holds the unpacked pigo face classifier.
type Detector struct {
	classifier *pigo.Pigo

	MinSize     int
	MaxSize     int
	ShiftFactor float64
	ScaleFactor float64
	IoU         float64
}

// NewDetector returns a detector with the parameters used for webcam frames.
func NewDetector() *Detector {
	return &Detector{
		MinSize:     100,
		MaxSize:     600,
		ShiftFactor: 0.15,
		ScaleFactor: 1.1,
		IoU:         0.2,
	}
}

// UnpackCascades unpacks the binary facefinder cascade.
func (d *Detector) UnpackCascades(faceCascade []byte) error {
	p := pigo.NewPigo()
	classifier, err := p.Unpack(faceCascade)
	if err != nil {
		return fmt.Errorf("failed unpacking the face cascade: %w", err)
	}
	d.classifier = classifier
	return nil
}

// LoadCascade reads the cascade from a file path or fetches it from an http(s) URL.
func LoadCascade(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return FetchCascade(ctx, location)
	}
	return ReadCascade(location)
}

// ReadCascade reads the cascade file from disk.
func ReadCascade(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading the cascade file: %w", err)
	}
	return b, nil
}

// FetchCascade downloads the cascade file.
func FetchCascade(ctx context.Context, url string) ([]byte, error) {
	logger.Debugf(ctx, "fetching the cascade from %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed fetching the cascade: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed fetching the cascade: %s", resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading the cascade: %w", err)
	}
	return b, nil
}

// DetectFaces runs the classifier over a grayscale buffer and clusters the results.
func (d *Detector) DetectFaces(gray []uint8, rows, cols int) ([]pigo.Detection, error) {
	if d.classifier == nil {
		return nil, ErrNotUnpacked
	}

	cParams := pigo.CascadeParams{
		MinSize:     d.MinSize,
		MaxSize:     d.MaxSize,
		ShiftFactor: d.ShiftFactor,
		ScaleFactor: d.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: gray,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	dets := d.classifier.RunCascade(cParams, 0.0)
	// Calculate the intersection over union (IoU) of two clusters.
	return d.classifier.ClusterDetections(dets, d.IoU), nil
}

// DetectImage converts the image to grayscale and detects the faces on it.
func (d *Detector) DetectImage(img image.Image) ([]pigo.Detection, error) {
	bounds := img.Bounds()
	return d.DetectFaces(pixels.Grayscale(img), bounds.Dy(), bounds.Dx())
}

// Best returns the detection with the highest quality, if it reaches minQuality.
func Best(dets []pigo.Detection, minQuality float32) (pigo.Detection, bool) {
	var (
		best  pigo.Detection
		found bool
	)
	for _, det := range dets {
		if det.Q < minQuality {
			continue
		}
		if !found || det.Q > best.Q {
			best, found = det, true
		}
	}
	return best, found
}
