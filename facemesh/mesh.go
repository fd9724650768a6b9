//go:build js && wasm

// Package facemesh bridges the MediaPipe FaceMesh Javascript solution to Go.
package facemesh

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/esimov/blinkfade/landmark"
)

// ErrNotLoaded is returned when the FaceMesh script is not on the page.
var ErrNotLoaded = errors.New("the FaceMesh script is not loaded")

// DefaultCDN hosts the FaceMesh model and wasm files.
const DefaultCDN = "https://cdn.jsdelivr.net/npm/@mediapipe/face_mesh/"

// Options configures the FaceMesh solution.
type Options struct {
	CDN                    string
	RefineLandmarks        bool
	MinDetectionConfidence float64
	MinTrackingConfidence  float64
}

// DefaultOptions returns the options of a single face, refined mesh.
func DefaultOptions() Options {
	return Options{
		CDN:                    DefaultCDN,
		RefineLandmarks:        true,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.5,
	}
}

// Mesh turns the callback based FaceMesh API into a blocking Detect call.
type Mesh struct {
	mesh      js.Value
	locate    js.Func
	onResults js.Func
	onFailure js.Func
	results   chan []landmark.Point
	errs      chan error
}

// New creates the FaceMesh solution. Only one face is ever tracked.
func New(opts Options) (*Mesh, error) {
	ctor := js.Global().Get("FaceMesh")
	if ctor.IsUndefined() {
		return nil, ErrNotLoaded
	}

	m := &Mesh{
		results: make(chan []landmark.Point, 1),
		errs:    make(chan error, 1),
	}
	m.locate = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return opts.CDN + args[0].String()
	})

	cfg := js.Global().Get("Object").New()
	cfg.Set("locateFile", m.locate)
	m.mesh = ctor.New(cfg)

	o := js.Global().Get("Object").New()
	o.Set("maxNumFaces", 1)
	o.Set("refineLandmarks", opts.RefineLandmarks)
	o.Set("minDetectionConfidence", opts.MinDetectionConfidence)
	o.Set("minTrackingConfidence", opts.MinTrackingConfidence)
	m.mesh.Call("setOptions", o)

	m.onResults = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		points := parseResults(args[0])
		// The callback runs on the event loop and must never block.
		select {
		case m.results <- points:
		default:
		}
		return nil
	})
	m.mesh.Call("onResults", m.onResults)

	m.onFailure = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		select {
		case m.errs <- fmt.Errorf("face mesh failed: %s", args[0].Call("toString").String()):
		default:
		}
		return nil
	})

	return m, nil
}

// Detect sends the video frame to FaceMesh and waits for its landmarks. It
// returns nil landmarks when no face was found. It must not be called from
// a Javascript callback.
func (m *Mesh) Detect(ctx context.Context, video js.Value) ([]landmark.Point, error) {
	// Drop what a cancelled call left behind.
	select {
	case <-m.results:
	default:
	}
	select {
	case <-m.errs:
	default:
	}

	input := js.Global().Get("Object").New()
	input.Set("image", video)
	m.mesh.Call("send", input).Call("catch", m.onFailure)

	select {
	case points := <-m.results:
		return points, nil
	case err := <-m.errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases the FaceMesh resources.
func (m *Mesh) Close() {
	m.mesh.Call("close")
	m.onResults.Release()
	m.onFailure.Release()
	m.locate.Release()
}

// parseResults reads the first face of results.multiFaceLandmarks.
func parseResults(results js.Value) []landmark.Point {
	faces := results.Get("multiFaceLandmarks")
	if faces.IsUndefined() || faces.IsNull() || faces.Length() == 0 {
		return nil
	}

	face := faces.Index(0)
	points := make([]landmark.Point, face.Length())
	for i := range points {
		p := face.Index(i)
		points[i] = landmark.Point{X: p.Get("x").Float(), Y: p.Get("y").Float()}
	}
	return points
}
