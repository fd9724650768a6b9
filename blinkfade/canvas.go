//go:build js && wasm

// Package blinkfade is the browser front end: a full window webcam canvas
// that blurs and fades to black a little more on every blink.
package blinkfade

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"syscall/js"
	"time"

	"github.com/esimov/blinkfade/config"
	"github.com/esimov/blinkfade/detector"
	"github.com/esimov/blinkfade/facemesh"
	"github.com/esimov/blinkfade/landmark"
	"github.com/esimov/blinkfade/logging"
	"github.com/esimov/blinkfade/pixels"
	"github.com/esimov/blinkfade/render"
	"github.com/esimov/blinkfade/session"
	"github.com/esimov/blinkfade/source"
	"github.com/facebookincubator/go-belt/tool/logger"
)

const (
	// gateSize is the width of the frame the face gate runs on.
	gateSize = 320
	// idleDelay is how long detection waits for the camera or after a failure.
	idleDelay = 100 * time.Millisecond
)

// Canvas is the full window drawing surface of the demo together with the
// webcam video it paints and the blink session driving the effect.
type Canvas struct {
	done   chan struct{}
	succCh chan struct{}
	errCh  chan error

	// DOM elements
	window     js.Value
	doc        js.Value
	body       js.Value
	windowSize struct{ width, height int }

	// Canvas properties
	canvas   js.Value
	ctx      js.Value
	gate     js.Value
	ctxGate  js.Value
	out      js.Value
	ctxOut   js.Value
	reqID    js.Value
	renderer js.Func
	resizer  js.Func

	// Webcam properties
	video js.Value

	cfg     *config.Config
	session *session.Session
	mesh    *facemesh.Mesh

	// Go side compositing, used instead of the canvas filter when goRender is set.
	goRender bool
	surface  *render.ImageSurface
}

// NewCanvas appends a window sized canvas to the page and reads the settings
// from the query string.
func NewCanvas() *Canvas {
	var c Canvas
	c.window = js.Global()
	c.doc = c.window.Get("document")
	c.body = c.doc.Get("body")

	c.canvas = c.doc.Call("createElement", "canvas")
	c.canvas.Set("id", "canvas")
	c.body.Call("appendChild", c.canvas)
	c.ctx = c.canvas.Call("getContext", "2d")

	// Offscreen canvas the pixels of the face gate are read from.
	c.gate = c.doc.Call("createElement", "canvas")
	c.ctxGate = c.gate.Call("getContext", "2d", map[string]interface{}{"willReadFrequently": true})
	c.out = c.doc.Call("createElement", "canvas")
	c.ctxOut = c.out.Call("getContext", "2d")

	c.resizer = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.resize()
		return nil
	})
	c.window.Call("addEventListener", "resize", c.resizer)
	c.resize()

	c.cfg = c.loadConfig()
	return &c
}

// resize makes the canvas fill the window.
func (c *Canvas) resize() {
	c.windowSize.width = c.window.Get("innerWidth").Int()
	c.windowSize.height = c.window.Get("innerHeight").Int()
	c.canvas.Set("width", c.windowSize.width)
	c.canvas.Set("height", c.windowSize.height)
}

// loadConfig reads the settings from the page query string,
// e.g. ?variant=gentle&gate=1&renderer=go&blur=gaussian&log=debug.
func (c *Canvas) loadConfig() *config.Config {
	cfg := config.Default()

	u, err := url.Parse(c.window.Get("location").Get("href").String())
	if err != nil {
		return cfg
	}
	q := u.Query()
	if v := q.Get("variant"); v != "" {
		if e, err := config.Variant(v); err == nil {
			cfg.Variant, cfg.Effect = v, e
		} else {
			c.Log(err.Error())
		}
	}
	cfg.Gate.Enabled = q.Get("gate") == "1"
	if v := q.Get("blur"); v != "" {
		cfg.Render.Blur = v
	}
	if v := q.Get("log"); v != "" {
		cfg.LogLevel = v
	}
	c.goRender = q.Get("renderer") == "go"
	return cfg
}

// Render starts the detection stream and the requestAnimationFrame paint
// stream. It blocks until Stop is called.
func (c *Canvas) Render() error {
	// Logrus writes to stderr, which the wasm runtime forwards to the console.
	ctx, err := logging.WithLogger(context.Background(), c.cfg.LogLevel)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.done = make(chan struct{})

	c.session, err = session.New(c.cfg.Effect)
	if err != nil {
		return err
	}
	c.mesh, err = facemesh.New(facemesh.DefaultOptions())
	if err != nil {
		return err
	}
	defer c.mesh.Close()

	if c.goRender {
		blur, err := render.BlurBackend(c.cfg.Render.Blur)
		if err != nil {
			return err
		}
		// Keep the window aspect so stretching the result to the window does not distort it.
		width := c.cfg.Render.Width
		height := width * c.windowSize.height / max(c.windowSize.width, 1)
		c.surface = render.NewImageSurface(width, max(height, 1), blur)
	}

	var provider session.LandmarkProvider = c
	if c.cfg.Gate.Enabled {
		provider, err = c.faceGate(ctx, provider)
		if err != nil {
			return err
		}
	}
	go c.detect(ctx, provider)

	c.renderer = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		c.reqID = c.window.Call("requestAnimationFrame", c.renderer)
		c.paint()
		return nil
	})
	// Release renderer to free up resources.
	defer c.renderer.Release()

	c.window.Call("requestAnimationFrame", c.renderer)
	<-c.done

	return nil
}

// faceGate wraps the provider with the pigo face gate.
func (c *Canvas) faceGate(ctx context.Context, provider session.LandmarkProvider) (session.LandmarkProvider, error) {
	cascade, err := detector.FetchCascade(ctx, c.cfg.Gate.Cascade)
	if err != nil {
		return nil, err
	}
	det := detector.NewDetector()
	det.MinSize, det.MaxSize = 40, gateSize
	if err := det.UnpackCascades(cascade); err != nil {
		return nil, err
	}
	return &detector.Gate{Finder: det, Provider: provider, MinQuality: c.cfg.Gate.MinQuality}, nil
}

// detect pulls frames from the video and feeds their landmarks to the session.
func (c *Canvas) detect(ctx context.Context, provider session.LandmarkProvider) {
	var seq uint64
	for ctx.Err() == nil {
		if c.video.Get("readyState").Int() < 2 {
			time.Sleep(idleDelay)
			continue
		}
		frame := source.Frame{Seq: seq}
		seq++
		if c.cfg.Gate.Enabled {
			frame.Image = c.grabFrame(gateSize)
		}

		landmarks, err := provider.Detect(ctx, frame)
		if err != nil {
			logger.Errorf(ctx, "%v", err)
			c.Log(fmt.Sprint(err))
			time.Sleep(idleDelay)
			continue
		}
		c.session.Evaluate(ctx, landmarks)
	}
}

// Detect implements session.LandmarkProvider on the webcam video element.
func (c *Canvas) Detect(ctx context.Context, _ source.Frame) ([]landmark.Point, error) {
	return c.mesh.Detect(ctx, c.video)
}

// grabFrame copies the video frame, scaled to the given width, into a Go image.
func (c *Canvas) grabFrame(width int) image.Image {
	vw, vh := c.video.Get("videoWidth").Int(), c.video.Get("videoHeight").Int()
	if vw == 0 || vh == 0 {
		return nil
	}
	height := width * vh / vw
	c.gate.Set("width", width)
	c.gate.Set("height", height)
	c.ctxGate.Call("drawImage", c.video, 0, 0, width, height)

	data := make([]byte, width*height*4)
	rgba := c.ctxGate.Call("getImageData", 0, 0, width, height).Get("data")
	// Convert the rgba value of type Uint8ClampedArray to Uint8Array in order to
	// be able to transfer it from Javascript to Go via the js.CopyBytesToGo function.
	uint8Arr := js.Global().Get("Uint8Array").New(rgba)
	js.CopyBytesToGo(data, uint8Arr)

	return pixels.PixToImage(data, image.Rect(0, 0, width, height))
}

// paint draws the latest video frame with the current blur and fade.
func (c *Canvas) paint() {
	if c.video.Get("readyState").Int() < 2 {
		return
	}
	if c.goRender {
		if err := c.paintGo(); err != nil {
			c.Log(fmt.Sprint(err))
		}
		return
	}

	vw, vh := c.video.Get("videoWidth").Int(), c.video.Get("videoHeight").Int()
	dst := image.Rect(0, 0, c.windowSize.width, c.windowSize.height)
	r := render.Cover(image.Rect(0, 0, vw, vh), dst)

	c.ctx.Set("filter", fmt.Sprintf("blur(%dpx)", c.session.BlurRadius()))
	c.ctx.Call("drawImage", c.video, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	c.ctx.Set("filter", "none")

	c.ctx.Set("fillStyle", fmt.Sprintf("rgba(0,0,0,%.3f)", c.session.Opacity()))
	c.ctx.Call("fillRect", 0, 0, dst.Dx(), dst.Dy())
}

// paintGo composites the frame in Go and puts the result on the canvas,
// stretched to the window by the browser.
func (c *Canvas) paintGo() error {
	frame := c.grabFrame(c.cfg.Render.Width)
	if frame == nil {
		return nil
	}
	if err := render.Paint(c.surface, frame, c.session.BlurRadius(), c.session.Opacity()); err != nil {
		return err
	}

	img := c.surface.Image()
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	uint8Arr := js.Global().Get("Uint8Array").New(width * height * 4)
	js.CopyBytesToJS(uint8Arr, pixels.ImgToPix(img))

	uint8Clamped := js.Global().Get("Uint8ClampedArray").New(uint8Arr)
	rawData := js.Global().Get("ImageData").New(uint8Clamped, width, height)

	c.out.Set("width", width)
	c.out.Set("height", height)
	c.ctxOut.Call("putImageData", rawData, 0, 0)
	c.ctx.Call("drawImage", c.out, 0, 0, c.windowSize.width, c.windowSize.height)
	return nil
}

// Stop cancels the pending animation frame and unblocks Render.
func (c *Canvas) Stop() {
	c.window.Call("cancelAnimationFrame", c.reqID)
	c.window.Call("removeEventListener", "resize", c.resizer)
	c.done <- struct{}{}
	close(c.done)
}

// StartWebcam asks for camera access and starts playing the stream into a
// hidden video element. It blocks until the user grants or denies access.
func (c *Canvas) StartWebcam() (*Canvas, error) {
	var err error
	c.succCh = make(chan struct{})
	c.errCh = make(chan error)

	c.video = c.doc.Call("createElement", "video")

	// Autoplay and inline playback keep mobile browsers from pausing the stream.
	c.video.Set("autoplay", 1)
	c.video.Set("playsinline", 1)
	c.video.Set("muted", true)

	// The video is only a source; the canvas shows it.
	c.video.Set("width", 0)
	c.video.Set("height", 0)

	c.body.Call("appendChild", c.video)

	success := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		go func() {
			c.video.Set("srcObject", args[0])
			c.video.Call("play")
			c.succCh <- struct{}{}
		}()
		return nil
	})

	failure := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		go func() {
			err = fmt.Errorf("failed initialising the camera: %s", args[0].String())
			c.errCh <- err
		}()
		return nil
	})

	opts := js.Global().Get("Object").New()

	videoSize := js.Global().Get("Object").New()
	videoSize.Set("width", c.cfg.Render.Width)
	videoSize.Set("height", c.cfg.Render.Height)

	opts.Set("video", videoSize)
	opts.Set("audio", false)

	promise := c.window.Get("navigator").Get("mediaDevices").Call("getUserMedia", opts)
	promise.Call("then", success, failure)

	select {
	case <-c.succCh:
		return c, nil
	case err := <-c.errCh:
		return nil, err
	}
}

// Log writes to the browser console.
func (c *Canvas) Log(args ...interface{}) {
	c.window.Get("console").Call("log", args...)
}

// Alert shows a blocking message box.
func (c *Canvas) Alert(args ...interface{}) {
	alert := c.window.Get("alert")
	alert.Invoke(args...)
}
