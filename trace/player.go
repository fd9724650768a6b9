package trace

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/esimov/blinkfade/landmark"
	"github.com/esimov/blinkfade/source"
)

// Player replays a trace. It is both the frame source and the landmark
// provider of a session. Frames are numbered by their position in the
// trace; the seq field of the records is informational only.
type Player struct {
	dir string

	mu      sync.Mutex
	records []Record
	next    int
}

// NewPlayer returns a player over the records. Image paths are resolved
// relative to dir; records without an image yield frames with a nil Image.
func NewPlayer(records []Record, dir string) *Player {
	return &Player{
		dir:     dir,
		records: records,
	}
}

// Open reads a trace file and returns a player for it.
func Open(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed opening the trace: %w", err)
	}
	defer f.Close()

	recs, err := NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	return NewPlayer(recs, filepath.Dir(path)), nil
}

// Len returns the number of frames in the trace.
func (p *Player) Len() int {
	return len(p.records)
}

// Next implements the session frame source.
func (p *Player) Next(ctx context.Context) (source.Frame, error) {
	if err := ctx.Err(); err != nil {
		return source.Frame{}, err
	}

	p.mu.Lock()
	if p.next >= len(p.records) {
		p.mu.Unlock()
		return source.Frame{}, io.EOF
	}
	idx := p.next
	rec := p.records[idx]
	p.next++
	p.mu.Unlock()

	img, err := p.image(idx, rec)
	if err != nil {
		return source.Frame{}, err
	}
	return source.Frame{Seq: uint64(idx), Image: img}, nil
}

// Detect implements the session landmark provider. It returns the landmarks
// of the record the frame was read from.
func (p *Player) Detect(_ context.Context, frame source.Frame) ([]landmark.Point, error) {
	if frame.Seq >= uint64(len(p.records)) {
		return nil, nil
	}
	return p.records[frame.Seq].Points(), nil
}

func (p *Player) image(idx int, rec Record) (image.Image, error) {
	if rec.Image == "" {
		return nil, nil
	}

	path := rec.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", idx, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("frame %d: failed decoding %s: %w", idx, rec.Image, err)
	}
	return img, nil
}
