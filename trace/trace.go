// Package trace reads and writes recorded landmark streams as JSON lines.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/esimov/blinkfade/landmark"
)

// Record is one frame of a trace. A nil Landmarks means no face was found.
type Record struct {
	Seq       uint64       `json:"seq"`
	Image     string       `json:"image,omitempty"`
	Landmarks [][2]float64 `json:"landmarks"`
}

// Points converts the record landmarks to points.
func (r Record) Points() []landmark.Point {
	if r.Landmarks == nil {
		return nil
	}
	points := make([]landmark.Point, len(r.Landmarks))
	for i, l := range r.Landmarks {
		points[i] = landmark.Point{X: l[0], Y: l[1]}
	}
	return points
}

// NewRecord builds a record from points.
func NewRecord(seq uint64, points []landmark.Point) Record {
	r := Record{Seq: seq}
	if points == nil {
		return r
	}
	r.Landmarks = make([][2]float64, len(points))
	for i, p := range points {
		r.Landmarks[i] = [2]float64{p.X, p.Y}
	}
	return r
}

// Reader decodes records one line at a time.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader returns a reader over JSON lines. Empty lines are skipped.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	// A refined mesh line is around 20KB.
	s.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &Reader{scanner: s}
}

// Read returns the next record or io.EOF.
func (r *Reader) Read() (Record, error) {
	for r.scanner.Scan() {
		r.line++
		b := r.scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(b, &rec); err != nil {
			return Record{}, fmt.Errorf("trace line %d: %w", r.line, err)
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Record{}, err
	}
	return Record{}, io.EOF
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var recs []Record
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
}

// Writer encodes records as JSON lines.
type Writer struct {
	enc *json.Encoder
}

// NewWriter returns a trace writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	return w.enc.Encode(rec)
}

// Synthesize builds one record per EAR value with a synthetic face; a
// negative value produces a frame without a face.
func Synthesize(ears []float64) []Record {
	recs := make([]Record, len(ears))
	for i, ear := range ears {
		var points []landmark.Point
		if ear >= 0 {
			points = landmark.Synthetic(ear)
		}
		recs[i] = NewRecord(uint64(i), points)
	}
	return recs
}
