package detector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCascade(t *testing.T) {
	cascade := []byte{0x01, 0x02, 0x03}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/facefinder" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(cascade)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "facefinder")
	require.NoError(t, os.WriteFile(path, cascade, 0o644))

	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		b, err := LoadCascade(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, cascade, b)
	})
	t.Run("url", func(t *testing.T) {
		b, err := LoadCascade(ctx, srv.URL+"/facefinder")
		require.NoError(t, err)
		assert.Equal(t, cascade, b)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCascade(ctx, filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("not found", func(t *testing.T) {
		_, err := LoadCascade(ctx, srv.URL+"/other")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}

const facefinderURL = "https://raw.githubusercontent.com/esimov/pigo/master/cascade/facefinder"

// TestDetectFacesWithCascade runs the real facefinder cascade. The cascade is
// read from BLINKFADE_FACE_CASCADE, or downloaded when that is unset.
func TestDetectFacesWithCascade(t *testing.T) {
	if testing.Short() {
		t.Skip("needs the facefinder cascade")
	}

	location := os.Getenv("BLINKFADE_FACE_CASCADE")
	if location == "" {
		location = facefinderURL
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cascade, err := LoadCascade(ctx, location)
	if err != nil {
		t.Skipf("facefinder cascade unavailable: %v", err)
	}

	d := NewDetector()
	d.MinSize, d.MaxSize = 20, 64
	require.NoError(t, d.UnpackCascades(cascade))

	// A flat frame holds no face.
	gray := make([]uint8, 64*64)
	for i := range gray {
		gray[i] = 128
	}
	dets, err := d.DetectFaces(gray, 64, 64)
	require.NoError(t, err)
	_, ok := Best(dets, 5)
	assert.False(t, ok)
}
