package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 255), G: uint8(y % 255), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeCapture_SmallImagePassesThrough(t *testing.T) {
	out, err := NormalizeCapture(encodePNG(t, 64, 48))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestNormalizeCapture_LargeImageIsBounded(t *testing.T) {
	big := encodePNG(t, 2048, 256)
	out, err := NormalizeCapture(big)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	// recompressed and downscaled, never returned as-is
	assert.NotEqual(t, big, out)
}

func TestNormalizeCapture_RejectsGarbage(t *testing.T) {
	_, err := NormalizeCapture([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrInvalidCapture)

	_, err = NormalizeCapture(nil)
	assert.ErrorIs(t, err, ErrInvalidCapture)
}
