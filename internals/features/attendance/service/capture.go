// file: internals/features/attendance/service/capture.go
package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Webcam captures arrive as whatever the browser produced (usually JPEG or
// PNG). Normalize to a bounded WebP before it travels to the verifier.
const maxCaptureEdge = 1024

var ErrInvalidCapture = errors.New("invalid capture image")

// NormalizeCapture decodes the capture, downscales anything larger than
// maxCaptureEdge and re-encodes as WebP.
func NormalizeCapture(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCapture, err)
	}

	b := img.Bounds()
	if b.Dx() > maxCaptureEdge || b.Dy() > maxCaptureEdge {
		img = imaging.Fit(img, maxCaptureEdge, maxCaptureEdge, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCapture, err)
	}
	return out.Bytes(), nil
}
