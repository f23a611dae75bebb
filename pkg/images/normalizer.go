package images

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Avatar dimensions after normalization.
const (
	avatarWidth  = 250
	avatarHeight = 250
)

// PNGNormalizer transcodes uploaded images into fixed-size PNGs. Oversized
// images are scaled and center-cropped to fill the target frame.
type PNGNormalizer struct{}

// NewPNGNormalizer creates a new PNGNormalizer.
func NewPNGNormalizer() *PNGNormalizer {
	return &PNGNormalizer{}
}

// Normalize decodes the input, resizes it to 250x250 and re-encodes as PNG.
func (n *PNGNormalizer) Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, avatarWidth, avatarHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
