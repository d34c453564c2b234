package media

import (
	"bytes"
	"fmt"
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"

	"github.com/alboomhq/alboombackend/apperrors"
)

const (
	ThumbnailFileExtension = ".jpg"
)

// Deriver produces fixed-size gallery thumbnails from raw image bytes. The
// transform is a cover fit: the image fills the target box with aspect ratio
// preserved and overflow cropped, never letterboxed.
type Deriver struct {
	width   int
	height  int
	quality int
}

func NewDeriver(width, height, quality int) *Deriver {
	if width <= 0 {
		width = 400
	}
	if height <= 0 {
		height = 300
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Deriver{width: width, height: height, quality: quality}
}

// Derive decodes the input, crops/resizes it to the target box and
// re-encodes as JPEG. Deterministic for a given input. Returns
// apperrors.ErrUnsupportedImage if the bytes cannot be decoded.
func (d *Deriver) Derive(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnsupportedImage, err)
	}

	thumb := imaging.Fill(img, d.width, d.height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	err = imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(d.quality))
	if err != nil {
		return nil, fmt.Errorf("thumbnail encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}
