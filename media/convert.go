package media

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"
)

// NormalizePhoto re-encodes webp uploads as JPEG before storage; the
// thumbnail and PDF pipelines only read jpeg and png. Other accepted photo
// types pass through untouched. Returns the reader to store, the stored
// MIME type and the stored size.
func NormalizePhoto(data io.Reader, contentType string, size int64) (io.Reader, string, int64, error) {
	if contentType != "image/webp" {
		return data, contentType, size, nil
	}

	img, err := webp.Decode(data)
	if err != nil {
		return nil, "", 0, &ValidationError{Reason: fmt.Sprintf("invalid webp image: %v", err)}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, "", 0, fmt.Errorf("failed to re-encode webp upload: %w", err)
	}
	return &buf, "image/jpeg", int64(buf.Len()), nil
}
