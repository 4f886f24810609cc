package media

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
)

// GetPhotoMetadata extracts dimensions and, when EXIF data is present, the
// capture timestamp of an uploaded photo. A photo without EXIF data is not an
// error; the returned metadata just carries fewer fields.
func GetPhotoMetadata(filePath string) (*Metadata, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	meta := &Metadata{}

	config, _, err := image.DecodeConfig(file)
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width = &w
		meta.Height = &h
	}

	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("metadata: failed to seek file %s: %w", filePath, err)
	}

	exifData, err := exif.Decode(file)
	if err != nil {
		// file simply lacks EXIF data; keep whatever dimensions we decoded
		return meta, nil
	}

	if dt, err := exifData.DateTime(); err == nil {
		ts := dt.Unix()
		meta.TakenAt = &ts
	}

	return meta, nil
}
