package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// GenerateThumbnail loads the stored photo and produces a JPEG thumbnail
// bounded by maxSize on its longest side, saved through the store under the
// thumbnail asset directory. Returns the thumbnail's relative path.
func GenerateThumbnail(store Store, photoRelativePath, relativeDirHint string, maxSize int) (string, error) {
	fullPath, err := store.GetFullPath(photoRelativePath)
	if err != nil {
		return "", err
	}

	img, err := imaging.Open(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to open photo %s: %w", photoRelativePath, err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail for %s: %w", photoRelativePath, err)
	}

	relPath, err := store.Save(AssetTypeThumbnail, relativeDirHint, "", ".jpg", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to save thumbnail for %s: %w", photoRelativePath, err)
	}
	return relPath, nil
}
