package media

// AssetType names a storage subdirectory for one class of stored file.
type AssetType string

const (
	AssetTypePhoto     AssetType = "photo"
	AssetTypeDocument  AssetType = "document"
	AssetTypeThumbnail AssetType = "thumbnail"
)

// Metadata holds dimension and EXIF information extracted from an uploaded photo.
type Metadata struct {
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
	TakenAt *int64 `json:"taken_at,omitempty"` // Unix timestamp from EXIF DateTimeOriginal
}
