package models

import "time"

// MediaKind distinguishes evidence photos from attached documents.
type MediaKind string

const (
	MediaKindPhoto    MediaKind = "photo"
	MediaKindDocument MediaKind = "document"
)

func (k MediaKind) IsValid() bool {
	return k == MediaKindPhoto || k == MediaKindDocument
}

// CaseMedia represents one uploaded file belonging to a case. FilePath is
// relative to the uploads root; the physical file is unlinked when the row
// (or its owning case) is deleted.
type CaseMedia struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID           uint      `gorm:"not null;index" json:"case_id"`
	Kind             MediaKind `gorm:"not null;index" json:"kind"`
	FilePath         string    `gorm:"not null" json:"file_path"`
	OriginalFilename string    `gorm:"not null" json:"original_filename"`
	MimeType         string    `gorm:"not null" json:"mime_type"`
	SizeBytes        int64     `gorm:"not null" json:"size_bytes"`
	Description      string    `json:"description"`
	UploadedAt       time.Time `gorm:"not null" json:"uploaded_at"`

	// only meaningful for photos; at most one photo per case carries the flag
	IsPrimary bool `gorm:"not null;default:false" json:"is_primary"`

	// photo extras filled in during upload processing
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	Width         *int    `json:"width,omitempty"`
	Height        *int    `json:"height,omitempty"`
	TakenAt       *int64  `json:"taken_at,omitempty"` // Unix timestamp from EXIF, if present
}

// TableName explicitly sets the table name for GORM.
func (CaseMedia) TableName() string {
	return "case_media"
}
