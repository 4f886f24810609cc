package models

import "time"

// Source is a catalog entry naming an intelligence source
// (e.g. a hotline, a liaison office, an open-data feed).
type Source struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Source) TableName() string { return "sources" }

// SourceRecord is a timestamped note linking a person to a source. Payload is
// free text; callers may store serialized JSON in it.
type SourceRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PersonID  uint      `gorm:"not null;index" json:"person_id"`
	SourceID  uint      `gorm:"not null;index" json:"source_id"`
	Source    *Source   `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func (SourceRecord) TableName() string { return "source_records" }
