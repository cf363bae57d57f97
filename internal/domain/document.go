package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClientDocument is metadata for a file stored in object storage (medical
// certificates, contracts...). FileURL holds the storage object key; download
// access goes through presigned URLs.
type ClientDocument struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	FileURL     string    `gorm:"not null" json:"file_url"`
	FileType    string    `gorm:"not null" json:"file_type"`
	FileSize    int64     `gorm:"not null" json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
}
