package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnthropometricRecord is one body-measurement entry for a client.
// Weight is in kg, Height in cm; all measurements are optional.
type AnthropometricRecord struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID          uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Date              time.Time `gorm:"not null" json:"date"`
	Weight            *float64  `json:"weight,omitempty"`
	Height            *float64  `json:"height,omitempty"`
	BodyFatPercentage *float64  `json:"body_fat_percentage,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName keeps the original store's table name.
func (AnthropometricRecord) TableName() string { return "anthropometric_data" }
