package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClientStatus marks whether a client is currently training with the user.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// Client is a person coached by a trainer. Email is unique per owning user,
// not globally: two trainers may both coach mario@example.com.
type Client struct {
	ID                uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_clients_user_email" json:"user_id"`
	Name              string       `gorm:"not null" json:"name"`
	Email             string       `gorm:"not null;uniqueIndex:idx_clients_user_email" json:"email"`
	Phone             string       `json:"phone,omitempty"`
	Objective         string       `json:"objective,omitempty"`
	Notes             string       `json:"notes,omitempty"`
	Status            ClientStatus `gorm:"not null;default:active" json:"status"`
	SessionsRemaining int          `gorm:"not null;default:0" json:"sessions_remaining"`
	ProfilePictureURL string       `json:"profile_picture_url,omitempty"`
	BirthDate         *time.Time   `json:"birth_date,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}
