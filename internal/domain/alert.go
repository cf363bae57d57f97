package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertPriority orders alerts in the UI bell menu.
type AlertPriority string

const (
	AlertPriorityLow    AlertPriority = "low"
	AlertPriorityMedium AlertPriority = "medium"
	AlertPriorityHigh   AlertPriority = "high"
)

// Alert is an in-app notice for the trainer, optionally linked to a client or
// an appointment (e.g. "Mario Rossi has 2 sessions left").
type Alert struct {
	ID                   uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	Message              string        `gorm:"not null" json:"message"`
	Priority             AlertPriority `gorm:"not null" json:"priority"`
	IsRead               bool          `gorm:"not null;default:false" json:"is_read"`
	RelatedClientID      *uuid.UUID    `gorm:"type:uuid;index" json:"related_client_id,omitempty"`
	RelatedAppointmentID *uuid.UUID    `gorm:"type:uuid" json:"related_appointment_id,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
}
