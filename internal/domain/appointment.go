package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus tracks the lifecycle of a booked session.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a calendar entry for a client. EndTime must be strictly after
// StartTime; the service layer rejects anything else before touching the store.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	ClientID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"client_id"`
	Title     string            `gorm:"not null" json:"title"`
	StartTime time.Time         `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time         `gorm:"not null" json:"end_time"`
	Notes     string            `json:"notes,omitempty"`
	Status    AppointmentStatus `gorm:"not null;default:scheduled" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
