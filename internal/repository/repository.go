package repository

import (
	"context"
	"time"

	"trainmate/internal/domain"

	"github.com/google/uuid"
)

// Error constants for the repository layer.
var (
	ErrNotFound       = RepositoryError("not found")
	ErrDuplicateEmail = RepositoryError("duplicate email")
	ErrUpdateFailed   = RepositoryError("update failed")
	ErrDeleteFailed   = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with trainer accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ClientRepository defines the interface for interacting with client data.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Client, error)
	EmailExists(ctx context.Context, userID uuid.UUID, email string) (bool, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TrainingPlanRepository translates a composed plan (with nested groups and
// exercises) into the flat relational operations needed to persist it, and
// assembles the composed shape back on read.
type TrainingPlanRepository interface {
	// Create inserts the plan row, then its groups and exercises. Legacy flat
	// input is folded into a single default group. No compensation happens on
	// partial failure: a later insert failing can leave a childless plan.
	Create(ctx context.Context, plan *domain.TrainingPlan) (*domain.TrainingPlan, error)
	// Update rewrites the plan scalars and reconciles groups and exercises
	// against storage by id, rewriting every order from array position.
	Update(ctx context.Context, plan *domain.TrainingPlan) (*domain.TrainingPlan, error)
	// Delete removes the plan row and relies on store-level cascade for its
	// groups and exercises.
	Delete(ctx context.Context, id uuid.UUID) error
	// GetByID returns the plan with its groups (ordered) and their exercises
	// (ordered). A groupless plan falls back to its ungrouped legacy exercises.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingPlan, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TrainingPlan, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.TrainingPlan, error)
	// SetExerciseCompleted flips one exercise's completed flag and returns the
	// owning plan id so callers can invalidate their caches. The write is
	// scoped to plans owned by userID.
	SetExerciseCompleted(ctx context.Context, exerciseID, userID uuid.UUID, completed bool) (uuid.UUID, error)
	// DeleteByClient removes every plan of a client together with its groups
	// and exercises, as explicit sequential deletes (application-level cascade).
	DeleteByClient(ctx context.Context, clientID uuid.UUID) error
}

// AppointmentRepository defines the interface for interacting with appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	// ListByUser returns the user's appointments ordered by start time.
	// A non-nil day restricts results to appointments starting that day.
	ListByUser(ctx context.Context, userID uuid.UUID, day *time.Time) ([]domain.Appointment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Appointment, error)
	Update(ctx context.Context, appointment *domain.Appointment) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	DeleteByClient(ctx context.Context, clientID uuid.UUID) error
}

// AnthropometricRepository defines the interface for body-measurement records.
type AnthropometricRepository interface {
	Create(ctx context.Context, record *domain.AnthropometricRecord) (uuid.UUID, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.AnthropometricRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByClient(ctx context.Context, clientID uuid.UUID) error
}

// DocumentRepository defines the interface for client document metadata.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.ClientDocument) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDocument, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.ClientDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByClient(ctx context.Context, clientID uuid.UUID) error
}

// AlertRepository defines the interface for trainer alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.Alert) (uuid.UUID, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Alert, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	DeleteByClient(ctx context.Context, clientID uuid.UUID) error
}
