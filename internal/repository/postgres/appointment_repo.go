package postgres

import (
	"context"
	"errors"
	"time"

	"trainmate/internal/domain"
	"trainmate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// appointmentRepository implements repository.AppointmentRepository.
type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new Appointment repository.
func NewAppointmentRepository(db *gorm.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create inserts a new appointment. Time-range validation happens in the
// service layer before this is reached.
func (r *appointmentRepository) Create(ctx context.Context, appointment *domain.Appointment) (uuid.UUID, error) {
	if appointment.UserID == uuid.Nil || appointment.ClientID == uuid.Nil || appointment.Title == "" {
		return uuid.Nil, errors.New("appointment requires userId, clientId, and title")
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	if appointment.Status == "" {
		appointment.Status = domain.AppointmentScheduled
	}
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return uuid.Nil, err
	}
	return appointment.ID, nil
}

// GetByID retrieves a single appointment by its ID.
func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	var appointment domain.Appointment
	if err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// ListByUser retrieves the user's appointments ordered by start time,
// optionally restricted to those starting on a given day.
func (r *appointmentRepository) ListByUser(ctx context.Context, userID uuid.UUID, day *time.Time) ([]domain.Appointment, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time ASC")
	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.Add(24 * time.Hour)
		query = query.Where("start_time >= ? AND start_time < ?", start, end)
	}

	var appointments []domain.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// ListByClient retrieves a client's appointments, most recent first.
func (r *appointmentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("start_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Update overwrites the appointment's mutable fields by id.
func (r *appointmentRepository) Update(ctx context.Context, appointment *domain.Appointment) error {
	if appointment.ID == uuid.Nil {
		return errors.New("appointment ID is required for update")
	}
	res := r.db.WithContext(ctx).Model(&domain.Appointment{}).Where("id = ?", appointment.ID).Updates(map[string]interface{}{
		"client_id":  appointment.ClientID,
		"title":      appointment.Title,
		"start_time": appointment.StartTime,
		"end_time":   appointment.EndTime,
		"notes":      appointment.Notes,
		"status":     appointment.Status,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an appointment. The user filter enforces ownership: deleting
// someone else's appointment reports not found rather than succeeding.
func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByClient removes all appointments of a client. Zero rows is a no-op,
// not a failure.
func (r *appointmentRepository) DeleteByClient(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Delete(&domain.Appointment{}).Error
}
