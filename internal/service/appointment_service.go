package service

import (
	"context"
	"errors"
	"log"
	"time"

	"trainmate/internal/cache"
	"trainmate/internal/domain"
	"trainmate/internal/notify"
	"trainmate/internal/repository"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTimeRange    = errors.New("end time must be after start time")
)

// AppointmentService manages the trainer's calendar.
type AppointmentService interface {
	Create(ctx context.Context, userID uuid.UUID, appointment *domain.Appointment) (*domain.Appointment, error)
	Update(ctx context.Context, userID uuid.UUID, appointment *domain.Appointment) (*domain.Appointment, error)
	Delete(ctx context.Context, userID, appointmentID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, day *time.Time) ([]domain.Appointment, error)
	ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.Appointment, error)
}

type appointmentService struct {
	appointmentRepo repository.AppointmentRepository
	cache           *cache.Store
	notifier        *notify.Service
}

// NewAppointmentService creates a new instance of appointmentService.
func NewAppointmentService(appointmentRepo repository.AppointmentRepository, store *cache.Store, notifier *notify.Service) AppointmentService {
	return &appointmentService{
		appointmentRepo: appointmentRepo,
		cache:           store,
		notifier:        notifier,
	}
}

// Create books an appointment. The time range is validated before any store
// access: an inverted range never reaches the repository.
func (s *appointmentService) Create(ctx context.Context, userID uuid.UUID, appointment *domain.Appointment) (*domain.Appointment, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if !appointment.EndTime.After(appointment.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	appointment.UserID = userID
	if appointment.Status == "" {
		appointment.Status = domain.AppointmentScheduled
	}

	id, err := s.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		log.Printf("ERROR: create appointment for client %s: %v", appointment.ClientID, err)
		s.notifier.Error("Errore", "Impossibile creare l'appuntamento.")
		return nil, err
	}
	appointment.ID = id

	s.invalidate(userID, appointment.ClientID)
	s.notifier.Success(notify.AppointmentCreated, id.String(),
		"Appuntamento creato", "L'appuntamento è stato creato con successo.")
	return appointment, nil
}

// Update rewrites an appointment, with the same time range guard as Create.
func (s *appointmentService) Update(ctx context.Context, userID uuid.UUID, appointment *domain.Appointment) (*domain.Appointment, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if !appointment.EndTime.After(appointment.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	stored, err := s.appointmentRepo.GetByID(ctx, appointment.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if stored.UserID != userID {
		return nil, ErrAppointmentNotFound
	}

	appointment.UserID = userID
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		log.Printf("ERROR: update appointment %s: %v", appointment.ID, err)
		s.notifier.Error("Errore", "Impossibile aggiornare l'appuntamento.")
		return nil, err
	}

	s.invalidate(userID, appointment.ClientID)
	if stored.ClientID != appointment.ClientID {
		s.cache.Invalidate(cache.ClientAppointmentsKey(stored.ClientID))
	}
	s.notifier.Success(notify.AppointmentUpdated, appointment.ID.String(),
		"Appuntamento aggiornato", "L'appuntamento è stato aggiornato con successo.")
	return appointment, nil
}

// Delete cancels an appointment. The row is read first to learn which client
// calendar to invalidate.
func (s *appointmentService) Delete(ctx context.Context, userID, appointmentID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}

	stored, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}

	if err := s.appointmentRepo.Delete(ctx, appointmentID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		log.Printf("ERROR: delete appointment %s: %v", appointmentID, err)
		s.notifier.Error("Errore", "Impossibile eliminare l'appuntamento.")
		return err
	}

	s.invalidate(userID, stored.ClientID)
	cache.RemoveWhere(s.cache, cache.AppointmentsKey(userID),
		func(a domain.Appointment) bool { return a.ID == appointmentID })
	s.notifier.Success(notify.AppointmentDeleted, appointmentID.String(),
		"Appuntamento eliminato", "L'appuntamento è stato eliminato.")
	return nil
}

// List returns the user's appointments, optionally restricted to one day.
// Day-filtered reads skip the cache; only the full calendar is cached.
func (s *appointmentService) List(ctx context.Context, userID uuid.UUID, day *time.Time) ([]domain.Appointment, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if day == nil {
		if value, ok, stale := s.cache.Lookup(cache.AppointmentsKey(userID)); ok && !stale {
			if cached, ok := value.([]domain.Appointment); ok {
				return cached, nil
			}
		}
	}

	appointments, err := s.appointmentRepo.ListByUser(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if day == nil {
		s.cache.Set(cache.AppointmentsKey(userID), appointments)
	}
	return appointments, nil
}

// ListByClient returns one client's appointments.
func (s *appointmentService) ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.Appointment, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if value, ok, stale := s.cache.Lookup(cache.ClientAppointmentsKey(clientID)); ok && !stale {
		if cached, ok := value.([]domain.Appointment); ok {
			return cached, nil
		}
	}

	appointments, err := s.appointmentRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.ClientAppointmentsKey(clientID), appointments)
	return appointments, nil
}

func (s *appointmentService) invalidate(userID, clientID uuid.UUID) {
	s.cache.Invalidate(
		cache.AppointmentsKey(userID),
		cache.ClientAppointmentsKey(clientID),
	)
}
