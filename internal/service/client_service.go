package service

import (
	"context"
	"errors"
	"fmt"
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
	ErrClientNotFound       = errors.New("client not found")
	ErrClientAccessDenied   = errors.New("client does not belong to this user")
	ErrDuplicateClientEmail = errors.New("a client with this email already exists")
)

// Clients with this many sessions or fewer get a low-sessions alert.
const lowSessionsThreshold = 2

// ClientService manages the trainer's client roster. Deleting a client is an
// application-level cascade: every dependent record is removed in sequence
// before the client row itself.
type ClientService interface {
	Create(ctx context.Context, userID uuid.UUID, client *domain.Client) (*domain.Client, error)
	Get(ctx context.Context, userID, clientID uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Client, error)
	Update(ctx context.Context, userID uuid.UUID, client *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, userID, clientID uuid.UUID) error
}

type clientService struct {
	clientRepo      repository.ClientRepository
	planRepo        repository.TrainingPlanRepository
	appointmentRepo repository.AppointmentRepository
	anthroRepo      repository.AnthropometricRepository
	documentRepo    repository.DocumentRepository
	alertRepo       repository.AlertRepository
	cache           *cache.Store
	notifier        *notify.Service
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	clientRepo repository.ClientRepository,
	planRepo repository.TrainingPlanRepository,
	appointmentRepo repository.AppointmentRepository,
	anthroRepo repository.AnthropometricRepository,
	documentRepo repository.DocumentRepository,
	alertRepo repository.AlertRepository,
	store *cache.Store,
	notifier *notify.Service,
) ClientService {
	return &clientService{
		clientRepo:      clientRepo,
		planRepo:        planRepo,
		appointmentRepo: appointmentRepo,
		anthroRepo:      anthroRepo,
		documentRepo:    documentRepo,
		alertRepo:       alertRepo,
		cache:           store,
		notifier:        notifier,
	}
}

// Create adds a client after checking the email is not already in use by this
// trainer. The duplicate check runs before the insert so the common case fails
// without touching the write path.
func (s *clientService) Create(ctx context.Context, userID uuid.UUID, client *domain.Client) (*domain.Client, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	exists, err := s.clientRepo.EmailExists(ctx, userID, client.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateClientEmail
	}

	client.UserID = userID
	if client.Status == "" {
		client.Status = domain.ClientStatusActive
	}

	clientID, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateClientEmail
		}
		log.Printf("ERROR: create client for user %s: %v", userID, err)
		s.notifier.Error("Errore", "Impossibile creare il cliente.")
		return nil, err
	}
	client.ID = clientID

	s.cache.Invalidate(cache.ClientsKey(userID))
	s.notifier.Success(notify.ClientCreated, clientID.String(),
		"Cliente creato", fmt.Sprintf("%s è stato aggiunto con successo.", client.Name))

	s.maybeLowSessionsAlert(ctx, client)
	return client, nil
}

// Get returns a single client, serving a fresh cached copy when one exists.
func (s *clientService) Get(ctx context.Context, userID, clientID uuid.UUID) (*domain.Client, error) {
	if value, ok, stale := s.cache.Lookup(cache.ClientKey(clientID)); ok && !stale {
		if cached, ok := value.(domain.Client); ok && cached.UserID == userID {
			return &cached, nil
		}
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.UserID != userID {
		return nil, ErrClientAccessDenied
	}
	s.cache.Set(cache.ClientKey(client.ID), *client)
	return client, nil
}

// List returns the trainer's clients, most recently created first.
func (s *clientService) List(ctx context.Context, userID uuid.UUID) ([]domain.Client, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if value, ok, stale := s.cache.Lookup(cache.ClientsKey(userID)); ok && !stale {
		if cached, ok := value.([]domain.Client); ok {
			return cached, nil
		}
	}

	clients, err := s.clientRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.ClientsKey(userID), clients)
	return clients, nil
}

// Update rewrites a client and invalidates every view that could show it: the
// roster, the single-client view, and the client's per-entity sublists.
func (s *clientService) Update(ctx context.Context, userID uuid.UUID, client *domain.Client) (*domain.Client, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	stored, err := s.clientRepo.GetByID(ctx, client.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if stored.UserID != userID {
		return nil, ErrClientAccessDenied
	}

	client.UserID = userID
	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateClientEmail
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		log.Printf("ERROR: update client %s: %v", client.ID, err)
		s.notifier.Error("Errore", "Impossibile aggiornare il cliente.")
		return nil, err
	}

	s.cache.Invalidate(
		cache.ClientsKey(userID),
		cache.ClientKey(client.ID),
		cache.ClientTrainingPlansKey(client.ID),
		cache.ClientAppointmentsKey(client.ID),
	)
	s.notifier.Success(notify.ClientUpdated, client.ID.String(),
		"Cliente aggiornato", fmt.Sprintf("%s è stato aggiornato con successo.", client.Name))

	s.maybeLowSessionsAlert(ctx, client)
	return client, nil
}

// Delete removes a client and everything attached to it. The dependents go
// first so a failure partway through never leaves orphans pointing at a
// missing client: alerts, appointments, training plans (with their groups and
// exercises), anthropometric records, documents, then the client row.
func (s *clientService) Delete(ctx context.Context, userID, clientID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}

	stored, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if stored.UserID != userID {
		return ErrClientAccessDenied
	}

	steps := []struct {
		name string
		fn   func(context.Context, uuid.UUID) error
	}{
		{"alerts", s.alertRepo.DeleteByClient},
		{"appointments", s.appointmentRepo.DeleteByClient},
		{"training plans", s.planRepo.DeleteByClient},
		{"anthropometric records", s.anthroRepo.DeleteByClient},
		{"documents", s.documentRepo.DeleteByClient},
	}
	for _, step := range steps {
		if err := step.fn(ctx, clientID); err != nil {
			log.Printf("ERROR: delete %s of client %s: %v", step.name, clientID, err)
			s.notifier.Error("Errore", "Impossibile eliminare il cliente.")
			return fmt.Errorf("delete %s: %w", step.name, err)
		}
	}

	if err := s.clientRepo.Delete(ctx, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		log.Printf("ERROR: delete client %s: %v", clientID, err)
		s.notifier.Error("Errore", "Impossibile eliminare il cliente.")
		return err
	}

	s.cache.Invalidate(
		cache.ClientsKey(userID),
		cache.AppointmentsKey(userID),
		cache.TrainingPlansKey(userID),
		cache.AlertsKey(userID),
	)
	match := func(c domain.Client) bool { return c.ID == clientID }
	cache.RemoveWhere(s.cache, cache.ClientsKey(userID), match)
	s.cache.Remove(cache.ClientKey(clientID))
	s.cache.Remove(cache.ClientTrainingPlansKey(clientID))
	s.cache.Remove(cache.ClientAppointmentsKey(clientID))

	s.notifier.Success(notify.ClientDeleted, clientID.String(),
		"Cliente eliminato", fmt.Sprintf("%s e tutti i suoi dati sono stati eliminati.", stored.Name))
	return nil
}

// maybeLowSessionsAlert raises an alert when an active client is running out
// of paid sessions. Failures are logged and swallowed: the alert is advisory
// and must never fail the mutation that triggered it.
func (s *clientService) maybeLowSessionsAlert(ctx context.Context, client *domain.Client) {
	if client.Status != domain.ClientStatusActive || client.SessionsRemaining > lowSessionsThreshold {
		return
	}

	priority := domain.AlertPriorityMedium
	message := fmt.Sprintf("%s ha solo %d sessioni rimanenti.", client.Name, client.SessionsRemaining)
	if client.SessionsRemaining <= 0 {
		priority = domain.AlertPriorityHigh
		message = fmt.Sprintf("%s ha esaurito le sessioni.", client.Name)
	}

	relatedID := client.ID
	alert := &domain.Alert{
		UserID:          client.UserID,
		Message:         message,
		Priority:        priority,
		RelatedClientID: &relatedID,
		CreatedAt:       time.Now(),
	}
	if _, err := s.alertRepo.Create(ctx, alert); err != nil {
		log.Printf("WARN: low sessions alert for client %s: %v", client.ID, err)
		return
	}
	s.cache.Invalidate(cache.AlertsKey(client.UserID))
}
