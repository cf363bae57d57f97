package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"trainmate/internal/domain"
	"trainmate/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clientRepository implements repository.ClientRepository.
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new Client repository.
func NewClientRepository(db *gorm.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

// Create inserts a new client. The store enforces email uniqueness per user;
// a violation is mapped to ErrDuplicateEmail so callers can report it as a
// validation failure rather than a server fault.
func (r *clientRepository) Create(ctx context.Context, client *domain.Client) (uuid.UUID, error) {
	if client.UserID == uuid.Nil || client.Name == "" || client.Email == "" {
		return uuid.Nil, errors.New("client requires userId, name, and email")
	}
	if client.SessionsRemaining < 0 {
		return uuid.Nil, errors.New("sessions remaining cannot be negative")
	}
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	if client.Status == "" {
		client.Status = domain.ClientStatusActive
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, repository.ErrDuplicateEmail
		}
		return uuid.Nil, err
	}
	return client.ID, nil
}

// GetByID retrieves a single client by its ID.
func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// ListByUser retrieves all clients owned by a user, ordered by name.
func (r *clientRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

// EmailExists reports whether the user already has a client with this email.
func (r *clientRepository) EmailExists(ctx context.Context, userID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Client{}).
		Where("user_id = ? AND email = ?", userID, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update overwrites the client's mutable fields by id.
func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	if client.ID == uuid.Nil {
		return errors.New("client ID is required for update")
	}
	res := r.db.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", client.ID).Updates(map[string]interface{}{
		"name":                client.Name,
		"email":               client.Email,
		"phone":               client.Phone,
		"objective":           client.Objective,
		"notes":               client.Notes,
		"status":              client.Status,
		"sessions_remaining":  client.SessionsRemaining,
		"profile_picture_url": client.ProfilePictureURL,
		"birth_date":          client.BirthDate,
		"updated_at":          time.Now().UTC(),
	})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return repository.ErrDuplicateEmail
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the client row only. Dependent rows are removed beforehand by
// the service's sequential cascade; this must not be called while they exist.
func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Client{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// isUniqueViolation matches the duplicate-key wording of both postgres
// (SQLSTATE 23505) and sqlite, which the tests run on.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		errors.Is(err, gorm.ErrDuplicatedKey)
}
