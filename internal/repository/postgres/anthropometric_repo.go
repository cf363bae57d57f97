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

// anthropometricRepository implements repository.AnthropometricRepository.
type anthropometricRepository struct {
	db *gorm.DB
}

// NewAnthropometricRepository creates a new body-measurement repository.
func NewAnthropometricRepository(db *gorm.DB) repository.AnthropometricRepository {
	return &anthropometricRepository{db: db}
}

func (r *anthropometricRepository) Create(ctx context.Context, record *domain.AnthropometricRecord) (uuid.UUID, error) {
	if record.UserID == uuid.Nil || record.ClientID == uuid.Nil {
		return uuid.Nil, errors.New("record requires userId and clientId")
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	if record.Date.IsZero() {
		record.Date = now
	}
	record.CreatedAt = now

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// ListByClient returns a client's measurements, most recent first.
func (r *anthropometricRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.AnthropometricRecord, error) {
	var records []domain.AnthropometricRecord
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *anthropometricRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.AnthropometricRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *anthropometricRepository) DeleteByClient(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Delete(&domain.AnthropometricRecord{}).Error
}
