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

// alertRepository implements repository.AlertRepository.
type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates a new Alert repository.
func NewAlertRepository(db *gorm.DB) repository.AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *domain.Alert) (uuid.UUID, error) {
	if alert.UserID == uuid.Nil || alert.Message == "" {
		return uuid.Nil, errors.New("alert requires userId and message")
	}
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.Priority == "" {
		alert.Priority = domain.AlertPriorityLow
	}
	alert.CreatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return uuid.Nil, err
	}
	return alert.ID, nil
}

// ListByUser returns the user's alerts, newest first.
func (r *alertRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Alert, error) {
	var alerts []domain.Alert
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&domain.Alert{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread alert of the user as read. Zero matches is
// not an error.
func (r *alertRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Alert{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *alertRepository) DeleteByClient(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("related_client_id = ?", clientID).
		Delete(&domain.Alert{}).Error
}
