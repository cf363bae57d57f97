package service

import (
	"context"
	"errors"

	"trainmate/internal/cache"
	"trainmate/internal/domain"
	"trainmate/internal/repository"

	"github.com/google/uuid"
)

var ErrAlertNotFound = errors.New("alert not found")

// AlertService exposes the trainer's alert feed.
type AlertService interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.Alert, error)
	MarkRead(ctx context.Context, userID, alertID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type alertService struct {
	alertRepo repository.AlertRepository
	cache     *cache.Store
}

// NewAlertService creates a new instance of alertService.
func NewAlertService(alertRepo repository.AlertRepository, store *cache.Store) AlertService {
	return &alertService{alertRepo: alertRepo, cache: store}
}

// List returns the user's alerts, newest first.
func (s *alertService) List(ctx context.Context, userID uuid.UUID) ([]domain.Alert, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if value, ok, stale := s.cache.Lookup(cache.AlertsKey(userID)); ok && !stale {
		if cached, ok := value.([]domain.Alert); ok {
			return cached, nil
		}
	}

	alerts, err := s.alertRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cache.AlertsKey(userID), alerts)
	return alerts, nil
}

// MarkRead marks one alert as read.
func (s *alertService) MarkRead(ctx context.Context, userID, alertID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}
	if err := s.alertRepo.MarkRead(ctx, alertID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	s.cache.Invalidate(cache.AlertsKey(userID))
	return nil
}

// MarkAllRead marks every alert of the user as read.
func (s *alertService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}
	if err := s.alertRepo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.cache.Invalidate(cache.AlertsKey(userID))
	return nil
}
