package service

import (
	"context"
	"errors"

	"trainmate/internal/domain"
	"trainmate/internal/repository"

	"github.com/google/uuid"
)

var ErrRecordNotFound = errors.New("anthropometric record not found")

// AnthropometricService manages client body-measurement history.
type AnthropometricService interface {
	Create(ctx context.Context, userID uuid.UUID, record *domain.AnthropometricRecord) (*domain.AnthropometricRecord, error)
	ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.AnthropometricRecord, error)
	Delete(ctx context.Context, userID, recordID uuid.UUID) error
}

type anthropometricService struct {
	anthroRepo repository.AnthropometricRepository
}

// NewAnthropometricService creates a new instance of anthropometricService.
func NewAnthropometricService(anthroRepo repository.AnthropometricRepository) AnthropometricService {
	return &anthropometricService{anthroRepo: anthroRepo}
}

func (s *anthropometricService) Create(ctx context.Context, userID uuid.UUID, record *domain.AnthropometricRecord) (*domain.AnthropometricRecord, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	record.UserID = userID
	id, err := s.anthroRepo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id
	return record, nil
}

func (s *anthropometricService) ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.AnthropometricRecord, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	return s.anthroRepo.ListByClient(ctx, clientID)
}

func (s *anthropometricService) Delete(ctx context.Context, userID, recordID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}
	if err := s.anthroRepo.Delete(ctx, recordID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}
