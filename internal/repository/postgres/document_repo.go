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

// documentRepository implements repository.DocumentRepository. Only metadata
// lives here; file bytes live in object storage under the FileURL key.
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new ClientDocument repository.
func NewDocumentRepository(db *gorm.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.ClientDocument) (uuid.UUID, error) {
	if doc.UserID == uuid.Nil || doc.ClientID == uuid.Nil || doc.Name == "" || doc.FileURL == "" {
		return uuid.Nil, errors.New("document requires userId, clientId, name, and file url")
	}
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return uuid.Nil, err
	}
	return doc.ID, nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDocument, error) {
	var doc domain.ClientDocument
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// ListByClient returns a client's documents, newest first.
func (r *documentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.ClientDocument, error) {
	var docs []domain.ClientDocument
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ClientDocument{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *documentRepository) DeleteByClient(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Delete(&domain.ClientDocument{}).Error
}
