package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"

	"trainmate/internal/domain"
	"trainmate/internal/repository"
	"trainmate/internal/storage"

	"github.com/google/uuid"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentService manages client document metadata and the presigned URL
// handshake with object storage. Bytes never pass through the server: the
// browser uploads and downloads directly against the storage provider.
type DocumentService interface {
	// RequestUpload reserves an object key and returns the presigned PUT URL
	// the caller uploads to, together with the key to confirm with.
	RequestUpload(ctx context.Context, userID, clientID uuid.UUID, filename, contentType string) (uploadURL, objectKey string, err error)
	// Confirm records the metadata row after a successful upload.
	Confirm(ctx context.Context, userID uuid.UUID, doc *domain.ClientDocument) (*domain.ClientDocument, error)
	ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.ClientDocument, error)
	DownloadURL(ctx context.Context, userID, documentID uuid.UUID) (string, error)
	Delete(ctx context.Context, userID, documentID uuid.UUID) error
}

type documentService struct {
	documentRepo repository.DocumentRepository
	fileStorage  storage.FileStorage
}

// NewDocumentService creates a new instance of documentService.
func NewDocumentService(documentRepo repository.DocumentRepository, fileStorage storage.FileStorage) DocumentService {
	return &documentService{documentRepo: documentRepo, fileStorage: fileStorage}
}

func (s *documentService) RequestUpload(ctx context.Context, userID, clientID uuid.UUID, filename, contentType string) (string, string, error) {
	if userID == uuid.Nil {
		return "", "", ErrUnauthenticated
	}
	if filename == "" {
		return "", "", errors.New("filename cannot be empty")
	}

	// The uuid prefix keeps two uploads of the same filename from clobbering
	// each other.
	objectKey := fmt.Sprintf("clients/%s/documents/%s-%s", clientID, uuid.New(), path.Base(filename))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		log.Printf("ERROR: presign upload for client %s: %v", clientID, err)
		return "", "", err
	}
	return uploadURL, objectKey, nil
}

func (s *documentService) Confirm(ctx context.Context, userID uuid.UUID, doc *domain.ClientDocument) (*domain.ClientDocument, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if doc.FileURL == "" {
		return nil, errors.New("object key cannot be empty")
	}

	doc.UserID = userID
	id, err := s.documentRepo.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = id
	return doc, nil
}

func (s *documentService) ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.ClientDocument, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	return s.documentRepo.ListByClient(ctx, clientID)
}

func (s *documentService) DownloadURL(ctx context.Context, userID, documentID uuid.UUID) (string, error) {
	doc, err := s.get(ctx, userID, documentID)
	if err != nil {
		return "", err
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, doc.FileURL, storage.DefaultPresignedURLExpiry)
}

// Delete removes the stored object first, then the metadata row. A missing
// object is tolerated; a dangling metadata row is not.
func (s *documentService) Delete(ctx context.Context, userID, documentID uuid.UUID) error {
	doc, err := s.get(ctx, userID, documentID)
	if err != nil {
		return err
	}

	if err := s.fileStorage.DeleteObject(ctx, doc.FileURL); err != nil {
		log.Printf("WARN: delete object %s: %v", doc.FileURL, err)
	}
	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	return nil
}

func (s *documentService) get(ctx context.Context, userID, documentID uuid.UUID) (*domain.ClientDocument, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if doc.UserID != userID {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}
