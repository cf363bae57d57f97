package api

import (
	"errors"
	"fmt"
	"net/http"

	"trainmate/internal/domain"
	"trainmate/internal/service"

	"github.com/gin-gonic/gin"
)

// DocumentHandler holds the document service dependency.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// --- Request Structs ---

type UploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

type ConfirmUploadRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ObjectKey   string `json:"object_key" binding:"required"`
	FileType    string `json:"file_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
}

// --- Handler Methods ---

// RequestUpload returns a presigned PUT URL for a direct-to-storage upload.
func (h *DocumentHandler) RequestUpload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	uploadURL, objectKey, err := h.documentService.RequestUpload(c.Request.Context(), userID, clientID, req.Filename, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to prepare upload")
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload_url": uploadURL, "object_key": objectKey})
}

// ConfirmUpload records the document metadata after a successful upload.
func (h *DocumentHandler) ConfirmUpload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	doc := &domain.ClientDocument{
		ClientID:    clientID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		FileURL:     req.ObjectKey,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
	}
	created, err := h.documentService.Confirm(c.Request.Context(), userID, doc)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save document")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetClientDocuments lists one client's documents.
func (h *DocumentHandler) GetClientDocuments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	docs, err := h.documentService.ListByClient(c.Request.Context(), userID, clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve documents")
		return
	}
	if docs == nil {
		docs = []domain.ClientDocument{}
	}
	c.JSON(http.StatusOK, docs)
}

// GetDocumentDownloadURL returns a presigned GET URL for one document.
func (h *DocumentHandler) GetDocumentDownloadURL(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "documentId")
	if !ok {
		return
	}

	url, err := h.documentService.DownloadURL(c.Request.Context(), userID, documentID)
	if err != nil {
		h.handleDocumentError(c, err, "Failed to generate download URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// DeleteDocument removes a document and its stored object.
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "documentId")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), userID, documentID); err != nil {
		h.handleDocumentError(c, err, "Failed to delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DocumentHandler) handleDocumentError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrDocumentNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, fallback)
}
