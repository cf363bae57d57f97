package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"trainmate/internal/domain"
	"trainmate/internal/service"

	"github.com/gin-gonic/gin"
)

// AnthropometricHandler holds the anthropometric service dependency.
type AnthropometricHandler struct {
	anthroService service.AnthropometricService
}

// NewAnthropometricHandler creates a new AnthropometricHandler.
func NewAnthropometricHandler(anthroService service.AnthropometricService) *AnthropometricHandler {
	return &AnthropometricHandler{anthroService: anthroService}
}

type AnthropometricRequest struct {
	Date              time.Time `json:"date" binding:"required"`
	Weight            *float64  `json:"weight"`
	Height            *float64  `json:"height"`
	BodyFatPercentage *float64  `json:"body_fat_percentage"`
	Notes             string    `json:"notes"`
}

// CreateRecord adds a measurement entry for a client.
func (h *AnthropometricHandler) CreateRecord(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	var req AnthropometricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	record := &domain.AnthropometricRecord{
		ClientID:          clientID,
		Date:              req.Date,
		Weight:            req.Weight,
		Height:            req.Height,
		BodyFatPercentage: req.BodyFatPercentage,
		Notes:             req.Notes,
	}
	created, err := h.anthroService.Create(c.Request.Context(), userID, record)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to save record")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetClientRecords lists one client's measurement history.
func (h *AnthropometricHandler) GetClientRecords(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	records, err := h.anthroService.ListByClient(c.Request.Context(), userID, clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve records")
		return
	}
	if records == nil {
		records = []domain.AnthropometricRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// DeleteRecord removes one measurement entry.
func (h *AnthropometricHandler) DeleteRecord(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	recordID, ok := parseIDParam(c, "recordId")
	if !ok {
		return
	}

	if err := h.anthroService.Delete(c.Request.Context(), userID, recordID); err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete record")
		return
	}
	c.Status(http.StatusNoContent)
}
