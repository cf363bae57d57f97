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

// ClientHandler holds the client service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request Structs ---

type ClientRequest struct {
	Name              string     `json:"name" binding:"required"`
	Email             string     `json:"email" binding:"required,email"`
	Phone             string     `json:"phone"`
	Objective         string     `json:"objective"`
	Notes             string     `json:"notes"`
	Status            string     `json:"status" binding:"omitempty,oneof=active inactive"`
	SessionsRemaining int        `json:"sessions_remaining" binding:"omitempty,min=0"`
	BirthDate         *time.Time `json:"birth_date"`
}

func (r ClientRequest) toDomain() *domain.Client {
	return &domain.Client{
		Name:              r.Name,
		Email:             r.Email,
		Phone:             r.Phone,
		Objective:         r.Objective,
		Notes:             r.Notes,
		Status:            domain.ClientStatus(r.Status),
		SessionsRemaining: r.SessionsRemaining,
		BirthDate:         r.BirthDate,
	}
}

// --- Handler Methods ---

// CreateClient adds a client to the trainer's roster.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		if errors.Is(err, service.ErrDuplicateClientEmail) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create client")
		}
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients lists the trainer's clients.
func (h *ClientHandler) GetClients(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	clients, err := h.clientService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	c.JSON(http.StatusOK, clients)
}

// GetClient returns one client.
func (h *ClientHandler) GetClient(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	client, err := h.clientService.Get(c.Request.Context(), userID, clientID)
	if err != nil {
		h.handleClientError(c, err, "Failed to retrieve client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient rewrites one client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client := req.toDomain()
	client.ID = clientID
	updated, err := h.clientService.Update(c.Request.Context(), userID, client)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateClientEmail) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		h.handleClientError(c, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteClient removes a client and all of its records.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), userID, clientID); err != nil {
		h.handleClientError(c, err, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) handleClientError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrClientAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
