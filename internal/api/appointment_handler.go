package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"trainmate/internal/domain"
	"trainmate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AppointmentHandler holds the appointment service dependency.
type AppointmentHandler struct {
	appointmentService service.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointmentService service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// --- Request Structs ---

type AppointmentRequest struct {
	ClientID  uuid.UUID `json:"client_id" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
}

func (r AppointmentRequest) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ClientID:  r.ClientID,
		Title:     r.Title,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Notes:     r.Notes,
		Status:    domain.AppointmentStatus(r.Status),
	}
}

// --- Handler Methods ---

// CreateAppointment books an appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		h.handleAppointmentError(c, err, "Failed to create appointment")
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments lists the trainer's appointments. An optional ?date=2026-01-31
// query restricts results to one day.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var day *time.Time
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		day = &parsed
	}

	appointments, err := h.appointmentService.List(c.Request.Context(), userID, day)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, appointments)
}

// GetClientAppointments lists one client's appointments.
func (h *AppointmentHandler) GetClientAppointments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	appointments, err := h.appointmentService.ListByClient(c.Request.Context(), userID, clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, appointments)
}

// UpdateAppointment rewrites an appointment.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	appointmentID, ok := parseIDParam(c, "appointmentId")
	if !ok {
		return
	}

	var req AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	appointment := req.toDomain()
	appointment.ID = appointmentID
	updated, err := h.appointmentService.Update(c.Request.Context(), userID, appointment)
	if err != nil {
		h.handleAppointmentError(c, err, "Failed to update appointment")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteAppointment cancels an appointment.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	appointmentID, ok := parseIDParam(c, "appointmentId")
	if !ok {
		return
	}

	if err := h.appointmentService.Delete(c.Request.Context(), userID, appointmentID); err != nil {
		h.handleAppointmentError(c, err, "Failed to delete appointment")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AppointmentHandler) handleAppointmentError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidTimeRange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAppointmentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
