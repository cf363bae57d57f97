package api

import (
	"errors"
	"net/http"

	"trainmate/internal/domain"
	"trainmate/internal/service"

	"github.com/gin-gonic/gin"
)

// AlertHandler holds the alert service dependency.
type AlertHandler struct {
	alertService service.AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// GetAlerts lists the trainer's alerts.
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	alerts, err := h.alertService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve alerts")
		return
	}
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

// MarkAlertRead marks one alert as read.
func (h *AlertHandler) MarkAlertRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	alertID, ok := parseIDParam(c, "alertId")
	if !ok {
		return
	}

	if err := h.alertService.MarkRead(c.Request.Context(), userID, alertID); err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to update alert")
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllAlertsRead marks every alert of the trainer as read.
func (h *AlertHandler) MarkAllAlertsRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.alertService.MarkAllRead(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update alerts")
		return
	}
	c.Status(http.StatusNoContent)
}
