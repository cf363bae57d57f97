package api

import (
	"errors"
	"fmt"
	"net/http"

	"trainmate/internal/domain"
	"trainmate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TrainingPlanHandler holds the plan-related service dependencies.
type TrainingPlanHandler struct {
	planService    service.TrainingPlanService
	sharingService service.SharingService
}

// NewTrainingPlanHandler creates a new TrainingPlanHandler.
func NewTrainingPlanHandler(planService service.TrainingPlanService, sharingService service.SharingService) *TrainingPlanHandler {
	return &TrainingPlanHandler{planService: planService, sharingService: sharingService}
}

// --- Request Structs ---

// ExerciseRequest carries one exercise row. ID is set only on update, for rows
// that already exist; new rows come without one.
type ExerciseRequest struct {
	ID        *uuid.UUID `json:"id"`
	Name      string     `json:"name" binding:"required"`
	Sets      int        `json:"sets" binding:"required,min=1"`
	Reps      string     `json:"reps" binding:"required"`
	Notes     string     `json:"notes"`
	VideoLink string     `json:"video_link"`
	Completed bool       `json:"completed"`
}

// ExerciseGroupRequest carries one ordered group of exercises. Position in the
// enclosing array determines order; any client-sent order value is ignored.
type ExerciseGroupRequest struct {
	ID        *uuid.UUID        `json:"id"`
	Title     string            `json:"title" binding:"required"`
	Exercises []ExerciseRequest `json:"exercises"`
}

// TrainingPlanRequest accepts both content shapes: grouped (current) and a
// flat exercise list (legacy clients). Groups win when both are present.
type TrainingPlanRequest struct {
	ClientID    uuid.UUID              `json:"client_id" binding:"required"`
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Groups      []ExerciseGroupRequest `json:"exercise_groups"`
	Exercises   []ExerciseRequest      `json:"exercises"`
}

func (r ExerciseRequest) toDomain() domain.Exercise {
	ex := domain.Exercise{
		Name:      r.Name,
		Sets:      r.Sets,
		Reps:      r.Reps,
		Notes:     r.Notes,
		VideoLink: r.VideoLink,
		Completed: r.Completed,
	}
	if r.ID != nil {
		ex.ID = *r.ID
	}
	return ex
}

func (r TrainingPlanRequest) toDomain() *domain.TrainingPlan {
	plan := &domain.TrainingPlan{
		ClientID:    r.ClientID,
		Name:        r.Name,
		Description: r.Description,
	}
	for _, g := range r.Groups {
		group := domain.ExerciseGroup{Title: g.Title}
		if g.ID != nil {
			group.ID = *g.ID
		}
		for _, e := range g.Exercises {
			group.Exercises = append(group.Exercises, e.toDomain())
		}
		plan.ExerciseGroups = append(plan.ExerciseGroups, group)
	}
	for _, e := range r.Exercises {
		plan.Exercises = append(plan.Exercises, e.toDomain())
	}
	return plan
}

type SetCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// --- Handler Methods ---

// CreateTrainingPlan creates a plan with its groups and exercises.
func (h *TrainingPlanHandler) CreateTrainingPlan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req TrainingPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create training plan")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// UpdateTrainingPlan rewrites a plan, reconciling its groups and exercises.
func (h *TrainingPlanHandler) UpdateTrainingPlan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	var req TrainingPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan := req.toDomain()
	plan.ID = planID
	updated, err := h.planService.Update(c.Request.Context(), userID, plan)
	if err != nil {
		h.handlePlanError(c, err, "Failed to update training plan")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTrainingPlan removes a plan with its groups and exercises.
func (h *TrainingPlanHandler) DeleteTrainingPlan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	if err := h.planService.Delete(c.Request.Context(), userID, planID); err != nil {
		h.handlePlanError(c, err, "Failed to delete training plan")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetTrainingPlan returns one plan with its ordered content.
func (h *TrainingPlanHandler) GetTrainingPlan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), userID, planID)
	if err != nil {
		h.handlePlanError(c, err, "Failed to retrieve training plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetTrainingPlans lists every plan of the trainer.
func (h *TrainingPlanHandler) GetTrainingPlans(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	plans, err := h.planService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve training plans")
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetClientTrainingPlans lists the plans assigned to one client.
func (h *TrainingPlanHandler) GetClientTrainingPlans(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}

	plans, err := h.planService.ListByClient(c.Request.Context(), userID, clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve training plans")
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// SetExerciseCompleted flips the completed flag of one exercise.
func (h *TrainingPlanHandler) SetExerciseCompleted(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	var req SetCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.planService.SetExerciseCompleted(c.Request.Context(), userID, exerciseID, *req.Completed); err != nil {
		h.handlePlanError(c, err, "Failed to update exercise")
		return
	}
	c.Status(http.StatusNoContent)
}

// SharePlanPDF renders the plan as a PDF and returns its download URL.
func (h *TrainingPlanHandler) SharePlanPDF(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	url, err := h.sharingService.PlanPDFURL(c.Request.Context(), userID, planID)
	if err != nil {
		h.handlePlanError(c, err, "Failed to generate plan PDF")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// SharePlanEmail emails the plan to its client with the PDF attached.
func (h *TrainingPlanHandler) SharePlanEmail(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	err := h.sharingService.SendPlanByEmail(c.Request.Context(), userID, planID)
	if err != nil {
		if errors.Is(err, service.ErrClientHasNoEmail) {
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.handlePlanError(c, err, "Failed to send plan by email")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSharedPlan is the unauthenticated read-only view a client opens from a
// shared link. Legacy groupless plans are presented under a single synthetic
// group so the page always renders grouped content.
func (h *TrainingPlanHandler) GetSharedPlan(c *gin.Context) {
	planID, ok := parseIDParam(c, "planId")
	if !ok {
		return
	}

	plan, err := h.planService.GetShared(c.Request.Context(), planID)
	if err != nil {
		h.handlePlanError(c, err, "Failed to retrieve training plan")
		return
	}

	groups := plan.Content().Groups
	if len(plan.ExerciseGroups) == 0 && len(plan.Exercises) > 0 {
		groups = []domain.ExerciseGroup{{
			TrainingPlanID: plan.ID,
			Title:          "Esercizi",
			Order:          1,
			Exercises:      plan.Exercises,
		}}
	}
	if groups == nil {
		groups = []domain.ExerciseGroup{}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              plan.ID,
		"name":            plan.Name,
		"description":     plan.Description,
		"exercise_groups": groups,
	})
}

func (h *TrainingPlanHandler) handlePlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrClientNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
