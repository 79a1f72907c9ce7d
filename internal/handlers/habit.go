package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/habitflow/habitflow-backend/internal/services"
)

type HabitHandler struct {
	habitService services.HabitService
}

func NewHabitHandler(habitService services.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

type createHabitRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Frequency   string  `json:"frequency"`
	TargetCount int     `json:"target_count"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date"`
	CategoryID  *string `json:"category_id"`
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid habit payload")
		return
	}
	if req.TargetCount == 0 {
		req.TargetCount = 1
	}
	categoryID, ok := parseOptionalUUID(c, req.CategoryID)
	if !ok {
		return
	}
	habit, err := h.habitService.Create(c.Request.Context(), services.CreateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		TargetCount: req.TargetCount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CategoryID:  categoryID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "invalid category_id")
			return
		}
		categoryID = &id
	}
	activeOnly := c.Query("active") == "true"
	habits, err := h.habitService.List(c.Request.Context(), categoryID, activeOnly)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, habits)
}

func (h *HabitHandler) Get(c *gin.Context) {
	habitID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	habit, err := h.habitService.Get(c.Request.Context(), habitID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, habit)
}

type updateHabitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
	TargetCount *int    `json:"target_count"`
	EndDate     *string `json:"end_date"`
	IsActive    *bool   `json:"is_active"`
	CategoryID  *string `json:"category_id"`
}

func (h *HabitHandler) Update(c *gin.Context) {
	habitID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid habit payload")
		return
	}
	categoryID, okCat := parseOptionalUUID(c, req.CategoryID)
	if !okCat {
		return
	}
	habit, err := h.habitService.Update(c.Request.Context(), habitID, services.UpdateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		TargetCount: req.TargetCount,
		EndDate:     req.EndDate,
		IsActive:    req.IsActive,
		CategoryID:  categoryID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	habitID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.habitService.Delete(c.Request.Context(), habitID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

func parsePathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondBadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalUUID(c *gin.Context, raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		RespondBadRequest(c, "invalid category_id")
		return nil, false
	}
	return &id, true
}
