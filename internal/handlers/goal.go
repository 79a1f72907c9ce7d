package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/habitflow/habitflow-backend/internal/services"
)

type GoalHandler struct {
	goalService services.GoalService
}

func NewGoalHandler(goalService services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

type createGoalRequest struct {
	Name        string  `json:"name" binding:"required"`
	HabitID     *string `json:"habit_id"`
	TargetValue int     `json:"target_value"`
	Deadline    string  `json:"deadline"`
}

func (h *GoalHandler) Create(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid goal payload")
		return
	}
	if req.TargetValue == 0 {
		req.TargetValue = 1
	}
	habitID, ok := parseOptionalUUID(c, req.HabitID)
	if !ok {
		return
	}
	goal, err := h.goalService.Create(c.Request.Context(), services.CreateGoalInput{
		Name:        req.Name,
		HabitID:     habitID,
		TargetValue: req.TargetValue,
		Deadline:    req.Deadline,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, goal)
}

func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.goalService.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, goals)
}

type updateGoalRequest struct {
	Name         *string `json:"name"`
	TargetValue  *int    `json:"target_value"`
	CurrentValue *int    `json:"current_value"`
	Deadline     *string `json:"deadline"`
	Achieved     *bool   `json:"achieved"`
}

func (h *GoalHandler) Update(c *gin.Context) {
	goalID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "invalid goal payload")
		return
	}
	goal, err := h.goalService.Update(c.Request.Context(), goalID, services.UpdateGoalInput{
		Name:         req.Name,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Deadline:     req.Deadline,
		Achieved:     req.Achieved,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, goal)
}

func (h *GoalHandler) Delete(c *gin.Context) {
	goalID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.goalService.Delete(c.Request.Context(), goalID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}
