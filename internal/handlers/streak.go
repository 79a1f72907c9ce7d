package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/habitflow/habitflow-backend/internal/requestdata"
	"github.com/habitflow/habitflow-backend/internal/services"
)

type StreakHandler struct {
	streakService services.StreakService
}

func NewStreakHandler(streakService services.StreakService) *StreakHandler {
	return &StreakHandler{streakService: streakService}
}

func (h *StreakHandler) GetStreak(c *gin.Context) {
	habitID, ok := parsePathUUID(c, "id")
	if !ok {
		return
	}
	streak, err := h.streakService.GetStreak(c.Request.Context(), habitID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"habit_id":         streak.HabitID,
		"current":          streak.CurrentStreak,
		"longest":          streak.LongestStreak,
		"last_logged_date": streak.LastLogDate,
	})
}

func (h *StreakHandler) RecalculateAll(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	failures, err := h.streakService.RecalculateAll(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"failures": failures})
}
